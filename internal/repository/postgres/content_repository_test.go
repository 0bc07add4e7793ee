package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/poi-mashup/internal/domain"
	"github.com/poi-mashup/internal/domain/repository"
	"github.com/poi-mashup/internal/repository/postgres/testhelpers"
)

// ContentRepositorySuite tests the content repository with real database
type ContentRepositorySuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.ContentRepository
	ctx    context.Context

	cafe, bar, museum int64
}

func (s *ContentRepositorySuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())
	_ = testhelpers.ApplyMigrations(s.testDB.DB.DB, "../../../migrations")
	s.repo = testhelpers.NewContentRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

func (s *ContentRepositorySuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

func (s *ContentRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.testDB.Cleanup(s.ctx))

	db := s.testDB.DB.DB
	var err error
	s.cafe, err = testhelpers.InsertContentItem(db, "Cafe", "post", "Great coffee", "")
	s.Require().NoError(err)
	s.bar, err = testhelpers.InsertContentItem(db, "Bar", "post", "", "<p>Cold <em>beer</em></p>")
	s.Require().NoError(err)
	s.museum, err = testhelpers.InsertContentItem(db, "Museum", "place", "", "")
	s.Require().NoError(err)

	s.Require().NoError(testhelpers.InsertTerm(db, s.cafe, "category", 3, "food"))
	s.Require().NoError(testhelpers.InsertTerm(db, s.bar, "category", 3, "food"))
	s.Require().NoError(testhelpers.InsertTerm(db, s.bar, "post_tag", 11, "nightlife"))
}

func (s *ContentRepositorySuite) ids(items []*domain.ContentItem) []int64 {
	out := make([]int64, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func (s *ContentRepositorySuite) TestQueryAll() {
	filter := domain.NewStructuredFilter()
	filter.Scalars["posts_per_page"] = "-1"
	filter.Scalars["post_type"] = "any"

	items, err := s.repo.Query(s.ctx, filter)
	s.Require().NoError(err)
	s.ElementsMatch([]int64{s.cafe, s.bar, s.museum}, s.ids(items))
}

func (s *ContentRepositorySuite) TestQueryByCategory() {
	filter := domain.NewStructuredFilter()
	filter.Lists["category__in"] = []string{"3"}
	filter.Scalars["orderby"] = "title"
	filter.Scalars["order"] = "ASC"

	items, err := s.repo.Query(s.ctx, filter)
	s.Require().NoError(err)
	s.Equal([]int64{s.bar, s.cafe}, s.ids(items))
	s.Equal("Bar", items[0].Title)
	s.NotEmpty(items[0].Permalink)
}

func (s *ContentRepositorySuite) TestQueryTagExclusion() {
	filter := domain.NewStructuredFilter()
	filter.Lists["tag__not_in"] = []string{"11"}

	items, err := s.repo.Query(s.ctx, filter)
	s.Require().NoError(err)
	s.Equal([]int64{s.cafe}, s.ids(items))
}

func (s *ContentRepositorySuite) TestQueryPostType() {
	filter := domain.NewStructuredFilter()
	filter.Lists["post_type"] = []string{"place"}

	items, err := s.repo.Query(s.ctx, filter)
	s.Require().NoError(err)
	s.Equal([]int64{s.museum}, s.ids(items))
}

func (s *ContentRepositorySuite) TestGetByIDsKeepsOrder() {
	items, err := s.repo.GetByIDs(s.ctx, []int64{s.museum, 9999, s.cafe})
	s.Require().NoError(err)
	s.Equal([]int64{s.museum, s.cafe}, s.ids(items))
}

func (s *ContentRepositorySuite) TestExcerpt() {
	scope := domain.NewRequestScope(nil, &domain.ContentItem{ID: s.cafe})
	text, err := s.repo.Excerpt(s.ctx, scope)
	s.Require().NoError(err)
	s.Equal("Great coffee", text)

	err = scope.WithActive(&domain.ContentItem{ID: s.bar}, func() error {
		text, err = s.repo.Excerpt(s.ctx, scope)
		return err
	})
	s.Require().NoError(err)
	s.Equal("Cold beer", text)
	s.Equal(s.cafe, scope.Active().ID)
}

func (s *ContentRepositorySuite) TestExcerptWithoutActiveItem() {
	_, err := s.repo.Excerpt(s.ctx, domain.NewRequestScope(nil, nil))
	s.Error(err)
}

func TestContentRepositorySuite(t *testing.T) {
	suite.Run(t, new(ContentRepositorySuite))
}
