package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/poi-mashup/internal/domain"
	"github.com/poi-mashup/internal/domain/repository"
	"github.com/poi-mashup/internal/pkg/errors"
	"go.uber.org/zap"
)

const (
	// DefaultPostsPerPage - размер выборки, если posts_per_page не задан
	DefaultPostsPerPage = 10
	// ExcerptLength - длина автоматического описания в словах
	ExcerptLength = 55
	// ExcerptMore - суффикс обрезанного описания
	ExcerptMore = " [...]"

	taxonomyCategory = "category"
	taxonomyTag      = "post_tag"
)

var (
	tagRe       = regexp.MustCompile(`(?s)<[^>]*>`)
	shortcodeRe = regexp.MustCompile(`\[[^\]]*\]`)
)

type contentRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewContentRepository(db *DB) repository.ContentRepository {
	return &contentRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

const contentColumns = `id, title, permalink, excerpt, post_type, status, created_at`

// Query выполняет структурированный фильтр. Порядок по умолчанию -
// от новых к старым, как у выборки записей в ленте.
func (r *contentRepository) Query(ctx context.Context, filter domain.StructuredFilter) ([]*domain.ContentItem, error) {
	query, args, err := buildContentQuery(filter)
	if err != nil {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"query": err.Error()})
	}

	r.logger.Debug("Querying content items", zap.String("sql", query), zap.Int("args", len(args)))

	items := []*domain.ContentItem{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		r.logger.Error("Failed to query content items", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return items, nil
}

// GetByIDs возвращает найденные элементы в порядке ids
func (r *contentRepository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.ContentItem, error) {
	if len(ids) == 0 {
		return []*domain.ContentItem{}, nil
	}

	query := `
		SELECT ` + contentColumns + `
		FROM content_items
		WHERE id = ANY($1)
		ORDER BY array_position($1::bigint[], id)
	`

	items := []*domain.ContentItem{}
	if err := r.db.SelectContext(ctx, &items, query, pq.Array(ids)); err != nil {
		r.logger.Error("Failed to get content items by ids", zap.Int64s("ids", ids), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return items, nil
}

// Excerpt - краткое описание активного элемента scope
func (r *contentRepository) Excerpt(ctx context.Context, scope *domain.RequestScope) (string, error) {
	active := scope.Active()
	if active == nil {
		return "", errors.ErrItemNotFound
	}

	var row struct {
		Excerpt string `db:"excerpt"`
		Body    string `db:"body"`
	}
	err := r.db.GetContext(ctx, &row, `SELECT excerpt, body FROM content_items WHERE id = $1`, active.ID)
	if err == sql.ErrNoRows {
		return "", errors.ErrItemNotFound
	}
	if err != nil {
		r.logger.Error("Failed to load item for excerpt", zap.Int64("item_id", active.ID), zap.Error(err))
		return "", errors.ErrDatabaseError
	}

	return DeriveExcerpt(row.Excerpt, row.Body), nil
}

// DeriveExcerpt - сохраненное описание, если есть, иначе тело без разметки,
// обрезанное до ExcerptLength слов
func DeriveExcerpt(excerpt, body string) string {
	if strings.TrimSpace(excerpt) != "" {
		return excerpt
	}

	text := shortcodeRe.ReplaceAllString(body, "")
	text = tagRe.ReplaceAllString(text, " ")
	words := strings.Fields(text)
	if len(words) > ExcerptLength {
		return strings.Join(words[:ExcerptLength], " ") + ExcerptMore
	}
	return strings.Join(words, " ")
}

// contentQuery накапливает условия и аргументы запроса
type contentQuery struct {
	where []string
	args  []interface{}
}

func (q *contentQuery) arg(v interface{}) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *contentQuery) add(cond string) {
	q.where = append(q.where, cond)
}

func (q *contentQuery) termsIn(taxonomy, column string, values interface{}, negate bool) {
	op := "IN"
	if negate {
		op = "NOT IN"
	}
	q.add(fmt.Sprintf(
		"id %s (SELECT item_id FROM content_terms WHERE taxonomy = %s AND %s = ANY(%s))",
		op, q.arg(taxonomy), column, q.arg(values)))
}

func (q *contentQuery) termsAnd(taxonomy, column string, values interface{}, count int) {
	q.add(fmt.Sprintf(
		"(SELECT COUNT(DISTINCT %s) FROM content_terms t WHERE t.item_id = content_items.id AND t.taxonomy = %s AND t.%s = ANY(%s)) = %s",
		column, q.arg(taxonomy), column, q.arg(values), q.arg(count)))
}

func buildContentQuery(filter domain.StructuredFilter) (string, []interface{}, error) {
	q := &contentQuery{}

	// Статус
	status, _ := filter.Scalar("post_status")
	if status == "" {
		status = "publish"
	}
	if status != "any" {
		q.add("status = ANY(" + q.arg(pq.Array(splitList(status))) + ")")
	}

	// Тип записи
	postTypes := filter.Values("post_type")
	if len(postTypes) == 0 {
		postTypes = []string{"post"}
	}
	if !contains(postTypes, "any") {
		q.add("post_type = ANY(" + q.arg(pq.Array(postTypes)) + ")")
	}

	// Отдельная запись
	for _, key := range []string{"p", "page_id"} {
		if v, ok := filter.Scalar(key); ok && v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return "", nil, fmt.Errorf("%s: invalid id %q", key, v)
			}
			q.add("id = " + q.arg(id))
		}
	}

	// Списки записей
	postIn, err := intList(filter, "post__in")
	if err != nil {
		return "", nil, err
	}
	if len(postIn) > 0 {
		q.add("id = ANY(" + q.arg(pq.Array(postIn)) + ")")
	}
	postNotIn, err := intList(filter, "post__not_in")
	if err != nil {
		return "", nil, err
	}
	if len(postNotIn) > 0 {
		q.add("NOT (id = ANY(" + q.arg(pq.Array(postNotIn)) + "))")
	}

	// Рубрики: cat допускает отрицательные id для исключения
	catIn, err := intList(filter, "category__in")
	if err != nil {
		return "", nil, err
	}
	catNotIn, err := intList(filter, "category__not_in")
	if err != nil {
		return "", nil, err
	}
	cats, err := intList(filter, "cat")
	if err != nil {
		return "", nil, err
	}
	for _, id := range cats {
		if id < 0 {
			catNotIn = append(catNotIn, -id)
		} else if id > 0 {
			catIn = append(catIn, id)
		}
	}
	if len(catIn) > 0 {
		q.termsIn(taxonomyCategory, "term_id", pq.Array(catIn), false)
	}
	if len(catNotIn) > 0 {
		q.termsIn(taxonomyCategory, "term_id", pq.Array(catNotIn), true)
	}
	catAnd, err := intList(filter, "category__and")
	if err != nil {
		return "", nil, err
	}
	if len(catAnd) > 0 {
		q.termsAnd(taxonomyCategory, "term_id", pq.Array(catAnd), len(catAnd))
	}
	if names := splitValues(filter, "category_name"); len(names) > 0 {
		q.termsIn(taxonomyCategory, "slug", pq.Array(names), false)
	}

	// Метки
	tagIn, err := intList(filter, "tag__in")
	if err != nil {
		return "", nil, err
	}
	tagIDs, err := intList(filter, "tag_id")
	if err != nil {
		return "", nil, err
	}
	tagIn = append(tagIn, tagIDs...)
	if len(tagIn) > 0 {
		q.termsIn(taxonomyTag, "term_id", pq.Array(tagIn), false)
	}
	tagNotIn, err := intList(filter, "tag__not_in")
	if err != nil {
		return "", nil, err
	}
	if len(tagNotIn) > 0 {
		q.termsIn(taxonomyTag, "term_id", pq.Array(tagNotIn), true)
	}
	tagAnd, err := intList(filter, "tag__and")
	if err != nil {
		return "", nil, err
	}
	if len(tagAnd) > 0 {
		q.termsAnd(taxonomyTag, "term_id", pq.Array(tagAnd), len(tagAnd))
	}
	slugIn := append(append([]string{}, filter.Values("tag_slug__in")...), splitValues(filter, "tag")...)
	if len(slugIn) > 0 {
		q.termsIn(taxonomyTag, "slug", pq.Array(slugIn), false)
	}
	if slugAnd := filter.Values("tag_slug__and"); len(slugAnd) > 0 {
		q.termsAnd(taxonomyTag, "slug", pq.Array(slugAnd), len(slugAnd))
	}

	// Поиск
	if s, ok := filter.Scalar("s"); ok && strings.TrimSpace(s) != "" {
		pattern := q.arg("%" + strings.TrimSpace(s) + "%")
		q.add(fmt.Sprintf("(title ILIKE %s OR body ILIKE %s)", pattern, pattern))
	}

	sqlText := "SELECT " + contentColumns + " FROM content_items"
	if len(q.where) > 0 {
		sqlText += " WHERE " + strings.Join(q.where, " AND ")
	}

	orderBy, err := orderClause(filter, postIn, q)
	if err != nil {
		return "", nil, err
	}
	sqlText += " ORDER BY " + orderBy

	limit, offset, err := pagination(filter)
	if err != nil {
		return "", nil, err
	}
	if limit > 0 {
		sqlText += " LIMIT " + q.arg(limit)
	}
	if offset > 0 {
		sqlText += " OFFSET " + q.arg(offset)
	}

	return sqlText, q.args, nil
}

func orderClause(filter domain.StructuredFilter, postIn []int64, q *contentQuery) (string, error) {
	direction := "DESC"
	if order, ok := filter.Scalar("order"); ok && order != "" {
		switch strings.ToUpper(order) {
		case "ASC":
			direction = "ASC"
		case "DESC":
		default:
			return "", fmt.Errorf("order: unsupported value %q", order)
		}
	}

	orderBy, _ := filter.Scalar("orderby")
	switch strings.ToLower(orderBy) {
	case "", "date":
		return "created_at " + direction + ", id " + direction, nil
	case "title":
		return "title " + direction + ", id " + direction, nil
	case "id":
		return "id " + direction, nil
	case "rand":
		return "random()", nil
	case "post__in":
		if len(postIn) == 0 {
			return "created_at " + direction + ", id " + direction, nil
		}
		return "array_position(" + q.arg(pq.Array(postIn)) + "::bigint[], id)", nil
	default:
		return "", fmt.Errorf("orderby: unsupported value %q", orderBy)
	}
}

// pagination возвращает limit и offset; limit 0 - без ограничения
func pagination(filter domain.StructuredFilter) (int, int, error) {
	limit := DefaultPostsPerPage
	for _, key := range []string{"posts_per_page", "numberposts", "showposts"} {
		if v, ok := filter.Scalar(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return 0, 0, fmt.Errorf("%s: invalid number %q", key, v)
			}
			limit = n
			break
		}
	}
	if v, _ := filter.Scalar("nopaging"); v == "true" || v == "1" {
		limit = -1
	}
	if limit < 0 {
		limit = 0
	}

	offset := 0
	if v, ok := filter.Scalar("offset"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, 0, fmt.Errorf("offset: invalid number %q", v)
		}
		offset = n
	} else if v, ok := filter.Scalar("paged"); ok && v != "" && limit > 0 {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return 0, 0, fmt.Errorf("paged: invalid number %q", v)
		}
		offset = (n - 1) * limit
	}

	return limit, offset, nil
}

func intList(filter domain.StructuredFilter, key string) ([]int64, error) {
	raw := splitValues(filter, key)
	ids := make([]int64, 0, len(raw))
	for _, v := range raw {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid id %q", key, v)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// splitValues - значения ключа; скаляры через запятую тоже разбиваются
func splitValues(filter domain.StructuredFilter, key string) []string {
	var out []string
	for _, v := range filter.Values(key) {
		out = append(out, splitList(v)...)
	}
	return out
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
