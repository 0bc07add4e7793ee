package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"github.com/poi-mashup/internal/domain/repository"
	"github.com/poi-mashup/internal/repository/postgres"
	"go.uber.org/zap"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewMapRepositoryForTest creates a map repository with test database and logger
func NewMapRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.MapRepository {
	return postgres.NewMapRepository(NewDBForTest(db, logger))
}

// NewMetadataRepositoryForTest creates a metadata repository with test database and logger
func NewMetadataRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.MetadataRepository {
	return postgres.NewMetadataRepository(NewDBForTest(db, logger))
}

// NewContentRepositoryForTest creates a content repository with test database and logger
func NewContentRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.ContentRepository {
	return postgres.NewContentRepository(NewDBForTest(db, logger))
}
