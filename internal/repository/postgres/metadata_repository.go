package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/poi-mashup/internal/domain/repository"
	"github.com/poi-mashup/internal/pkg/errors"
	"go.uber.org/zap"
)

type metadataRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewMetadataRepository(db *DB) repository.MetadataRepository {
	return &metadataRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// GetOrderedValues - все значения поля в порядке вставки
func (r *metadataRepository) GetOrderedValues(ctx context.Context, itemID int64, field string) ([]string, error) {
	query := `
		SELECT meta_value
		FROM item_meta
		WHERE item_id = $1 AND meta_key = $2
		ORDER BY meta_id
	`

	values := []string{}
	if err := r.db.SelectContext(ctx, &values, query, itemID, field); err != nil {
		r.logger.Error("Failed to get metadata values",
			zap.Int64("item_id", itemID),
			zap.String("field", field),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return values, nil
}

// ReplaceValues удаляет все значения поля и записывает новые в одной транзакции
func (r *metadataRepository) ReplaceValues(ctx context.Context, itemID int64, field string, values []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return errors.ErrDatabaseError
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM item_meta WHERE item_id = $1 AND meta_key = $2`, itemID, field); err != nil {
		r.logger.Error("Failed to delete metadata values",
			zap.Int64("item_id", itemID),
			zap.String("field", field),
			zap.Error(err))
		return errors.ErrDatabaseError
	}

	for _, v := range values {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO item_meta (item_id, meta_key, meta_value) VALUES ($1, $2, $3)`,
			itemID, field, v); err != nil {
			r.logger.Error("Failed to insert metadata value",
				zap.Int64("item_id", itemID),
				zap.String("field", field),
				zap.Error(err))
			return errors.ErrDatabaseError
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit metadata values", zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}

func (r *metadataRepository) DeleteAllValues(ctx context.Context, itemID int64, field string) error {
	query := `DELETE FROM item_meta WHERE item_id = $1 AND meta_key = $2`

	if _, err := r.db.ExecContext(ctx, query, itemID, field); err != nil {
		r.logger.Error("Failed to delete metadata values",
			zap.Int64("item_id", itemID),
			zap.String("field", field),
			zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}
