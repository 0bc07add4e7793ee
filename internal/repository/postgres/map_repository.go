package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/poi-mashup/internal/domain"
	"github.com/poi-mashup/internal/domain/repository"
	"github.com/poi-mashup/internal/pkg/errors"
	"go.uber.org/zap"
)

type mapRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewMapRepository(db *DB) repository.MapRepository {
	return &mapRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// mapRow - строка таблицы maps
type mapRow struct {
	ID         int64          `db:"id"`
	ItemID     int64          `db:"item_id"`
	MetaKey    sql.NullString `db:"meta_key"`
	Title      string         `db:"title"`
	CenterLat  float64        `db:"center_lat"`
	CenterLng  float64        `db:"center_lng"`
	Attributes []byte         `db:"attributes"`
	POIs       []byte         `db:"pois"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

const mapColumns = `id, item_id, meta_key, title, center_lat, center_lng, attributes, pois, updated_at`

func (r *mapRepository) GetByItemAndField(ctx context.Context, itemID int64, field string) (*domain.Map, error) {
	query := `
		SELECT ` + mapColumns + `
		FROM maps
		WHERE item_id = $1 AND COALESCE(meta_key, '') = $2
	`

	var row mapRow
	err := r.db.GetContext(ctx, &row, query, itemID, field)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get map by item and field",
			zap.Int64("item_id", itemID),
			zap.String("field", field),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return r.toDomain(&row)
}

func (r *mapRepository) GetAllByItem(ctx context.Context, itemID int64) ([]*domain.Map, error) {
	query := `
		SELECT ` + mapColumns + `
		FROM maps
		WHERE item_id = $1
		ORDER BY id
	`

	var rows []mapRow
	if err := r.db.SelectContext(ctx, &rows, query, itemID); err != nil {
		r.logger.Error("Failed to get maps by item", zap.Int64("item_id", itemID), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	maps := make([]*domain.Map, 0, len(rows))
	for i := range rows {
		m, err := r.toDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		maps = append(maps, m)
	}

	return maps, nil
}

// Save записывает карту одним запросом. Новая карта вставляется с
// upsert по (item_id, meta_key), существующая обновляется по id.
// Список POI заменяется целиком.
func (r *mapRepository) Save(ctx context.Context, m *domain.Map, itemID int64) error {
	attributes, err := json.Marshal(m.Attributes)
	if err != nil {
		return errors.ErrInternalServer.WithDetails(map[string]interface{}{"attributes": err.Error()})
	}
	pois := m.POIs
	if pois == nil {
		pois = []*domain.POI{}
	}
	poisJSON, err := json.Marshal(pois)
	if err != nil {
		return errors.ErrInternalServer.WithDetails(map[string]interface{}{"pois": err.Error()})
	}

	var result struct {
		ID        int64     `db:"id"`
		UpdatedAt time.Time `db:"updated_at"`
	}

	if m.IsNew() {
		query := `
			INSERT INTO maps (item_id, meta_key, title, center_lat, center_lng, attributes, pois, updated_at)
			VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, NOW())
			ON CONFLICT (item_id, (COALESCE(meta_key, ''))) DO UPDATE SET
				title = EXCLUDED.title,
				center_lat = EXCLUDED.center_lat,
				center_lng = EXCLUDED.center_lng,
				attributes = EXCLUDED.attributes,
				pois = EXCLUDED.pois,
				updated_at = EXCLUDED.updated_at
			RETURNING id, updated_at
		`
		err = r.db.GetContext(ctx, &result, query,
			itemID, m.MetaKey, m.Title, m.Center.Lat, m.Center.Lng, attributes, poisJSON)
	} else {
		query := `
			UPDATE maps SET
				meta_key = NULLIF($3, ''),
				title = $4,
				center_lat = $5,
				center_lng = $6,
				attributes = $7,
				pois = $8,
				updated_at = NOW()
			WHERE id = $1 AND item_id = $2
			RETURNING id, updated_at
		`
		err = r.db.GetContext(ctx, &result, query,
			m.ID, itemID, m.MetaKey, m.Title, m.Center.Lat, m.Center.Lng, attributes, poisJSON)
	}

	if err == sql.ErrNoRows {
		return errors.ErrMapNotFound
	}
	if err != nil {
		r.logger.Error("Failed to save map",
			zap.Int64("item_id", itemID),
			zap.Int64("map_id", m.ID),
			zap.Error(err))
		return errors.ErrDatabaseError
	}

	m.ID = result.ID
	m.ItemID = itemID
	m.UpdatedAt = result.UpdatedAt

	return nil
}

func (r *mapRepository) Delete(ctx context.Context, itemID, mapID int64) error {
	query := `DELETE FROM maps WHERE id = $1 AND item_id = $2`

	if _, err := r.db.ExecContext(ctx, query, mapID, itemID); err != nil {
		r.logger.Error("Failed to delete map",
			zap.Int64("item_id", itemID),
			zap.Int64("map_id", mapID),
			zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}

func (r *mapRepository) toDomain(row *mapRow) (*domain.Map, error) {
	m := &domain.Map{
		ID:         row.ID,
		ItemID:     row.ItemID,
		MetaKey:    row.MetaKey.String,
		Title:      row.Title,
		Center:     domain.Coordinates{Lat: row.CenterLat, Lng: row.CenterLng},
		Attributes: map[string]interface{}{},
		POIs:       []*domain.POI{},
		UpdatedAt:  row.UpdatedAt,
	}

	if len(row.Attributes) > 0 {
		if err := json.Unmarshal(row.Attributes, &m.Attributes); err != nil {
			r.logger.Warn("Failed to unmarshal map attributes", zap.Int64("map_id", row.ID), zap.Error(err))
		}
	}
	if len(row.POIs) > 0 {
		if err := json.Unmarshal(row.POIs, &m.POIs); err != nil {
			r.logger.Error("Failed to unmarshal map POIs", zap.Int64("map_id", row.ID), zap.Error(err))
			return nil, errors.ErrDatabaseError
		}
	}

	return m, nil
}
