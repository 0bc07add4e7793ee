package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
)

// InsertContentItem inserts a content item and returns its ID
func InsertContentItem(db *sql.DB, title, postType, excerpt, body string) (int64, error) {
	var id int64
	err := db.QueryRowContext(context.Background(), `
		INSERT INTO content_items (title, permalink, excerpt, body, post_type, status)
		VALUES ($1, 'https://example.com/' || md5($1), $2, $3, $4, 'publish')
		RETURNING id`,
		title, excerpt, body, postType).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert content item %q: %w", title, err)
	}
	return id, nil
}

// InsertTerm attaches a taxonomy term to a content item
func InsertTerm(db *sql.DB, itemID int64, taxonomy string, termID int64, slug string) error {
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO content_terms (item_id, taxonomy, term_id, slug) VALUES ($1, $2, $3, $4)`,
		itemID, taxonomy, termID, slug)
	if err != nil {
		return fmt.Errorf("insert term %d for item %d: %w", termID, itemID, err)
	}
	return nil
}
