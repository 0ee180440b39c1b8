package repository

import (
	"context"
	"database/sql"

	apperrors "github.com/Kosench/traced-url-shortener/internal/errors"
	"github.com/Kosench/traced-url-shortener/internal/model"
)

// SQLURLRepository stores records in the short_urls table. The same queries
// run against SQLite and PostgreSQL.
type SQLURLRepository struct {
	db *sql.DB
}

func NewSQLURLRepository(db *sql.DB) *SQLURLRepository {
	return &SQLURLRepository{
		db: db,
	}
}

func (r *SQLURLRepository) Save(ctx context.Context, originalURL, shortURL string) (*model.ShortURL, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO short_urls (original_url, short_url)
	VALUES ($1, $2)
	RETURNING id
	`

	record := &model.ShortURL{
		OriginalURL: originalURL,
		ShortURL:    shortURL,
	}

	if err := tx.QueryRowContext(ctx, query, originalURL, shortURL).Scan(&record.ID); err != nil {
		return nil, apperrors.NewStoreError("failed to save URL", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.NewStoreError("failed to commit transaction", err)
	}

	return record, nil
}
