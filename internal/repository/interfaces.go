package repository

import (
	"context"

	"github.com/Kosench/traced-url-shortener/internal/model"
)

// URLRepository appends shortening records. Each Save is atomic: either the
// whole row is stored or nothing is.
type URLRepository interface {
	Save(ctx context.Context, originalURL, shortURL string) (*model.ShortURL, error)
}
