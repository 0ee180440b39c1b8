package repository

import (
	"context"
	"strconv"

	apperrors "github.com/Kosench/traced-url-shortener/internal/errors"
	"github.com/Kosench/traced-url-shortener/internal/model"
	"github.com/Kosench/traced-url-shortener/internal/redisdb"
)

// RedisURLRepository keeps each record in a hash keyed by its id. Ids come
// from an INCR counter, so a failed transaction leaves a gap in the sequence.
type RedisURLRepository struct {
	client *redisdb.Client
}

func NewRedisURLRepository(client *redisdb.Client) *RedisURLRepository {
	return &RedisURLRepository{
		client: client,
	}
}

func (r *RedisURLRepository) Save(ctx context.Context, originalURL, shortURL string) (*model.ShortURL, error) {
	keys := r.client.Keys()

	id, err := r.client.Incr(ctx, keys.Sequence())
	if err != nil {
		return nil, apperrors.NewStoreError("failed to allocate record id", err)
	}

	record := &model.ShortURL{
		ID:          id,
		OriginalURL: originalURL,
		ShortURL:    shortURL,
	}

	err = r.client.HSetTx(ctx,
		redisdb.HashWrite{
			Key: keys.Record(id),
			Values: map[string]interface{}{
				"id":           id,
				"original_url": originalURL,
				"short_url":    shortURL,
			},
		},
		redisdb.HashWrite{
			Key:    keys.ShortURLIndex(),
			Values: map[string]interface{}{shortURL: strconv.FormatInt(id, 10)},
		},
	)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to save URL", err)
	}

	return record, nil
}
