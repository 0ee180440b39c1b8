package repository

import (
	"context"
	"testing"

	apperrors "github.com/Kosench/traced-url-shortener/internal/errors"
	"github.com/Kosench/traced-url-shortener/internal/redisdb"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedis(t *testing.T, namespace string) (*miniredis.Miniredis, *RedisURLRepository) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redisdb.NewFromClient(goredis.NewClient(&goredis.Options{
		Addr:       mr.Addr(),
		MaxRetries: -1,
	}), namespace)
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewRedisURLRepository(client)
}

func TestRedisURLRepository_Save(t *testing.T) {
	mr, repo := newMiniRedis(t, "")
	ctx := context.Background()

	first, err := repo.Save(ctx, "https://example.com/a", "http://localhost:5000/abcdEFGH")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "https://example.com/a", first.OriginalURL)
	assert.Equal(t, "http://localhost:5000/abcdEFGH", first.ShortURL)

	second, err := repo.Save(ctx, "https://example.com/a", "http://localhost:5000/12345678")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)

	seq, err := mr.Get("short_urls:seq")
	require.NoError(t, err)
	assert.Equal(t, "2", seq)

	assert.Equal(t, "1", mr.HGet("short_urls:1", "id"))
	assert.Equal(t, "https://example.com/a", mr.HGet("short_urls:1", "original_url"))
	assert.Equal(t, "http://localhost:5000/abcdEFGH", mr.HGet("short_urls:1", "short_url"))
	assert.Equal(t, "http://localhost:5000/12345678", mr.HGet("short_urls:2", "short_url"))

	assert.Equal(t, "1", mr.HGet("short_urls:by_short_url", "http://localhost:5000/abcdEFGH"))
	assert.Equal(t, "2", mr.HGet("short_urls:by_short_url", "http://localhost:5000/12345678"))
}

func TestRedisURLRepository_SaveNamespaced(t *testing.T) {
	mr, repo := newMiniRedis(t, "tenant")

	record, err := repo.Save(context.Background(), "https://example.com", "http://localhost:5000/nnnnnnnn")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", mr.HGet("tenant:short_urls:1", "original_url"))
	assert.Equal(t, "1", mr.HGet("tenant:short_urls:by_short_url", "http://localhost:5000/nnnnnnnn"))
	assert.False(t, mr.Exists("short_urls:1"))
	assert.Equal(t, int64(1), record.ID)
}

func TestRedisURLRepository_SaveFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, mr *miniredis.Miniredis)
	}{
		{
			name:  "server down",
			setup: func(t *testing.T, mr *miniredis.Miniredis) { mr.Close() },
		},
		{
			name: "sequence key has wrong type",
			setup: func(t *testing.T, mr *miniredis.Miniredis) {
				_, err := mr.SetAdd("short_urls:seq", "x")
				require.NoError(t, err)
			},
		},
		{
			name: "record key has wrong type",
			setup: func(t *testing.T, mr *miniredis.Miniredis) {
				require.NoError(t, mr.Set("short_urls:1", "occupied"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mr, repo := newMiniRedis(t, "")
			tt.setup(t, mr)

			record, err := repo.Save(context.Background(), "https://example.com", "http://localhost:5000/ffffffff")
			require.Error(t, err)
			assert.Nil(t, record)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeDatabase))

			var redisErr *redisdb.RedisError
			assert.ErrorAs(t, err, &redisErr)
		})
	}
}

func TestRedisURLRepository_FailedWriteLeavesIDGap(t *testing.T) {
	mr, repo := newMiniRedis(t, "")
	require.NoError(t, mr.Set("short_urls:1", "occupied"))

	_, err := repo.Save(context.Background(), "https://example.com", "http://localhost:5000/ffffffff")
	require.Error(t, err)

	record, err := repo.Save(context.Background(), "https://example.com", "http://localhost:5000/gggggggg")
	require.NoError(t, err)
	assert.Equal(t, int64(2), record.ID)
	assert.Equal(t, "http://localhost:5000/gggggggg", mr.HGet("short_urls:2", "short_url"))
}
