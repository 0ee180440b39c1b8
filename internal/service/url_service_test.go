package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	apperrors "github.com/Kosench/traced-url-shortener/internal/errors"
	"github.com/Kosench/traced-url-shortener/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockURLRepository struct {
	mu      sync.Mutex
	records []*model.ShortURL
	err     error
}

func (m *mockURLRepository) Save(ctx context.Context, originalURL, shortURL string) (*model.ShortURL, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}

	record := &model.ShortURL{
		ID:          int64(len(m.records) + 1),
		OriginalURL: originalURL,
		ShortURL:    shortURL,
	}
	m.records = append(m.records, record)
	return record, nil
}

type testEnv struct {
	repo    *mockURLRepository
	spans   *tracetest.SpanRecorder
	logs    *observer.ObservedLogs
	service *URLService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	core, logs := observer.New(zapcore.InfoLevel)
	repo := &mockURLRepository{}

	return &testEnv{
		repo:    repo,
		spans:   spans,
		logs:    logs,
		service: NewURLService(repo, "http://localhost:5000/", 8, tp.Tracer("test"), zap.New(core)),
	}
}

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestURLService_Shorten(t *testing.T) {
	env := newTestEnv(t)

	shortURL, err := env.service.Shorten(context.Background(), "http://example.com/page")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^http://localhost:5000/[A-Za-z0-9]{8}$`), shortURL)

	require.Len(t, env.repo.records, 1)
	assert.Equal(t, "http://example.com/page", env.repo.records[0].OriginalURL)
	assert.Equal(t, shortURL, env.repo.records[0].ShortURL)
}

func TestURLService_Shorten_SameInputDistinctResults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.service.Shorten(ctx, "http://example.com")
	require.NoError(t, err)
	second, err := env.service.Shorten(ctx, "http://example.com")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Len(t, env.repo.records, 2)
}

func TestURLService_Shorten_InputStoredVerbatim(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Shorten(context.Background(), "not a url")
	require.NoError(t, err)

	require.Len(t, env.repo.records, 1)
	assert.Equal(t, "not a url", env.repo.records[0].OriginalURL)
}

func TestURLService_Shorten_MissingURL(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Shorten(context.Background(), "")
	require.Error(t, err)

	validationErr := apperrors.GetValidationError(err)
	require.NotNil(t, validationErr)
	assert.Equal(t, "url", validationErr.Field)
	assert.Empty(t, env.repo.records)
	assert.Empty(t, env.logs.FilterMessage("Shortened URL").All())
}

func TestURLService_Shorten_StoreFailure(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
	}{
		{name: "plain error", repoErr: errors.New("disk full")},
		{name: "store error", repoErr: apperrors.NewStoreError("failed to save URL", errors.New("disk full"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.repo.err = tt.repoErr

			shortURL, err := env.service.Shorten(context.Background(), "http://example.com")
			require.Error(t, err)
			assert.Empty(t, shortURL)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeDatabase))

			ended := env.spans.Ended()
			require.Len(t, ended, 1)
			assert.Equal(t, codes.Error, ended[0].Status().Code)
			assert.NotEmpty(t, ended[0].Events(), "error should be recorded on the span")
		})
	}
}

func TestURLService_Shorten_GenerationFailure(t *testing.T) {
	env := newTestEnv(t)
	env.service.generate = func(int) (string, error) {
		return "", errors.New("entropy source unavailable")
	}

	_, err := env.service.Shorten(context.Background(), "http://example.com")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeShortCodeGeneration))
	assert.Empty(t, env.repo.records)
}

func TestURLService_Shorten_Span(t *testing.T) {
	env := newTestEnv(t)

	shortURL, err := env.service.Shorten(context.Background(), "http://example.com/page")
	require.NoError(t, err)

	ended := env.spans.Ended()
	require.Len(t, ended, 1)

	span := ended[0]
	assert.Equal(t, "shorten_url", span.Name())
	assert.NotEqual(t, codes.Error, span.Status().Code)

	original, ok := spanAttr(span, "url.original")
	require.True(t, ok)
	assert.Equal(t, "http://example.com/page", original.AsString())

	short, ok := spanAttr(span, "url.short")
	require.True(t, ok)
	assert.Equal(t, shortURL, short.AsString())

	id, ok := spanAttr(span, "shortener.record_id")
	require.True(t, ok)
	assert.Equal(t, int64(1), id.AsInt64())
}

func TestURLService_Shorten_ChildOfCallerSpan(t *testing.T) {
	env := newTestEnv(t)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(env.spans))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, parent := tp.Tracer("http").Start(context.Background(), "GET /shorten")
	_, err := env.service.Shorten(ctx, "http://example.com")
	require.NoError(t, err)
	parent.End()

	var child sdktrace.ReadOnlySpan
	for _, s := range env.spans.Ended() {
		if s.Name() == "shorten_url" {
			child = s
		}
	}
	require.NotNil(t, child)
	assert.Equal(t, parent.SpanContext().SpanID(), child.Parent().SpanID())
	assert.Equal(t, parent.SpanContext().TraceID(), child.SpanContext().TraceID())
}

func TestURLService_Shorten_Logs(t *testing.T) {
	env := newTestEnv(t)

	shortURL, err := env.service.Shorten(context.Background(), "http://example.com/page")
	require.NoError(t, err)

	entries := env.logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "Received URL", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "http://example.com/page", entries[0].ContextMap()["url"])

	assert.Equal(t, "Shortened URL", entries[1].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, shortURL, entries[1].ContextMap()["short_url"])

	for _, e := range entries {
		assert.Contains(t, e.ContextMap(), "trace_id")
		assert.Contains(t, e.ContextMap(), "span_id")
	}
}
