package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/Kosench/traced-url-shortener/internal/errors"
	"github.com/Kosench/traced-url-shortener/internal/logger"
	"github.com/Kosench/traced-url-shortener/internal/repository"
	"github.com/Kosench/traced-url-shortener/internal/utils"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const spanShortenURL = "shorten_url"

type URLService struct {
	urlRepo    repository.URLRepository
	baseURL    string
	codeLength int
	tracer     trace.Tracer
	logger     *zap.Logger

	generate func(length int) (string, error)
}

func NewURLService(
	urlRepo repository.URLRepository,
	baseURL string,
	codeLength int,
	tracer trace.Tracer,
	logger *zap.Logger,
) *URLService {
	return &URLService{
		urlRepo:    urlRepo,
		baseURL:    strings.TrimRight(baseURL, "/"),
		codeLength: codeLength,
		tracer:     tracer,
		logger:     logger,
		generate:   utils.GenerateShortCodeWithLength,
	}
}

// Shorten mints a short URL for originalURL and records the pair. The input
// is stored as given; it is neither normalized nor checked for URL syntax.
func (s *URLService) Shorten(ctx context.Context, originalURL string) (string, error) {
	ctx, span := s.tracer.Start(ctx, spanShortenURL,
		trace.WithAttributes(attribute.String("url.original", originalURL)),
	)
	defer span.End()

	log := logger.WithTrace(ctx, s.logger)
	log.Info("Received URL", zap.String("url", originalURL))

	if err := utils.ValidatePresence("url", originalURL); err != nil {
		span.SetStatus(codes.Error, "missing url")
		return "", err
	}

	code, err := s.generate(s.codeLength)
	if err != nil {
		genErr := apperrors.NewGenerationError(err)
		span.RecordError(genErr)
		span.SetStatus(codes.Error, genErr.Message)
		return "", genErr
	}

	shortURL := s.buildShortURL(code)
	span.SetAttributes(attribute.String("url.short", shortURL))
	log.Info("Shortened URL", zap.String("url", originalURL), zap.String("short_url", shortURL))

	record, err := s.urlRepo.Save(ctx, originalURL, shortURL)
	if err != nil {
		if !apperrors.IsBusinessError(err) {
			err = apperrors.NewStoreError("failed to save URL", err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save URL")
		log.Error("Failed to save URL", zap.String("short_url", shortURL), zap.Error(err))
		return "", err
	}

	span.SetAttributes(attribute.Int64("shortener.record_id", record.ID))
	return shortURL, nil
}

func (s *URLService) buildShortURL(shortCode string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, shortCode)
}
