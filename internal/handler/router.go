package handler

import (
	"net/http"
	"time"

	"github.com/Kosench/traced-url-shortener/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type RouterConfig struct {
	ServiceName    string
	AllowedOrigins []string
	TracerProvider trace.TracerProvider
	Propagators    propagation.TextMapPropagator
}

// NewRouter wires the middleware chain and the single GET /shorten route.
// Order: server span, request id, request log, recovery, cors. Recovery sits
// inside the span and the request log so a panic still ends both as a 500.
func NewRouter(urlHandler *URLHandler, logger *zap.Logger, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	otelOpts := []otelgin.Option{}
	if cfg.TracerProvider != nil {
		otelOpts = append(otelOpts, otelgin.WithTracerProvider(cfg.TracerProvider))
	}
	if cfg.Propagators != nil {
		otelOpts = append(otelOpts, otelgin.WithPropagators(cfg.Propagators))
	}
	router.Use(otelgin.Middleware(cfg.ServiceName, otelOpts...))

	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Recovery(logger))

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/shorten", urlHandler.ShortenURL)

	return router
}
