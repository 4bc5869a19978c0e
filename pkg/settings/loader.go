package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Settings sources.
const (
	SourceFile    = "file"
	SourceBackend = "backend"
	SourceMock    = "mock"
)

// Config selects where settings are read from.
type Config struct {
	Source   string
	File     string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	Currency string
}

// Loader reads settings from the configured source.
type Loader struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// NewLoader creates a loader for cfg.Source. The file source needs no API
// client.
func NewLoader(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) (*Loader, error) {
	var apiClient APIClient

	switch cfg.Source {
	case SourceFile:
	case SourceMock:
		apiClient = NewMockAPIClient()
	case SourceBackend:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("settings backend requires a base URL")
		}
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Timeout: cfg.Timeout,
		})
	default:
		return nil, fmt.Errorf("unknown settings source %q", cfg.Source)
	}

	return NewLoaderWithAPIClient(cfg, apiClient, logger, tracer), nil
}

// NewLoaderWithAPIClient creates a loader with a custom API client.
func NewLoaderWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Loader {
	return &Loader{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// Source returns the configured source name.
func (l *Loader) Source() string {
	return l.config.Source
}

// Load reads and validates the settings.
func (l *Loader) Load(ctx context.Context) (*Settings, error) {
	var span trace.Span
	if l.tracer != nil {
		ctx, span = l.tracer.Start(ctx, "settings.Load",
			trace.WithAttributes(attribute.String("settings.source", l.config.Source)))
		defer span.End()
	}

	l.logger.Ctx(ctx).Info("Loading shipping settings",
		zap.String("source", l.config.Source),
		zap.String("file", l.config.File),
	)

	s, err := l.load(ctx)
	if err == nil {
		err = s.Validate()
	}
	if err != nil {
		if span != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		l.logger.Ctx(ctx).Error("Failed to load shipping settings", zap.Error(err))
		return nil, err
	}

	l.logger.Ctx(ctx).Info("Shipping settings loaded",
		zap.Int("rate_rows", len(s.Rates)),
		zap.Int("boxes", len(s.Boxes)),
		zap.Int("warehouses", len(s.Warehouses)),
	)
	return s, nil
}

func (l *Loader) load(ctx context.Context) (*Settings, error) {
	if l.apiClient == nil {
		s, err := LoadFile(l.config.File)
		if err != nil {
			return nil, err
		}
		if s.Currency == "" {
			s.Currency = l.config.Currency
		}
		return s, nil
	}
	return Fetch(ctx, l.apiClient, l.config.Currency)
}
