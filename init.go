package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/tournevent/shipcost/internal/config"
	"github.com/tournevent/shipcost/internal/graphql"
	"github.com/tournevent/shipcost/internal/telemetry"
	"github.com/tournevent/shipcost/pkg/settings"
	"github.com/tournevent/shipcost/pkg/shipping"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return nil, func(context.Context) error { return nil }, nil
	}
	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
}

func initRegistry(ctx context.Context, cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer) (*shipping.Registry, []shipping.Warehouse, error) {
	loader, err := settings.NewLoader(settings.Config{
		Source:   cfg.SettingsSource,
		File:     cfg.SettingsFile,
		BaseURL:  cfg.BackendURL,
		APIKey:   cfg.BackendAPIKey,
		Timeout:  cfg.BackendTimeout,
		Currency: cfg.Currency,
	}, logger, tracer)
	if err != nil {
		return nil, nil, err
	}

	s, err := loader.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	registry, err := s.Registry(
		shipping.WithVolumetricDivisor(cfg.VolumetricDivisor),
		shipping.WithLocalDeliveryKm(cfg.LocalDeliveryKm),
	)
	if err != nil {
		return nil, nil, err
	}
	warehouses, err := s.ShippingWarehouses()
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Registered rate profiles",
		zap.Strings("profiles", registry.Names()),
		zap.Int("boxes", len(registry.Boxes())),
		zap.Int("warehouses", len(warehouses)),
	)
	return registry, warehouses, nil
}

// initFileResolver builds a resolver over a settings file for one-off quotes.
func initFileResolver(ctx context.Context, path string, divisor, localKm float64, logger *otelzap.Logger) (*graphql.Resolver, error) {
	cfg := &config.Config{
		SettingsSource:    settings.SourceFile,
		SettingsFile:      path,
		VolumetricDivisor: divisor,
		LocalDeliveryKm:   localKm,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry, warehouses, err := initRegistry(ctx, cfg, logger, nil)
	if err != nil {
		return nil, err
	}
	resolver := graphql.NewResolver(registry, warehouses, logger, nil)
	resolver.LocalKm = localKm
	return resolver, nil
}

func readCart(path string) (graphql.ShippingQuoteInput, error) {
	var input graphql.ShippingQuoteInput
	data, err := os.ReadFile(path)
	if err != nil {
		return input, fmt.Errorf("reading cart: %w", err)
	}
	if err := json.Unmarshal(data, &input); err != nil {
		return input, fmt.Errorf("parsing cart %s: %w", path, err)
	}
	return input, nil
}
