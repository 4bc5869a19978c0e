package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tournevent/shipcost/internal/graphql"
	"github.com/tournevent/shipcost/internal/server"
	"github.com/tournevent/shipcost/internal/telemetry"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "shipcost",
	Short:   "Shipping cost and packaging engine",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the GraphQL quote server",
	RunE:  runServe,
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Quote a cart file against a rates file",
	Example: `  shipcost quote --cart cart.json --settings rates.yaml --distance 12
  shipcost quote --cart cart.json --settings rates.yaml --city Mumbai --all`,
	RunE: runQuote,
}

var quoteFlags struct {
	cart     string
	settings string
	profile  string
	city     string
	distance float64
	divisor  float64
	localKm  float64
	all      bool
	strict   bool
	logLevel string
}

func init() {
	f := quoteCmd.Flags()
	f.StringVar(&quoteFlags.cart, "cart", "", "cart JSON file (lines and destination)")
	f.StringVar(&quoteFlags.settings, "settings", "rates.yaml", "rates, boxes and warehouses YAML file")
	f.StringVar(&quoteFlags.profile, "profile", "", "rate profile to quote (default standard)")
	f.StringVar(&quoteFlags.city, "city", "", "destination city, overrides the cart file")
	f.Float64Var(&quoteFlags.distance, "distance", -1, "explicit distance in km, skips distance resolution")
	f.Float64Var(&quoteFlags.divisor, "volumetric-divisor", 5000, "carrier volumetric divisor")
	f.Float64Var(&quoteFlags.localKm, "local-km", 5, "distance used for same-city deliveries")
	f.BoolVar(&quoteFlags.all, "all", false, "quote every profile instead of computing order totals")
	f.BoolVar(&quoteFlags.strict, "strict", false, "reject lines without weight or dimensions")
	f.StringVar(&quoteFlags.logLevel, "log-level", "warn", "log level")
	_ = quoteCmd.MarkFlagRequired("cart")

	rootCmd.AddCommand(serveCmd, quoteCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Initialize telemetry
	logger, err := telemetry.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tracer, tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	} else {
		defer tracerShutdown(ctx)
	}

	// Load rate tables, boxes and warehouses
	registry, warehouses, err := initRegistry(ctx, cfg, logger, tracer)
	if err != nil {
		logger.Error("Failed to load shipping settings", zap.Error(err))
		return err
	}

	logger.Info("Starting shipcost",
		zap.Int("port", cfg.Port),
		zap.String("version", cfg.Version),
		zap.String("settings_source", cfg.SettingsSource),
	)

	// Start HTTP server
	srv := server.New(server.Config{
		Port:            cfg.Port,
		LocalDeliveryKm: cfg.LocalDeliveryKm,
		Warehouses:      warehouses,
		Tracer:          tracer,
	}, registry, logger)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runQuote(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	logger, err := telemetry.NewCLILogger(quoteFlags.logLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	input, err := readCart(quoteFlags.cart)
	if err != nil {
		return err
	}
	applyQuoteFlags(&input)

	resolver, err := initFileResolver(ctx, quoteFlags.settings, quoteFlags.divisor, quoteFlags.localKm, logger)
	if err != nil {
		return err
	}

	var result any
	if quoteFlags.all {
		result, err = resolver.Query().ShippingQuotes(ctx, input)
	} else {
		result, err = resolver.Query().OrderTotals(ctx, input)
	}
	if err != nil {
		return fmt.Errorf("quoting cart: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func applyQuoteFlags(input *graphql.ShippingQuoteInput) {
	if quoteFlags.profile != "" {
		input.Profile = &quoteFlags.profile
	}
	if quoteFlags.city != "" {
		if input.Destination == nil {
			input.Destination = &graphql.DestinationInput{}
		}
		input.Destination.City = &quoteFlags.city
	}
	if quoteFlags.distance >= 0 {
		input.DistanceKm = &quoteFlags.distance
	}
	if quoteFlags.strict {
		input.Strict = &quoteFlags.strict
	}
}
