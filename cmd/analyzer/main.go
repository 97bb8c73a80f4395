package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"salescope/internal/config"
	"salescope/internal/dataset"
	"salescope/internal/exporter"
	"salescope/internal/infrastructure"
	"salescope/internal/insights"
	"salescope/internal/loader"
	"salescope/internal/segmentation"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (defaults to config.yaml if present)")
	outputDir := flag.String("out", "", "output directory for analysis artifacts (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.EnsureTraceID(context.Background())
	logger = infrastructure.LoggerFromContext(ctx)

	if err := run(ctx, cfg, logger); err != nil {
		infrastructure.WithError(logger, err).Error("Analysis run failed")
		os.Exit(1)
	}
}

// run executes the full pipeline: load, join, clean, segment, extract,
// export. Stages run sequentially over the in-memory dataset; a load
// failure aborts the run with no partial output.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	started := time.Now()
	logger.Info("Starting sales analysis run",
		slog.String("sales_source", cfg.Sources.Sales),
		slog.String("output_dir", cfg.Output.Dir))

	bundle, err := loader.LoadAll(loader.Sources{
		Customer:    cfg.Sources.Customer,
		Product:     cfg.Sources.Product,
		Sales:       cfg.Sources.Sales,
		Territories: cfg.Sources.Territories,
	}, infrastructure.WithComponent(logger, "loader"))
	if err != nil {
		return fmt.Errorf("load source tables: %w", err)
	}

	datasetLog := infrastructure.WithComponent(logger, "dataset")
	joined, err := dataset.Join(bundle, datasetLog)
	if err != nil {
		return fmt.Errorf("join source tables: %w", err)
	}

	ds, err := dataset.Clean(joined, time.Now(), datasetLog)
	if err != nil {
		return fmt.Errorf("clean dataset: %w", err)
	}

	summary, findings := insights.Extract(ds, infrastructure.WithComponent(logger, "insights"))
	numericStats := insights.Describe(ds)
	categoryStats := insights.DescribeCategorical(ds)

	segmentLog := infrastructure.WithComponent(logger, "segmentation")
	rfm, err := segmentation.ComputeRFM(ds, segmentLog)
	if err != nil {
		return fmt.Errorf("RFM segmentation: %w", err)
	}

	products, err := segmentation.ComputeABCXYZ(ds, segmentLog)
	if err != nil {
		return fmt.Errorf("ABC-XYZ segmentation: %w", err)
	}

	writer := exporter.NewCSVWriter(cfg.Output.Dir)

	if err := writer.WriteDataset(ds, cfg.Output.DatasetFile); err != nil {
		return fmt.Errorf("export cleaned dataset: %w", err)
	}
	if err := writer.WriteRFM(rfm, cfg.Output.RFMFile); err != nil {
		return fmt.Errorf("export RFM segments: %w", err)
	}
	if err := writer.WriteProducts(products, cfg.Output.ProductsFile); err != nil {
		return fmt.Errorf("export product segments: %w", err)
	}

	report := exporter.ReportData{
		GeneratedAt: time.Now(),
		Dataset:     ds,
		Summary:     summary,
		Findings:    findings,
		Numeric:     numericStats,
		Categorical: categoryStats,
		RFM:         rfm,
		Products:    products,
	}
	if err := writer.WriteReport(cfg.Output.ReportFile, report); err != nil {
		return fmt.Errorf("write analysis report: %w", err)
	}

	logger.InfoContext(ctx, "Analysis run complete",
		slog.Duration("elapsed", time.Since(started)),
		slog.Int("rows", len(ds.Rows)),
		slog.Int("customers", len(rfm.Profiles)),
		slog.Int("products", len(products.Profiles)),
		slog.String("report", cfg.Output.ReportFile))

	return nil
}
