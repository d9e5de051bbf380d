package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Ankan-42/AUL-logarchive-info/internal/analyze"
	"github.com/Ankan-42/AUL-logarchive-info/internal/archive"
	"github.com/Ankan-42/AUL-logarchive-info/internal/config"
	"github.com/Ankan-42/AUL-logarchive-info/internal/logging"
	"github.com/Ankan-42/AUL-logarchive-info/internal/metrics"
	"github.com/Ankan-42/AUL-logarchive-info/internal/render"
	"github.com/Ankan-42/AUL-logarchive-info/internal/report"
	"github.com/Ankan-42/AUL-logarchive-info/internal/upload"
)

var (
	configFile = flag.String("config", "", "Path to configuration file (optional)")
	outputDir  = flag.String("output", "", "Directory for the CSV report (default from config)")
	cleanup    = flag.String("cleanup", "", "Temp directory cleanup policy: always, never or ask")
	logLevel   = flag.String("log-level", "", "Log level override: debug, info, warn, error")
	version    = "0.1.0"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <path>\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "  <path>  .logarchive directory, a directory containing one, or a .tar.gz sysdiagnose bundle")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(input string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logger.Info().Str("version", version).Str("input", input).Msg("Starting logarchive report")

	ctx := context.Background()
	started := time.Now()

	// Locate the archive, extracting a sysdiagnose bundle if needed.
	locator := archive.NewLocator(logger)
	ref, err := locator.Resolve(input)
	if err != nil {
		return err
	}
	logger.Info().Str("archive", ref.Path).Float64("size_kb", ref.SizeKB).Msg("Archive resolved")

	// The temp dir outlives any later failure; its fate is decided at
	// the very end of the run.
	cleaner := archive.NewCleaner(cfg.Cleanup.Policy, logger)
	defer func() {
		if err := cleaner.Run(ref); err != nil {
			logger.Error().Err(err).Msg("Cleanup failed")
		}
	}()

	renderer := render.New(cfg.Renderer.Command, cfg.Renderer.Timeout, logger)
	lines, err := renderer.Render(ctx, ref.Path)
	if err != nil {
		return err
	}

	analyzer := analyze.New(cfg.Analysis.TimeFormats, cfg.Analysis.FallbackFormat)
	first, last, err := analyzer.TimeRange(lines)
	if err != nil {
		return err
	}
	span, err := analyzer.ComputeSpan(first, last)
	if err != nil {
		return err
	}
	totalEvents := analyzer.CountEvents(lines)
	tally := analyzer.TallySubsystems(lines)

	rep := report.Build(ref, first, last, span, totalEvents, tally)

	outPath := report.WritePath(cfg.Report.Dir, started)
	if err := report.Write(rep, outPath); err != nil {
		return err
	}
	logger.Info().Str("path", outPath).Msg("CSV report generated")
	fmt.Println(outPath)

	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		collector := metrics.NewCollector()
		collector.Record(analyzer.Stats(), rep, time.Since(started))
		if err := collector.WriteTextfile(cfg.Metrics.Path); err != nil {
			return err
		}
		logger.Info().Str("path", cfg.Metrics.Path).Msg("Metrics snapshot written")
	}

	if cfg.Upload != nil && cfg.Upload.Enabled {
		uploader, err := upload.NewS3Uploader(ctx, *cfg.Upload, logger)
		if err != nil {
			return err
		}
		if err := uploader.Upload(ctx, outPath); err != nil {
			// The local artifact stays valid, report the failure
			// without discarding the run.
			logger.Error().Err(err).Msg("Upload failed")
		}
	}

	return nil
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.DefaultConfig()
	}

	if *outputDir != "" {
		cfg.Report.Dir = *outputDir
	}
	if *cleanup != "" {
		cfg.Cleanup.Policy = config.CleanupPolicy(*cleanup)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
