// vcalconv converts calendars between vCalendar 1.0 and iCalendar 2.0.
//
// With file arguments the converted document is written to stdout. Without
// arguments every configured source is converted into the output directory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	ics "github.com/emersion/go-ical"

	"github.com/cpuguy83/vcalconv/internal/calendar"
	"github.com/cpuguy83/vcalconv/internal/config"
	"github.com/cpuguy83/vcalconv/internal/pipeline"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (default: ~/.config/vcalconv/config.yaml)")
		verbose    = flag.Bool("v", false, "verbose logging")
		direction  = flag.String("direction", "", "conversion direction: downgrade or upgrade (overrides config)")
		outputDir  = flag.String("output", "", "output directory (overrides config)")
		watch      = flag.Duration("watch", 0, "convert again on this interval (overrides config)")
	)
	flag.Parse()

	// Setup logging
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(*configPath, flag.NArg() > 0)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if *direction != "" {
		cfg.Convert.Direction = strings.ToLower(*direction)
	}
	if *outputDir != "" {
		cfg.Sync.OutputDir = *outputDir
	}
	if *watch > 0 {
		cfg.Sync.Interval = *watch
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if flag.NArg() > 0 {
		err = convertFiles(cfg, flag.Args())
	} else {
		err = run(ctx, cfg)
	}
	if err != nil {
		slog.Error("conversion failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration. A missing default config file is not an
// error when files are given on the command line.
func loadConfig(path string, optional bool) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	cfg, err := config.Load()
	if err != nil && optional && errors.Is(err, fs.ErrNotExist) {
		return config.Parse(nil)
	}
	return cfg, err
}

// run converts the configured sources, repeating on the watch interval.
func run(ctx context.Context, cfg *config.Config) error {
	runner, err := pipeline.NewRunner(cfg)
	if err != nil {
		return fmt.Errorf("create runner: %w", err)
	}
	if runner.SourceCount() == 0 {
		return fmt.Errorf("no sources configured")
	}

	slog.Info("starting vcalconv",
		"direction", cfg.Convert.Direction,
		"sources", runner.SourceCount(),
		"output_dir", cfg.Sync.OutputDir,
		"interval", runner.Interval(),
	)

	var lastErr error
	runner.Run(ctx, func(results []pipeline.Result, err error) {
		lastErr = err
		if err != nil {
			slog.Error("conversion failed", "error", err)
			return
		}
		slog.Info("conversion finished", "sources", len(results), "at", time.Now().Format(time.Kitchen))
	})

	// In watch mode only cancellation ends the loop.
	if runner.Interval() > 0 {
		slog.Info("received signal, shutting down")
		return nil
	}
	return lastErr
}

// convertFiles converts the named files into one document on stdout.
func convertFiles(cfg *config.Config, paths []string) error {
	var cals []*ics.Calendar
	for _, path := range paths {
		docs, err := calendar.Read(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		cals = append(cals, docs...)
	}

	opts, err := pipeline.NewOptions(cfg)
	if err != nil {
		return err
	}
	convert, _, err := pipeline.ConverterFor(cfg.Convert.Direction)
	if err != nil {
		return err
	}

	out, report, err := convert(calendar.Merge(cals...), opts)
	if err != nil {
		return err
	}
	slog.Debug("converted files", "files", len(paths), "report", report)

	if len(out.Children) == 0 {
		slog.Info("nothing to write", "report", report)
		return nil
	}

	if err := ics.NewEncoder(os.Stdout).Encode(out); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}
