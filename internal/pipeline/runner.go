package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	ics "github.com/emersion/go-ical"

	"github.com/cpuguy83/vcalconv/internal/calendar"
	"github.com/cpuguy83/vcalconv/internal/config"
	"github.com/cpuguy83/vcalconv/internal/filter"
	"github.com/cpuguy83/vcalconv/internal/model"
)

// Converter converts one document.
type Converter func(*ics.Calendar, Options) (*ics.Calendar, Report, error)

// sourceWithFilter pairs a calendar source with its optional filter.
type sourceWithFilter struct {
	source calendar.Source
	filter *filter.Filter
}

// Result describes the conversion of one source.
type Result struct {
	Source string
	Path   string // empty when there was nothing to write
	Report Report
	Err    error
}

// Runner converts every configured source into the output directory.
type Runner struct {
	sources   []sourceWithFilter
	convert   Converter
	ext       string
	opts      Options
	outputDir string
	interval  time.Duration
}

// NewRunner creates a new Runner from configuration.
func NewRunner(cfg *config.Config) (*Runner, error) {
	sources, err := createSources(cfg.Sources)
	if err != nil {
		return nil, err
	}

	opts, err := NewOptions(cfg)
	if err != nil {
		return nil, err
	}

	convert, ext, err := ConverterFor(cfg.Convert.Direction)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		sources:   sources,
		convert:   convert,
		ext:       ext,
		opts:      opts,
		outputDir: cfg.Sync.OutputDir,
		interval:  cfg.Sync.Interval,
	}

	return r, nil
}

// NewOptions builds conversion options from configuration. The global
// filters apply to every source.
func NewOptions(cfg *config.Config) (Options, error) {
	global, err := filter.New(cfg.Filters)
	if err != nil {
		return Options{}, fmt.Errorf("global filters: %w", err)
	}
	return Options{
		ProductID:      cfg.Convert.ProductID,
		TimezoneID:     cfg.Convert.TimezoneID,
		DefaultRelated: model.Related(strings.ToUpper(cfg.Convert.DefaultRelated)),
		Filters:        []*filter.Filter{global},
	}, nil
}

// ConverterFor returns the converter for a direction and the file extension
// of its output.
func ConverterFor(direction string) (Converter, string, error) {
	switch direction {
	case config.DirectionDowngrade:
		return Downgrade, ".vcs", nil
	case config.DirectionUpgrade:
		return Upgrade, ".ics", nil
	default:
		return nil, "", fmt.Errorf("unknown direction %q", direction)
	}
}

// Interval returns the configured watch interval.
func (r *Runner) Interval() time.Duration {
	return r.interval
}

// SourceCount returns the number of configured sources.
func (r *Runner) SourceCount() int {
	return len(r.sources)
}

// Convert fetches all sources in parallel, converts each one and writes it
// to the output directory. An error is returned only when every source failed.
func (r *Runner) Convert(ctx context.Context) ([]Result, error) {
	slog.Info("starting conversion", "sources", len(r.sources))

	results := make(chan Result, len(r.sources))
	var wg sync.WaitGroup

	for _, swf := range r.sources {
		swf := swf
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- r.convertSource(ctx, swf)
		}()
	}

	// Close results channel when all goroutines complete
	go func() {
		wg.Wait()
		close(results)
	}()

	var (
		all   []Result
		errs  []error
		total Report
	)
	for res := range results {
		all = append(all, res)
		if res.Err != nil {
			slog.Warn("failed to convert source", "source", res.Source, "error", res.Err)
			errs = append(errs, res.Err)
			continue
		}
		total.Add(res.Report)
		slog.Info("converted source", "source", res.Source, "path", res.Path, "report", res.Report)
	}

	slog.Info("conversion complete", "sources", len(all), "failed", len(errs), "report", total)

	// Partial success is still success.
	if len(errs) > 0 && len(errs) == len(all) {
		return all, errors.Join(errs...)
	}
	return all, nil
}

func (r *Runner) convertSource(ctx context.Context, swf sourceWithFilter) Result {
	name := swf.source.Name()
	res := Result{Source: name}

	slog.Debug("fetching source", "source", name)
	cals, err := swf.source.Fetch(ctx)
	if err != nil {
		res.Err = fmt.Errorf("fetch %s: %w", name, err)
		return res
	}

	opts := r.opts
	opts.Filters = append(append([]*filter.Filter(nil), r.opts.Filters...), swf.filter)

	out, report, err := r.convert(calendar.Merge(cals...), opts)
	if err != nil {
		res.Err = fmt.Errorf("convert %s: %w", name, err)
		return res
	}
	res.Report = report

	path := filepath.Join(r.outputDir, fileName(name)+r.ext)

	// A calendar without components cannot be encoded. Drop the previous
	// output so it does not outlive the events it held.
	if len(out.Children) == 0 {
		slog.Info("nothing to write", "source", name, "report", report)
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			res.Err = fmt.Errorf("remove stale output %s: %w", name, err)
		}
		return res
	}

	res.Path = path
	if err := calendar.Write(res.Path, out); err != nil {
		res.Err = fmt.Errorf("write %s: %w", name, err)
	}
	return res
}

// Run converts once, then again on every interval tick until the context is
// cancelled. onRun is called after each conversion. With a zero interval Run
// returns after the first conversion.
func (r *Runner) Run(ctx context.Context, onRun func([]Result, error)) {
	results, err := r.Convert(ctx)
	onRun(results, err)

	if r.interval <= 0 {
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			results, err := r.Convert(ctx)
			onRun(results, err)
		case <-ctx.Done():
			return
		}
	}
}

// fileName turns a source name into a safe file name.
func fileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		return "calendar"
	}
	return name
}

// createSources creates calendar sources with their per-source filters from configuration.
func createSources(cfgs []config.SourceConfig) ([]sourceWithFilter, error) {
	var sources []sourceWithFilter

	for _, cfg := range cfgs {
		var src calendar.Source

		switch cfg.Type {
		case "file":
			src = calendar.NewFileSource(cfg.Name, cfg.Path)

		case "ics":
			password, err := cfg.GetPassword()
			if err != nil {
				return nil, err
			}
			src = calendar.NewICSSource(cfg.Name, cfg.URL, cfg.Username, password)

		case "caldav":
			password, err := cfg.GetPassword()
			if err != nil {
				return nil, err
			}
			src = calendar.NewCalDAVSource(cfg.Name, cfg.URL, cfg.Username, password, cfg.Calendars)

		case "icloud":
			password, err := cfg.GetPassword()
			if err != nil {
				return nil, err
			}
			src = calendar.NewICloudSource(cfg.Name, cfg.Username, password, cfg.Calendars)

		default:
			slog.Warn("unknown source type", "type", cfg.Type, "name", cfg.Name)
			continue
		}

		// Create per-source filter (if no rules, filter passes everything through)
		f, err := filter.New(cfg.Filters)
		if err != nil {
			return nil, fmt.Errorf("source %s filters: %w", cfg.Name, err)
		}

		sources = append(sources, sourceWithFilter{
			source: src,
			filter: f,
		})
	}

	return sources, nil
}
