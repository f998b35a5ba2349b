package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/rbdoc/internal/config"
	"github.com/standardbeagle/rbdoc/internal/display"
	"github.com/standardbeagle/rbdoc/internal/encoding"
	"github.com/standardbeagle/rbdoc/internal/indexing"
)

// exit codes
const (
	exitFailed   = 1
	exitNotFound = 2
)

func generate(c *cli.Context, cfg *config.Config) (*indexing.Result, error) {
	result, err := indexing.NewGenerator(cfg).Run(c.Context)
	if err != nil {
		return nil, err
	}
	newReporter(c.App.ErrWriter, c.Bool("quiet"), cfg.Project.Root).report(result)
	return result, nil
}

func generateCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	applyOutputFlags(c, cfg)
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}

	result, err := generate(c, cfg)
	if err != nil {
		return err
	}
	if err := writeOutput(c, cfg, result); err != nil {
		return err
	}
	if c.Bool("strict") && result.HasErrors() {
		return cli.Exit("generation finished with errors", exitFailed)
	}
	return nil
}

func applyOutputFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("format") {
		cfg.Output.Format = strings.ToLower(c.String("format"))
	}
	if c.IsSet("output") {
		cfg.Output.Path = c.String("output")
	}
	if c.IsSet("markdown") {
		cfg.Output.Markdown = c.Bool("markdown")
	}
}

// writeOutput writes result to the configured path, or stdout.
func writeOutput(c *cli.Context, cfg *config.Config, result *indexing.Result) error {
	w := c.App.Writer
	if cfg.Output.Path != "" {
		f, err := os.Create(cfg.Output.Path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if cfg.Output.Format == config.FormatText {
		r := display.NewRenderer(renderOptions(c, cfg, w))
		return r.RenderAll(w, result.DB)
	}
	return encoding.Export(w, cfg.Output.Format, result.DB, encoding.Options{
		Project:       cfg.Project.Name,
		Root:          cfg.Project.Root,
		IncludeSource: c.Bool("source"),
	})
}

func renderOptions(c *cli.Context, cfg *config.Config, w io.Writer) display.RenderOptions {
	return display.RenderOptions{
		Root:        cfg.Project.Root,
		EmbedMixins: cfg.Handlers.EmbedMixins,
		Markdown:    cfg.Output.Markdown || c.Bool("markdown"),
		Color:       useColor(w),
		ShowSource:  c.Bool("source"),
	}
}

// useColor reports whether w is a terminal that accepts ANSI styling.
func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func showCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: rbdoc show <path>", exitFailed)
	}
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	result, err := generate(c, cfg)
	if err != nil {
		return err
	}

	path := c.Args().First()
	obj, ok := result.DB.Lookup(path)
	if !ok {
		msg := fmt.Sprintf("no documentation for %s", path)
		if suggestions := display.Suggest(result.DB, path, 5); len(suggestions) > 0 {
			msg += "\nDid you mean:\n  " + strings.Join(suggestions, "\n  ")
		}
		return cli.Exit(msg, exitNotFound)
	}
	return display.NewRenderer(renderOptions(c, cfg, c.App.Writer)).RenderObject(c.App.Writer, obj)
}

func searchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("usage: rbdoc search <words...>", exitFailed)
	}
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	result, err := generate(c, cfg)
	if err != nil {
		return err
	}

	query := strings.Join(c.Args().Slice(), " ")
	matches := display.NewSearchIndex(result.DB).Search(query, c.Int("limit"))
	if len(matches) == 0 {
		return cli.Exit(fmt.Sprintf("no matches for %q", query), exitNotFound)
	}
	return display.NewRenderer(renderOptions(c, cfg, c.App.Writer)).RenderMatches(c.App.Writer, matches)
}

func statsCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	result, err := generate(c, cfg)
	if err != nil {
		return err
	}

	if err := display.WriteStats(c.App.Writer, display.ComputeStats(result.DB), c.Int("max-undocumented")); err != nil {
		return err
	}
	s := result.Stats
	_, err = fmt.Fprintf(c.App.Writer, "\nFiles: %d parsed, %d skipped, %d with syntax errors (%v)\n",
		s.FilesParsed, s.FilesSkipped, s.ParseErrors, s.Duration.Round(time.Millisecond))
	return err
}

func watchCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	applyOutputFlags(c, cfg)
	if c.IsSet("debounce") {
		cfg.Watch.DebounceMs = c.Int("debounce")
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep := newReporter(c.App.ErrWriter, c.Bool("quiet"), cfg.Project.Root)
	gen := indexing.NewGenerator(cfg)
	publish := func(u indexing.WatchUpdate) {
		if u.Err != nil {
			rep.logger.Error("generation failed", "err", u.Err)
			return
		}
		rep.report(u.Result)
		if err := writeOutput(c, cfg, u.Result); err != nil {
			rep.logger.Error("write failed", "err", err)
			return
		}
		rep.watchUpdate(u)
	}

	result, err := gen.Run(ctx)
	publish(indexing.WatchUpdate{Result: result, Err: err, Cache: gen.CacheStats()})
	rep.logger.Info("watching for changes", "root", cfg.Project.Root)
	if err := gen.Watch(ctx, publish); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func configValidateCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("configuration is invalid: %v", err), exitFailed)
	}
	fmt.Fprintf(c.App.Writer, "Configuration is valid\n")
	fmt.Fprintf(c.App.Writer, "  root:    %s\n", cfg.Project.Root)
	fmt.Fprintf(c.App.Writer, "  format:  %s\n", cfg.Output.Format)
	fmt.Fprintf(c.App.Writer, "  workers: %d\n", cfg.Performance.MaxWorkers)
	fmt.Fprintf(c.App.Writer, "  include: %s\n", strings.Join(cfg.Include, ", "))
	return nil
}
