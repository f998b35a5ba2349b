package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/rbdoc/internal/config"
	"github.com/standardbeagle/rbdoc/internal/debug"
	"github.com/standardbeagle/rbdoc/internal/version"
)

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path %q: %w", root, err)
	}

	cfg, err := config.Load(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", absRoot, err)
	}

	if includeFlags := c.StringSlice("include"); len(includeFlags) > 0 {
		cfg.Include = includeFlags
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Exclude = config.DeduplicatePatterns(append(cfg.Exclude, excludeFlags...))
	}
	if c.IsSet("workers") {
		cfg.Performance.MaxWorkers = c.Int("workers")
	}
	if c.IsSet("no-gitignore") {
		cfg.Index.RespectGitignore = !c.Bool("no-gitignore")
	}
	if c.IsSet("strict-fields") {
		cfg.Handlers.StrictDuplicateFields = c.Bool("strict-fields")
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:                   "rbdoc",
		Usage:                  "Generate documentation for Ruby code with Sorbet signatures and T::Struct fields",
		Version:                version.Info(),
		UseShortOptionHandling: true,
		Writer:                 stdout,
		ErrWriter:              stderr,
		// main decides the exit code
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory (default: current directory)",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Only document files matching glob patterns (e.g., --include 'app/**/*.rb')",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Skip files matching glob patterns, added to the configured exclusions",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"j"},
				Usage:   "Parallel parse workers (0 = auto)",
			},
			&cli.BoolFlag{
				Name:  "no-gitignore",
				Usage: "Do not read exclusions from .gitignore",
			},
			&cli.BoolFlag{
				Name:  "strict-fields",
				Usage: "Reject T::Struct fields declared more than once",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress warnings",
			},
			&cli.StringFlag{
				Name:   "debug-log",
				Usage:  "Write debug output to a log file (\"auto\" picks a temp file)",
				Hidden: true,
			},
		},
		Before: func(c *cli.Context) error {
			if path := c.String("debug-log"); path != "" {
				if path == "auto" {
					logPath, err := debug.InitDebugLogFile()
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.ErrWriter, "debug log: %s\n", logPath)
				} else {
					f, err := os.Create(path)
					if err != nil {
						return fmt.Errorf("failed to create debug log: %w", err)
					}
					debug.SetDebugOutput(f)
				}
			} else if c.Bool("quiet") {
				debug.SetQuiet(true)
			} else if debug.IsDebugEnabled() {
				debug.SetDebugOutput(c.App.ErrWriter)
			}
			return nil
		},
		After: func(c *cli.Context) error {
			return debug.CloseDebugLog()
		},
		Commands: []*cli.Command{
			{
				Name:    "generate",
				Aliases: []string{"g"},
				Usage:   "Document the project and write it as text, json, yaml or toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, json, yaml, toml (default from config)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write to a file instead of stdout",
					},
					&cli.BoolFlag{
						Name:  "markdown",
						Usage: "Render text output as markdown",
					},
					&cli.BoolFlag{
						Name:  "source",
						Usage: "Include source snippets",
					},
					&cli.BoolFlag{
						Name:  "strict",
						Usage: "Exit non-zero when any file or declaration fails",
					},
				},
				Action: generateCommand,
			},
			{
				Name:      "show",
				Usage:     "Show the documentation of one object, e.g. People::Person#initialize",
				ArgsUsage: "<path>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "markdown",
						Usage: "Render as markdown",
					},
					&cli.BoolFlag{
						Name:  "source",
						Usage: "Include the source snippet",
					},
				},
				Action: showCommand,
			},
			{
				Name:      "search",
				Aliases:   []string{"s"},
				Usage:     "Search object names and documentation",
				ArgsUsage: "<words...>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results (0 = all)",
						Value:   20,
					},
				},
				Action: searchCommand,
			},
			{
				Name:  "stats",
				Usage: "Count documented objects",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "max-undocumented",
						Usage: "Undocumented objects to list (0 = all)",
						Value: 25,
					},
				},
				Action: statsCommand,
			},
			{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Regenerate output whenever Ruby sources change",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, json, yaml, toml (default from config)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write to a file instead of stdout",
					},
					&cli.IntFlag{
						Name:  "debounce",
						Usage: "Quiet period in milliseconds before regenerating",
					},
				},
				Action: watchCommand,
			},
			{
				Name:  "version",
				Usage: "Print version, commit and build ID",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprintf(c.App.Writer, "%s\nbuild: %s\n", version.FullInfo(), version.BuildID())
					return err
				},
			},
			{
				Name:  "config",
				Usage: "Configuration management",
				Subcommands: []*cli.Command{
					{
						Name:   "validate",
						Usage:  "Validate the effective configuration",
						Action: configValidateCommand,
					},
				},
			},
		},
	}
}

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		if exitErr, ok := err.(cli.ExitCoder); ok {
			if msg := exitErr.Error(); msg != "" {
				fmt.Fprintln(os.Stderr, msg)
			}
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}
