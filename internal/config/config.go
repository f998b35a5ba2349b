package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Size limits applied when the config does not set them.
const (
	DefaultMaxFileSize  = 2 * 1024 * 1024
	DefaultMaxFileCount = 20000
	DefaultDebounceMs   = 300
)

// Output formats understood by the generate command.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// FileName is the per-project (and per-user, in $HOME) config file.
const FileName = ".rbdoc.kdl"

type Config struct {
	Version     int
	Project     Project
	Index       Index
	Performance Performance
	Output      Output
	Handlers    Handlers
	Watch       Watch
	Include     []string
	Exclude     []string
}

type Project struct {
	Root string
	Name string
}

type Index struct {
	MaxFileSize      int64
	MaxFileCount     int
	FollowSymlinks   bool
	RespectGitignore bool // Add .gitignore patterns to the exclusions
}

type Performance struct {
	MaxWorkers int // Parallel parse workers, 0 = auto-detect
}

type Output struct {
	Format string // text, json, yaml or toml
	Path   string // Empty writes to stdout
	// Markdown renders free docstring text as markdown in text output
	Markdown bool
}

// Handlers tunes declaration handling.
type Handlers struct {
	StrictDuplicateFields bool
	// EmbedMixins lists mixes_in_class_methods modules under the class in text output
	EmbedMixins bool
}

type Watch struct {
	DebounceMs int
}

// Load reads ~/.rbdoc.kdl and <rootDir>/.rbdoc.kdl and merges them, project
// settings first. An empty rootDir means the working directory. Without any
// file the defaults are returned.
func Load(rootDir string) (*Config, error) {
	searchDir := "."
	if rootDir != "" {
		searchDir = rootDir
	}

	homeDir, err := os.UserHomeDir()
	var baseConfig *Config
	if err == nil && homeDir != searchDir {
		if globalCfg, err := LoadKDL(homeDir); err == nil && globalCfg != nil {
			baseConfig = globalCfg
		}
	}

	projectConfig, err := LoadKDL(searchDir)
	if err != nil {
		return nil, err
	}

	switch {
	case baseConfig != nil && projectConfig != nil:
		return mergeConfigs(baseConfig, projectConfig), nil
	case projectConfig != nil:
		return projectConfig, nil
	case baseConfig != nil:
		baseConfig.Project.Root = absOrSelf(searchDir)
		return baseConfig, nil
	}

	cfg := Default()
	cfg.Project.Root = absOrSelf(searchDir)
	return cfg, nil
}

// Default returns the built-in configuration rooted at the working directory.
func Default() *Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &Config{
		Version: 1,
		Project: Project{Root: cwd},
		Index: Index{
			MaxFileSize:      DefaultMaxFileSize,
			MaxFileCount:     DefaultMaxFileCount,
			FollowSymlinks:   false,
			RespectGitignore: true,
		},
		Performance: Performance{
			MaxWorkers: runtime.NumCPU(),
		},
		Output: Output{
			Format: FormatText,
		},
		Watch: Watch{
			DebounceMs: DefaultDebounceMs,
		},
		Include: []string{"**/*.rb", "**/*.rbi"},
		Exclude: getDefaultExclusions(),
	}
}

// mergeConfigs merges a base config with a project config.
// Project config takes precedence, but base exclusions are preserved.
func mergeConfigs(base, project *Config) *Config {
	merged := *project

	if len(base.Exclude) > 0 {
		seen := make(map[string]bool, len(base.Exclude)+len(project.Exclude))
		merged.Exclude = make([]string, 0, len(base.Exclude)+len(project.Exclude))
		for _, pattern := range append(append([]string{}, base.Exclude...), project.Exclude...) {
			if !seen[pattern] {
				seen[pattern] = true
				merged.Exclude = append(merged.Exclude, pattern)
			}
		}
	}

	if len(project.Include) == 0 && len(base.Include) > 0 {
		merged.Include = base.Include
	}
	return &merged
}

func projectName(root string) string {
	name := filepath.Base(root)
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}
