package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/standardbeagle/rbdoc/internal/debug"
	rberrors "github.com/standardbeagle/rbdoc/internal/errors"
)

// LoadKDL loads projectRoot/.rbdoc.kdl. A missing file yields (nil, nil).
func LoadKDL(projectRoot string) (*Config, error) {
	kdlPath := filepath.Join(projectRoot, FileName)

	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return nil, nil
	}

	content, err := os.ReadFile(kdlPath)
	if err != nil {
		return nil, rberrors.NewConfigError("file", kdlPath, err)
	}

	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, err
	}

	// A relative root is relative to the directory holding the config file
	if cfg.Project.Root != "" {
		if !filepath.IsAbs(cfg.Project.Root) {
			cfg.Project.Root = filepath.Join(projectRoot, cfg.Project.Root)
		}
		cfg.Project.Root = filepath.Clean(cfg.Project.Root)
	} else {
		cfg.Project.Root = absOrSelf(projectRoot)
	}
	return cfg, nil
}

func absOrSelf(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

func parseKDL(content string) (*Config, error) {
	cfg := Default()
	// LoadKDL resolves the root against the config file's directory
	cfg.Project.Root = ""

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, rberrors.NewConfigError("kdl", "", fmt.Errorf("failed to parse KDL config: %w", err))
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children { // project { root "." name "foo" }
				assignSimpleString(cn, "root", func(v string) { cfg.Project.Root = v })
				assignSimpleString(cn, "name", func(v string) { cfg.Project.Name = v })
			}
		case "index":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_file_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Index.MaxFileSize = int64(v)
					}
					if s, ok := firstStringArg(cn); ok {
						sz, err := parseSize(s)
						if err != nil {
							return nil, rberrors.NewConfigError("index.max_file_size", s, err)
						}
						cfg.Index.MaxFileSize = sz
					}
				case "max_file_count":
					if v, ok := firstIntArg(cn); ok {
						cfg.Index.MaxFileCount = v
					}
				case "follow_symlinks":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Index.FollowSymlinks = b
					}
				case "respect_gitignore":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Index.RespectGitignore = b
					}
				}
			}
		case "respect_gitignore":
			if b, ok := firstBoolArg(n); ok {
				cfg.Index.RespectGitignore = b
			}
		case "performance":
			for _, cn := range n.Children {
				if nodeName(cn) == "max_workers" {
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.MaxWorkers = v
					}
				}
			}
		case "output":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "format":
					if s, ok := firstStringArg(cn); ok {
						cfg.Output.Format = strings.ToLower(s)
					}
				case "path":
					if s, ok := firstStringArg(cn); ok {
						cfg.Output.Path = s
					}
				case "markdown":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Output.Markdown = b
					}
				}
			}
		case "handlers":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "strict_duplicate_fields":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Handlers.StrictDuplicateFields = b
					}
				case "embed_mixins":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Handlers.EmbedMixins = b
					}
				}
			}
		case "watch":
			for _, cn := range n.Children {
				if nodeName(cn) == "debounce_ms" {
					if v, ok := firstIntArg(cn); ok {
						cfg.Watch.DebounceMs = v
					}
				}
			}
		case "include":
			if patterns := collectStringArgs(n); len(patterns) > 0 {
				cfg.Include = patterns
			}
		case "exclude":
			cfg.Exclude = DeduplicatePatterns(append(cfg.Exclude, collectStringArgs(n)...))
		default:
			debug.Log("CONFIG", "ignoring unknown config node %q\n", nodeName(n))
		}
	}
	return cfg, nil
}

// Helper functions over the kdl-go document model
func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

// collectStringArgs reads `include "a" "b"` as well as the block form
// `include { "a"; "b" }`, where each child node's name is the value.
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(n.Children) > 0 {
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}

// parseSize handles size strings like "10MB", "500KB", "1GB"
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	numStr := s
	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		numStr = strings.TrimSuffix(s, "B")
	}

	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return 0, err
	}
	return num * multiplier, nil
}

// DeduplicatePatterns drops repeated patterns, keeping first occurrences.
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]bool, len(patterns))
	out := patterns[:0]
	for _, p := range patterns {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

func getDefaultExclusions() []string {
	return []string{
		// VCS and editor metadata
		"**/.git/**",
		"**/.idea/**",
		"**/.vscode/**",

		// Bundler and vendored gems
		"**/.bundle/**",
		"**/vendor/**",
		"**/node_modules/**",

		// Build and runtime output
		"**/pkg/**",
		"**/tmp/**",
		"**/log/**",
		"**/coverage/**",
		"**/doc/**",
		"**/.yardoc/**",

		// Sorbet generated interface files
		"**/sorbet/rbi/gems/**",
		"**/sorbet/rbi/dsl/**",
	}
}
