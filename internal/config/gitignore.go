package config

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GitignoreParser matches paths against .gitignore rules.
// Patterns are translated to doublestar globs; later rules win, so a
// negated pattern re-includes what an earlier one excluded.
type GitignoreParser struct {
	patterns []GitignorePattern
}

type GitignorePattern struct {
	Pattern   string
	Negate    bool
	Directory bool
	Absolute  bool

	glob string
}

func NewGitignoreParser() *GitignoreParser {
	return &GitignoreParser{}
}

// LoadGitignore loads rootPath/.gitignore. A missing file is not an error.
func (gp *GitignoreParser) LoadGitignore(rootPath string) error {
	file, err := os.Open(filepath.Join(rootPath, ".gitignore"))
	if err != nil {
		return nil
	}
	defer file.Close()
	return gp.Read(file)
}

// Read parses gitignore rules from r.
func (gp *GitignoreParser) Read(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		gp.AddPattern(line)
	}
	return scanner.Err()
}

// AddPattern adds a single gitignore rule.
func (gp *GitignoreParser) AddPattern(line string) {
	p := GitignorePattern{}
	if strings.HasPrefix(line, "!") {
		p.Negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.Directory = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.Absolute = true
		line = strings.TrimPrefix(line, "/")
	} else if strings.Contains(line, "/") {
		// a slash in the middle anchors the pattern too
		p.Absolute = true
	}
	p.Pattern = line
	p.glob = toGlob(p)
	gp.patterns = append(gp.patterns, p)
}

func toGlob(p GitignorePattern) string {
	glob := p.Pattern
	if !p.Absolute {
		glob = "**/" + glob
	}
	return glob
}

// ShouldIgnore reports whether a slash-separated path relative to the
// repository root is ignored.
func (gp *GitignoreParser) ShouldIgnore(path string, isDir bool) bool {
	path = strings.TrimPrefix(filepath.ToSlash(path), "./")
	ignored := false
	for _, p := range gp.patterns {
		if gp.matches(p, path, isDir) {
			ignored = !p.Negate
		}
	}
	return ignored
}

func (gp *GitignoreParser) matches(p GitignorePattern, path string, isDir bool) bool {
	if !p.Directory || isDir {
		if ok, _ := doublestar.Match(p.glob, path); ok {
			return true
		}
	}
	// anything below a matching directory is ignored as well
	if ok, _ := doublestar.Match(p.glob+"/**", path); ok {
		return true
	}
	return false
}
