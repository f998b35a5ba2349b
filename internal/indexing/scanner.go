package indexing

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/rbdoc/internal/config"
	"github.com/standardbeagle/rbdoc/internal/debug"
	rberrors "github.com/standardbeagle/rbdoc/internal/errors"
)

// FileScanner finds the Ruby sources a run should document.
type FileScanner struct {
	config          *config.Config
	gitignoreParser *config.GitignoreParser
}

// NewFileScanner creates a scanner for cfg, loading .gitignore when enabled.
func NewFileScanner(cfg *config.Config) *FileScanner {
	s := &FileScanner{config: cfg}
	if cfg.Index.RespectGitignore {
		gp := config.NewGitignoreParser()
		if err := gp.LoadGitignore(cfg.Project.Root); err != nil {
			debug.Log("SCAN", "failed to read .gitignore: %v\n", err)
		} else {
			s.gitignoreParser = gp
		}
	}
	return s
}

// ScanResult lists the files to process, sorted, plus files that were skipped
// with an error (too large, unreadable).
type ScanResult struct {
	Files   []string
	Skipped []error
}

// Scan walks the project root.
func (s *FileScanner) Scan(ctx context.Context) (*ScanResult, error) {
	root := s.config.Project.Root
	result := &ScanResult{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			result.Skipped = append(result.Skipped, rberrors.NewFileError("walk", path, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && s.shouldSkipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 && !s.config.Index.FollowSymlinks {
			return nil
		}

		if !s.ShouldProcessPath(path) {
			return nil
		}
		info, err := os.Stat(path)
		if err != nil {
			result.Skipped = append(result.Skipped, rberrors.NewFileError("stat", path, err))
			return nil
		}
		if info.Size() > s.config.Index.MaxFileSize {
			result.Skipped = append(result.Skipped, rberrors.NewFileTooLargeError(path, info.Size(), s.config.Index.MaxFileSize))
			return nil
		}
		if len(result.Files) >= s.config.Index.MaxFileCount {
			debug.Log("SCAN", "file limit %d reached, skipping %s\n", s.config.Index.MaxFileCount, path)
			return nil
		}
		result.Files = append(result.Files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(result.Files)
	debug.Log("SCAN", "found %d files under %s\n", len(result.Files), root)
	return result, nil
}

// relative returns path relative to the project root with forward slashes.
func (s *FileScanner) relative(path string) string {
	rel, err := filepath.Rel(s.config.Project.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (s *FileScanner) excluded(rel string) bool {
	for _, pattern := range s.config.Exclude {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

func (s *FileScanner) shouldSkipDir(path string) bool {
	rel := s.relative(path)
	// exclusions are written as dir/** so test a path inside the directory
	if s.excluded(rel) || s.excluded(rel+"/_") {
		return true
	}
	return s.gitignoreParser != nil && s.gitignoreParser.ShouldIgnore(rel, true)
}

// ShouldProcessPath reports whether a file path passes the include, exclude
// and gitignore filters. Size limits are checked separately.
func (s *FileScanner) ShouldProcessPath(path string) bool {
	rel := s.relative(path)
	if strings.HasPrefix(rel, "../") {
		return false
	}
	if s.excluded(rel) {
		return false
	}
	if s.gitignoreParser != nil && s.gitignoreParser.ShouldIgnore(rel, false) {
		return false
	}
	if len(s.config.Include) == 0 {
		return filepath.Ext(path) == ".rb"
	}
	for _, pattern := range s.config.Include {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}
