package indexing

import (
	"context"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/rbdoc/internal/ast"
	"github.com/standardbeagle/rbdoc/internal/config"
	"github.com/standardbeagle/rbdoc/internal/debug"
	"github.com/standardbeagle/rbdoc/internal/docdb"
	rberrors "github.com/standardbeagle/rbdoc/internal/errors"
	"github.com/standardbeagle/rbdoc/internal/handlers"
	"github.com/standardbeagle/rbdoc/internal/parser"
)

// Stats summarizes a generation run.
type Stats struct {
	FilesScanned int
	FilesParsed  int
	FilesSkipped int
	ParseErrors  int
	CacheHits    int
	Objects      int
	Diagnostics  int
	Duration     time.Duration
}

// Result is the output of one generation run.
type Result struct {
	DB          *docdb.Database
	Files       []string
	Diagnostics []handlers.Diagnostic
	// Errors holds files that could not be read or parsed. They never abort a
	// run; callers decide whether they are fatal.
	Errors *rberrors.MultiError
	Stats  Stats
}

// HasErrors reports whether any file failed or a handler reported an error.
func (r *Result) HasErrors() bool {
	if r.Errors.ErrorOrNil() != nil {
		return true
	}
	for _, d := range r.Diagnostics {
		if d.Severity == handlers.SeverityError {
			return true
		}
	}
	return false
}

// Generator builds a documentation database from a project tree.
//
// Files are read and parsed in parallel, then handed to a single
// handlers.Processor in path order so output does not depend on scheduling.
// Parses are cached by content hash across runs of the same generator.
type Generator struct {
	config  *config.Config
	scanner *FileScanner
	cache   *parseCache
}

// NewGenerator creates a generator for cfg.
func NewGenerator(cfg *config.Config) *Generator {
	return &Generator{
		config:  cfg,
		scanner: NewFileScanner(cfg),
		cache:   newParseCache(),
	}
}

// Run scans the project root and documents every selected file.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	scan, err := g.scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}
	result, err := g.Build(ctx, scan.Files)
	if err != nil {
		return nil, err
	}
	result.Stats.FilesSkipped += len(scan.Skipped)
	result.Errors.Errors = append(result.Errors.Errors, scan.Skipped...)
	return result, nil
}

type parsedFile struct {
	file   *ast.File
	cached bool
	err    error
}

// Build documents exactly the given files, in the given order.
func (g *Generator) Build(ctx context.Context, files []string) (*Result, error) {
	start := time.Now()
	parsed := make([]parsedFile, len(files))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers())
	for i, path := range files {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			parsed[i] = g.parseFile(path)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	db := docdb.New()
	proc := handlers.NewProcessor(db, handlers.Options{
		StrictDuplicateFields: g.config.Handlers.StrictDuplicateFields,
	})

	result := &Result{DB: db, Files: files, Errors: rberrors.NewMultiError(nil)}
	result.Stats.FilesScanned = len(files)
	for _, pf := range parsed {
		if pf.err != nil {
			result.Errors.Errors = append(result.Errors.Errors, pf.err)
			result.Stats.FilesSkipped++
			continue
		}
		if pf.file.HasErrors {
			result.Stats.ParseErrors++
		}
		if pf.cached {
			result.Stats.CacheHits++
		}
		proc.ProcessFile(pf.file)
		result.Stats.FilesParsed++
	}

	result.Diagnostics = proc.Finish()
	result.Stats.Objects = db.Len()
	result.Stats.Diagnostics = len(result.Diagnostics)
	result.Stats.Duration = time.Since(start)

	debug.Log("GENERATE", "documented %d files, %d objects, %d diagnostics in %v\n",
		result.Stats.FilesParsed, result.Stats.Objects, result.Stats.Diagnostics, result.Stats.Duration)
	return result, nil
}

func (g *Generator) workers() int {
	if g.config.Performance.MaxWorkers > 0 {
		return g.config.Performance.MaxWorkers
	}
	return 1
}

func (g *Generator) parseFile(path string) parsedFile {
	content, err := os.ReadFile(path)
	if err != nil {
		return parsedFile{err: rberrors.NewFileError("read", path, err)}
	}
	if isBinary(content) {
		return parsedFile{err: rberrors.NewBinaryFileError(path)}
	}
	if file, ok := g.cache.get(path, xxhash.Sum64(content)); ok {
		return parsedFile{file: file, cached: true}
	}

	p, err := parser.GetParser()
	if err != nil {
		return parsedFile{err: rberrors.NewParseError(path, 0, err)}
	}
	defer parser.ReleaseParser(p)

	file, err := p.Parse(path, content)
	if err != nil {
		return parsedFile{err: err}
	}
	g.cache.put(file)
	return parsedFile{file: file}
}

// Changed returns the paths whose content differs from the last build, including
// paths that were added or can no longer be read.
func (g *Generator) Changed(paths []string) []string {
	var changed []string
	for _, path := range paths {
		sum, known := g.cache.hash(path)
		content, err := os.ReadFile(path)
		if err != nil {
			if known {
				changed = append(changed, path)
			}
			continue
		}
		if !known || sum != xxhash.Sum64(content) {
			changed = append(changed, path)
		}
	}
	return changed
}

// Forget drops the cached parse of a removed file.
func (g *Generator) Forget(path string) {
	g.cache.remove(path)
}

// CacheStats reports how many parses were reused across runs.
func (g *Generator) CacheStats() CacheStats {
	return g.cache.stats()
}

// binarySniffLen bounds how much of a file isBinary inspects.
const binarySniffLen = 8 * 1024

// isBinary reports whether content looks like binary data: any NUL byte, or
// more than 30% control characters other than tab, LF and CR.
func isBinary(content []byte) bool {
	if len(content) > binarySniffLen {
		content = content[:binarySniffLen]
	}
	if len(content) == 0 {
		return false
	}
	nonPrintable := 0
	for _, b := range content {
		if b == 0 {
			return true
		}
		if b < 9 || (b > 13 && b < 32) || b == 127 {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(content)) > 0.3
}
