package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	rberrors "github.com/standardbeagle/rbdoc/internal/errors"
	"github.com/standardbeagle/rbdoc/internal/handlers"
	"github.com/standardbeagle/rbdoc/internal/indexing"
	"github.com/standardbeagle/rbdoc/pkg/pathutil"
)

// reporter prints diagnostics for people. Debug tracing stays in internal/debug.
type reporter struct {
	logger *log.Logger
	root   string
}

func newReporter(w io.Writer, quiet bool, root string) *reporter {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "rbdoc",
	})
	if quiet {
		logger.SetLevel(log.ErrorLevel)
	}
	return &reporter{logger: logger, root: root}
}

func (r *reporter) report(result *indexing.Result) {
	for _, err := range result.Errors.Errors {
		r.fileError(err)
	}
	for _, d := range result.Diagnostics {
		r.diagnostic(d)
	}
}

func (r *reporter) fileError(err error) {
	var fileErr *rberrors.FileError
	if errors.As(err, &fileErr) {
		switch fileErr.Type {
		case rberrors.ErrorTypeFileTooLarge:
			r.logger.Warn("skipped large file", "file", pathutil.ToRelative(fileErr.Path, r.root), "reason", fileErr.Underlying)
			return
		case rberrors.ErrorTypeBinaryFile:
			r.logger.Warn("skipped binary file", "file", pathutil.ToRelative(fileErr.Path, r.root))
			return
		}
	}
	r.logger.Error("file failed", "err", err)
}

func (r *reporter) diagnostic(d handlers.Diagnostic) {
	keyvals := []interface{}{"handler", d.Handler}
	if d.File != "" {
		keyvals = append(keyvals, "at", location(pathutil.ToRelative(d.File, r.root), d.Line))
	}
	switch d.Severity {
	case handlers.SeverityError:
		r.logger.Error(d.Message, keyvals...)
	default:
		r.logger.Warn(d.Message, keyvals...)
	}
}

// watchUpdate logs one regeneration with watcher and parse cache counters.
func (r *reporter) watchUpdate(u indexing.WatchUpdate) {
	keyvals := []interface{}{
		"objects", u.Result.Stats.Objects,
		"took", u.Result.Stats.Duration.Round(time.Millisecond),
	}
	if len(u.Changed) > 0 {
		keyvals = append(keyvals, "changed", len(u.Changed), "events", u.Watch.EventsProcessed, "batches", u.Watch.Batches)
	}
	if u.Watch.ErrorCount > 0 {
		keyvals = append(keyvals, "watch_errors", u.Watch.ErrorCount)
	}
	keyvals = append(keyvals,
		"cached", u.Cache.Entries,
		"cache_hit_rate", fmt.Sprintf("%.0f%%", 100*u.Cache.HitRate()))
	r.logger.Info("documentation updated", keyvals...)
}

func location(file string, line int) string {
	if line <= 0 {
		return file
	}
	return file + ":" + strconv.Itoa(line)
}
