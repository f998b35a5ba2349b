package indexing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/rbdoc/internal/config"
	"github.com/standardbeagle/rbdoc/internal/debug"
)

// FileEventType represents the type of file system event
type FileEventType int

const (
	FileEventCreate FileEventType = iota
	FileEventWrite
	FileEventRemove
	FileEventRename
)

func (t FileEventType) String() string {
	switch t {
	case FileEventCreate:
		return "create"
	case FileEventWrite:
		return "write"
	case FileEventRemove:
		return "remove"
	case FileEventRename:
		return "rename"
	}
	return "unknown"
}

// ChangeFunc receives a debounced batch of changed source paths, sorted.
type ChangeFunc func(paths []string)

// FileWatcher monitors the project tree and reports batches of changed Ruby files
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	config    *config.Config
	debouncer *eventDebouncer
	scanner   *FileScanner
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	onChange ChangeFunc

	// Watch mode statistics
	eventsProcessed int64
	batches         int64
	errorCount      int64
	lastEventTime   time.Time
	statsMu         sync.RWMutex
}

// NewFileWatcher creates a new file watcher
func NewFileWatcher(cfg *config.Config, scanner *FileScanner, onChange ChangeFunc) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	fw := &FileWatcher{
		watcher:  watcher,
		config:   cfg,
		scanner:  scanner,
		ctx:      ctx,
		cancel:   cancel,
		onChange: onChange,
	}
	fw.debouncer = newEventDebouncer(time.Duration(cfg.Watch.DebounceMs)*time.Millisecond, fw.flush)
	return fw, nil
}

// Start begins watching the project root
func (fw *FileWatcher) Start() error {
	root := fw.config.Project.Root
	debug.LogWatch("starting file watcher for %s\n", root)

	if err := fw.addWatches(root); err != nil {
		return fmt.Errorf("failed to add watches starting from %s: %w", root, err)
	}

	fw.wg.Add(1)
	go fw.processEvents()
	return nil
}

// Stop stops the file watcher. Events still waiting in the debouncer are dropped.
func (fw *FileWatcher) Stop() error {
	fw.cancel()

	err := fw.watcher.Close()
	fw.wg.Wait()
	fw.debouncer.stop()

	debug.LogWatch("file watcher stopped\n")
	return err
}

// addWatches recursively adds watches to all relevant directories
func (fw *FileWatcher) addWatches(root string) error {
	// symlink cycles would otherwise loop forever
	visitedDirs := make(map[string]bool)

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return nil
		}

		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return nil
		}
		if visitedDirs[realPath] {
			return filepath.SkipDir
		}
		visitedDirs[realPath] = true

		if path != root && fw.scanner.shouldSkipDir(path) {
			return filepath.SkipDir
		}

		if err := fw.watcher.Add(path); err != nil {
			debug.LogWatch("failed to add watch for %s: %v\n", path, err)
		}
		return nil
	})
}

func (fw *FileWatcher) processEvents() {
	defer fw.wg.Done()

	for {
		select {
		case <-fw.ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.incrementStats(0, 0, 1)
			debug.LogWatch("file watcher error: %v\n", err)
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	info, err := os.Stat(path)
	if err != nil {
		// removed or renamed away
		if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && fw.scanner.ShouldProcessPath(path) {
			fw.debouncer.addEvent(path, FileEventRemove)
		}
		return
	}

	if info.IsDir() {
		if event.Op&fsnotify.Create != 0 && !fw.scanner.shouldSkipDir(path) {
			if err := fw.addWatches(path); err != nil {
				debug.LogWatch("failed to watch new directory %s: %v\n", path, err)
			}
		}
		return
	}

	if info.Size() > fw.config.Index.MaxFileSize || !fw.scanner.ShouldProcessPath(path) {
		return
	}

	var eventType FileEventType
	switch {
	case event.Op&fsnotify.Create != 0:
		eventType = FileEventCreate
	case event.Op&fsnotify.Write != 0:
		eventType = FileEventWrite
	case event.Op&fsnotify.Rename != 0:
		eventType = FileEventRename
	default:
		return
	}

	debug.LogWatch("%s %s\n", eventType, path)
	fw.debouncer.addEvent(path, eventType)
}

func (fw *FileWatcher) flush(events map[string]FileEventType) {
	paths := make([]string, 0, len(events))
	for path := range events {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	fw.incrementStats(int64(len(events)), 1, 0)
	if fw.onChange != nil && fw.ctx.Err() == nil {
		fw.onChange(paths)
	}
}

// eventDebouncer batches file events to avoid regenerating on every write
type eventDebouncer struct {
	events   map[string]FileEventType
	mutex    sync.Mutex
	debounce time.Duration
	timer    *time.Timer
	onFlush  func(map[string]FileEventType)
}

func newEventDebouncer(debounce time.Duration, onFlush func(map[string]FileEventType)) *eventDebouncer {
	return &eventDebouncer{
		events:   make(map[string]FileEventType),
		debounce: debounce,
		onFlush:  onFlush,
	}
}

// addEvent records the latest event for path and restarts the quiet period
func (d *eventDebouncer) addEvent(path string, eventType FileEventType) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.events[path] = eventType

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.debounce, d.flush)
}

func (d *eventDebouncer) stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

func (d *eventDebouncer) flush() {
	d.mutex.Lock()
	events := d.events
	d.events = make(map[string]FileEventType)
	d.mutex.Unlock()

	if len(events) == 0 {
		return
	}
	d.onFlush(events)
}

func (fw *FileWatcher) incrementStats(events, batches, errors int64) {
	fw.statsMu.Lock()
	defer fw.statsMu.Unlock()

	fw.eventsProcessed += events
	fw.batches += batches
	fw.errorCount += errors
	if events > 0 {
		fw.lastEventTime = time.Now()
	}
}

// GetStats returns current watch mode statistics
func (fw *FileWatcher) GetStats() WatchStats {
	fw.statsMu.RLock()
	defer fw.statsMu.RUnlock()

	return WatchStats{
		EventsProcessed: fw.eventsProcessed,
		Batches:         fw.batches,
		ErrorCount:      fw.errorCount,
		LastEventTime:   fw.lastEventTime,
		IsActive:        fw.ctx.Err() == nil,
	}
}

// WatchStats contains statistics about file watching operations
type WatchStats struct {
	EventsProcessed int64
	Batches         int64
	ErrorCount      int64
	LastEventTime   time.Time
	IsActive        bool
}

// WatchUpdate is published after every regeneration in watch mode.
type WatchUpdate struct {
	Result *Result
	Err    error
	// Changed lists the files whose content changed since the previous run.
	Changed []string
	Watch   WatchStats
	Cache   CacheStats
}

// Watch regenerates documentation whenever watched sources change, calling
// publish with each new result. It blocks until ctx is done.
func (g *Generator) Watch(ctx context.Context, publish func(WatchUpdate)) error {
	var (
		mu sync.Mutex
		fw *FileWatcher
	)
	regenerate := func(paths []string) {
		changed := g.Changed(paths)
		if len(changed) == 0 {
			return
		}
		for _, path := range changed {
			if _, err := os.Stat(path); err != nil {
				g.Forget(path)
			}
		}
		mu.Lock()
		defer mu.Unlock()
		debug.LogWatch("regenerating after %d changed files\n", len(changed))
		result, err := g.Run(ctx)
		publish(WatchUpdate{
			Result:  result,
			Err:     err,
			Changed: changed,
			Watch:   fw.GetStats(),
			Cache:   g.CacheStats(),
		})
	}

	fw, err := NewFileWatcher(g.config, g.scanner, regenerate)
	if err != nil {
		return err
	}
	if err := fw.Start(); err != nil {
		_ = fw.Stop()
		return err
	}
	<-ctx.Done()
	return fw.Stop()
}
