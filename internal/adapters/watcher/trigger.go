package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/genie/internal/core/ports"
)

// Trigger signals on C whenever the content of a file below the watched root
// changes. Bursts of changes within the debounce window produce one signal,
// and signals are never queued beyond one.
type Trigger struct {
	watcher ports.Watcher
	filter  *ContentFilter
	window  time.Duration
	ignore  []string
	logger  ports.Logger
	c       chan struct{}
}

// TriggerOption configures a Trigger.
type TriggerOption func(*Trigger)

// WithIgnore drops events for the given paths and everything below them.
func WithIgnore(paths ...string) TriggerOption {
	return func(t *Trigger) {
		for _, p := range paths {
			if abs, err := filepath.Abs(p); err == nil {
				p = abs
			}
			t.ignore = append(t.ignore, filepath.Clean(p))
		}
	}
}

// NewTrigger creates a trigger fed by watcher.
func NewTrigger(watcher ports.Watcher, window time.Duration, logger ports.Logger, opts ...TriggerOption) *Trigger {
	t := &Trigger{
		watcher: watcher,
		filter:  NewContentFilter(),
		window:  window,
		logger:  logger,
		c:       make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// C receives one value per debounced batch of changes.
func (t *Trigger) C() <-chan struct{} {
	return t.c
}

// Run watches root until ctx is done.
func (t *Trigger) Run(ctx context.Context, root string) error {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	if err := t.watcher.Start(ctx, root); err != nil {
		return err
	}
	defer func() { _ = t.watcher.Stop() }()

	debouncer := NewDebouncer(t.window, t.signal)
	defer debouncer.Stop()

	t.logger.Info(fmt.Sprintf("watching %s for changes", root))
	for event := range t.watcher.Events() {
		if t.ignored(event.Path) || !t.filter.Changed(event.Path) {
			continue
		}
		debouncer.Add(event.Path)
	}
	return nil
}

func (t *Trigger) signal(paths []string) {
	t.logger.Debug(fmt.Sprintf("%d changed file(s), first %s", len(paths), paths[0]))
	select {
	case t.c <- struct{}{}:
	default:
	}
}

func (t *Trigger) ignored(path string) bool {
	path = filepath.Clean(path)
	for _, prefix := range t.ignore {
		if path == prefix || strings.HasPrefix(path, prefix+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
