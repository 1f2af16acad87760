package fs

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"assessrec/internal/logger"
)

// Watcher reports changes to files accepted by a Matcher, coalescing bursts of events.
type Watcher struct {
	watcher  *fsnotify.Watcher
	matcher  *Matcher
	debounce time.Duration
	log      *zap.Logger
}

// NewWatcher watches the directories of matcher's patterns.
func NewWatcher(matcher *Matcher, debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range matcher.Dirs() {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, err
		}
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		watcher:  w,
		matcher:  matcher,
		debounce: debounce,
		log:      logger.OrNop(log),
	}, nil
}

// Run calls onChange once per quiet period after matching files are created,
// written, renamed or removed. It returns when ctx is done.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !w.matcher.Match(event.Name) {
				continue
			}
			w.log.Debug("catalogue file changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			onChange()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
