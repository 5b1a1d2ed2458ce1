package policy

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDelay = time.Millisecond * 500

// Watch re-reads the policy file whenever it changes until ctx is done.
// Bursts of events within reloadDelay collapse into one reload.
func (p *Policy) Watch(ctx context.Context) error {
	if p.path == "" {
		return nil
	}
	return watchFile(ctx, p.path, reloadDelay, p.handleReload)
}

// watchFile watches the file's directory so editors that replace the file
// by rename are still seen.
func watchFile(
	ctx context.Context,
	path string,
	delay time.Duration,
	callback func(),
) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	err = watcher.Add(filepath.Dir(path))
	if err != nil {
		_ = watcher.Close()
		return err
	}

	reload := make(chan struct{}, 1)
	go scheduleReload(ctx, reload, delay, callback)
	go handleWatcher(ctx, watcher, filepath.Clean(path), reload)
	return nil
}

func handleWatcher(
	ctx context.Context,
	watcher *fsnotify.Watcher,
	path string,
	reload chan<- struct{},
) {
	defer watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				select {
				case reload <- struct{}{}:
				default:
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("policy watcher error", "err", err)
		}
	}
}

func scheduleReload(
	ctx context.Context,
	reload <-chan struct{},
	delay time.Duration,
	callback func(),
) {
	var timer *time.Timer = nil
	var c <-chan time.Time = nil
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case <-reload:
			if timer != nil {
				timer.Reset(delay)
			} else {
				timer = time.NewTimer(delay)
				c = timer.C
			}

		case <-c:
			c = nil
			timer = nil
			callback()
		}
	}
}
