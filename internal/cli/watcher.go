package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/colourpeek/internal/asset"
)

// spriteOps are the filesystem events that can change a sprite.
const spriteOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// packWatcher reports which objects of a pack directory changed.
type packWatcher struct {
	w      *fsnotify.Watcher
	logger hclog.Logger
}

func newPackWatcher(root string, logger hclog.Logger) (*packWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	pw := &packWatcher{w: w, logger: logger.Named("watch")}
	if err := pw.addTree(root); err != nil {
		w.Close()
		return nil, err
	}
	return pw, nil
}

// addTree watches dir and every directory below it.
func (pw *packWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := pw.w.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		pw.logger.Trace("watching directory", "path", p)
		return nil
	})
}

func (pw *packWatcher) Close() error {
	return pw.w.Close()
}

// Run delivers the sorted names of changed objects to onChange. Events are
// batched until delay passes without a further change. Run returns when ctx
// is done or the watcher is closed.
func (pw *packWatcher) Run(ctx context.Context, delay time.Duration, onChange func(names []string)) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-pw.w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := pw.addTree(ev.Name); err != nil {
						pw.logger.Warn("failed to watch new directory", "path", ev.Name, "error", err)
					}
					continue
				}
			}
			if ev.Op&spriteOps == 0 {
				continue
			}
			name, ok := asset.ObjectName(ev.Name)
			if !ok {
				continue
			}
			pw.logger.Debug("sprite changed", "path", ev.Name, "op", ev.Op.String(), "object", name)
			pending[name] = struct{}{}
			timer.Reset(delay)

		case err, ok := <-pw.w.Errors:
			if !ok {
				return nil
			}
			pw.logger.Warn("watch error", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			names := make([]string, 0, len(pending))
			for name := range pending {
				names = append(names, name)
			}
			slices.Sort(names)
			clear(pending)
			onChange(names)
		}
	}
}
