package prefs

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the store whenever its file changes on disk, until ctx is
// cancelled. The parent directory is watched so atomic saves (rename over the
// file) are seen. A failed reload keeps the previous preferences.
func Watch(ctx context.Context, s *Store, log *slog.Logger) error {
	if s.Path() == "" {
		<-ctx.Done()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	target := filepath.Clean(s.Path())
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}
	log.Info("preferences: watching for changes", "path", target)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := s.Reload(); err != nil {
				log.Error("preferences: reload failed, keeping previous", "path", target, "err", err)
				continue
			}
			log.Debug("preferences: reloaded", "path", target)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("preferences: watcher error", "err", err)
		}
	}
}
