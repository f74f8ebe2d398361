package profile

import (
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watch watches dir (typically a user-supplied extension profiles
// directory) for changes and invokes onChange whenever an entry
// directly inside dir is created, written, removed, or renamed. The
// watch is not recursive: edits to files inside the per-profile
// subdirectories of dir are not reported. The
// Registry itself stays immutable; callers that want to react to a
// changed extension directory should call Load again and swap in the
// new Registry, which onChange is the hook for.
//
// Watch runs until stop is closed or an unrecoverable watcher error
// occurs; it always closes the underlying watcher before returning.
func Watch(dir string, onChange func(), stop <-chan struct{}, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	for {
		select {
		case <-stop:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug("profiles directory changed", slog.String("path", event.Name), slog.String("op", event.Op.String()))
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("profiles directory watch error", slog.String("error", err.Error()))
		}
	}
}
