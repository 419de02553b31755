package commands

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	vmxerrors "github.com/thoreinstein/vmx/internal/errors"
)

// monitorSettingsFile blocks until the daemon settings file changes or
// ctx is cancelled. A change makes the daemon quit with a dedicated
// exit code so the service manager restarts it with fresh settings.
//
// The parent directory is watched rather than the file itself: settings
// writes replace the file by rename, which would silently break a watch
// on the old inode.
func monitorSettingsFile(ctx context.Context, path string, log *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return vmxerrors.NewSystemError(err, "")
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return vmxerrors.NewSystemError(err, "")
	}

	log.Debug("watching settings file", "path", path)

	for {
		select {
		case <-ctx.Done():
			log.Info("vmxd stopping")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			log.Info("settings changed, quitting to reload", "event", event.Op.String())
			return vmxerrors.NewExitError(vmxerrors.ErrSettingsChanged, vmxerrors.ExitSettingsChanged)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return vmxerrors.NewSystemError(watchErr, "")
		}
	}
}
