// Package watch notices changes to the CSV export directory so watch mode
// can re-run the report on fresh data.
package watch

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/pzhong/go-aqi-monitor/internal/core/model"
	"github.com/pzhong/go-aqi-monitor/internal/util"
)

type FileWatcher struct {
	watcher *fsnotify.Watcher
	events  chan model.FileEvent
}

func NewFileWatcher(paths []string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher: watcher,
		events:  make(chan model.FileEvent, 100),
	}

	for _, path := range paths {
		if err := fw.addPath(path); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	go fw.processEvents()

	return fw, nil
}

func (fw *FileWatcher) addPath(path string) error {
	// Recursively add directories
	return filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		if info.IsDir() {
			return fw.watcher.Add(p)
		}

		return nil
	})
}

func (fw *FileWatcher) processEvents() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			// Only CSV exports matter
			if strings.EqualFold(filepath.Ext(event.Name), ".csv") {
				fw.events <- model.FileEvent{
					Path:      event.Name,
					Operation: event.Op.String(),
				}
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

func (fw *FileWatcher) Events() <-chan model.FileEvent {
	return fw.events
}

func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
