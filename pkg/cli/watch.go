package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pclint/pclint/internal/analysis"
)

// watchAndLint lints the files once, then re-lints whichever file changes.
// It blocks until the watcher fails or the process is interrupted.
func watchAndLint(files []string, opts analysis.Options) int {
	printer := newPrinter(os.Stdout)
	watched := make(map[string]bool, len(files))
	for _, path := range files {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		watched[abs] = true
		if _, err := lintFile(path, opts, printer); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			return 2
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 2
	}
	defer watcher.Close()

	// Watch directories rather than files: editors replace files on save,
	// which drops a file-level watch.
	dirs := make(map[string]bool)
	for path := range watched {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: watching %s: %s\n", dir, err)
			return 2
		}
	}

	// Debounce: editors emit bursts of writes for one save.
	var pending map[string]bool
	var timer *time.Timer
	relint := make(chan struct{}, 1)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return 0
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				abs = ev.Name
			}
			if !watched[abs] {
				continue
			}
			if pending == nil {
				pending = make(map[string]bool)
			}
			pending[abs] = true
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(100*time.Millisecond, func() {
				select {
				case relint <- struct{}{}:
				default:
				}
			})

		case <-relint:
			changed := pending
			pending = nil
			for path := range changed {
				fmt.Fprintf(os.Stdout, "-- %s\n", path)
				if _, err := lintFile(path, opts, printer); err != nil {
					fmt.Fprintf(os.Stderr, "Error: %s\n", err)
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return 0
			}
			fmt.Fprintf(os.Stderr, "Error: watcher: %s\n", err)
		}
	}
}
