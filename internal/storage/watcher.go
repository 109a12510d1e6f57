package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Change describes one key whose value differs between two reads of a store
// file.
type Change struct {
	Key      string
	OldValue string
	NewValue string
	Deleted  bool
}

// Watcher reports key-level changes made to a store file by other
// processes. It watches the parent directory because Save replaces the file
// by rename.
type Watcher struct {
	path    string
	fs      *fsnotify.Watcher
	changes chan Change
	errs    chan error
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
	last    map[string]string
}

// Watch starts watching the store file at path.
func Watch(path string) (*Watcher, error) {
	path = filepath.Clean(path)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	last, err := readValues(path)
	if err != nil {
		last = map[string]string{}
	}

	w := &Watcher{
		path:    path,
		fs:      fsw,
		changes: make(chan Change, 16),
		errs:    make(chan error, 4),
		done:    make(chan struct{}),
		last:    last,
	}

	w.wg.Add(1)
	go w.loop()

	return w, nil
}

// Changes delivers key changes in the order they were detected.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Errors delivers reload and watcher failures. Sends never block; excess
// errors are dropped.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops watching and closes the Changes channel.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
		close(w.changes)
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.reload()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

func (w *Watcher) reload() {
	current, err := readValues(w.path)
	if err != nil {
		if !os.IsNotExist(err) {
			w.report(err)
			return
		}
		current = map[string]string{}
	}

	for _, change := range diff(w.last, current) {
		select {
		case w.changes <- change:
		case <-w.done:
			return
		}
	}
	w.last = current
}

func (w *Watcher) report(err error) {
	select {
	case w.errs <- err:
	default:
	}
}

// diff lists changes from old to current sorted by key.
func diff(old, current map[string]string) []Change {
	var out []Change
	for key, value := range current {
		if prev, ok := old[key]; !ok || prev != value {
			out = append(out, Change{Key: key, OldValue: old[key], NewValue: value})
		}
	}
	for key, prev := range old {
		if _, ok := current[key]; !ok {
			out = append(out, Change{Key: key, OldValue: prev, Deleted: true})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
