package watcher

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Event is a change to one of the watched state files
type Event struct {
	Path string
	Name string
	Op   string
}

// Watcher watches the per-user state directory for changes to the files
// that drive the toggle state
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dir       string
	names     map[string]bool
	events    chan Event
	errors    chan error
	done      chan struct{}
}

// New creates a Watcher on dir reporting changes to the named files only
func New(dir string, names ...string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		dir:       dir,
		names:     make(map[string]bool, len(names)),
		events:    make(chan Event, 100),
		errors:    make(chan error, 10),
		done:      make(chan struct{}),
	}
	for _, name := range names {
		w.names[name] = true
	}

	return w, nil
}

// Start begins watching; the directory is created if missing
func (w *Watcher) Start() error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	if err := w.fsWatcher.Add(w.dir); err != nil {
		return err
	}

	go w.watchLoop()
	return nil
}

// Events returns the channel of file events
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of errors
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if len(w.names) > 0 && !w.names[name] {
		return
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	select {
	case w.events <- Event{Path: event.Name, Name: name, Op: event.Op.String()}:
	case <-w.done:
	}
}
