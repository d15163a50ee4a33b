package textsync

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileEdit is the content of the watched file after an external save.
type FileEdit struct {
	Path string
	Text string
	Err  error
}

// Watcher reports saves of one stage-list file made by an outside editor, so
// they can go through the same Edit path as keystrokes.
type Watcher struct {
	Path  string
	Edits <-chan FileEdit

	edits   chan FileEdit
	stop    chan struct{}
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher watches the directory holding path: editors commonly replace a
// file on save, which drops a watch placed on the file itself.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	ch := make(chan FileEdit, 4)
	w := &Watcher{
		Path:    abs,
		Edits:   ch,
		edits:   ch,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		watcher: fw,
	}
	go w.loop()
	return w, nil
}

// Stop closes the watcher and the Edits channel.
func (w *Watcher) Stop() {
	close(w.stop)
	w.watcher.Close()
	<-w.done
	close(w.edits)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: editors often emit several writes per save.
	const debounce = 100 * time.Millisecond
	var pending time.Time
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pending = time.Now()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if !w.send(FileEdit{Path: w.Path, Err: err}) {
				return
			}

		case <-ticker.C:
			if pending.IsZero() || time.Since(pending) < debounce {
				continue
			}
			pending = time.Time{}
			data, err := os.ReadFile(w.Path)
			if !w.send(FileEdit{Path: w.Path, Text: string(data), Err: err}) {
				return
			}
		}
	}
}

func (w *Watcher) send(e FileEdit) bool {
	select {
	case w.edits <- e:
		return true
	case <-w.stop:
		return false
	}
}
