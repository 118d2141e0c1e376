// Package watcher keeps an open session in sync with its backing files.
//
// Two independent watches exist per open document: one on the
// configuration file and one on its currently-attached schema file. A
// change to the config file triggers an authoritative reload, discarding
// unsaved edits (external edits win); a change to the schema file
// reloads only the schema. A deleted config file invalidates the session
// outright; a deleted schema file just clears the schema.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/conftree/conftree/internal/logging"
	"github.com/conftree/conftree/internal/session"
)

// Watcher watches one session's config and schema files.
type Watcher struct {
	watcher *fsnotify.Watcher
	sess    *session.Session

	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	mu      sync.Mutex
}

// New creates a watcher for the session. Directories are watched rather
// than the files themselves: editors that replace files via rename drop
// direct file watches on some platforms.
func New(sess *session.Session) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dirs := map[string]bool{filepath.Dir(sess.File()): true}
	if cs := sess.Schema(); cs != nil {
		dirs[filepath.Dir(cs.Path())] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, err
		}
	}

	return &Watcher{
		watcher: w,
		sess:    sess,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Start begins dispatching file events to the session.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()
	go w.run()
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.dispatch(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Error().Err(err).Msg("file watcher error")
		}
	}
}

func (w *Watcher) dispatch(ev fsnotify.Event) {
	name := ev.Name
	switch {
	case name == w.sess.File():
		if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
			// Rename may be an editor's atomic save; only a file that
			// is really gone invalidates the session.
			if !exists(name) {
				w.sess.Invalidate()
				return
			}
		}
		if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
			if err := w.sess.Reload(context.Background()); err != nil {
				logging.Warn().Str("file", name).Err(err).Msg("external change failed to reload")
			}
		}

	case w.isSchemaFile(name):
		if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && !exists(name) {
			w.sess.DetachSchema()
			return
		}
		if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
			w.sess.ReloadSchema(context.Background())
		}
	}
}

func (w *Watcher) isSchemaFile(name string) bool {
	cs := w.sess.Schema()
	return cs != nil && name == cs.Path()
}

// Stop halts event dispatch and releases the underlying watch.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()

	select {
	case <-w.stopCh:
	default:
		close(w.stopCh)
	}
	if started {
		<-w.doneCh
	}
	return w.watcher.Close()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
