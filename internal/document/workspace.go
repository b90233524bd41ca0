package document

import (
	"log"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Workspace is the multi-document context: every open Document, plus the
// designated root manifest, per spec §3.
type Workspace struct {
	mu sync.RWMutex

	docs map[string]*Document // canonical URI -> Document

	RootManifestURI  string
	RootManifestPath string
	MemberNames      []string
	MemberURIs       []string

	watcher *fsnotify.Watcher
}

// NewWorkspace constructs an empty Workspace.
func NewWorkspace() *Workspace {
	return &Workspace{docs: make(map[string]*Document)}
}

// Get returns the Document for uri, or nil.
func (w *Workspace) Get(uri string) *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.docs[uri]
}

// Put inserts or replaces the Document for uri.
func (w *Workspace) Put(doc *Document) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.docs[doc.URI] = doc
}

// Remove deletes the Document for uri (handles the *Closed* event).
func (w *Workspace) Remove(uri string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.docs, uri)
}

// All returns every open Document.
func (w *Workspace) All() []*Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Document, 0, len(w.docs))
	for _, d := range w.docs {
		out = append(out, d)
	}
	return out
}

// Root returns the root manifest's Document, or nil if not open.
func (w *Workspace) Root() *Document {
	if w.RootManifestURI == "" {
		return nil
	}
	return w.Get(w.RootManifestURI)
}

// WatchFiles starts an fsnotify watch on the root manifest and lock-file
// paths, delivering a LockChanged-worthy signal on changed whenever either
// file is written outside the editor (e.g. `orizon-pkg add` run from a
// terminal). Grounded on fsnotify's standard watch-loop idiom; the teacher
// itself imports fsnotify as a direct dependency but this server is the
// first in the pack to wire it into a long-lived watch goroutine.
func (w *Workspace) WatchFiles(rootManifestPath, lockfilePath string, onChanged func(path string)) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, p := range []string{rootManifestPath, lockfilePath} {
		if p == "" {
			continue
		}
		if err := watcher.Add(p); err != nil {
			log.Printf("workspace: watch %s: %v", p, err)
		}
	}
	w.watcher = watcher

	done := make(chan struct{})
	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					onChanged(ev.Name)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("workspace: watch error: %v", err)
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}, nil
}
