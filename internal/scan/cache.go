package scan

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Cache memoizes a Walk over root until fsnotify reports a filesystem
// change beneath it, so a repeated caller (get_all_diagnostics re-scanning
// on each invocation) doesn't re-walk a large tree on every call.
type Cache struct {
	root string
	opts Options

	mu    sync.Mutex
	files []string
	valid bool

	watcher *fsnotify.Watcher
	closed  chan struct{}
}

// NewCache starts watching root for changes and returns a Cache whose
// Files() result is invalidated whenever something beneath root is
// created, removed, or renamed. If the watcher fails to start (e.g. too
// many open files), the Cache still works correctly, just without
// memoization — every Files() call re-walks.
func NewCache(root string, opts Options) *Cache {
	c := &Cache{root: root, opts: opts, closed: make(chan struct{})}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return c
	}
	c.watcher = w
	seen := map[string]bool{root: true}
	_ = w.Add(root)
	_ = Walk(root, Options{}, func(path string) bool {
		dir := filepath.Dir(path)
		if !seen[dir] {
			seen[dir] = true
			_ = w.Add(dir)
		}
		return true
	})

	go c.invalidateOnEvent()
	return c
}

func (c *Cache) invalidateOnEvent() {
	for {
		select {
		case _, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			c.mu.Lock()
			c.valid = false
			c.mu.Unlock()
		case _, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
		case <-c.closed:
			return
		}
	}
}

// Files returns the cached file list, re-walking root first if no walk
// has happened yet or a watched change invalidated the prior result.
func (c *Cache) Files() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid || c.watcher == nil {
		c.files = All(c.root, c.opts)
		c.valid = true
		if c.watcher != nil {
			for _, f := range c.files {
				_ = c.watcher.Add(filepath.Dir(f))
			}
		}
	}
	return c.files
}

// Close stops the underlying watcher.
func (c *Cache) Close() error {
	close(c.closed)
	if c.watcher != nil {
		return c.watcher.Close()
	}
	return nil
}

var caches sync.Map // root and options -> *Cache

// CachedAll is All backed by a process-lifetime Cache per root and
// options, so get_all_diagnostics' repeated enumeration of the same server
// root across calls re-walks only after a real filesystem change.
func CachedAll(root string, opts Options) []string {
	key := fmt.Sprintf("%s\x00%v", root, opts)
	v, ok := caches.Load(key)
	if !ok {
		v, _ = caches.LoadOrStore(key, NewCache(root, opts))
	}
	return v.(*Cache).Files()
}
