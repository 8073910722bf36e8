// Package cache holds the most recently extracted routes per file.
package cache

import (
	"os"
	"strings"
	"sync"

	"github.com/Aman-s12345/routelens/internal/route"
)

// Routes maps a file path to the routes last extracted from it.
// It is safe for concurrent use; a nil *Routes behaves as an empty cache.
type Routes struct {
	mu    sync.RWMutex
	files map[string][]route.Route
}

// New returns an empty cache.
func New() *Routes {
	return &Routes{files: make(map[string][]route.Route)}
}

// UpdateFile replaces the routes recorded for file. The last writer wins.
func (c *Routes) UpdateFile(file string, routes []route.Route) {
	if c == nil {
		return
	}
	stored := make([]route.Route, len(routes))
	copy(stored, routes)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.files == nil {
		c.files = make(map[string][]route.Route)
	}
	c.files[file] = stored
}

// DeleteFile forgets file.
func (c *Routes) DeleteFile(file string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, file)
}

// DeleteDir forgets every file under dir.
func (c *Routes) DeleteDir(dir string) {
	if c == nil {
		return
	}
	prefix := strings.TrimSuffix(dir, string(os.PathSeparator)) + string(os.PathSeparator)
	c.mu.Lock()
	defer c.mu.Unlock()
	for file := range c.files {
		if strings.HasPrefix(file, prefix) {
			delete(c.files, file)
		}
	}
}

// File returns the routes recorded for file and whether it has an entry.
func (c *Routes) File(file string) ([]route.Route, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	routes, ok := c.files[file]
	if !ok {
		return nil, false
	}
	return append([]route.Route(nil), routes...), true
}

// All flattens a snapshot of every entry. Order is unspecified.
func (c *Routes) All() []route.Route {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	snapshot := make([][]route.Route, 0, len(c.files))
	n := 0
	for _, routes := range c.files {
		snapshot = append(snapshot, routes)
		n += len(routes)
	}
	c.mu.RUnlock()

	all := make([]route.Route, 0, n)
	for _, routes := range snapshot {
		all = append(all, routes...)
	}
	return all
}

// Replace swaps the whole content for files in one step.
func (c *Routes) Replace(files map[string][]route.Route) {
	if c == nil {
		return
	}
	next := make(map[string][]route.Route, len(files))
	for file, routes := range files {
		next[file] = append([]route.Route(nil), routes...)
	}
	c.mu.Lock()
	c.files = next
	c.mu.Unlock()
}

// Clear drops every entry.
func (c *Routes) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = make(map[string][]route.Route)
}

// Len returns the number of files with an entry.
func (c *Routes) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.files)
}
