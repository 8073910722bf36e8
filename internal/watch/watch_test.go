package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-s12345/routelens/internal/analyzer"
	"github.com/Aman-s12345/routelens/internal/scan"
)

func startWatcher(t *testing.T, root string) (*analyzer.Indexer, func() []Change) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sel, err := scan.New(root, logger)
	require.NoError(t, err)
	a, err := analyzer.New(sel, analyzer.Options{Logger: logger})
	require.NoError(t, err)
	ix := analyzer.NewIndexer(a, analyzer.Express, ".")
	_, err = ix.Refresh(context.Background())
	require.NoError(t, err)

	var (
		mu      sync.Mutex
		changes []Change
	)
	w := New(ix, logger)
	w.OnChange(func(c Change) {
		mu.Lock()
		defer mu.Unlock()
		changes = append(changes, c)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	select {
	case <-w.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher not ready")
	}

	return ix, func() []Change {
		mu.Lock()
		defer mu.Unlock()
		return append([]Change(nil), changes...)
	}
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func hasRoutes(ix *analyzer.Indexer, file string, n int) func() bool {
	return func() bool {
		routes, ok := ix.Cache().File(file)
		return ok && len(routes) == n
	}
}

func TestWatcherAppliesFileChanges(t *testing.T) {
	root := t.TempDir()
	appJS := filepath.Join(root, "app.js")
	write(t, appJS, "app.get('/a', h);\n")

	ix, changes := startWatcher(t, root)
	require.True(t, hasRoutes(ix, appJS, 1)())

	write(t, appJS, "app.get('/a', h);\napp.post('/b', h);\n")
	assert.Eventually(t, hasRoutes(ix, appJS, 2), 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.Remove(appJS))
	assert.Eventually(t, func() bool {
		_, ok := ix.Cache().File(appJS)
		return !ok
	}, 5*time.Second, 20*time.Millisecond)

	var ops []Op
	for _, c := range changes() {
		ops = append(ops, c.Op)
	}
	assert.Contains(t, ops, OpUpdate)
	assert.Contains(t, ops, OpDelete)
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	ix, _ := startWatcher(t, root)

	sub := filepath.Join(root, "routes")
	require.NoError(t, os.Mkdir(sub, 0o755))
	file := filepath.Join(sub, "users.js")

	// The file may be created before the new directory is registered;
	// UpdateDir picks it up in that case, later writes arrive as events.
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(file, []byte("app.get('/users', list);\n"), 0o644)
		return hasRoutes(ix, file, 1)()
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatcherIgnoresBlockedDirectories(t *testing.T) {
	root := t.TempDir()
	ix, _ := startWatcher(t, root)

	write(t, filepath.Join(root, "node_modules", "pkg", "index.js"), "app.get('/vendored', h);\n")
	write(t, filepath.Join(root, "main.js"), "app.get('/main', h);\n")

	assert.Eventually(t, hasRoutes(ix, filepath.Join(root, "main.js"), 1), 5*time.Second, 20*time.Millisecond)
	_, ok := ix.Cache().File(filepath.Join(root, "node_modules", "pkg", "index.js"))
	assert.False(t, ok)
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "update", OpUpdate.String())
	assert.Equal(t, "delete", OpDelete.String())
}
