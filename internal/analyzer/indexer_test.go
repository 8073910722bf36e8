package analyzer

import (
	"context"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-s12345/routelens/internal/extract"
	"github.com/Aman-s12345/routelens/internal/route"
)

func TestIndexerRefreshAndRoutes(t *testing.T) {
	ix := NewIndexer(newAnalyzer(t, workspace()), Express, ".")

	analysis, err := ix.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, analysis.Failed)
	assert.Equal(t, 5, ix.Cache().Len())

	assert.Equal(t, []route.Route{
		{Method: "GET", Path: "/users", BasePath: "/api", File: "/ws/app.js", FileLine: 3},
		{Method: "POST", Path: "/login", File: "/ws/app.js", FileLine: 4},
	}, ix.Routes())
}

func TestIndexerUpdateAndDeleteFile(t *testing.T) {
	fsys := workspace()
	ix := NewIndexer(newAnalyzer(t, fsys), Express, ".")
	_, err := ix.Refresh(context.Background())
	require.NoError(t, err)

	fsys["app.js"] = &fstest.MapFile{Data: []byte("app.delete('/users/:id', remove);\n")}
	require.NoError(t, ix.UpdateFile(context.Background(), "/ws/app.js"))
	assert.Equal(t, []route.Route{
		{Method: "DELETE", Path: "/users/:id", File: "/ws/app.js", FileLine: 1},
	}, ix.Routes())

	// A file that stops parsing keeps an empty entry.
	fsys["app.js"] = &fstest.MapFile{Data: []byte("app.get('/x', {\n")}
	require.NoError(t, ix.UpdateFile(context.Background(), "/ws/app.js"))
	routes, ok := ix.Cache().File("/ws/app.js")
	assert.True(t, ok)
	assert.Empty(t, routes)

	fsys["lib/new.js"] = &fstest.MapFile{Data: []byte("app.put('/new', h);\n")}
	require.NoError(t, ix.UpdateFile(context.Background(), "/ws/lib/new.js"))
	assert.Len(t, ix.Routes(), 1)

	ix.DeleteFile("/ws/lib/new.js")
	assert.Empty(t, ix.Routes())

	assert.Error(t, ix.UpdateFile(context.Background(), "/elsewhere/app.js"))
}

func TestIndexerUpdateFileIgnoresUnselectedPaths(t *testing.T) {
	fsys := workspace()
	ix := NewIndexer(newAnalyzer(t, fsys), Express, "lib")

	for _, path := range []string{"/ws/README.md", "/ws/node_modules/pkg/index.js", "/ws/app.js"} {
		require.NoError(t, ix.UpdateFile(context.Background(), path))
	}
	assert.Zero(t, ix.Cache().Len())

	require.NoError(t, ix.UpdateFile(context.Background(), "/ws/lib/util.js"))
	assert.Equal(t, 1, ix.Cache().Len())
}

func TestIndexerSetFramework(t *testing.T) {
	ix := NewIndexer(newAnalyzer(t, workspace()), Express, ".")
	_, err := ix.Refresh(context.Background())
	require.NoError(t, err)
	require.NotZero(t, ix.Cache().Len())

	require.NoError(t, ix.SetFramework(Express))
	assert.NotZero(t, ix.Cache().Len())

	require.NoError(t, ix.SetFramework(Django))
	assert.Zero(t, ix.Cache().Len())
	assert.Equal(t, Django, ix.Framework())

	_, err = ix.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, ix.Routes(), 1)

	assert.ErrorIs(t, ix.SetFramework(Framework("rails")), ErrUnsupportedFramework)
}

func TestIndexerSupersededRefreshDiscardsResult(t *testing.T) {
	a := newAnalyzer(t, fstest.MapFS{"app.js": {Data: []byte(appJS)}})
	started := make(chan struct{})
	var calls atomic.Int32
	a.registry[Express] = Binding{
		Extensions: jsExtensions,
		Extractor: extract.ExtractorFunc(func(ctx context.Context, file string, src []byte) ([]route.Route, error) {
			if calls.Add(1) == 1 {
				close(started)
				<-ctx.Done()
				return nil, ctx.Err()
			}
			return []route.Route{{Method: "GET", Path: "/fresh", File: file}}, nil
		}),
	}
	ix := NewIndexer(a, Express, ".")

	firstErr := make(chan error, 1)
	go func() {
		_, err := ix.Refresh(context.Background())
		firstErr <- err
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("first refresh never reached the extractor")
	}

	_, err := ix.Refresh(context.Background())
	require.NoError(t, err)

	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(5 * time.Second):
		t.Fatal("first refresh did not return")
	}

	routes := ix.Routes()
	require.Len(t, routes, 1)
	assert.Equal(t, "/fresh", routes[0].Path)
}

func TestIndexerConcurrentRefreshesCommitOnce(t *testing.T) {
	a := newAnalyzer(t, fstest.MapFS{"app.js": {Data: []byte(appJS)}})
	release := make(chan struct{})
	a.registry[Express] = Binding{
		Extensions: jsExtensions,
		Extractor: extract.ExtractorFunc(func(ctx context.Context, file string, src []byte) ([]route.Route, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-release:
				return []route.Route{{Method: "GET", Path: "/fresh", File: file}}, nil
			}
		}),
	}
	ix := NewIndexer(a, Express, ".")

	// Both refreshes queue on the lock; whichever takes it second owns the
	// newest generation and must be the one that commits.
	results := make(chan error, 2)
	ix.mu.Lock()
	for i := 0; i < 2; i++ {
		go func() {
			_, err := ix.Refresh(context.Background())
			results <- err
		}()
	}
	time.Sleep(20 * time.Millisecond)
	ix.mu.Unlock()

	select {
	case err := <-results:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(5 * time.Second):
		t.Fatal("older refresh was not superseded")
	}

	close(release)
	select {
	case err := <-results:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("newest refresh did not return")
	}

	routes := ix.Routes()
	require.Len(t, routes, 1)
	assert.Equal(t, "/fresh", routes[0].Path)
}

func TestIndexerRefreshUnsupportedFramework(t *testing.T) {
	ix := NewIndexer(newAnalyzer(t, workspace()), Framework("rails"), ".")
	_, err := ix.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrUnsupportedFramework)
	assert.Zero(t, ix.Cache().Len())
}

func TestIndexerUpdateDirAndDeleteDir(t *testing.T) {
	fsys := workspace()
	ix := NewIndexer(newAnalyzer(t, fsys), Express, ".")
	_, err := ix.Refresh(context.Background())
	require.NoError(t, err)

	fsys["api/v2/users.js"] = &fstest.MapFile{Data: []byte("app.get('/v2/users', list);\napp.post('/v2/users', create);\n")}
	fsys["api/v2/node_modules/x/index.js"] = &fstest.MapFile{Data: []byte("app.get('/vendored', h);\n")}
	require.NoError(t, ix.UpdateDir(context.Background(), "/ws/api"))

	routes, ok := ix.Cache().File("/ws/api/v2/users.js")
	require.True(t, ok)
	assert.Len(t, routes, 2)
	_, ok = ix.Cache().File("/ws/api/v2/node_modules/x/index.js")
	assert.False(t, ok)

	ix.DeleteFile("/ws/api")
	_, ok = ix.Cache().File("/ws/api/v2/users.js")
	assert.False(t, ok)
	assert.Len(t, ix.Routes(), 2)
}
