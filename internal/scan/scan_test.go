package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workspace() fstest.MapFS {
	src := []byte("x")
	return fstest.MapFS{
		"app.js":                          {Data: src},
		"README.md":                       {Data: src},
		"package-lock.json":               {Data: src},
		".env":                            {Data: src},
		".eslintrc.js":                    {Data: src},
		"src/server.ts":                   {Data: src},
		"src/types.d.ts":                  {Data: src},
		"src/vendor.min.js":               {Data: src},
		"src/users/users.controller.ts":   {Data: src},
		"src/users/users.service.ts":      {Data: src},
		"src/api/urls.py":                 {Data: src},
		"src/api/views.py":                {Data: src},
		"node_modules/express/index.js":   {Data: src},
		"dist/app.js":                     {Data: src},
		"build/app.js":                    {Data: src},
		"coverage/lcov.js":                {Data: src},
		"src/__tests__/app.test.js":       {Data: src},
		"src/__pycache__/views.py":        {Data: src},
		"src/.hidden/secret.js":           {Data: src},
		"src/migrations__/0001.py":        {Data: src},
		"src/assets/logo.png":             {Data: src},
		"src/routes/index.JS":             {Data: src},
		"src/routes/nested/deep/route.js": {Data: src},
	}
}

func rels(files []File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Rel)
	}
	sort.Strings(out)
	return out
}

func TestSelectFiltersBlocklists(t *testing.T) {
	s := &Selector{FS: workspace(), Root: "/ws"}

	got := s.Select(context.Background(), ".", []string{".js", "ts"}, nil)
	assert.Equal(t, []string{
		"app.js",
		"src/routes/index.JS",
		"src/routes/nested/deep/route.js",
		"src/server.ts",
		"src/users/users.controller.ts",
		"src/users/users.service.ts",
	}, rels(got))

	for _, f := range got {
		if f.Rel == "src/server.ts" {
			assert.Equal(t, filepath.Join("/ws", "src", "server.ts"), f.Path)
			assert.Equal(t, ".ts", f.Ext)
		}
	}
}

func TestSelectIncludeGlobs(t *testing.T) {
	s := &Selector{FS: workspace(), Root: "/ws"}

	got := s.Select(context.Background(), ".", []string{".ts", ".js"}, []string{"**/*.controller.ts", "**/*.controller.js"})
	assert.Equal(t, []string{"src/users/users.controller.ts"}, rels(got))

	got = s.Select(context.Background(), "src", []string{".py"}, []string{"**/urls.py"})
	assert.Equal(t, []string{"src/api/urls.py"}, rels(got))
}

func TestSelectSubdirectory(t *testing.T) {
	s := &Selector{FS: workspace(), Root: "/ws"}

	got := s.Select(context.Background(), "./src/routes/", []string{".js"}, nil)
	assert.Equal(t, []string{"src/routes/index.JS", "src/routes/nested/deep/route.js"}, rels(got))

	assert.Nil(t, s.Select(context.Background(), "../outside", []string{".js"}, nil))
	assert.Nil(t, s.Select(context.Background(), ".", nil, nil))
}

type failingFS struct {
	fs.FS
	bad string
}

func (f failingFS) Open(name string) (fs.File, error) {
	if name == f.bad {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return f.FS.Open(name)
}

func TestSelectUnreadableDirectoryKeepsSiblings(t *testing.T) {
	s := &Selector{FS: failingFS{FS: workspace(), bad: "src/users"}, Root: "/ws"}

	got := s.Select(context.Background(), ".", []string{".ts"}, nil)
	assert.Equal(t, []string{"src/server.ts"}, rels(got))
}

func TestSelectCanceledContext(t *testing.T) {
	s := &Selector{FS: workspace(), Root: "/ws"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Empty(t, s.Select(ctx, ".", []string{".js"}, nil))
}

func TestAccept(t *testing.T) {
	s := &Selector{FS: workspace(), Root: "/ws"}
	exts := []string{".js", ".ts"}

	tests := []struct {
		rel   string
		globs []string
		want  bool
	}{
		{"src/app.js", nil, true},
		{"node_modules/x/index.js", nil, false},
		{"src/.cache/app.js", nil, false},
		{"src/types.d.ts", nil, false},
		{"src/app.py", nil, false},
		{"src/a.controller.ts", []string{"**/*.controller.ts"}, true},
		{"src/a.service.ts", []string{"**/*.controller.ts"}, false},
		{"../escape.js", nil, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Accept(tt.rel, exts, tt.globs), tt.rel)
	}
}

func TestSkipRules(t *testing.T) {
	for _, dir := range []string{"node_modules", ".git", "dist", "build", "coverage", "__tests__", "__mocks__", "__pycache__", "x__", ".venv"} {
		assert.True(t, SkipDir(dir), dir)
	}
	for _, dir := range []string{"src", "routes", "_internal"} {
		assert.False(t, SkipDir(dir), dir)
	}
	for _, name := range []string{"README.md", "notes.txt", "tsconfig.json", "Gemfile.lock", "out.log", "app.js.map", "a.png", "b.jpg", ".env", "yarn.lock", "index.d.ts", "jquery.min.js", ".babelrc"} {
		assert.True(t, SkipFile(name), name)
	}
	for _, name := range []string{"app.js", "urls.py", "main.ts"} {
		assert.False(t, SkipFile(name), name)
	}
}

func TestNewAndFileFor(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "app.js"), []byte("app.get('/x')"), 0o644))

	s, err := New(root, nil)
	require.NoError(t, err)

	f, err := s.FileFor(filepath.Join(s.Root, "src", "app.js"))
	require.NoError(t, err)
	assert.Equal(t, "src/app.js", f.Rel)

	data, err := s.ReadFile(f)
	require.NoError(t, err)
	assert.Equal(t, "app.get('/x')", string(data))

	_, err = s.FileFor(filepath.Dir(s.Root))
	assert.Error(t, err)

	_, err = New(filepath.Join(root, "missing"), nil)
	assert.Error(t, err)
}

func TestWalkDirs(t *testing.T) {
	s := &Selector{FS: workspace(), Root: "/ws"}
	var dirs []string
	s.WalkDirs(context.Background(), "src/routes", func(abs string) {
		dirs = append(dirs, abs)
	})
	sort.Strings(dirs)
	assert.Equal(t, []string{"/ws/src/routes", "/ws/src/routes/nested", "/ws/src/routes/nested/deep"}, dirs)
}
