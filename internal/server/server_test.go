package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/appshell/internal/config"
	shellerrors "github.com/conneroisu/appshell/internal/errors"
	"github.com/conneroisu/appshell/internal/logging"
	"github.com/conneroisu/appshell/internal/registry"
	"github.com/conneroisu/appshell/internal/watcher"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	v := viper.New()
	v.Set("server.port", 0)
	v.Set("pages.watch", false)

	cfg, err := config.LoadFrom(v)
	require.NoError(t, err)

	return cfg
}

func testRegistry(t *testing.T) *registry.PageRegistry {
	t.Helper()

	reg := registry.NewPageRegistry()
	for _, page := range []registry.PageDescriptor{
		{Path: "/", Name: "Home"},
		{Path: "/b", Name: "B", Content: templ.Raw("<p>b content</p>")},
		{Path: "/b/c", Name: "C"},
	} {
		require.NoError(t, reg.Register(page))
	}

	return reg
}

func newTestServer(t *testing.T) (*ShellServer, *httptest.Server) {
	t.Helper()

	srv, err := New(testConfig(t), testRegistry(t), logging.Discard())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
		ts.Close()
	})

	return srv, ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

func TestNew(t *testing.T) {
	t.Run("requires config", func(t *testing.T) {
		_, err := New(nil, nil, nil)
		assert.Error(t, err)
	})

	t.Run("rejects invalid shell options", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Shell.Brand.Full = ""
		_, err := New(cfg, nil, nil)
		assert.Error(t, err)
	})

	t.Run("defaults registry and logger", func(t *testing.T) {
		srv, err := New(testConfig(t), nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, srv.Snapshot().Len())
	})
}

func TestHandleShell(t *testing.T) {
	_, ts := newTestServer(t)

	t.Run("known page", func(t *testing.T) {
		resp, body := get(t, ts.URL+"/b")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		assert.Contains(t, body, "<title>B | VisuCalc</title>")
		assert.Contains(t, body, "<p>b content</p>")
		assert.Contains(t, body, `aria-current="page"`)
	})

	t.Run("unknown page", func(t *testing.T) {
		resp, body := get(t, ts.URL+"/missing")

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, body, "<title>404 | VisuCalc</title>")
		assert.Contains(t, body, `id="sidebar-drawer"`, "unknown paths still get the shell")
	})

	t.Run("root", func(t *testing.T) {
		resp, body := get(t, ts.URL+"/")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, `<title>Home | VisuCalc</title>`)
	})
}

func TestHandleShell_MissingSection(t *testing.T) {
	reg := registry.NewPageRegistry()
	require.NoError(t, reg.Register(registry.PageDescriptor{Path: "/x/y", Name: "Y"}))

	srv, err := New(testConfig(t), reg, logging.Discard())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x/y", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleNav(t *testing.T) {
	_, ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/api/nav?path=/b/c")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var nav NavResponse
	require.NoError(t, json.Unmarshal([]byte(body), &nav))

	assert.Equal(t, "/b/c", nav.Path)
	require.Len(t, nav.Nodes, 2)
	assert.Equal(t, "/", nav.Nodes[0].Href)
	assert.Equal(t, "/b", nav.Nodes[1].Href)
	assert.True(t, nav.Nodes[1].Expanded)
	assert.Equal(t, []string{"B", "C"}, nav.Trail)
}

func TestHandleTitle(t *testing.T) {
	_, ts := newTestServer(t)

	testCases := []struct {
		path     string
		expected string
		found    bool
	}{
		{"/b", "B", true},
		{"/b/c", "C", true},
		{"/z", "404", false},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			resp, body := get(t, ts.URL+"/api/title?path="+tc.path)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var title TitleResponse
			require.NoError(t, json.Unmarshal([]byte(body), &title))
			assert.Equal(t, tc.expected, title.Title)
			assert.Equal(t, tc.found, title.Found)
		})
	}

	t.Run("missing path", func(t *testing.T) {
		resp, _ := get(t, ts.URL+"/api/title")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandlePages(t *testing.T) {
	_, ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/api/pages")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pages PagesResponse
	require.NoError(t, json.Unmarshal([]byte(body), &pages))

	assert.Equal(t, 3, pages.Count)
	assert.Equal(t, "/", pages.Pages[0].Path)
	assert.Equal(t, "/b/c", pages.Pages[2].Path)
}

func TestHandleHealth(t *testing.T) {
	_, ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health HealthResponse
	require.NoError(t, json.Unmarshal([]byte(body), &health))

	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, 3, health.Pages)
	assert.Equal(t, 0, health.Sessions)
	assert.NotEmpty(t, health.Version)
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	get(t, ts.URL+"/b")
	resp, body := get(t, ts.URL+"/metrics")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "appshell_http_requests_total")
	assert.Contains(t, body, `route="/*"`)
}

func TestCORS(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Environment = "production"
	cfg.Server.AllowedOrigins = []string{"https://dash.example.com"}

	srv, err := New(cfg, testRegistry(t), logging.Discard())
	require.NoError(t, err)
	router := srv.Router()

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/pages", nil)
		req.Header.Set("Origin", "https://dash.example.com")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, "https://dash.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("other origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/pages", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/pages", nil)
		req.Header.Set("Origin", "https://dash.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Less(t, rec.Code, 300)
		assert.Equal(t, "https://dash.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodGet)
	})

	t.Run("preflight for other origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/pages", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestCORS_Development(t *testing.T) {
	_, ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/pages", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func writePageFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestReload(t *testing.T) {
	file := filepath.Join(t.TempDir(), "pages.yml")

	cfg := testConfig(t)
	cfg.Pages.File = file

	reg := testRegistry(t)
	srv, err := New(cfg, reg, logging.Discard())
	require.NoError(t, err)

	t.Run("swaps pages and keeps content", func(t *testing.T) {
		writePageFile(t, file, `pages:
  - path: /
    name: Home
  - path: /b
    name: Bee
  - path: /d
    name: D
`)
		require.NoError(t, srv.Reload(context.Background()))

		snap := srv.Snapshot()
		assert.Equal(t, 3, snap.Len())

		page, ok := snap.Find("/b")
		require.True(t, ok)
		assert.Equal(t, "Bee", page.Name)
		assert.NotNil(t, page.Content)

		_, ok = snap.Find("/b/c")
		assert.False(t, ok)
	})

	t.Run("invalid yaml keeps pages", func(t *testing.T) {
		writePageFile(t, file, "pages: [")
		assert.Error(t, srv.Reload(context.Background()))
		assert.Equal(t, 3, srv.Snapshot().Len())
	})

	t.Run("missing section keeps pages", func(t *testing.T) {
		writePageFile(t, file, `pages:
  - path: /x/y
    name: Y
`)
		assert.Error(t, srv.Reload(context.Background()))

		_, ok := srv.Snapshot().Find("/d")
		assert.True(t, ok)
	})

	t.Run("malformed path keeps pages", func(t *testing.T) {
		writePageFile(t, file, `pages:
  - path: nope
    name: Nope
`)
		assert.Error(t, srv.Reload(context.Background()))
		assert.Equal(t, 3, srv.Snapshot().Len())
	})
}

func TestHandlePageFileChange(t *testing.T) {
	file := filepath.Join(t.TempDir(), "pages.yml")

	cfg := testConfig(t)
	cfg.Pages.File = file

	srv, err := New(cfg, testRegistry(t), logging.Discard())
	require.NoError(t, err)
	modified := []watcher.ChangeEvent{{Type: watcher.EventTypeModified, Path: file}}

	t.Run("file between saves", func(t *testing.T) {
		assert.NoError(t, srv.handlePageFileChange(context.Background(), modified))
		assert.Equal(t, 3, srv.Snapshot().Len())
	})

	t.Run("deleted file", func(t *testing.T) {
		deleted := []watcher.ChangeEvent{{Type: watcher.EventTypeDeleted, Path: file}}
		assert.NoError(t, srv.handlePageFileChange(context.Background(), deleted))
	})

	t.Run("missing section is reported", func(t *testing.T) {
		writePageFile(t, file, "pages:\n  - path: /x/y\n    name: Y\n")

		err := srv.handlePageFileChange(context.Background(), modified)
		assert.ErrorIs(t, err, shellerrors.ErrMissingSection)
		assert.Equal(t, shellerrors.ErrorTypeConfig, shellerrors.GetErrorType(err))
	})

	t.Run("valid file reloads", func(t *testing.T) {
		writePageFile(t, file, "pages:\n  - path: /\n    name: Home\n")

		require.NoError(t, srv.handlePageFileChange(context.Background(), modified))
		assert.Equal(t, 1, srv.Snapshot().Len())
	})
}

func TestCheckSnapshot(t *testing.T) {
	snap := registry.NewSnapshot([]registry.PageDescriptor{
		{Path: "/a", Name: "A"},
		{Path: "/a/x", Name: "AX"},
		{Path: "/b", Name: "B"},
		{Path: "/b/y", Name: "BY"},
	}, nil)

	assert.NoError(t, CheckSnapshot(snap, config.GroupingNested))
	// Flat grouping asks for /a/y and /b/x too.
	assert.Error(t, CheckSnapshot(snap, config.GroupingFlat))
}

func TestStartAndShutdown(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Host = "127.0.0.1"

	srv, err := New(cfg, testRegistry(t), logging.Discard())
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(context.Background())
	}()

	require.Eventually(t, func() bool {
		srv.serverMutex.RLock()
		defer srv.serverMutex.RUnlock()
		return srv.httpServer != nil
	}, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, srv.Shutdown(ctx))
	require.NoError(t, srv.Shutdown(ctx), "second shutdown is a no-op")

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}

func TestCarryContent(t *testing.T) {
	content := templ.Raw("<p>kept</p>")
	current := registry.NewSnapshot([]registry.PageDescriptor{
		{Path: "/a", Name: "A", Content: content},
	}, nil)

	pages := carryContent(current, []registry.PageDescriptor{
		{Path: "/a", Name: "Renamed"},
		{Path: "/new", Name: "New"},
	})

	require.Len(t, pages, 2)
	assert.NotNil(t, pages[0].Content)
	assert.Nil(t, pages[1].Content)
	assert.Equal(t, "Renamed", pages[0].Name)
}
