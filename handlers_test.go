package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, handler http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, target, nil)
	for k, vs := range header {
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w
}

func testHandler(t *testing.T, dir string) http.Handler {
	h := newTestHub(t)
	cfg := config{StaticDir: dir, MaxMessageSize: 1024, SendBuffer: 16}
	return newHandler(cfg, h, testLogger())
}

func TestHTML(t *testing.T) {
	req := require.New(t)
	handler := testHandler(t, filepath.Join(t.TempDir(), "missing"))

	w := serve(t, handler, http.MethodGet, "/room/abc", nil)
	req.Equal(http.StatusOK, w.Code)
	req.Contains(w.Header().Get("Content-Type"), "text/html")
	req.Contains(w.Body.String(), "<textarea")
	req.Contains(w.Body.String(), "/room/abc")
}

func TestStaticFiles(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	req.NoError(os.WriteFile(filepath.Join(dir, "index.html"), []byte("<p>spa</p>"), 0o644))
	req.NoError(os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	req.NoError(os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644))
	handler := testHandler(t, dir)

	// Real files are served as they are
	w := serve(t, handler, http.MethodGet, "/assets/app.js", nil)
	req.Equal(http.StatusOK, w.Code)
	req.Equal("console.log(1)", w.Body.String())

	// Anything else is a client-side route
	for _, target := range []string{"/", "/some-room", "/assets", "/assets/missing.js"} {
		w = serve(t, handler, http.MethodGet, target, nil)
		req.Equal(http.StatusOK, w.Code, target)
		req.Equal("<p>spa</p>", w.Body.String(), target)
	}

	w = serve(t, handler, http.MethodHead, "/assets/app.js", nil)
	req.Equal(http.StatusOK, w.Code)
	req.Empty(w.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	handler := testHandler(t, t.TempDir())
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		w := serve(t, handler, method, "/monkey", nil)
		require.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
	}
}

func TestBadPath(t *testing.T) {
	req := require.New(t)
	handler := testHandler(t, t.TempDir())

	w := serve(t, handler, http.MethodGet, "/"+strings.Repeat("a", pathLenMax), nil)
	req.Equal(http.StatusBadRequest, w.Code)
	req.Contains(w.Body.String(), "Path length")

	w = serve(t, handler, http.MethodGet, "/%ff", nil)
	req.Equal(http.StatusBadRequest, w.Code)
	req.Contains(w.Body.String(), "UTF-8")
}

func TestWebsocketRejectsBadHandshake(t *testing.T) {
	handler := testHandler(t, t.TempDir())
	header := http.Header{
		"Connection": {"Upgrade"},
		"Upgrade":    {"websocket"},
	}
	// No key or version, so the upgrade fails before any connection exists
	w := serve(t, handler, http.MethodGet, "/", header)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckOrigin(t *testing.T) {
	req := require.New(t)
	withOrigin := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "http://relay.example/", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	req.Nil(checkOrigin(""))
	req.Nil(checkOrigin("  "))

	anyone := checkOrigin("*")
	req.True(anyone(withOrigin("https://elsewhere.example")))
	req.True(anyone(withOrigin("")))

	exact := checkOrigin("https://Editor.example:8443")
	req.True(exact(withOrigin("https://editor.example:8443")))
	req.False(exact(withOrigin("https://editor.example")))
	req.False(exact(withOrigin("http://editor.example:8443")))
	req.False(exact(withOrigin("")))
	req.False(exact(withOrigin("null")))

	broken := checkOrigin("editor.example")
	req.False(broken(withOrigin("editor.example")))
}
