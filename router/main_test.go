package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAssets = fstest.MapFS{
	"web/static/index.html":  {Data: []byte("<html><body>echobin</body></html>")},
	"web/data/moby.html":     {Data: []byte("<html><body>Moby-Dick</body></html>")},
	"web/data/sample.xml":    {Data: []byte(`<?xml version="1.0"?><slideshow/>`)},
	"web/data/sample.json":   {Data: []byte(`{"slideshow":{}}`)},
	"web/data/robots.txt":    {Data: []byte("User-agent: *\nDisallow: /deny\n")},
	"web/data/deny.txt":      {Data: []byte("YOU SHOULDN'T BE HERE\n")},
	"web/data/utf8.html":     {Data: []byte("<html><body>∮ E⋅da</body></html>")},
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.RedirectTrailingSlash = false
	engine.HandleMethodNotAllowed = true
	SetRouter(engine, testAssets)
	return engine
}

func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRoutesAreWired(t *testing.T) {
	engine := newRouter(t)
	paths := []string{
		"/get", "/headers", "/ip", "/user-agent", "/anything", "/anything/sub/path",
		"/uuid", "/cookies", "/response-headers", "/cache", "/healthz",
		"/stream/1", "/bytes/1", "/stream-bytes/1", "/range/1",
		"/base64/aGk=", "/deflate", "/brotli", "/gzip",
	}
	for _, path := range paths {
		w := get(engine, path)
		assert.Equal(t, http.StatusOK, w.Code, "path %q", path)
	}
}

func TestStaticAssets(t *testing.T) {
	engine := newRouter(t)

	cases := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/", "text/html", "echobin"},
		{"/html", "text/html", "Moby-Dick"},
		{"/xml", "application/xml", "slideshow"},
		{"/json", "application/json", "slideshow"},
		{"/robots.txt", "text/plain", "Disallow: /deny"},
		{"/deny", "text/plain", "YOU SHOULDN'T BE HERE"},
		{"/encoding/utf8", "text/html", "∮"},
	}
	for _, tc := range cases {
		w := get(engine, tc.path)
		require.Equal(t, http.StatusOK, w.Code, "path %q", tc.path)
		assert.Contains(t, w.Header().Get("Content-Type"), tc.contentType, "path %q", tc.path)
		assert.Contains(t, w.Body.String(), tc.contains, "path %q", tc.path)
	}
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	engine := newRouter(t)
	w := get(engine, "/definitely/not/here")

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, w.Body.String(), "no such endpoint")
}

func TestMethodNotAllowedCarriesAllowHeader(t *testing.T) {
	engine := newRouter(t)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/get", nil))

	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Header().Get("Allow"), http.MethodGet)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestRedirectToAcceptsWriteMethods(t *testing.T) {
	engine := newRouter(t)
	for _, method := range redirectToMethods {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(method, "/redirect-to?url=/get", nil))
		assert.Equal(t, http.StatusFound, w.Code, "method %s", method)
		assert.Equal(t, "/get", w.Header().Get("Location"), "method %s", method)
	}
}

func TestGzipRouteEncodesWhenAccepted(t *testing.T) {
	engine := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/gzip", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	// Other routes stay unencoded.
	w = get(engine, "/get")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
}

func TestPatternMatches(t *testing.T) {
	cases := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"/get", "/get", true},
		{"/get", "/post", false},
		{"/status/:codes", "/status/418", true},
		{"/status/:codes", "/status", false},
		{"/status/:codes", "/status/418/extra", false},
		{"/anything/*path", "/anything/a/b/c", true},
		{"/digest-auth/:qop/:user/:passwd", "/digest-auth/auth/u/p", true},
		{"/digest-auth/:qop/:user/:passwd", "/digest-auth/auth/u", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, patternMatches(tc.pattern, tc.path), "%s vs %s", tc.pattern, tc.path)
	}
}

func TestAllowedMethods(t *testing.T) {
	engine := newRouter(t)
	methods := allowedMethods(engine, "/get")
	assert.Contains(t, methods, http.MethodGet)
	assert.NotContains(t, methods, http.MethodPost)

	assert.NotEmpty(t, allowedMethods(engine, "/status/200"))
	assert.Empty(t, allowedMethods(engine, "/nope"))
}
