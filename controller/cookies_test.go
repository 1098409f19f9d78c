package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songquanpeng/echobin/dto"
)

func newCookiesEngine() http.Handler {
	engine := newTestEngine()
	engine.GET("/cookies", Cookies)
	engine.GET("/cookies/set", CookiesSet)
	engine.GET("/cookies/set/:name/:value", CookiesSetNamed)
	engine.GET("/cookies/delete", CookiesDelete)
	return engine
}

func TestCookiesReflectsRequestCookies(t *testing.T) {
	engine := newCookiesEngine()
	req := httptest.NewRequest(http.MethodGet, "/cookies", nil)
	req.AddCookie(&http.Cookie{Name: "k1", Value: "v1"})
	req.AddCookie(&http.Cookie{Name: "k2", Value: "v2"})
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.CookiesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, map[string]string{"k1": "v1", "k2": "v2"}, resp.Cookies)
}

func TestCookiesEmptyIsObject(t *testing.T) {
	engine := newCookiesEngine()
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cookies", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"cookies":{}}`, w.Body.String())
}

func TestCookiesSetFromQuery(t *testing.T) {
	engine := newCookiesEngine()
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cookies/set?k1=v1&k2=v2", nil))

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/cookies", w.Header().Get("Location"))

	values := map[string]string{}
	for _, cookie := range w.Result().Cookies() {
		values[cookie.Name] = cookie.Value
		assert.Equal(t, "/", cookie.Path)
	}
	assert.Equal(t, map[string]string{"k1": "v1", "k2": "v2"}, values)
}

func TestCookiesSetNamed(t *testing.T) {
	engine := newCookiesEngine()
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cookies/set/flavor/oatmeal", nil))

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/cookies", w.Header().Get("Location"))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "flavor", cookies[0].Name)
	assert.Equal(t, "oatmeal", cookies[0].Value)
}

func TestCookiesDeleteExpires(t *testing.T) {
	engine := newCookiesEngine()
	req := httptest.NewRequest(http.MethodGet, "/cookies/delete?k1=", nil)
	req.AddCookie(&http.Cookie{Name: "k1", Value: "v1"})
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "k1", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge, "deleted cookie must carry an expiring Max-Age")
}
