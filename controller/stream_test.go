package controller

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songquanpeng/echobin/dto"
)

func TestStreamEmitsDiscreteChunks(t *testing.T) {
	engine := newTestEngine()
	engine.GET("/stream/:n", Stream)

	w := newFlushRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stream/5?a=1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.GreaterOrEqual(t, w.flushes, 5, "each line must be flushed separately")

	scanner := bufio.NewScanner(w.Body)
	var ids []int
	for scanner.Scan() {
		var line dto.StreamLine
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line), "line %q", scanner.Text())
		assert.Equal(t, []string{"1"}, line.Args["a"])
		ids = append(ids, line.ID)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, ids)
}

func TestStreamClampsLineCount(t *testing.T) {
	engine := newTestEngine()
	engine.GET("/stream/:n", Stream)

	w := perform(engine, httptest.NewRequest(http.MethodGet, "/stream/100000", nil))
	require.Equal(t, http.StatusOK, w.Code)
	lines := strings.Count(w.Body.String(), "\n")
	assert.Equal(t, 100, lines)
}

func TestStreamInvalidCount(t *testing.T) {
	engine := newTestEngine()
	engine.GET("/stream/:n", Stream)

	for _, path := range []string{"/stream/abc", "/stream/-1"} {
		w := perform(engine, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusBadRequest, w.Code, "path %q", path)
	}
}

func TestBytesSeededPayloadIsDeterministic(t *testing.T) {
	engine := newTestEngine()
	engine.GET("/bytes/:n", Bytes)

	first := perform(engine, httptest.NewRequest(http.MethodGet, "/bytes/16?seed=42", nil))
	second := perform(engine, httptest.NewRequest(http.MethodGet, "/bytes/16?seed=42", nil))

	require.Equal(t, http.StatusOK, first.Code)
	assert.Len(t, first.Body.Bytes(), 16)
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
	assert.Equal(t, "application/octet-stream", first.Header().Get("Content-Type"))
}

func TestBytesInvalidInput(t *testing.T) {
	engine := newTestEngine()
	engine.GET("/bytes/:n", Bytes)

	for _, path := range []string{"/bytes/abc", "/bytes/-1", "/bytes/10?seed=x"} {
		w := perform(engine, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusBadRequest, w.Code, "path %q", path)
	}
}

func TestStreamBytesMatchesBytesAndFlushesPerChunk(t *testing.T) {
	engine := newTestEngine()
	engine.GET("/bytes/:n", Bytes)
	engine.GET("/stream-bytes/:n", StreamBytes)

	buffered := perform(engine, httptest.NewRequest(http.MethodGet, "/bytes/100?seed=7", nil))

	w := newFlushRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stream-bytes/100?seed=7&chunk_size=10", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, buffered.Body.Bytes(), w.Body.Bytes())
	assert.Equal(t, 10, w.flushes)
}

func TestDrip(t *testing.T) {
	engine := newTestEngine()
	engine.GET("/drip", Drip)

	start := time.Now()
	w := perform(engine, httptest.NewRequest(http.MethodGet, "/drip?numbytes=40&duration=0.05&delay=0.02&code=500", nil))
	elapsed := time.Since(start)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "40", w.Header().Get("Content-Length"))
	assert.Equal(t, bytes.Repeat([]byte{'*'}, 40), w.Body.Bytes())
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
}

func TestDripInvalidInput(t *testing.T) {
	engine := newTestEngine()
	engine.GET("/drip", Drip)

	for _, query := range []string{
		"",
		"numbytes=0",
		"numbytes=-1",
		"numbytes=10&duration=-1",
		"numbytes=10&delay=-1",
		"numbytes=10&code=999",
		"numbytes=10&duration=9999",
	} {
		w := perform(engine, httptest.NewRequest(http.MethodGet, "/drip?"+query, nil))
		require.Equal(t, http.StatusBadRequest, w.Code, "query %q", query)
		assert.NotEmpty(t, w.Body.String(), "query %q", query)
	}
}
