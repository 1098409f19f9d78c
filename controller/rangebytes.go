package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"

	"github.com/songquanpeng/echobin/common/config"
	"github.com/songquanpeng/echobin/common/helper"
	"github.com/songquanpeng/echobin/common/render"
	"github.com/songquanpeng/echobin/middleware"
)

// byteRange is an inclusive [first, last] slice of an n-byte body.
type byteRange struct {
	first int
	last  int
}

// parseRangeHeader understands single-range "bytes=" specs: "a-b", "a-" and
// "-k". ok is false when the header is absent or unparsable, in which case
// the caller serves the whole body with a 200 as the original service does.
func parseRangeHeader(header string, n int) (r byteRange, ok bool) {
	spec, found := strings.CutPrefix(strings.TrimSpace(header), "bytes=")
	if !found {
		return byteRange{}, false
	}
	// Only the first range of a multi-range request is honored.
	spec, _, _ = strings.Cut(spec, ",")
	firstStr, lastStr, found := strings.Cut(strings.TrimSpace(spec), "-")
	if !found {
		return byteRange{}, false
	}

	if firstStr == "" {
		// Suffix form "-k": the last k bytes.
		k, err := strconv.Atoi(lastStr)
		if err != nil || k < 1 {
			return byteRange{}, false
		}
		return byteRange{first: max(0, n-k), last: n - 1}, true
	}

	first, err := strconv.Atoi(firstStr)
	if err != nil || first < 0 {
		return byteRange{}, false
	}
	last := n - 1
	if lastStr != "" {
		last, err = strconv.Atoi(lastStr)
		if err != nil || last < 0 {
			return byteRange{}, false
		}
	}
	return byteRange{first: first, last: last}, true
}

// rangePayload fills the inclusive range with the repeating a-z pattern the
// whole body is made of, so any slice is predictable from its offset.
func rangePayload(r byteRange) []byte {
	b := make([]byte, r.last-r.first+1)
	for i := range b {
		b[i] = 'a' + byte((r.first+i)%26)
	}
	return b
}

// RequestRange serves a deterministic n-byte body honoring the Range header,
// with optional duration/chunk_size pacing.
func RequestRange(c *gin.Context) {
	raw := c.Param("n")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > config.MaxBytes {
		middleware.AbortWithError(c, http.StatusBadRequest,
			errors.Errorf("byte count must be in [1, %d], got %q", config.MaxBytes, raw))
		return
	}
	duration := 0.0
	if rawDuration := c.Query("duration"); rawDuration != "" {
		duration, err = strconv.ParseFloat(rawDuration, 64)
		if err != nil || duration < 0 {
			middleware.AbortWithError(c, http.StatusBadRequest, errors.Errorf("invalid duration %q", rawDuration))
			return
		}
	}
	chunkSize, err := parseChunkSize(c)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, err)
		return
	}

	c.Header("ETag", fmt.Sprintf("range%d", n))
	c.Header("Accept-Ranges", "bytes")

	r, ok := parseRangeHeader(c.GetHeader("Range"), n)
	status := http.StatusPartialContent
	if !ok {
		r = byteRange{first: 0, last: n - 1}
		status = http.StatusOK
	}
	if r.first > r.last || r.first >= n || r.last >= n {
		c.Header("Content-Range", fmt.Sprintf("bytes */%d", n))
		c.Header("Content-Length", "0")
		c.Status(http.StatusRequestedRangeNotSatisfiable)
		return
	}

	payload := rangePayload(r)
	c.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", r.first, r.last, n))
	c.Header("Content-Length", strconv.Itoa(len(payload)))
	c.Header("Content-Type", "application/octet-stream")
	c.Status(status)

	chunks := (len(payload) + chunkSize - 1) / chunkSize
	pause := time.Duration(0)
	if chunks > 1 {
		pause = time.Duration(duration * float64(time.Second) / float64(chunks-1))
	}
	ctx := c.Request.Context()
	for off := 0; off < len(payload); off += chunkSize {
		end := min(off+chunkSize, len(payload))
		if err := render.Chunk(c, payload[off:end]); err != nil {
			return
		}
		if end < len(payload) {
			if err := helper.SleepContext(ctx, pause); err != nil {
				return
			}
		}
	}
}
