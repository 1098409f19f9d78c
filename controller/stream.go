package controller

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"

	"github.com/songquanpeng/echobin/common/config"
	"github.com/songquanpeng/echobin/common/helper"
	"github.com/songquanpeng/echobin/common/random"
	"github.com/songquanpeng/echobin/common/render"
	"github.com/songquanpeng/echobin/dto"
	"github.com/songquanpeng/echobin/middleware"
)

const defaultChunkSize = 10 * 1024

// Stream emits n newline-delimited JSON echoes of the request, flushing each
// line so the client sees chunks as they are produced.
func Stream(c *gin.Context) {
	raw := c.Param("n")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		middleware.AbortWithError(c, http.StatusBadRequest, errors.Errorf("invalid line count %q", raw))
		return
	}
	if n > config.MaxStreamLines {
		n = config.MaxStreamLines
	}

	line := dto.StreamLine{
		Args:    c.Request.URL.Query(),
		Headers: collectHeaders(c.Request),
		Origin:  c.ClientIP(),
		URL:     requestURL(c.Request),
	}

	c.Header("Content-Type", "application/json; charset=utf-8")
	c.Status(http.StatusOK)
	ctx := c.Request.Context()
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return
		default:
		}
		line.ID = i
		if err := render.JSONLine(c, line); err != nil {
			return
		}
	}
}

func parseByteParams(c *gin.Context) (n int, seed *int64, err error) {
	raw := c.Param("n")
	n, convErr := strconv.Atoi(raw)
	if convErr != nil || n < 0 {
		return 0, nil, errors.Errorf("invalid byte count %q", raw)
	}
	if n > config.MaxBytes {
		n = config.MaxBytes
	}
	if s := c.Query("seed"); s != "" {
		v, convErr := strconv.ParseInt(s, 10, 64)
		if convErr != nil {
			return 0, nil, errors.Errorf("invalid seed %q", s)
		}
		seed = &v
	}
	return n, seed, nil
}

func parseChunkSize(c *gin.Context) (int, error) {
	raw := c.Query("chunk_size")
	if raw == "" {
		return defaultChunkSize, nil
	}
	size, err := strconv.Atoi(raw)
	if err != nil || size < 1 {
		return 0, errors.Errorf("invalid chunk_size %q", raw)
	}
	return size, nil
}

// Bytes returns n pseudo-random bytes in one buffered response. A seed query
// parameter makes the payload reproducible.
func Bytes(c *gin.Context) {
	n, seed, err := parseByteParams(c)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, err)
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", random.Bytes(n, seed))
}

// StreamBytes returns the same payload as Bytes but flushed chunk by chunk.
func StreamBytes(c *gin.Context) {
	n, seed, err := parseByteParams(c)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, err)
		return
	}
	chunkSize, err := parseChunkSize(c)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, err)
		return
	}

	payload := random.Bytes(n, seed)
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	ctx := c.Request.Context()
	for off := 0; off < len(payload); off += chunkSize {
		select {
		case <-ctx.Done():
			return
		default:
		}
		end := min(off+chunkSize, len(payload))
		if err := render.Chunk(c, payload[off:end]); err != nil {
			return
		}
	}
}

// Drip trickles numbytes filler bytes over a caller-chosen duration, after an
// optional initial delay and with a caller-chosen status code.
func Drip(c *gin.Context) {
	numbytes, err := strconv.Atoi(c.Query("numbytes"))
	if err != nil || numbytes < 1 {
		middleware.AbortWithError(c, http.StatusBadRequest, errors.Errorf("numbytes must be a positive integer, got %q", c.Query("numbytes")))
		return
	}
	if numbytes > config.MaxBytes {
		middleware.AbortWithError(c, http.StatusBadRequest, errors.Errorf("numbytes %d exceeds maximum %d", numbytes, config.MaxBytes))
		return
	}

	duration := 2.0
	if raw := c.Query("duration"); raw != "" {
		duration, err = strconv.ParseFloat(raw, 64)
		if err != nil || duration < 0 {
			middleware.AbortWithError(c, http.StatusBadRequest, errors.Errorf("invalid duration %q", raw))
			return
		}
	}
	delay := 0.0
	if raw := c.Query("delay"); raw != "" {
		delay, err = strconv.ParseFloat(raw, 64)
		if err != nil || delay < 0 {
			middleware.AbortWithError(c, http.StatusBadRequest, errors.Errorf("invalid delay %q", raw))
			return
		}
	}
	code := http.StatusOK
	if raw := c.Query("code"); raw != "" {
		code, err = strconv.Atoi(raw)
		if err != nil || code < 100 || code > 599 {
			middleware.AbortWithError(c, http.StatusBadRequest, errors.Errorf("invalid code %q", raw))
			return
		}
	}

	durationD := time.Duration(duration * float64(time.Second))
	delayD := time.Duration(delay * float64(time.Second))
	if durationD+delayD > config.MaxDripDuration {
		middleware.AbortWithError(c, http.StatusBadRequest,
			errors.Errorf("total drip time %v exceeds maximum %v", durationD+delayD, config.MaxDripDuration))
		return
	}

	ctx := c.Request.Context()
	if err := helper.SleepContext(ctx, delayD); err != nil {
		c.Abort()
		return
	}

	c.Header("Content-Type", "application/octet-stream")
	c.Header("Content-Length", strconv.Itoa(numbytes))
	c.Status(code)

	// Cap the number of writes so small pauses do not degenerate into one
	// syscall per byte.
	writes := min(numbytes, 100)
	pause := durationD / time.Duration(writes)
	written := 0
	for i := 0; i < writes; i++ {
		next := numbytes * (i + 1) / writes
		if err := render.Chunk(c, bytes.Repeat([]byte{'*'}, next-written)); err != nil {
			return
		}
		written = next
		if i < writes-1 {
			if err := helper.SleepContext(ctx, pause); err != nil {
				return
			}
		}
	}
}
