package controller

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/songquanpeng/echobin/dto"
	"github.com/songquanpeng/echobin/middleware"
)

// Base64Decode decodes a base64url path segment to plain text.
func Base64Decode(c *gin.Context) {
	value := c.Param("value")
	decoded, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		// Tolerate missing padding.
		decoded, err = base64.RawURLEncoding.DecodeString(strings.TrimRight(value, "="))
	}
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, errors.Wrapf(err, "incorrect base64 data %q", value))
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", decoded)
}

// UUID returns a fresh random UUID.
func UUID(c *gin.Context) {
	c.JSON(http.StatusOK, dto.UUIDResponse{UUID: uuid.NewString()})
}

// Gzipped reflects the request. It is mounted behind the gzip middleware,
// which handles the actual Content-Encoding.
func Gzipped(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"gzipped": true,
		"headers": collectHeaders(c.Request),
		"method":  c.Request.Method,
		"origin":  c.ClientIP(),
	})
}

// Deflated reflects the request with a deflate-encoded body.
func Deflated(c *gin.Context) {
	payload, err := json.Marshal(gin.H{
		"deflated": true,
		"headers":  collectHeaders(c.Request),
		"method":   c.Request.Method,
		"origin":   c.ClientIP(),
	})
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, errors.Wrap(err, "marshal deflate payload"))
		return
	}

	// HTTP "deflate" is the zlib wrapper, not raw DEFLATE.
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, errors.Wrap(err, "compress deflate payload"))
		return
	}
	if err := zw.Close(); err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, errors.Wrap(err, "close deflate writer"))
		return
	}
	c.Header("Content-Encoding", "deflate")
	c.Data(http.StatusOK, "application/json", buf.Bytes())
}

// Brotlied reflects the request with a brotli-encoded body.
func Brotlied(c *gin.Context) {
	payload, err := json.Marshal(gin.H{
		"brotli":  true,
		"headers": collectHeaders(c.Request),
		"method":  c.Request.Method,
		"origin":  c.ClientIP(),
	})
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, errors.Wrap(err, "marshal brotli payload"))
		return
	}

	var buf bytes.Buffer
	bw := brotli.NewWriter(&buf)
	if _, err := bw.Write(payload); err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, errors.Wrap(err, "compress brotli payload"))
		return
	}
	if err := bw.Close(); err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, errors.Wrap(err, "close brotli writer"))
		return
	}
	c.Header("Content-Encoding", "br")
	c.Data(http.StatusOK, "application/json", buf.Bytes())
}

// Asset serves a fixed embedded document with the given content type.
func Asset(contentType string, body []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, contentType, body)
	}
}
