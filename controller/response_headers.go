package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"

	"github.com/songquanpeng/echobin/common/random"
	"github.com/songquanpeng/echobin/middleware"
)

// ResponseHeaders sets every query parameter as a response header and also
// reflects the resulting header set as the JSON body. Content-Length appears
// in its own body, so the body is recomputed until it stops changing.
func ResponseHeaders(c *gin.Context) {
	query := c.Request.URL.Query()
	body := make(map[string]any, len(query)+2)
	for key, values := range query {
		if len(values) == 1 {
			body[key] = values[0]
		} else {
			body[key] = values
		}
	}
	body["Content-Type"] = "application/json"

	var payload []byte
	for range 10 {
		data, err := json.Marshal(body)
		if err != nil {
			middleware.AbortWithError(c, http.StatusInternalServerError, errors.Wrap(err, "marshal response headers"))
			return
		}
		length := strconv.Itoa(len(data))
		if body["Content-Length"] == length {
			payload = data
			break
		}
		body["Content-Length"] = length
	}
	if payload == nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, errors.New("response header length did not converge"))
		return
	}

	for key, values := range query {
		for _, value := range values {
			c.Writer.Header().Add(key, value)
		}
	}
	c.Data(http.StatusOK, "application/json", payload)
}

// parseMultiValueHeader normalizes an If-Match/If-None-Match style header
// into its bare values, dropping weak markers and quotes.
func parseMultiValueHeader(header string) []string {
	parts := strings.Split(header, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		value = strings.TrimPrefix(value, "W/")
		value = strings.Trim(value, `"`)
		if value != "" {
			values = append(values, value)
		}
	}
	return values
}

func etagMatches(header, etag string) bool {
	for _, value := range parseMultiValueHeader(header) {
		if value == "*" || value == etag {
			return true
		}
	}
	return false
}

// ETag assumes the requested ETag and answers conditional requests
// accordingly: matching If-None-Match yields 304, failing If-Match yields 412.
func ETag(c *gin.Context) {
	etag := c.Param("etag")

	if ifNoneMatch := c.GetHeader("If-None-Match"); ifNoneMatch != "" {
		if etagMatches(ifNoneMatch, etag) {
			c.Header("ETag", etag)
			c.Status(http.StatusNotModified)
			return
		}
	} else if ifMatch := c.GetHeader("If-Match"); ifMatch != "" {
		if !etagMatches(ifMatch, etag) {
			c.Status(http.StatusPreconditionFailed)
			return
		}
	}

	c.Header("ETag", etag)
	reflectRequest(c, false, false)
}

// Cache answers 304 to any conditional request and otherwise responds like
// /get with fresh cache validators.
func Cache(c *gin.Context) {
	if c.GetHeader("If-Modified-Since") != "" || c.GetHeader("If-None-Match") != "" {
		c.Status(http.StatusNotModified)
		return
	}
	c.Header("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	c.Header("ETag", random.GetUUID())
	reflectRequest(c, false, false)
}

// CacheControl sets a caller-chosen max-age on an otherwise /get-like response.
func CacheControl(c *gin.Context) {
	raw := c.Param("n")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		middleware.AbortWithError(c, http.StatusBadRequest, errors.Errorf("invalid max-age %q", raw))
		return
	}
	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", n))
	reflectRequest(c, false, false)
}
