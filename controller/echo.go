package controller

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"

	"github.com/songquanpeng/echobin/dto"
	"github.com/songquanpeng/echobin/middleware"
)

// maxEchoBody bounds how much of a request body the echo family reflects.
const maxEchoBody = 1 << 20

func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// requestURL reconstructs the absolute URL the client requested. The Host
// header and X-Forwarded-Proto are trusted the way the original service
// behind a reverse proxy would trust them.
func requestURL(r *http.Request) string {
	u := *r.URL
	u.Scheme = requestScheme(r)
	u.Host = r.Host
	return u.String()
}

func collectHeaders(r *http.Request) http.Header {
	h := r.Header.Clone()
	if h == nil {
		h = make(http.Header)
	}
	// Go promotes Host out of the header map; clients expect to see it reflected.
	h.Set("Host", r.Host)
	return h
}

// encodeBody keeps text bodies readable and wraps binary ones in a base64
// data URI so the reflected JSON stays valid UTF-8.
func encodeBody(body []byte) string {
	if utf8.Valid(body) {
		return string(body)
	}
	return "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(body)
}

func buildEcho(c *gin.Context, withBody bool) (*dto.EchoResponse, error) {
	r := c.Request
	resp := &dto.EchoResponse{
		Args:    r.URL.Query(),
		Headers: collectHeaders(r),
		Origin:  c.ClientIP(),
		URL:     requestURL(r),
	}
	if !withBody {
		return resp, nil
	}

	mediatype, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediatype, "multipart/") {
		if err := r.ParseMultipartForm(maxEchoBody); err != nil {
			return nil, errors.Wrap(err, "parse multipart form")
		}
		resp.Form = url.Values(r.MultipartForm.Value)
		files := make(url.Values)
		for name, headers := range r.MultipartForm.File {
			for _, fh := range headers {
				f, err := fh.Open()
				if err != nil {
					return nil, errors.Wrapf(err, "open multipart file %q", name)
				}
				content, err := io.ReadAll(io.LimitReader(f, maxEchoBody))
				_ = f.Close()
				if err != nil {
					return nil, errors.Wrapf(err, "read multipart file %q", name)
				}
				files.Add(name, encodeBody(content))
			}
		}
		if len(files) > 0 {
			resp.Files = files
		}
		return resp, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxEchoBody))
	if err != nil {
		return nil, errors.Wrap(err, "read request body")
	}

	switch mediatype {
	case "application/x-www-form-urlencoded":
		form, err := url.ParseQuery(string(body))
		if err != nil {
			resp.Data = encodeBody(body)
			return resp, nil
		}
		resp.Form = form
	case "application/json":
		var v any
		if json.Unmarshal(body, &v) == nil {
			resp.JSON = v
		}
		resp.Data = encodeBody(body)
	default:
		if len(body) > 0 {
			resp.Data = encodeBody(body)
		}
	}
	return resp, nil
}

func reflectRequest(c *gin.Context, withBody, withMethod bool) {
	resp, err := buildEcho(c, withBody)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, err)
		return
	}
	if withMethod {
		resp.Method = c.Request.Method
	}
	c.JSON(http.StatusOK, resp)
}

// Get reflects the query parameters, headers and origin of a GET request.
func Get(c *gin.Context) {
	reflectRequest(c, false, false)
}

// Post reflects the request and its decoded body.
func Post(c *gin.Context) {
	reflectRequest(c, true, false)
}

func Put(c *gin.Context) {
	reflectRequest(c, true, false)
}

func Patch(c *gin.Context) {
	reflectRequest(c, true, false)
}

func Delete(c *gin.Context) {
	reflectRequest(c, true, false)
}

// Anything accepts any method and reflects everything, method included.
func Anything(c *gin.Context) {
	reflectRequest(c, true, true)
}

// Headers returns the incoming request headers only.
func Headers(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HeadersResponse{Headers: collectHeaders(c.Request)})
}

// IP returns the requester's origin address.
func IP(c *gin.Context) {
	c.JSON(http.StatusOK, dto.IPResponse{Origin: c.ClientIP()})
}

// UserAgent returns the incoming User-Agent header.
func UserAgent(c *gin.Context) {
	c.JSON(http.StatusOK, dto.UserAgentResponse{UserAgent: c.Request.UserAgent()})
}
