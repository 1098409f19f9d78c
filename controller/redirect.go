package controller

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"

	"github.com/songquanpeng/echobin/common"
	"github.com/songquanpeng/echobin/common/config"
	"github.com/songquanpeng/echobin/middleware"
)

// parseHops validates the remaining hop count of a redirect chain.
func parseHops(c *gin.Context) (int, error) {
	raw := c.Param("n")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Errorf("invalid redirect count %q", raw)
	}
	if n < 1 {
		return 0, errors.Errorf("redirect count must be >= 1, got %d", n)
	}
	if n > config.MaxRedirects {
		return 0, errors.Errorf("redirect count %d exceeds maximum %d", n, config.MaxRedirects)
	}
	return n, nil
}

func relativeLocation(n int) string {
	if n == 1 {
		return "/get"
	}
	return fmt.Sprintf("/relative-redirect/%d", n-1)
}

func absoluteLocation(c *gin.Context, n int) string {
	base := requestScheme(c.Request) + "://" + c.Request.Host
	if n == 1 {
		return base + "/get"
	}
	return fmt.Sprintf("%s/absolute-redirect/%d", base, n-1)
}

// Redirect bounces the client n-1 more times before landing on /get.
func Redirect(c *gin.Context) {
	n, err := parseHops(c)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, err)
		return
	}
	if c.Query("absolute") == "true" {
		c.Redirect(http.StatusFound, absoluteLocation(c, n))
		return
	}
	c.Redirect(http.StatusFound, relativeLocation(n))
}

func RelativeRedirect(c *gin.Context) {
	n, err := parseHops(c)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, err)
		return
	}
	c.Redirect(http.StatusFound, relativeLocation(n))
}

func AbsoluteRedirect(c *gin.Context) {
	n, err := parseHops(c)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, err)
		return
	}
	c.Redirect(http.StatusFound, absoluteLocation(c, n))
}

// RedirectTo redirects to a caller-chosen URL with a caller-chosen 3xx code.
func RedirectTo(c *gin.Context) {
	target := c.Query("url")
	if err := common.Validate.Var(target, "required"); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, errors.New("missing required query parameter: url"))
		return
	}
	if _, err := url.Parse(target); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, errors.Wrapf(err, "invalid url %q", target))
		return
	}

	code := http.StatusFound
	if raw := c.Query("status_code"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 300 || parsed > 399 {
			middleware.AbortWithError(c, http.StatusBadRequest, errors.Errorf("status_code must be a 3xx code, got %q", raw))
			return
		}
		code = parsed
	}
	c.Redirect(code, target)
}
