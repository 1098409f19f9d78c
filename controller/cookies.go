package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/songquanpeng/echobin/dto"
)

// Cookies reflects the cookies the client sent.
func Cookies(c *gin.Context) {
	cookies := make(map[string]string, len(c.Request.Cookies()))
	for _, cookie := range c.Request.Cookies() {
		cookies[cookie.Name] = cookie.Value
	}
	c.JSON(http.StatusOK, dto.CookiesResponse{Cookies: cookies})
}

// CookiesSet turns every query parameter into a session cookie, then bounces
// the client to /cookies so it can see the result.
func CookiesSet(c *gin.Context) {
	for name, values := range c.Request.URL.Query() {
		for _, value := range values {
			c.SetCookie(name, value, 0, "/", "", false, false)
		}
	}
	c.Redirect(http.StatusFound, "/cookies")
}

// CookiesSetNamed sets a single cookie from path parameters.
func CookiesSetNamed(c *gin.Context) {
	c.SetCookie(c.Param("name"), c.Param("value"), 0, "/", "", false, false)
	c.Redirect(http.StatusFound, "/cookies")
}

// CookiesDelete expires the cookies named by the query parameters.
func CookiesDelete(c *gin.Context) {
	for name := range c.Request.URL.Query() {
		c.SetCookie(name, "", -1, "/", "", false, false)
	}
	c.Redirect(http.StatusFound, "/cookies")
}
