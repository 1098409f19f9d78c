package controller

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/songquanpeng/echobin/dto"
	"github.com/songquanpeng/echobin/middleware"
)

const basicRealm = `Basic realm="Fake Realm"`

func checkBasicAuth(c *gin.Context, user, passwd string) bool {
	gotUser, gotPass, ok := c.Request.BasicAuth()
	if !ok {
		return false
	}
	userMatch := subtle.ConstantTimeCompare([]byte(gotUser), []byte(user)) == 1
	passMatch := subtle.ConstantTimeCompare([]byte(gotPass), []byte(passwd)) == 1
	return userMatch && passMatch
}

// BasicAuth challenges with HTTP Basic and reflects the authenticated user
// when the supplied credentials match the ones in the path.
func BasicAuth(c *gin.Context) {
	user := c.Param("user")
	if !checkBasicAuth(c, user, c.Param("passwd")) {
		c.Header("WWW-Authenticate", basicRealm)
		c.Status(http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, dto.AuthResponse{Authenticated: true, User: user})
}

// HiddenBasicAuth behaves like BasicAuth but pretends the resource does not
// exist instead of challenging.
func HiddenBasicAuth(c *gin.Context) {
	user := c.Param("user")
	if !checkBasicAuth(c, user, c.Param("passwd")) {
		middleware.AbortWithError(c, http.StatusNotFound, errors.New("not found"))
		return
	}
	c.JSON(http.StatusOK, dto.AuthResponse{Authenticated: true, User: user})
}

// Bearer requires an Authorization: Bearer token and reflects it. Tokens that
// happen to be JWTs additionally get their claims reflected, unverified.
func Bearer(c *gin.Context) {
	auth := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	token = strings.TrimSpace(token)
	if !found || token == "" {
		c.Header("WWW-Authenticate", "Bearer")
		c.Status(http.StatusUnauthorized)
		return
	}

	resp := dto.AuthResponse{Authenticated: true, Token: token}
	if parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{}); err == nil {
		if claims, ok := parsed.Claims.(jwt.MapClaims); ok {
			resp.Claims = claims
		}
	}
	c.JSON(http.StatusOK, resp)
}
