package router

import (
	"io/fs"
	"net/http"
	"sort"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"

	"github.com/songquanpeng/echobin/controller"
	"github.com/songquanpeng/echobin/middleware"
)

// redirectToMethods mirrors the method set of the original redirect-to rule.
var redirectToMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
}

// SetRouter installs the full static routing table. buildFS carries the
// embedded web/ assets.
func SetRouter(router *gin.Engine, buildFS fs.FS) {
	setAPIRouter(router)
	setContentRouter(router, buildFS)
	setFallbackHandlers(router)
}

func setAPIRouter(router *gin.Engine) {
	// Echo family
	router.GET("/get", controller.Get)
	router.POST("/post", controller.Post)
	router.PUT("/put", controller.Put)
	router.PATCH("/patch", controller.Patch)
	router.DELETE("/delete", controller.Delete)
	router.Any("/anything", controller.Anything)
	router.Any("/anything/*path", controller.Anything)
	router.GET("/headers", controller.Headers)
	router.GET("/ip", controller.IP)
	router.GET("/user-agent", controller.UserAgent)

	// Status family
	router.Any("/status/:codes", controller.Status)

	// Redirect family
	router.GET("/redirect/:n", controller.Redirect)
	router.GET("/relative-redirect/:n", controller.RelativeRedirect)
	router.GET("/absolute-redirect/:n", controller.AbsoluteRedirect)
	for _, method := range redirectToMethods {
		router.Handle(method, "/redirect-to", controller.RedirectTo)
	}

	// Delay family
	router.Any("/delay/:seconds", controller.Delay)

	// Streaming family
	router.GET("/stream/:n", controller.Stream)
	router.GET("/bytes/:n", controller.Bytes)
	router.GET("/stream-bytes/:n", controller.StreamBytes)
	router.GET("/drip", controller.Drip)
	router.GET("/range/:n", controller.RequestRange)

	// Auth-challenge family
	router.GET("/basic-auth/:user/:passwd", controller.BasicAuth)
	router.GET("/hidden-basic-auth/:user/:passwd", controller.HiddenBasicAuth)
	router.GET("/bearer", controller.Bearer)
	router.GET("/digest-auth/:qop/:user/:passwd", controller.DigestAuth)
	router.GET("/digest-auth/:qop/:user/:passwd/:algorithm", controller.DigestAuth)
	router.GET("/digest-auth/:qop/:user/:passwd/:algorithm/:stale_after", controller.DigestAuth)

	// Cookie family
	router.GET("/cookies", controller.Cookies)
	router.GET("/cookies/set", controller.CookiesSet)
	router.GET("/cookies/set/:name/:value", controller.CookiesSetNamed)
	router.GET("/cookies/delete", controller.CookiesDelete)

	// Header and cache shaping
	router.GET("/response-headers", controller.ResponseHeaders)
	router.POST("/response-headers", controller.ResponseHeaders)
	router.GET("/etag/:etag", controller.ETag)
	router.GET("/cache", controller.Cache)
	router.GET("/cache/:n", controller.CacheControl)

	// Content family
	router.GET("/base64/:value", controller.Base64Decode)
	router.GET("/uuid", controller.UUID)
	gzipped := router.Group("", gzip.Gzip(gzip.DefaultCompression))
	gzipped.GET("/gzip", controller.Gzipped)
	router.GET("/deflate", controller.Deflated)
	router.GET("/brotli", controller.Brotlied)

	router.GET("/websocket/echo", controller.WebsocketEcho)

	router.GET("/healthz", controller.Healthz)
}

func setContentRouter(router *gin.Engine, buildFS fs.FS) {
	router.Use(static.Serve("/", embedFolder(buildFS, "web/static")))

	router.GET("/html", controller.Asset("text/html; charset=utf-8", mustAsset(buildFS, "web/data/moby.html")))
	router.GET("/xml", controller.Asset("application/xml", mustAsset(buildFS, "web/data/sample.xml")))
	router.GET("/json", controller.Asset("application/json", mustAsset(buildFS, "web/data/sample.json")))
	router.GET("/robots.txt", controller.Asset("text/plain", mustAsset(buildFS, "web/data/robots.txt")))
	router.GET("/deny", controller.Asset("text/plain", mustAsset(buildFS, "web/data/deny.txt")))
	router.GET("/encoding/utf8", controller.Asset("text/html; charset=utf-8", mustAsset(buildFS, "web/data/utf8.html")))
}

func setFallbackHandlers(router *gin.Engine) {
	router.NoRoute(func(c *gin.Context) {
		middleware.AbortWithError(c, http.StatusNotFound, errors.Errorf("no such endpoint: %s", c.Request.URL.Path))
	})
	router.NoMethod(func(c *gin.Context) {
		if allowed := allowedMethods(router, c.Request.URL.Path); len(allowed) > 0 {
			c.Header("Allow", strings.Join(allowed, ", "))
		}
		middleware.AbortWithError(c, http.StatusMethodNotAllowed,
			errors.Errorf("method %s not allowed for %s", c.Request.Method, c.Request.URL.Path))
	})
}

func mustAsset(buildFS fs.FS, name string) []byte {
	data, err := fs.ReadFile(buildFS, name)
	if err != nil {
		panic(errors.Wrapf(err, "missing embedded asset %s", name))
	}
	return data
}

type embedFileSystem struct {
	http.FileSystem
}

func (e embedFileSystem) Exists(prefix string, path string) bool {
	f, err := e.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

func embedFolder(fsys fs.FS, targetPath string) static.ServeFileSystem {
	sub, err := fs.Sub(fsys, targetPath)
	if err != nil {
		panic(errors.Wrapf(err, "missing embedded folder %s", targetPath))
	}
	return embedFileSystem{http.FS(sub)}
}

// allowedMethods lists the methods whose registered routes match path, for
// the Allow header of 405 responses.
func allowedMethods(router *gin.Engine, path string) []string {
	seen := make(map[string]bool)
	var methods []string
	for _, route := range router.Routes() {
		if seen[route.Method] {
			continue
		}
		if patternMatches(route.Path, path) {
			seen[route.Method] = true
			methods = append(methods, route.Method)
		}
	}
	sort.Strings(methods)
	return methods
}

// patternMatches reports whether a gin route pattern matches a concrete path.
func patternMatches(pattern, path string) bool {
	patternSegs := strings.Split(pattern, "/")
	pathSegs := strings.Split(path, "/")
	for i, seg := range patternSegs {
		if strings.HasPrefix(seg, "*") {
			return true
		}
		if i >= len(pathSegs) {
			return false
		}
		if strings.HasPrefix(seg, ":") {
			if pathSegs[i] == "" {
				return false
			}
			continue
		}
		if seg != pathSegs[i] {
			return false
		}
	}
	return len(patternSegs) == len(pathSegs)
}
