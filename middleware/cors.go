package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS mirrors the requesting Origin and answers preflight requests for all
// introspection endpoints, so browser-based HTTP clients can be tested too.
func CORS() gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowOriginFunc = func(origin string) bool { return true }
	config.AllowCredentials = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	config.AllowHeaders = []string{"*"}
	config.AllowWebSockets = true
	config.MaxAge = time.Hour
	return cors.New(config)
}
