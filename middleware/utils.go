package middleware

import (
	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/songquanpeng/echobin/common/graceful"
	"github.com/songquanpeng/echobin/common/helper"
)

// AbortWithError aborts the request with an error message
func AbortWithError(c *gin.Context, statusCode int, err error) {
	logger := gmw.GetLogger(c)
	logger.Warn("request rejected",
		zap.Int("status_code", statusCode),
		zap.Error(err))

	c.JSON(statusCode, gin.H{
		"error": gin.H{
			"message": helper.MessageWithRequestId(err.Error(), c.GetString(helper.RequestIdKey)),
			"type":    "echobin_error",
		},
	})
	c.Abort()
}

// TrackInFlight counts running requests so shutdown can drain them.
func TrackInFlight() gin.HandlerFunc {
	return func(c *gin.Context) {
		done := graceful.BeginRequest()
		defer done()
		c.Next()
	}
}
