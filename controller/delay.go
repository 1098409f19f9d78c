package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"

	"github.com/songquanpeng/echobin/common/config"
	"github.com/songquanpeng/echobin/common/helper"
	"github.com/songquanpeng/echobin/dto"
	"github.com/songquanpeng/echobin/middleware"
)

// Delay suspends only the requesting goroutine before reflecting the request.
// The wait is clamped to MaxDelay and aborts as soon as the client goes away.
func Delay(c *gin.Context) {
	raw := c.Param("seconds")
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, errors.Errorf("invalid delay %q", raw))
		return
	}
	if seconds < 0 {
		middleware.AbortWithError(c, http.StatusBadRequest, errors.Errorf("delay must not be negative, got %v", seconds))
		return
	}

	d := time.Duration(seconds * float64(time.Second))
	if d > config.MaxDelay {
		d = config.MaxDelay
	}

	// Collect the body before sleeping so a slow client upload does not
	// extend the wait.
	resp, err := buildEcho(c, true)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, err)
		return
	}

	if err := helper.SleepContext(c.Request.Context(), d); err != nil {
		// Client disconnected mid-delay; nothing left to say to it.
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, dto.DelayResponse{
		EchoResponse: *resp,
		Delay:        d.Seconds(),
	})
}
