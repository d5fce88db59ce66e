package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeremiapane/restaurant-pos/utils"
)

const RequestIDHeader = "X-Request-ID"

func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		format := "%s | %3d | %13v | %15s | %s"
		if status >= 500 {
			utils.ErrorLogger.WithField("request_id", requestID).
				Errorf(format, c.Request.Method, status, latency, c.ClientIP(), path)
			return
		}
		utils.InfoLogger.WithField("request_id", requestID).
			Infof(format, c.Request.Method, status, latency, c.ClientIP(), path)
	}
}
