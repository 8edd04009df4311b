package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/virtual-study-partner/pkg/apperror"
	"github.com/khoahotran/virtual-study-partner/pkg/logger"
)

const (
	HeaderRequestID        = "X-Request-ID"
	GinContextKeyRequestID = "requestID"
)

// ErrorMiddleware renders the last error a handler pushed with c.Error.
// Clients get the message and code; details and causes go to the log.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		fields := []zap.Field{
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(GinContextKeyRequestID)),
		}

		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			log.Error("Unhandled error", err, fields...)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Internal server error"})
			return
		}

		status := apperror.ToHTTPStatus(appErr)
		fields = append(fields, zap.Int("status", status), zap.String("details", appErr.Details))
		if status >= http.StatusInternalServerError {
			log.Error(appErr.Message, appErr.Err, fields...)
		} else {
			log.Warn(appErr.Message, fields...)
		}
		c.JSON(status, appErr.ToJSON())
	}
}

// RequestID reuses the caller's X-Request-ID or generates one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(GinContextKeyRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func AccessLog(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(GinContextKeyRequestID)),
		)
	}
}

// CORS allows any origin.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", HeaderRequestID},
		ExposeHeaders:   []string{HeaderRequestID},
		MaxAge:          12 * time.Hour,
	})
}
