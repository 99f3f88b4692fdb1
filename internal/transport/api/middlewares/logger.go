package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger пишет в лог каждый запрос. Приватные ошибки обработчиков попадают в поле error.
func Logger(l *logrus.Logger) gin.HandlerFunc {
	entry := l.WithFields(logrus.Fields{
		"component": "api",
		"module":    "http",
	})
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"requestID": c.GetString(RequestIDKey),
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  time.Since(start).String(),
			"clientIP":  c.ClientIP(),
		}
		if id, ok := c.Get(CurrentAccountIDKey); ok {
			fields["accountID"] = id
		}
		e := entry.WithFields(fields)

		if len(c.Errors) > 0 {
			e = e.WithField("error", c.Errors.String())
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			e.Error("request")
		case status >= 400:
			e.Warn("request")
		default:
			e.Info("request")
		}
	}
}
