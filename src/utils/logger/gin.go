package logger

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Request scoped logger
func LOG(c *gin.Context) *logrus.Entry {
	return NewSublogger("rest").
		WithField("method", c.Request.Method).
		WithField("path", c.FullPath()).
		WithField("status", c.Writer.Status())
}

// Request scoped logger with the last handler error attached
func LOGE(c *gin.Context) *logrus.Entry {
	entry := LOG(c)
	if err := c.Errors.Last(); err != nil {
		entry = entry.WithError(err.Err)
	}
	return entry
}
