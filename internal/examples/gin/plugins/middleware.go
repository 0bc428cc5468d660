package plugins

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/victormf2/pluginject"
)

// Middleware is a discoverable capability: every plugin registered for it
// becomes part of the gin middleware chain, ordered by priority.
type Middleware interface {
	Handler() gin.HandlerFunc
}

// RegisterMiddlewarePlugins populates the registry the application container
// discovers middlewares from.
func RegisterMiddlewarePlugins(registry *pluginject.Registry) {
	// The request id must be assigned before the log middleware runs, so it
	// gets a higher priority.
	pluginject.RegisterPlugin[Middleware](registry, NewRequestIDMiddleware, pluginject.WithPriority(10))
	pluginject.RegisterPlugin[Middleware](registry, NewRequestLogMiddleware)
}

type RequestIDMiddleware struct{}

func NewRequestIDMiddleware() *RequestIDMiddleware {
	return &RequestIDMiddleware{}
}

func (m *RequestIDMiddleware) Handler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set("request_id", uuid.NewString())
		ctx.Next()
	}
}

type RequestLogMiddleware struct {
	logger *logrus.Entry
}

func NewRequestLogMiddleware(logger *logrus.Entry) *RequestLogMiddleware {
	return &RequestLogMiddleware{logger: logger}
}

func (m *RequestLogMiddleware) Handler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		m.logger.WithFields(logrus.Fields{
			"request_id": ctx.GetString("request_id"),
			"status":     ctx.Writer.Status(),
			"duration":   time.Since(start),
			"client_ip":  ctx.ClientIP(),
			"method":     ctx.Request.Method,
			"path":       ctx.Request.URL.Path,
		}).Info("request handled")
	}
}
