package api

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/blog"
	"github.com/yatube/yatube/pkg/logging"
	"github.com/yatube/yatube/pkg/telemetry"
)

const (
	identityKey = "identity"
	loginPath   = "/auth/login/"
)

// requestLogger logs one line per request, tagged with its trace
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if id := identity(c); id.Authenticated() {
			fields = append(fields, zap.Int64("user_id", id.UserID))
		}

		logger := logging.FromContext(c.Request.Context(), "api")
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Warn("Request", fields...)
			return
		}
		logger.Debug("Request", fields...)
	}
}

// tracing wraps each request in a server span
func tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ctx, span := telemetry.StartSpan(c.Request.Context(), c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", route),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}

// session attaches the identity carried by the session cookie. Missing or
// invalid tokens leave the caller anonymous.
func (r *Router) session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := blog.Anonymous()
		if token, err := c.Cookie(r.cfg.Session.CookieName); err == nil && token != "" {
			if claims, err := r.sessions.Parse(token); err == nil {
				id = blog.Identity{UserID: claims.UserID, Username: claims.Username}
			}
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// loginRequired sends anonymous callers to the login page
func loginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !identity(c).Authenticated() {
			redirectToLogin(c)
			return
		}
		c.Next()
	}
}

func identity(c *gin.Context) blog.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(blog.Identity); ok {
			return id
		}
	}
	return blog.Anonymous()
}

// loginURL returns the login page with next set to the requested path.
// Slashes stay readable in the query value.
func loginURL(next string) string {
	return loginPath + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, loginURL(c.Request.URL.RequestURI()))
	c.Abort()
}
