package cache

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/pkg/logging"
)

// CacheHeader reports whether a response came from the page cache
const CacheHeader = "X-Cache"

type pageEntry struct {
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *bodyRecorder) WriteString(s string) (int, error) {
	r.body.WriteString(s)
	return r.ResponseWriter.WriteString(s)
}

// PageKey returns the cache key of a request URI under prefix
func PageKey(prefix, requestURI string) string {
	return prefix + ":" + HashKey(requestURI)
}

// Page serves GET requests from store, keyed by request URI. Misses run the
// handler and cache 200 responses for ttl. Entries are never invalidated
// early, so readers may see content up to ttl old. A ttl of zero disables it.
func Page(store Store, prefix string, ttl time.Duration) gin.HandlerFunc {
	logger := logging.WithComponent("page-cache")

	return func(c *gin.Context) {
		if ttl <= 0 || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := PageKey(prefix, c.Request.URL.RequestURI())

		raw, ok, err := store.Get(ctx, key)
		if err != nil {
			logger.Warn("Page cache read failed", zap.String("key", key), zap.Error(err))
		}
		if ok {
			var entry pageEntry
			if err := json.Unmarshal(raw, &entry); err == nil {
				c.Header(CacheHeader, "HIT")
				c.Data(http.StatusOK, entry.ContentType, entry.Body)
				c.Abort()
				return
			}
			logger.Warn("Discarding corrupt page cache entry", zap.String("key", key))
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Header(CacheHeader, "MISS")
		c.Next()

		if rec.Status() != http.StatusOK {
			return
		}
		raw, err = json.Marshal(pageEntry{
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.body.Bytes(),
		})
		if err != nil {
			return
		}
		if err := store.Set(ctx, key, raw, ttl); err != nil {
			logger.Warn("Page cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
}
