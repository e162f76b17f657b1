package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health reports liveness of the API and its backing stores.
func (h HandlerSet) Health(c *gin.Context) {
	ctx := c.Request.Context()

	dbOK := h.db.Ping(ctx) == nil
	cacheOK := h.cache.Ping(ctx).Err() == nil

	status := http.StatusOK
	if !dbOK || !cacheOK {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"ok":       dbOK && cacheOK,
		"database": dbOK,
		"cache":    cacheOK,
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}
