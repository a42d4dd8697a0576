package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	resp "lapor-fasilitas/internal/transport/http/response"
)

// ConcurrencyLimit caps in-flight requests to protect the two database
// pools behind the handlers.
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sem.Acquire(c, 1); err != nil {
			resp.Fail(c, http.StatusServiceUnavailable, "Server sibuk")
			c.Abort()
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
