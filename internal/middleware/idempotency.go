package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Idempotency guards completion-style POSTs against double submission. A
// short-lived SetNX lock rejects a concurrent duplicate while the first
// request is still in flight; the lock expires on its own if the process
// dies mid-request.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		subjectID := c.GetString("subject_id")
		if subjectID == "" {
			c.Next()
			return
		}

		lockKey := fmt.Sprintf("idemp:%s:%s:%s:lock", c.FullPath(), c.Param("id"), subjectID)

		isNew, err := rdb.SetNX(c.Request.Context(), lockKey, "locked", 30*time.Second).Result()
		if err != nil {
			// Redis being down must not block the request path.
			c.Next()
			return
		}
		if !isNew {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    "PROCESSING",
				"message": "A previous identical request is still being processed",
			})
			return
		}

		c.Next()

		// The unlock must survive a client disconnect; a canceled request
		// context would strand the lock until its TTL and 409 an honest
		// retry in the meantime.
		rdb.Del(context.WithoutCancel(c.Request.Context()), lockKey)
	}
}
