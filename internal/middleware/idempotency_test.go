package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-traindesk/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	lockKey := "idemp:/sops/:id/complete:sop-1:subj-1:lock"

	t.Run("acquires and releases the lock around the handler", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectDel(lockKey).SetVal(1)

		r := gin.New()
		r.POST("/sops/:id/complete",
			func(c *gin.Context) { c.Set("subject_id", "subj-1"); c.Next() },
			middleware.Idempotency(rdb),
			func(c *gin.Context) { c.Status(http.StatusOK) },
		)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sops/sop-1/complete", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent duplicate is rejected", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		r := gin.New()
		handlerHit := false
		r.POST("/sops/:id/complete",
			func(c *gin.Context) { c.Set("subject_id", "subj-1"); c.Next() },
			middleware.Idempotency(rdb),
			func(c *gin.Context) { handlerHit = true },
		)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sops/sop-1/complete", nil))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.False(t, handlerHit)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lock is released even when the client disconnects", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectDel(lockKey).SetVal(1)

		ctx, cancel := context.WithCancel(context.Background())

		r := gin.New()
		r.POST("/sops/:id/complete",
			func(c *gin.Context) { c.Set("subject_id", "subj-1"); c.Next() },
			middleware.Idempotency(rdb),
			func(c *gin.Context) {
				// Simulates the client going away mid-request.
				cancel()
				c.Status(http.StatusOK)
			},
		)

		req := httptest.NewRequest(http.MethodPost, "/sops/sop-1/complete", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Error(t, ctx.Err())
		assert.NoError(t, mock.ExpectationsWereMet(), "the unlock must not be skipped on a canceled request")
	})

	t.Run("passes through without redis", func(t *testing.T) {
		r := gin.New()
		handlerHit := false
		r.POST("/sops/:id/complete",
			func(c *gin.Context) { c.Set("subject_id", "subj-1"); c.Next() },
			middleware.Idempotency(nil),
			func(c *gin.Context) { handlerHit = true; c.Status(http.StatusOK) },
		)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sops/sop-1/complete", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, handlerHit)
	})
}
