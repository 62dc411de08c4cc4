package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "swap-calldata.backend/internal/domain/errors"
	"swap-calldata.backend/internal/interfaces/http/response"
	"swap-calldata.backend/pkg/logger"
	"swap-calldata.backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// LockDuration is the time we hold the lock while processing
	LockDuration = 30 * time.Second
	// DefaultRetention is how long a compiled response is replayed
	DefaultRetention = 24 * time.Hour

	processingMarker = "processing"
)

var (
	redisGet   = redis.Get
	redisSet   = redis.Set
	redisSetNX = redis.SetNX
	redisDel   = redis.Del
)

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// storedResponse is what gets replayed for a repeated key. Fingerprint is the
// keccak hash of the request body the response was produced for.
type storedResponse struct {
	Status      int    `json:"status"`
	Fingerprint string `json:"fingerprint"`
	Body        string `json:"body"`
}

// IdempotencyMiddleware replays the response of an earlier request carrying
// the same Idempotency-Key. Reusing a key with a different body is rejected.
func IdempotencyMiddleware(retention time.Duration) gin.HandlerFunc {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.Abort(c, http.StatusBadRequest, domainerrors.CodeBadRequest, "failed to read request body")
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		fingerprint := crypto.Keccak256Hash(body).Hex()

		ctx := c.Request.Context()
		storageKey := "idempotency:" + c.FullPath() + ":" + key

		val, err := redisGet(ctx, storageKey)
		switch {
		case err == nil:
			if val == processingMarker {
				response.Abort(c, http.StatusConflict, domainerrors.CodeIdempotencyConflict, "request already in progress")
				return
			}
			var stored storedResponse
			if err := json.Unmarshal([]byte(val), &stored); err != nil {
				logger.Warn(ctx, "Discarding unreadable idempotency record", zap.String("key", storageKey), zap.Error(err))
				_ = redisDel(ctx, storageKey)
				c.Next()
				return
			}
			if stored.Fingerprint != fingerprint {
				response.Abort(c, http.StatusUnprocessableEntity, domainerrors.CodeIdempotencyMismatch, "idempotency key reused with a different request body")
				return
			}
			c.Header("X-Idempotency-Hit", "true")
			c.Data(stored.Status, "application/json; charset=utf-8", []byte(stored.Body))
			c.Abort()
			return
		case !errors.Is(err, redis.Nil):
			logger.Warn(ctx, "Idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}

		acquired, err := redisSetNX(ctx, storageKey, processingMarker, LockDuration)
		if err != nil || !acquired {
			response.Abort(c, http.StatusConflict, domainerrors.CodeIdempotencyConflict, "request already in progress")
			return
		}

		w := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			// failed responses are not replayed
			_ = redisDel(ctx, storageKey)
			return
		}
		record, err := json.Marshal(storedResponse{Status: status, Fingerprint: fingerprint, Body: w.body.String()})
		if err == nil {
			err = redisSet(ctx, storageKey, string(record), retention)
		}
		if err != nil {
			logger.Warn(ctx, "Failed to store idempotent response", zap.String("key", storageKey), zap.Error(err))
			_ = redisDel(ctx, storageKey)
		}
	}
}
