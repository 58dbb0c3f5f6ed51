package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/paymybuddy/backend/internal/services"
)

const (
	IdempotencyHeader    = "Idempotency-Key"
	IdempotencyHitHeader = "X-Idempotency-Hit"

	pendingMarker = "pending"
	// upper bound on how long a crashed request can hold its key
	pendingTTL = time.Minute
)

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// Idempotency replays the first response for a repeated Idempotency-Key.
// Keys are scoped per user, so it must run after AuthMiddleware. Server
// errors are not stored, leaving the caller free to retry.
func Idempotency(client *redis.Client, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if key == "" || client == nil {
				next.ServeHTTP(w, r)
				return
			}

			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
				return
			}
			if len(key) > 255 {
				services.SendErrorResponse(w, "Idempotency-Key is too long", http.StatusBadRequest, nil)
				return
			}

			ctx := r.Context()
			redisKey := fmt.Sprintf("idempotency:%d:%s", userID, key)

			acquired, err := client.SetNX(ctx, redisKey, pendingMarker, pendingTTL).Result()
			if err != nil {
				log.Printf("[IDEMPOTENCY] Failed to reserve key %s: %v", redisKey, err)
				services.SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
				return
			}
			if !acquired {
				replay(ctx, w, client, redisKey)
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			var body bytes.Buffer
			ww.Tee(&body)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			// Detach from the request context: the response is already sent
			saveCtx := context.Background()
			if status >= http.StatusInternalServerError {
				client.Del(saveCtx, redisKey)
				return
			}

			data, _ := json.Marshal(storedResponse{
				Status:      status,
				ContentType: ww.Header().Get("Content-Type"),
				Body:        body.Bytes(),
			})
			if err := client.Set(saveCtx, redisKey, data, ttl).Err(); err != nil {
				log.Printf("[IDEMPOTENCY] Failed to save response for %s: %v", redisKey, err)
			}
		})
	}
}

func replay(ctx context.Context, w http.ResponseWriter, client *redis.Client, redisKey string) {
	val, err := client.Get(ctx, redisKey).Bytes()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		services.SendErrorResponse(w, "Request is being processed, retry shortly", http.StatusConflict, nil)
		return
	}
	if err != nil {
		log.Printf("[IDEMPOTENCY] Failed to read key %s: %v", redisKey, err)
		services.SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
		return
	}

	if string(val) == pendingMarker {
		services.SendErrorResponse(w, "A request with this Idempotency-Key is already in progress", http.StatusConflict, nil)
		return
	}

	var stored storedResponse
	if err := json.Unmarshal(val, &stored); err != nil {
		log.Printf("[IDEMPOTENCY] Corrupt entry for %s: %v", redisKey, err)
		services.SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
		return
	}

	log.Printf("[IDEMPOTENCY] Replaying stored response for %s", redisKey)
	if stored.ContentType != "" {
		w.Header().Set("Content-Type", stored.ContentType)
	}
	w.Header().Set(IdempotencyHitHeader, "true")
	w.WriteHeader(stored.Status)
	w.Write(stored.Body)
}
