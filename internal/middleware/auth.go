package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/paymybuddy/backend/internal/services"
	"github.com/spf13/viper"
)

type contextKey string

const claimsKey contextKey = "claims"

// Claims is what a verified bearer token says about the caller
type Claims struct {
	UserID    int64
	TokenID   string
	ExpiresAt time.Time
}

var redisClient *redis.Client

// InitAuthMiddleware enables token revocation checks. Without Redis,
// logged-out tokens stay valid until they expire.
func InitAuthMiddleware(client *redis.Client) {
	redisClient = client
}

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			services.SendErrorResponse(w, "Authorization header required", http.StatusUnauthorized, nil)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			services.SendErrorResponse(w, "Invalid authorization header format", http.StatusUnauthorized, nil)
			return
		}

		claims, err := validateToken(parts[1])
		if err != nil {
			log.Printf("[AUTH] Rejected token: %v", err)
			services.SendErrorResponse(w, "Invalid token", http.StatusUnauthorized, nil)
			return
		}

		if revoked, err := isRevoked(r.Context(), claims.TokenID); err != nil {
			log.Printf("[AUTH] Revocation check failed: %v", err)
			services.SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
			return
		} else if revoked {
			services.SendErrorResponse(w, "Token has been revoked", http.StatusUnauthorized, nil)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// WithClaims stores verified claims on the context
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok && claims != nil
}

// UserIDFromContext returns the authenticated caller's account id
func UserIDFromContext(ctx context.Context) (int64, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}

func validateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(viper.GetString("jwt.secret_key")), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}

	// JSON numbers decode as float64
	rawID, ok := mapClaims["user_id"].(float64)
	if !ok || rawID <= 0 {
		return nil, fmt.Errorf("missing user_id claim")
	}

	exp, err := mapClaims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("missing exp claim")
	}

	jti, _ := mapClaims["jti"].(string)
	return &Claims{
		UserID:    int64(rawID),
		TokenID:   jti,
		ExpiresAt: exp.Time,
	}, nil
}

func isRevoked(ctx context.Context, jti string) (bool, error) {
	if redisClient == nil || jti == "" {
		return false, nil
	}

	n, err := redisClient.Exists(ctx, services.RevokedTokenKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
