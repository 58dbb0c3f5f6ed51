package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"log"
	"math/big"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/paymybuddy/backend/internal/audit"
	"github.com/paymybuddy/backend/internal/config"
	"github.com/paymybuddy/backend/internal/models"
	"github.com/skip2/go-qrcode"
)

const inviteCodeLength = 8

// Invite is a short-lived code another user can redeem to be allowed to pay the inviter
type Invite struct {
	Code      string    `json:"code" example:"K7Q2M9XA"`
	QRImage   string    `json:"qrImage"` // base64 PNG
	ExpiresAt time.Time `json:"expiresAt"`
}

// InviteService hands out friend invites backed by Redis
type InviteService struct {
	redis     *redis.Client
	relations *RelationshipService
	audit     *audit.Logger
	config    *config.PaymentConfig
	newCode   func() string
}

func NewInviteService(redisClient *redis.Client, relations *RelationshipService, cfg *config.PaymentConfig, auditLogger *audit.Logger) *InviteService {
	return &InviteService{
		redis:     redisClient,
		relations: relations,
		audit:     auditLogger,
		config:    cfg,
		newCode:   generateInviteCode,
	}
}

func (s *InviteService) GenerateInvite(ctx context.Context, ownerID int64) (*Invite, error) {
	if s.redis == nil {
		return nil, report(s.audit, "invite", ownerID, storageFailure("invites unavailable", nil))
	}

	if err := s.checkRateLimit(ctx, ownerID); err != nil {
		return nil, report(s.audit, "invite", ownerID, err)
	}

	code := s.newCode()
	expiresAt := time.Now().Add(s.config.InviteCodeTimeout)
	if err := s.redis.Set(ctx, inviteKey(code), ownerID, s.config.InviteCodeTimeout).Err(); err != nil {
		return nil, report(s.audit, "invite", ownerID, storageFailure("failed to store invite", err))
	}

	qr, err := qrcode.New(code, qrcode.Medium)
	if err != nil {
		return nil, report(s.audit, "invite", ownerID, storageFailure("failed to render invite", err))
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(256)); err != nil {
		return nil, report(s.audit, "invite", ownerID, storageFailure("failed to render invite", err))
	}

	s.incrementRateLimit(ctx, ownerID)

	log.Printf("[INVITE] Account %d generated an invite expiring %v", ownerID, expiresAt.Format(time.RFC3339))
	return &Invite{
		Code:      code,
		QRImage:   base64.StdEncoding.EncodeToString(buf.Bytes()),
		ExpiresAt: expiresAt,
	}, nil
}

// AcceptInvite consumes code and lets userID pay whoever generated it
func (s *InviteService) AcceptInvite(ctx context.Context, userID int64, code string) (*models.Account, error) {
	if s.redis == nil {
		return nil, report(s.audit, "invite", userID, storageFailure("invites unavailable", nil))
	}
	if code == "" {
		return nil, report(s.audit, "invite", userID, invalidArgument("an invite code is required"))
	}

	// GETDEL makes the code single use even under concurrent redemption
	val, err := s.redis.GetDel(ctx, inviteKey(code)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, report(s.audit, "invite", userID, notFound("invite code is invalid or expired"))
	}
	if err != nil {
		return nil, report(s.audit, "invite", userID, storageFailure("failed to read invite", err))
	}

	inviterID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return nil, report(s.audit, "invite", userID, storageFailure("corrupt invite", err))
	}

	return s.relations.AddRelationByID(ctx, userID, inviterID)
}

func (s *InviteService) checkRateLimit(ctx context.Context, ownerID int64) error {
	count, err := s.redis.Get(ctx, rateLimitKey(ownerID)).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return storageFailure("failed to check invite rate limit", err)
	}

	if count >= s.config.InviteMaxPerWindow {
		return invalidArgument("too many invites, try again later")
	}
	return nil
}

func (s *InviteService) incrementRateLimit(ctx context.Context, ownerID int64) {
	key := rateLimitKey(ownerID)
	pipe := s.redis.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.config.InviteRateLimitWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[INVITE] Failed to update rate limit for account %d: %v", ownerID, err)
	}
}

func inviteKey(code string) string {
	return fmt.Sprintf("invite:%s", code)
}

func rateLimitKey(ownerID int64) string {
	return fmt.Sprintf("invite:ratelimit:%d", ownerID)
}

// generateInviteCode avoids characters that are easy to misread
func generateInviteCode() string {
	const charset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	code := make([]byte, inviteCodeLength)
	charsetLen := big.NewInt(int64(len(charset)))

	for i := range code {
		n, _ := rand.Int(rand.Reader, charsetLen)
		code[i] = charset[n.Int64()]
	}
	return string(code)
}
