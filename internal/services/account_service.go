package services

import (
	"context"
	cryptorand "crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/paymybuddy/backend/internal/audit"
	"github.com/paymybuddy/backend/internal/models"
	"github.com/paymybuddy/backend/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/crypto/argon2"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown email or a wrong password
var ErrInvalidCredentials = &Error{Kind: KindInvalidArgument, Message: "invalid credentials"}

// RegisterParams represents the registration request payload
// @Description Registration request structure
type RegisterParams struct {
	Username string `json:"username" validate:"required,max=50" example:"alice"`               // Public handle used as transfer receiver
	Email    string `json:"email" validate:"required,email,max=100" example:"alice@example.com"` // User email address
	Password string `json:"password" validate:"required,password" example:"Secret123!x"`       // At least 10 chars, mixed case, digit and one of @$!%*?&
}

// LoginParams represents the login request payload
// @Description Login request structure
type LoginParams struct {
	Email    string `json:"email" validate:"required,email" example:"alice@example.com"`
	Password string `json:"password" validate:"required" example:"Secret123!x"`
}

// ProfileParams represents a profile update. An empty password keeps the current one.
// @Description Profile update structure
type ProfileParams struct {
	Username string `json:"username" validate:"required,max=50" example:"alice"`
	Email    string `json:"email" validate:"required,email,max=100" example:"alice@example.com"`
	Password string `json:"password,omitempty" validate:"omitempty,password" example:"Secret123!x"`
}

// AccountService registers users, issues tokens and maintains profiles
type AccountService struct {
	store     repository.Store
	redis     *redis.Client
	audit     *audit.Logger
	validator *ValidationHelper
	now       func() time.Time
}

func NewAccountService(store repository.Store, redisClient *redis.Client, auditLogger *audit.Logger) *AccountService {
	return &AccountService{
		store:     store,
		redis:     redisClient,
		audit:     auditLogger,
		validator: NewValidationHelper(),
		now:       time.Now,
	}
}

// Register creates an account with a zero balance
func (s *AccountService) Register(ctx context.Context, p RegisterParams) (*models.Account, error) {
	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if err := s.validator.ValidateStruct(&p); err != nil {
		return nil, report(s.audit, "register", 0, invalidArgument(describeValidation(err)))
	}

	if err := ensureAvailable(ctx, s.store.Accounts(), 0, p.Username, p.Email); err != nil {
		return nil, report(s.audit, "register", 0, err)
	}

	hashedPassword, err := hashPassword(p.Password)
	if err != nil {
		return nil, report(s.audit, "register", 0, storageFailure("failed to hash password", err))
	}

	account := &models.Account{
		Username: p.Username,
		Email:    p.Email,
		Password: hashedPassword,
		Balance:  decimal.Zero,
	}
	err = s.store.Accounts().Create(ctx, account)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, report(s.audit, "register", 0, alreadyExists("username or email already in use"))
	}
	if err != nil {
		return nil, report(s.audit, "register", 0, storageFailure("failed to create account", err))
	}

	log.Printf("[AUTH] User created successfully - ID: %d, Username: %s", account.ID, account.Username)
	return account, nil
}

// Authenticate checks the credentials and returns the account with a signed token
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.Account, string, error) {
	account, err := s.store.Accounts().FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrNotFound) {
		log.Printf("[AUTH] User not found for email: %s", email)
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", report(s.audit, "login", 0, storageFailure("failed to look up account", err))
	}

	if !verifyPassword(password, account.Password) {
		log.Printf("[AUTH] Invalid password for user ID: %d", account.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := generateJWT(account.ID)
	if err != nil {
		return nil, "", storageFailure("failed to generate token", err)
	}

	log.Printf("[AUTH] Login successful for user %d", account.ID)
	return account, token, nil
}

func (s *AccountService) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	account, err := s.store.Accounts().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("account not found")
	}
	if err != nil {
		return nil, report(s.audit, "profile", id, storageFailure("failed to load account", err))
	}
	return account, nil
}

// UpdateProfile changes username, email and optionally the password. The
// balance is never touched here.
func (s *AccountService) UpdateProfile(ctx context.Context, id int64, p ProfileParams) (*models.Account, error) {
	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if err := s.validator.ValidateStruct(&p); err != nil {
		return nil, report(s.audit, "profile", id, invalidArgument(describeValidation(err)))
	}

	var updated *models.Account
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		locked, err := tx.Accounts().LockByIDs(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("account not found")
		}
		if err != nil {
			return storageFailure("failed to load account", err)
		}
		account := locked[id]

		username, email := "", ""
		if p.Username != account.Username {
			username = p.Username
		}
		if p.Email != account.Email {
			email = p.Email
		}
		if err := ensureAvailable(ctx, tx.Accounts(), id, username, email); err != nil {
			return err
		}

		account.Username = p.Username
		account.Email = p.Email
		if p.Password != "" {
			hashedPassword, err := hashPassword(p.Password)
			if err != nil {
				return storageFailure("failed to hash password", err)
			}
			account.Password = hashedPassword
		}

		err = tx.Accounts().Save(ctx, account)
		if errors.Is(err, repository.ErrDuplicate) {
			return alreadyExists("username or email already in use")
		}
		if err != nil {
			return storageFailure("failed to update account", err)
		}
		updated = account
		return nil
	})
	if err != nil {
		var svcErr *Error
		if !errors.As(err, &svcErr) {
			err = storageFailure("failed to update account", err)
		}
		return nil, report(s.audit, "profile", id, err)
	}

	log.Printf("[AUTH] Profile updated for user %d", id)
	return updated, nil
}

// Logout revokes a token id until the token would have expired anyway
func (s *AccountService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.redis == nil || jti == "" {
		return nil
	}

	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.redis.Set(ctx, RevokedTokenKey(jti), "1", ttl).Err(); err != nil {
		log.Printf("[AUTH] Failed to blacklist token: %v", err)
		return storageFailure("failed to revoke token", err)
	}
	return nil
}

// RevokedTokenKey is the Redis key marking a token id as logged out
func RevokedTokenKey(jti string) string {
	return fmt.Sprintf("blacklist:%s", jti)
}

// ensureAvailable rejects a username or email already used by another
// account. Empty values are skipped.
func ensureAvailable(ctx context.Context, accounts repository.AccountRepository, selfID int64, username, email string) error {
	if username != "" {
		existing, err := accounts.FindByUsername(ctx, username)
		if err == nil && existing.ID != selfID {
			return alreadyExists("username " + username + " is already taken")
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return storageFailure("failed to check username", err)
		}
	}
	if email != "" {
		existing, err := accounts.FindByEmail(ctx, email)
		if err == nil && existing.ID != selfID {
			return alreadyExists("email " + email + " is already registered")
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return storageFailure("failed to check email", err)
		}
	}
	return nil
}

func generateJWT(userID int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"jti":     uuid.NewString(),
		"exp":     time.Now().Add(time.Duration(viper.GetInt("jwt.expiry_hours")) * time.Hour).Unix(),
	})

	return token.SignedString([]byte(viper.GetString("jwt.secret_key")))
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, viper.GetInt("argon2.salt_length"))
	if _, err := cryptorand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt,
		uint32(viper.GetInt("argon2.time")),
		uint32(viper.GetInt("argon2.memory")),
		uint8(viper.GetInt("argon2.threads")),
		uint32(viper.GetInt("argon2.key_length")))
	return fmt.Sprintf("%s$%s", base64.StdEncoding.EncodeToString(salt), base64.StdEncoding.EncodeToString(hash)), nil
}

func verifyPassword(password, hashedPassword string) bool {
	parts := strings.Split(hashedPassword, "$")
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}

	hash, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	computedHash := argon2.IDKey([]byte(password), salt,
		uint32(viper.GetInt("argon2.time")),
		uint32(viper.GetInt("argon2.memory")),
		uint8(viper.GetInt("argon2.threads")),
		uint32(len(hash)))
	return subtle.ConstantTimeCompare(hash, computedHash) == 1
}
