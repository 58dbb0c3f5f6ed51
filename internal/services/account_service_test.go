package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/paymybuddy/backend/internal/repository"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthConfig() {
	viper.Set("argon2.salt_length", 16)
	viper.Set("argon2.time", 1)
	viper.Set("argon2.memory", 8*1024)
	viper.Set("argon2.threads", 1)
	viper.Set("argon2.key_length", 32)
	viper.Set("jwt.secret_key", "test-secret")
	viper.Set("jwt.expiry_hours", 24)
}

func TestAccountService_Register(t *testing.T) {
	setupAuthConfig()
	ctx := context.Background()
	store := repository.NewMemoryStore()
	recorder, auditLogger := newAuditRecorder()
	svc := NewAccountService(store, nil, auditLogger)

	t.Run("successful registration", func(t *testing.T) {
		account, err := svc.Register(ctx, RegisterParams{Username: "alice", Email: "Alice@Example.com", Password: "Secret123!x"})
		require.NoError(t, err)
		assert.NotZero(t, account.ID)
		assert.Equal(t, "alice@example.com", account.Email)
		assert.True(t, account.Balance.IsZero())
		assert.NotEqual(t, "Secret123!x", account.Password)
		assert.True(t, verifyPassword("Secret123!x", account.Password))
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterParams{Username: "alice", Email: "other@example.com", Password: "Secret123!x"})
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterParams{Username: "alice2", Email: "ALICE@example.com", Password: "Secret123!x"})
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterParams{Username: "bob", Email: "bob@example.com", Password: "password"})
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Contains(t, Reason(err), "password")
		assert.True(t, recorder.contains(`"operation":"register"`))
		assert.True(t, recorder.contains("INVALID_ARGUMENT"))
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterParams{Username: "bob", Email: "bob", Password: "Secret123!x"})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestAccountService_Authenticate(t *testing.T) {
	setupAuthConfig()
	ctx := context.Background()
	store := repository.NewMemoryStore()
	_, auditLogger := newAuditRecorder()
	svc := NewAccountService(store, nil, auditLogger)

	registered, err := svc.Register(ctx, RegisterParams{Username: "alice", Email: "alice@example.com", Password: "Secret123!x"})
	require.NoError(t, err)

	t.Run("successful login", func(t *testing.T) {
		account, token, err := svc.Authenticate(ctx, "alice@example.com", "Secret123!x")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, account.ID)

		parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) { return []byte("test-secret"), nil })
		require.NoError(t, err)
		claims := parsed.Claims.(jwt.MapClaims)
		assert.Equal(t, float64(registered.ID), claims["user_id"])
		assert.NotEmpty(t, claims["jti"])
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Authenticate(ctx, "alice@example.com", "Wrong123!xx")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Authenticate(ctx, "nobody@example.com", "Secret123!x")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestAccountService_UpdateProfile(t *testing.T) {
	setupAuthConfig()
	ctx := context.Background()
	store := repository.NewMemoryStore()
	recorder, auditLogger := newAuditRecorder()
	svc := NewAccountService(store, nil, auditLogger)

	alice, err := svc.Register(ctx, RegisterParams{Username: "alice", Email: "alice@example.com", Password: "Secret123!x"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterParams{Username: "bob", Email: "bob@example.com", Password: "Secret123!x"})
	require.NoError(t, err)

	// give alice money directly so we can check profile updates keep it
	funded, err := store.Accounts().FindByID(ctx, alice.ID)
	require.NoError(t, err)
	funded.Balance = dec("12.34")
	require.NoError(t, store.Accounts().Save(ctx, funded))

	t.Run("rename keeps balance and password", func(t *testing.T) {
		updated, err := svc.UpdateProfile(ctx, alice.ID, ProfileParams{Username: "alicia", Email: "alice@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "alicia", updated.Username)
		assert.True(t, dec("12.34").Equal(balanceOf(t, store, alice.ID)))

		_, _, err = svc.Authenticate(ctx, "alice@example.com", "Secret123!x")
		assert.NoError(t, err)
	})

	t.Run("change password", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, alice.ID, ProfileParams{Username: "alicia", Email: "alice@example.com", Password: "NewSecret1!"})
		require.NoError(t, err)

		_, _, err = svc.Authenticate(ctx, "alice@example.com", "NewSecret1!")
		assert.NoError(t, err)
	})

	t.Run("taken email", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, alice.ID, ProfileParams{Username: "alicia", Email: "bob@example.com"})
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("invalid email is audited", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, alice.ID, ProfileParams{Username: "alicia", Email: "not-an-email"})
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.True(t, recorder.contains(`"operation":"profile"`))
		assert.True(t, dec("12.34").Equal(balanceOf(t, store, alice.ID)))
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, 999, ProfileParams{Username: "ghost", Email: "ghost@example.com"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("get account", func(t *testing.T) {
		account, err := svc.GetAccount(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alicia", account.Username)

		_, err = svc.GetAccount(ctx, 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAccountService_Logout(t *testing.T) {
	ctx := context.Background()
	db, redisMock := redismock.NewClientMock()
	_, auditLogger := newAuditRecorder()
	svc := NewAccountService(repository.NewMemoryStore(), db, auditLogger)
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	t.Run("blacklists the token id", func(t *testing.T) {
		redisMock.ExpectSet(RevokedTokenKey("abc"), "1", time.Hour).SetVal("OK")

		err := svc.Logout(ctx, "abc", fixed.Add(time.Hour))
		require.NoError(t, err)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("redis failure", func(t *testing.T) {
		redisMock.ExpectSet(RevokedTokenKey("def"), "1", time.Hour).SetErr(errors.New("connection refused"))

		err := svc.Logout(ctx, "def", fixed.Add(time.Hour))
		assert.ErrorIs(t, err, ErrStorageFailure)
	})

	t.Run("expired token needs no entry", func(t *testing.T) {
		err := svc.Logout(ctx, "old", fixed.Add(-time.Minute))
		assert.NoError(t, err)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})
}

func TestPasswordHashing(t *testing.T) {
	setupAuthConfig()

	hashed, err := hashPassword("Secret123!x")
	require.NoError(t, err)
	assert.NotEmpty(t, hashed)

	assert.True(t, verifyPassword("Secret123!x", hashed))
	assert.False(t, verifyPassword("wrongpassword", hashed))
	assert.False(t, verifyPassword("Secret123!x", "not-a-hash"))
}

func TestGenerateJWT(t *testing.T) {
	setupAuthConfig()

	first, err := generateJWT(123)
	require.NoError(t, err)
	second, err := generateJWT(123)
	require.NoError(t, err)
	// each token gets its own jti
	assert.NotEqual(t, first, second)
}
