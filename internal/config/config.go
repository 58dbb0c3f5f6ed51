package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LookupField selects which account attribute a free-text identifier is matched against
type LookupField string

const (
	LookupByUsername LookupField = "username"
	LookupByEmail    LookupField = "email"
)

type PaymentConfig struct {
	HistoryPageSize       int
	HistoryMaxPageSize    int
	ReceiverLookup        LookupField
	FriendLookup          LookupField
	InviteCodeTimeout     time.Duration
	InviteMaxPerWindow    int
	InviteRateLimitWindow time.Duration
	IdempotencyTTL        time.Duration
}

func LoadPaymentConfig() *PaymentConfig {
	return &PaymentConfig{
		HistoryPageSize:       getEnvAsInt("HISTORY_PAGE_SIZE", 5),
		HistoryMaxPageSize:    getEnvAsInt("HISTORY_MAX_PAGE_SIZE", 100),
		ReceiverLookup:        getEnvAsLookup("TRANSFER_RECEIVER_LOOKUP", LookupByUsername),
		FriendLookup:          getEnvAsLookup("RELATION_FRIEND_LOOKUP", LookupByEmail),
		InviteCodeTimeout:     getEnvAsDuration("INVITE_CODE_TIMEOUT", 10*time.Minute),
		InviteMaxPerWindow:    getEnvAsInt("INVITE_MAX_PER_WINDOW", 10),
		InviteRateLimitWindow: getEnvAsDuration("INVITE_RATE_LIMIT_WINDOW", time.Hour),
		IdempotencyTTL:        getEnvAsDuration("IDEMPOTENCY_TTL", 24*time.Hour),
	}
}

// SetDefaults registers viper defaults for settings read at call time
func SetDefaults() {
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.name", "paymybuddy")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.connect_timeout", 10*time.Second)

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.dial_timeout", 5*time.Second)

	viper.SetDefault("jwt.expiry_hours", 24)
	viper.SetDefault("argon2.time", 1)
	viper.SetDefault("argon2.memory", 64*1024)
	viper.SetDefault("argon2.threads", 4)
	viper.SetDefault("argon2.key_length", 32)
	viper.SetDefault("argon2.salt_length", 16)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil && intVal > 0 {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			return duration
		}
	}
	return defaultVal
}

func getEnvAsLookup(key string, defaultVal LookupField) LookupField {
	switch LookupField(strings.ToLower(getEnv(key, string(defaultVal)))) {
	case LookupByUsername:
		return LookupByUsername
	case LookupByEmail:
		return LookupByEmail
	default:
		return defaultVal
	}
}
