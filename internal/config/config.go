package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	RevocationMemory = "memory"
	RevocationDB     = "db"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL string

	JWTSecret         []byte
	AccessTTL         time.Duration
	RefreshTTL        time.Duration
	HashIterations    int
	AdminUserIDs      []string
	ProtectUserDelete bool

	RevocationBackend       string
	RevocationPruneSchedule string

	KafkaBrokers   []string
	KafkaUserTopic string

	ESURL       string
	ESUser      string
	ESPassword  string
	ESItemIndex string
}

func LoadConfig() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}
	return Load()
}

func Load() *Config {
	return &Config{
		ServiceName: EnvDefault("SERVICE_NAME", "stores-api"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    os.Getenv("LOG_LEVEL"),

		DatabaseURL: EnvDefault("DATABASE_URL", "sqlite://data.db"),

		JWTSecret:         []byte(os.Getenv("JWT_SECRET")),
		AccessTTL:         EnvDurationDefault("JWT_ACCESS_TTL", 15*time.Minute),
		RefreshTTL:        EnvDurationDefault("JWT_REFRESH_TTL", 30*24*time.Hour),
		HashIterations:    EnvIntDefault("PASSWORD_HASH_ITERATIONS", 29000),
		AdminUserIDs:      CSV(EnvDefault("ADMIN_USER_IDS", "1")),
		ProtectUserDelete: EnvBoolDefault("PROTECT_USER_DELETE", false),

		RevocationBackend:       strings.ToLower(EnvDefault("REVOCATION_BACKEND", RevocationMemory)),
		RevocationPruneSchedule: os.Getenv("REVOCATION_PRUNE_SCHEDULE"),

		KafkaBrokers:   CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaUserTopic: EnvDefault("KAFKA_USER_TOPIC", "user_events"),

		ESURL:       os.Getenv("ES_URL"),
		ESUser:      os.Getenv("ES_USER"),
		ESPassword:  os.Getenv("ES_PASSWORD"),
		ESItemIndex: EnvDefault("ES_ITEM_INDEX", "items"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
