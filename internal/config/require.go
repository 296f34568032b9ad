package config

import "log"

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}

// MustLoad reads the environment and stops the process when a value the
// service cannot run without is absent.
func MustLoad() *Config {
	cfg := LoadConfig()

	MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	if cfg.RevocationBackend != RevocationMemory && cfg.RevocationBackend != RevocationDB {
		log.Fatalf("REVOCATION_BACKEND must be %q or %q, got %q", RevocationMemory, RevocationDB, cfg.RevocationBackend)
	}

	return cfg
}
