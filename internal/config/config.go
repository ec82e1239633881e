package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type RubricSource string

const (
	RubricBuiltin RubricSource = "builtin"
	RubricFile    RubricSource = "file"
	RubricDB      RubricSource = "db"
)

// DevHMACSecret signs tokens when AUTH_HMAC_SECRET is unset. It is only
// acceptable while auth is disabled.
const DevHMACSecret = "supersecret-dev-key"

// ErrDevSecret is returned by Validate when auth is on with DevHMACSecret.
var ErrDevSecret = errors.New("ENABLE_AUTH requires AUTH_HMAC_SECRET to be set")

type Config struct {
	HTTPAddr string
	LogLevel string

	RubricSource RubricSource
	RubricPath   string // for file

	DBDriver string // sqlite|postgres, for db
	DBDSN    string

	SegmentPolicy  string // midpoint|even
	MaxUploadBytes int64

	EnableAuth     bool
	AuthHMACSecret string
	AdminUser      string
	AdminPassHash  string // bcrypt

	CORSOrigins []string
}

func FromEnv() Config {
	src := RubricSource(strings.ToLower(os.Getenv("RUBRIC_SOURCE")))
	if src == "" {
		src = RubricBuiltin
		if os.Getenv("RUBRIC_PATH") != "" {
			src = RubricFile
		}
	}
	return Config{
		HTTPAddr:       envOr("HTTP_ADDR", ":8080"),
		LogLevel:       envOr("LOG_LEVEL", "info"),
		RubricSource:   src,
		RubricPath:     os.Getenv("RUBRIC_PATH"),
		DBDriver:       envOr("DB_DRIVER", "sqlite"),
		DBDSN:          envOr("DB_DSN", ""),
		SegmentPolicy:  envOr("SEGMENT_POLICY", "midpoint"),
		MaxUploadBytes: envInt("MAX_UPLOAD_BYTES", 32<<20),
		EnableAuth:     envBool("ENABLE_AUTH", false),
		AuthHMACSecret: envOr("AUTH_HMAC_SECRET", DevHMACSecret),
		AdminUser:      envOr("ADMIN_USER", "admin"),
		AdminPassHash:  os.Getenv("ADMIN_PASS_HASH"),
		CORSOrigins:    csvOr("CORS_ORIGINS", "http://localhost:3000"),
	}
}

// Validate rejects settings the server must not start with.
func (c Config) Validate() error {
	if c.EnableAuth && c.AuthHMACSecret == DevHMACSecret {
		return ErrDevSecret
	}
	return nil
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int64) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(os.Getenv(k)), 10, 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
