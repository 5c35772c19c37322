package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	TokenTTL  time.Duration

	// Admin bootstrap credentials. Consumed once at startup to seed a
	// persisted admin user; never read again afterwards.
	AdminEmail    string
	AdminPassword string

	// Cancellation policy.
	CancelCutoff      time.Duration
	AdminCutoffBypass bool

	CacheTTL time.Duration
}

// Cfg holds the process configuration after LoadEnv.
var Cfg Env

func LoadEnv() Env {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	env := Env{
		AppAddr:           getenv("APP_ADDR", ":8080"),
		GinMode:           strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBUser:            getenv("DB_USER", "root"),
		DBPass:            strings.TrimSpace(os.Getenv("DB_PASS")),
		DBHost:            getenv("DB_HOST", "127.0.0.1:3306"),
		DBName:            getenv("DB_NAME", "easybus"),
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:     strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		RedisDB:           getint("REDIS_DB", 0),
		JWTSecret:         getenv("JWT_SECRET", "change-me-in-production"),
		TokenTTL:          time.Duration(getint("TOKEN_TTL_HOURS", 24)) * time.Hour,
		AdminEmail:        strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		CancelCutoff:      time.Duration(getint("CANCEL_CUTOFF_HOURS", 2)) * time.Hour,
		AdminCutoffBypass: getbool("CANCEL_CUTOFF_ADMIN_BYPASS", false),
		CacheTTL:          time.Duration(getint("CACHE_TTL_SECONDS", 30)) * time.Second,
	}

	Cfg = env
	return env
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getint(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getbool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
