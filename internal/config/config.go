package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Auth
	// AppPasswordが空の場合は認証なしの公開アクセスになる。
	AppPassword string

	// Calendar
	// TimeZoneはカレンダーの暦日・時刻表示に使う固定タイムゾーン名。
	TimeZone     string
	FetchTimeout time.Duration
	FetchMaxSize int64

	// Rate Limit（req/min単位）
	RateLimitGeneral  int
	RateLimitCalendar int

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// defaultTimeZone はTIME_ZONE未設定時の対象タイムゾーン。
const defaultTimeZone = "America/Los_Angeles"

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("required environment variables are not set: [DATABASE_URL]")
	}

	// Optional fields with defaults
	cfg.AppPassword = os.Getenv("APP_PASSWORD")
	cfg.TimeZone = getEnvString("TIME_ZONE", defaultTimeZone)
	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", 10*time.Second)
	cfg.FetchMaxSize = getEnvInt64("FETCH_MAX_SIZE", 5242880)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitCalendar = getEnvInt("RATE_LIMIT_CALENDAR", 30)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	// タイムゾーン名は起動時に検証し、不正値での起動を防ぐ。
	if _, err := time.LoadLocation(cfg.TimeZone); err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE %q: %w", cfg.TimeZone, err)
	}

	return cfg, nil
}

// Location は設定済みタイムゾーンのtime.Locationを返す。
// Loadで検証済みのため失敗しない。
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		// Loadで検証済み。到達した場合は設定の後書き換えなのでpanicでよい。
		panic(fmt.Sprintf("invalid TIME_ZONE %q: %v", c.TimeZone, err))
	}
	return loc
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
