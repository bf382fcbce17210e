package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Token    TokenConfig
	OTP      OTPConfig
	SMS      SMSConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	RateLimit    int
	RateWindow   time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret string
	AccessExpiry time.Duration
	Issuer       string
}

// TokenConfig holds the token economy knobs. One token has a fixed INR value;
// the platform takes CommissionRate from every released escrow hold and the
// seeker pays ProcessingFeeRate on top of the provider's base price.
type TokenConfig struct {
	ValueINR          int64
	CommissionRate    float64
	ProcessingFeeRate float64
}

type OTPConfig struct {
	SeekerTTL   time.Duration
	ProviderTTL time.Duration
	MaxAttempts int
	HashSecret  string
}

type SMSConfig struct {
	SenderID string
	DryRun   bool
}

func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Server: ServerConfig{
			Port:         getenv("PORT", "8090"),
			Env:          getenv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			RateLimit:    getenvInt("RATE_LIMIT", 100),
			RateWindow:   time.Minute,
		},
		Database: DatabaseConfig{
			DSN:             getenv("DATABASE_DSN", "chillconnect:chillconnect@tcp(localhost:3306)/chillconnect?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret: getenv("JWT_ACCESS_SECRET", "change-me-in-production"),
			AccessExpiry: 30 * time.Minute,
			Issuer:       "chillconnect",
		},
		Token: TokenConfig{
			ValueINR:          100,
			CommissionRate:    getenvFloat("PLATFORM_COMMISSION", 0.15),
			ProcessingFeeRate: getenvFloat("PROCESSING_FEE_RATE", 0.05),
		},
		OTP: OTPConfig{
			SeekerTTL:   30 * time.Minute,
			ProviderTTL: 10 * time.Minute,
			MaxAttempts: 5,
			HashSecret:  getenv("OTP_HASH_SECRET", "change-me-otp-secret"),
		},
		SMS: SMSConfig{
			SenderID: getenv("SMS_SENDER_ID", "CHILLCNCT"),
			DryRun:   getenv("SMS_DRY_RUN", "true") == "true",
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
