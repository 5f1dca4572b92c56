package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort        string
	AppEnv         string
	AllowedOrigins []string // CORS allowed origins

	// Verification core.
	OTPLength    int           // digits per code
	OTPTTL       time.Duration // how long a stored code stays redeemable
	StoreBackend string        // "memory" | "dynamo" | "redis"

	// DynamoDB store backend.
	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTable    string

	// Redis store backend.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Email channel.
	SMTPHost       string
	SMTPPort       int
	SMTPFrom       string
	SMTPSenderName string // name shown in the recipient inbox
	SMTPUsername   string
	SMTPPassword   string

	// SMS channel.
	SNSRegion string

	// Verification proof tokens.
	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	ProofTokenTTL     time.Duration

	// Per-client rate limit on the public endpoints.
	RateLimitPerSec float64
	RateLimitBurst  int
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),

		OTPLength:    getEnvInt("OTP_CODE_LENGTH", 6),
		OTPTTL:       time.Duration(getEnvInt("OTP_TTL_SECONDS", 300)) * time.Second,
		StoreBackend: getEnv("VERIFICATION_STORE", "memory"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTable:    getEnv("DYNAMO_TABLE_VERIFICATIONS", "verifications"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		SMTPHost:       getEnv("SMTP_HOST", "localhost"),
		SMTPPort:       getEnvInt("SMTP_PORT", 1025),
		SMTPFrom:       getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPSenderName: getEnv("SMTP_SENDER_NAME", "Verification"),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),

		SNSRegion: getEnv("SNS_REGION", "us-east-1"),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		ProofTokenTTL:     time.Duration(getEnvInt("PROOF_TOKEN_TTL_SECONDS", 600)) * time.Second,

		RateLimitPerSec: getEnvFloat("RATE_LIMIT_PER_SEC", 5),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 10),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
