package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the full environment surface of the service. Credentials are
// only ever supplied through the environment, never as literals in code.
type Config struct {
	HTTPAddr string

	DatabaseURL string

	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// EmailProvider selects the mailer implementation: "resend" or "sendgrid".
	EmailProvider string
	EmailAPIKey   string
	EmailSender   string
	EmailTimeout  time.Duration

	// OTPExpiry is the single canonical validity window for a code. Every
	// code path that checks freshness reads this value.
	OTPExpiry time.Duration
	OTPLength int
	// PendingTTL bounds the whole pending registration. It is longer than
	// OTPExpiry so an expired code can be resent without redoing the form.
	PendingTTL time.Duration

	OTPRateWindow time.Duration
	OTPRateMax    int

	JWTSecret string
	JWTTTL    time.Duration
}

func Load() *Config {
	return &Config{
		HTTPAddr: GetEnvAsString("HTTP_ADDR", ":8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		RedisURL:      os.Getenv("REDIS_URL"),
		RedisHost:     GetEnvAsString("REDIS_HOST", "localhost"),
		RedisPort:     GetEnvAsString("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       GetEnvAsInt("REDIS_DB", 0),

		EmailProvider: GetEnvAsString("EMAIL_PROVIDER", "resend"),
		EmailAPIKey:   os.Getenv("EMAIL_API_KEY"),
		EmailSender:   os.Getenv("EMAIL_SENDER"),
		EmailTimeout:  GetEnvAsDuration("EMAIL_TIMEOUT", 10*time.Second),

		OTPExpiry:  GetEnvAsDuration("OTP_EXPIRY", 5*time.Minute),
		OTPLength:  GetEnvAsInt("OTP_LENGTH", 6),
		PendingTTL: GetEnvAsDuration("PENDING_TTL", 15*time.Minute),

		OTPRateWindow: GetEnvAsDuration("OTP_RATE_WINDOW", time.Minute),
		OTPRateMax:    GetEnvAsInt("OTP_RATE_MAX", 3),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    GetEnvAsDuration("JWT_TTL", 24*time.Hour),
	}
}

// GetEnvAsInt gets environment variable as int with default value
func GetEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvAsDuration gets environment variable as duration with default value
func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// GetEnvAsString gets environment variable as string with default value
func GetEnvAsString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
