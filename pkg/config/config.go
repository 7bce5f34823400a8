package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	TerminalAPIKey    string

	// Fallbacks used when the fare_settings row is missing.
	DefaultNegativeLimit decimal.Decimal
	DefaultFare          decimal.Decimal

	// Notification (SMTP) settings.
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	PosthogAPIKey string
	RateLimit     string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "12h")
	viper.SetDefault("JWT_ISSUER", "nucash-backend")
	viper.SetDefault("TERMINAL_API_KEY", "")
	viper.SetDefault("DEFAULT_NEGATIVE_LIMIT", "-14")
	viper.SetDefault("DEFAULT_FARE", "15")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("SMTP_FROM", "noreply@nucash.local")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("RATE_LIMIT", "60-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 12 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.TerminalAPIKey = viper.GetString("TERMINAL_API_KEY")
	if cfg.TerminalAPIKey == "" {
		log.Println("Warning: TERMINAL_API_KEY not set. Token issuance will reject every request.")
	}

	negLimitStr := viper.GetString("DEFAULT_NEGATIVE_LIMIT")
	negLimit, err := decimal.NewFromString(negLimitStr)
	if err != nil || negLimit.IsPositive() {
		negLimit = decimal.NewFromInt(-14)
		log.Printf("Warning: Invalid value for DEFAULT_NEGATIVE_LIMIT ('%s'). Defaulting to %s.\n", negLimitStr, negLimit.String())
	}
	cfg.DefaultNegativeLimit = negLimit

	fareStr := viper.GetString("DEFAULT_FARE")
	fare, err := decimal.NewFromString(fareStr)
	if err != nil || !fare.IsPositive() {
		fare = decimal.NewFromInt(15)
		log.Printf("Warning: Invalid value for DEFAULT_FARE ('%s'). Defaulting to %s.\n", fareStr, fare.String())
	}
	cfg.DefaultFare = fare

	cfg.SMTPHost = viper.GetString("SMTP_HOST")
	cfg.SMTPPort = viper.GetInt("SMTP_PORT")
	cfg.SMTPUser = viper.GetString("SMTP_USER")
	cfg.SMTPPassword = viper.GetString("SMTP_PASSWORD")
	cfg.SMTPFrom = viper.GetString("SMTP_FROM")
	if cfg.SMTPHost == "" {
		log.Println("Warning: SMTP_HOST not set. Receipt emails will be logged and dropped.")
	}

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
