package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	CORSAllowedOrigins []string

	// RedisURL enables the comment change notifier when set.
	RedisURL string

	// IPLookupURL is the endpoint queried for the approving party's public IP.
	IPLookupURL     string
	IPLookupTimeout time.Duration

	// CNPJLookupURL is the registry endpoint queried to prefill company data.
	CNPJLookupURL string

	// CommentsTriggerRevision reopens sent budgets when a client comments.
	CommentsTriggerRevision bool

	// BudgetValidityDays defaults the validity window of new budgets.
	BudgetValidityDays int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "8h")
	viper.SetDefault("JWT_ISSUER", "arsol-orcamento")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"})
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("IP_LOOKUP_URL", "https://api.ipify.org?format=json")
	viper.SetDefault("IP_LOOKUP_TIMEOUT", "3s")
	viper.SetDefault("CNPJ_LOOKUP_URL", "https://brasilapi.com.br/api/cnpj/v1")
	viper.SetDefault("COMMENTS_TRIGGER_REVISION", false)
	viper.SetDefault("BUDGET_VALIDITY_DAYS", 30)

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
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 8 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.CORSAllowedOrigins = viper.GetStringSlice("CORS_ALLOWED_ORIGINS")
	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.IPLookupURL = viper.GetString("IP_LOOKUP_URL")

	ipTimeoutStr := viper.GetString("IP_LOOKUP_TIMEOUT")
	ipTimeout, err := time.ParseDuration(ipTimeoutStr)
	if err != nil {
		ipTimeout = 3 * time.Second
		log.Printf("Warning: Invalid value for IP_LOOKUP_TIMEOUT ('%s'). Defaulting to %s.\n", ipTimeoutStr, ipTimeout)
	}
	cfg.IPLookupTimeout = ipTimeout

	cfg.CNPJLookupURL = viper.GetString("CNPJ_LOOKUP_URL")
	cfg.CommentsTriggerRevision = viper.GetBool("COMMENTS_TRIGGER_REVISION")
	cfg.BudgetValidityDays = viper.GetInt("BUDGET_VALIDITY_DAYS")

	return cfg, nil
}
