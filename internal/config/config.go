package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	AuthJWTSecret string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	PaystackSecretKey string
	PaystackBaseURL   string
	Currency          string
	FrontendURL       string

	SingleWorkflowPrice string
	AllAccessPrice      string

	AdminEmail    string
	AdminPassword string
}

// Module provides the loaded configuration.
var Module = fx.Module("config",
	fx.Provide(Load),
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "vexa"),
		AppVersion:  getenv("APP_VERSION", "1.0.0"),
		Environment: getenv("ENVIRONMENT", "development"),

		AuthJWTSecret: strings.TrimSpace(getenv("AUTH_JWT_SECRET", "")),

		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "vexa"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),

		PaystackSecretKey: strings.TrimSpace(getenv("PAYSTACK_SECRET_KEY", "")),
		PaystackBaseURL:   strings.TrimRight(getenv("PAYSTACK_BASE_URL", "https://api.paystack.co"), "/"),
		Currency:          strings.ToUpper(getenv("PAYMENT_CURRENCY", "GHS")),
		FrontendURL:       strings.TrimRight(getenv("FRONTEND_URL", "http://localhost:8000"), "/"),

		SingleWorkflowPrice: getenv("SINGLE_WORKFLOW_PRICE", "149"),
		AllAccessPrice:      getenv("ALL_ACCESS_PRICE", "799"),

		AdminEmail:    strings.ToLower(strings.TrimSpace(getenv("ADMIN_EMAIL", ""))),
		AdminPassword: getenv("ADMIN_PASSWORD", ""),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
