package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/linguaspark/linguaspark-backend/internal/data/db"
	"github.com/linguaspark/linguaspark-backend/internal/modules/lessons/generation"
	"github.com/linguaspark/linguaspark-backend/internal/platform/envutil"
)

type Config struct {
	LogMode     string
	ServiceName string
	Port        int `validate:"min=1,max=65535"`

	DBDriver    string `validate:"oneof=postgres sqlite"`
	DatabaseURL string `validate:"required_if=DBDriver postgres"`
	DBMaxOpen   int    `validate:"min=0"`
	DBMaxIdle   int    `validate:"min=0"`

	// Redis backs the extension hand-off store; empty keeps it in memory.
	RedisAddr       string
	RedisPassword   string
	RedisDB         int           `validate:"min=0"`
	ContentTTL      time.Duration `validate:"min=1s"`
	ContentCapacity int           `validate:"min=1"`

	AIProvider        string `validate:"omitempty,oneof=openrouter gemini"`
	OpenRouterAPIKey  string `validate:"required_without=GeminiAPIKey"`
	OpenRouterBaseURL string `validate:"omitempty,url"`
	OpenRouterModel   string
	GeminiAPIKey      string
	GeminiModel       string
	AIMaxRetries      int `validate:"min=0,max=10"`

	JWTSecret   string `validate:"required"`
	JWTAudience string
	AdminEmails []string `validate:"dive,email"`

	MaxConcurrentGenerations int           `validate:"min=1,max=256"`
	GenerationTimeout        time.Duration `validate:"min=1s"`

	CORSOrigins []string
}

// LoadConfig reads the environment. Call Validate before wiring.
func LoadConfig() Config {
	databaseURL := envutil.String("DATABASE_URL", "")
	driver := db.DriverSQLite
	if databaseURL != "" {
		driver = db.DriverPostgres
	}
	driver = strings.ToLower(envutil.String("DB_DRIVER", driver))
	if driver == db.DriverSQLite && databaseURL == "" {
		databaseURL = envutil.String("SQLITE_PATH", "linguaspark.db")
	}

	return Config{
		LogMode:     envutil.String("LOG_MODE", "development"),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", "linguaspark-api"),
		Port:        envutil.Int("PORT", 8080),

		DBDriver:    driver,
		DatabaseURL: databaseURL,
		DBMaxOpen:   envutil.Int("DB_MAX_OPEN_CONNS", 20),
		DBMaxIdle:   envutil.Int("DB_MAX_IDLE_CONNS", 10),

		RedisAddr:       envutil.String("REDIS_ADDR", ""),
		RedisPassword:   envutil.String("REDIS_PASSWORD", ""),
		RedisDB:         envutil.Int("REDIS_DB", 0),
		ContentTTL:      envutil.Seconds("CONTENT_TTL_SECONDS", 10*time.Minute),
		ContentCapacity: envutil.Int("CONTENT_CAPACITY", 1000),

		AIProvider:        strings.ToLower(envutil.String("AI_PROVIDER", "")),
		OpenRouterAPIKey:  envutil.String("OPENROUTER_API_KEY", ""),
		OpenRouterBaseURL: envutil.String("OPENROUTER_BASE_URL", ""),
		OpenRouterModel:   envutil.String("OPENROUTER_MODEL", ""),
		GeminiAPIKey:      envutil.String("GEMINI_API_KEY", ""),
		GeminiModel:       envutil.String("GEMINI_MODEL", ""),
		AIMaxRetries:      envutil.Int("AI_MAX_RETRIES", 2),

		JWTSecret:   envutil.String("SUPABASE_JWT_SECRET", ""),
		JWTAudience: envutil.String("SUPABASE_JWT_AUDIENCE", "authenticated"),
		AdminEmails: envutil.CSV("ADMIN_EMAILS", nil),

		MaxConcurrentGenerations: envutil.Int("MAX_CONCURRENT_GENERATIONS", 4),
		GenerationTimeout:        envutil.Seconds("GENERATION_TIMEOUT", generation.DefaultTimeout),

		CORSOrigins: envutil.CSV("CORS_ALLOWED_ORIGINS", nil),
	}
}

func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeField(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

var envNames = map[string]string{
	"Port":                     "PORT",
	"DBDriver":                 "DB_DRIVER",
	"DatabaseURL":              "DATABASE_URL",
	"RedisDB":                  "REDIS_DB",
	"ContentTTL":               "CONTENT_TTL_SECONDS",
	"ContentCapacity":          "CONTENT_CAPACITY",
	"AIProvider":               "AI_PROVIDER",
	"OpenRouterAPIKey":         "OPENROUTER_API_KEY or GEMINI_API_KEY",
	"OpenRouterBaseURL":        "OPENROUTER_BASE_URL",
	"AIMaxRetries":             "AI_MAX_RETRIES",
	"JWTSecret":                "SUPABASE_JWT_SECRET",
	"MaxConcurrentGenerations": "MAX_CONCURRENT_GENERATIONS",
	"GenerationTimeout":        "GENERATION_TIMEOUT",
}

func describeField(fe validator.FieldError) string {
	name := fe.StructField()
	if env, ok := envNames[name]; ok {
		name = env
	}
	if strings.HasPrefix(fe.Namespace(), "Config.AdminEmails") {
		return fmt.Sprintf("ADMIN_EMAILS contains an invalid address %q", fmt.Sprint(fe.Value()))
	}
	switch fe.Tag() {
	case "required", "required_if", "required_without":
		return name + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", name, fe.Tag())
	}
}
