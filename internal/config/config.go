package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port       string
	AppVersion string
	Env        string

	MongoURI      string
	MongoDatabase string

	RedisAddr         string
	PredictRateLimit  int
	PredictRateWindow time.Duration

	ModelPath        string
	ModelEagerLoad   bool
	InferenceWorkers int
	InferenceTimeout time.Duration

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	AdminToken      string

	RootURL      string
	MailConsole  bool
	MailServer   string
	MailPort     int
	MailUsername string
	MailPassword string
	MailSender   string
}

// Load reads the given env files (missing ones are skipped) and returns a
// populated Config. Variables already set in the process win.
func Load(files ...string) *Config {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			slog.Warn("env file not found, using system environment variables", "file", f)
		}
	}

	return &Config{
		Port:       getEnv("PORT", "8000"),
		AppVersion: getEnv("APP_VERSION", "dev"),
		Env:        getEnv("ENV", "development"),

		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "flight_price_predictor"),

		RedisAddr:         getEnv("REDIS_ADDR", ""),
		PredictRateLimit:  getEnvInt("PREDICT_RATE_LIMIT", 60),
		PredictRateWindow: getEnvDuration("PREDICT_RATE_WINDOW", time.Minute),

		ModelPath:        getEnv("MODEL_PATH", "ml/flight_price_rf.json"),
		ModelEagerLoad:   getEnvBool("MODEL_EAGER_LOAD", true),
		InferenceWorkers: getEnvInt("INFERENCE_WORKERS", 0),
		InferenceTimeout: getEnvDuration("INFERENCE_TIMEOUT", 0),

		JWTSecret:       getEnv("AUTHJWT_SECRET_KEY", ""),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 24*time.Hour),
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		AdminToken:      getEnv("ADMIN_TOKEN", ""),

		RootURL:      getEnv("ROOT_URL", "http://localhost:8000"),
		MailConsole:  getEnvBool("MAIL_CONSOLE", true),
		MailServer:   getEnv("MAIL_SERVER", ""),
		MailPort:     getEnvInt("MAIL_PORT", 465),
		MailUsername: getEnv("MAIL_USERNAME", ""),
		MailPassword: getEnv("MAIL_PASSWORD", ""),
		MailSender:   getEnv("MAIL_SENDER", ""),
	}
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err == nil {
			return d
		}
	}
	return fallback
}
