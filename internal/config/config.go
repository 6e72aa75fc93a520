package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port  string
	DBDSN string

	JWTSecret    string
	TokenTTL     time.Duration
	CookieName   string
	CookieSecure bool

	AllowedOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// rabbitMQ
	RabbitURL   string
	RabbitQueue string

	// inference gateway
	InferenceProvider string
	InferenceTimeout  time.Duration
	HFBaseURL         string
	HFAPIKey          string
	HFModel           string
	OllamaBaseURL     string
	OllamaModel       string

	LogLevel string
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found, using system environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	// DSN demo:
	// app:apppass@tcp(127.0.0.1:3306)/gopherchat?charset=utf8mb4&parseTime=true&loc=Local
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			"app", "apppass", "127.0.0.1", "3306", "gopherchat",
		)
	}

	tokenTTL := 7 * 24 * time.Hour
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			tokenTTL = d
		}
	}

	cookieName := os.Getenv("COOKIE_NAME")
	if cookieName == "" {
		cookieName = "auth_token"
	}

	var origins []string
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	cacheTTL := 5 * time.Minute
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cacheTTL = d
		}
	}

	rabbitQueue := os.Getenv("RABBIT_QUEUE")
	if rabbitQueue == "" {
		rabbitQueue = "chat_events"
	}

	provider := os.Getenv("INFERENCE_PROVIDER")
	if provider == "" {
		provider = "huggingface"
	}

	inferenceTimeout := 60 * time.Second
	if v := os.Getenv("INFERENCE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			inferenceTimeout = d
		}
	}

	hfBaseURL := os.Getenv("HF_BASE_URL")
	if hfBaseURL == "" {
		hfBaseURL = "https://api-inference.huggingface.co"
	}

	hfModel := os.Getenv("HF_MODEL")
	if hfModel == "" {
		hfModel = "gpt2"
	}

	ollamaBaseURL := os.Getenv("OLLAMA_BASE_URL")
	if ollamaBaseURL == "" {
		ollamaBaseURL = "http://localhost:11434"
	}

	ollamaModel := os.Getenv("OLLAMA_MODEL")
	if ollamaModel == "" {
		ollamaModel = "llama3:latest"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return Config{
		Port:  port,
		DBDSN: dsn,

		JWTSecret:    os.Getenv("JWT_SECRET"),
		TokenTTL:     tokenTTL,
		CookieName:   cookieName,
		CookieSecure: os.Getenv("COOKIE_SECURE") == "true",

		AllowedOrigins: origins,

		RedisAddr:     redisAddr,
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		CacheTTL:      cacheTTL,

		RabbitURL:   os.Getenv("RABBIT_URL"),
		RabbitQueue: rabbitQueue,

		InferenceProvider: provider,
		InferenceTimeout:  inferenceTimeout,
		HFBaseURL:         hfBaseURL,
		HFAPIKey:          os.Getenv("HF_API_KEY"),
		HFModel:           hfModel,
		OllamaBaseURL:     ollamaBaseURL,
		OllamaModel:       ollamaModel,

		LogLevel: logLevel,
	}
}

// Validate checks startup preconditions. A missing JWT secret is fatal here
// so token issuance never has to handle it per-request.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}
