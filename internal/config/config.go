package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Store     StoreConfig
	Keys      APIKeys
	Ai        AIConfig
	Extractor ExtractorConfig
	Github    GithubConfig
	Events    EventsConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	BodyLimitMB        int
	NatsURL            string // empty disables domain events
	RedisURL           string
}

type StoreConfig struct {
	Driver string // "memory", "redis" or "postgres"
	DSN    string
	TTL    time.Duration
}

type APIKeys struct {
	GoogleGemini string
	Groq         string
	XAI          string
	Github       string // optional, raises the GitHub rate limit
}

type AIConfig struct {
	Responder     string   // "rules", "ollama", "gemini", "groq" or "xai"
	Responders    []string // ordered fallback chain, e.g. "xai,groq,gemini"
	OllamaBaseURL string
	LLMModel      string // e.g. "llama3", "qwen2.5"
	GeminiModel   string
	GroqModel     string
	XAIModel      string
	HistoryWindow int
}

type ExtractorConfig struct {
	URL     string // empty falls back to the noop extractor
	Timeout time.Duration
}

type GithubConfig struct {
	BaseURL string
	Timeout time.Duration
}

type EventsConfig struct {
	Topic       string // in-process ingestion topic
	SubjectRoot string // NATS subject prefix
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			BodyLimitMB:        getEnvAsInt("BODY_LIMIT_MB", 10),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", "memory")),
			DSN:    getEnv("DB_CONNECTION_STRING", ""),
			TTL:    getEnvAsDuration("STORE_TTL", 24*time.Hour),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Groq:         getEnv("GROQ_API_KEY", ""),
			XAI:          getEnv("XAI_API_KEY", ""),
			Github:       getEnv("GITHUB_TOKEN", ""),
		},
		Ai: AIConfig{
			Responder:     strings.ToLower(getEnv("AI_RESPONDER", "rules")),
			Responders:    getEnvAsList("AI_RESPONDERS"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMModel:      getEnv("LLM_MODEL", "llama3"),
			GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			GroqModel:     getEnv("GROQ_MODEL", "llama-3.1-8b-instant"),
			XAIModel:      getEnv("XAI_MODEL", "grok-4-1-fast-reasoning"),
			HistoryWindow: getEnvAsInt("CHAT_HISTORY_WINDOW", 5),
		},
		Extractor: ExtractorConfig{
			URL:     getEnv("EXTRACTOR_URL", ""),
			Timeout: getEnvAsDuration("EXTRACTOR_TIMEOUT", 30*time.Second),
		},
		Github: GithubConfig{
			BaseURL: getEnv("GITHUB_API_URL", "https://api.github.com"),
			Timeout: getEnvAsDuration("GITHUB_TIMEOUT", 30*time.Second),
		},
		Events: EventsConfig{
			Topic:       getEnv("RESUME_INGEST_TOPIC_NAME", "RESUME_UPLOADED"),
			SubjectRoot: getEnv("EVENTS_SUBJECT_ROOT", "resume"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("45s") or a bare number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

// getEnvAsList splits a comma separated value, dropping blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, ""), ",") {
		if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
			out = append(out, item)
		}
	}
	return out
}
