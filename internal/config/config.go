package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Rag      RagConfig
	Corpus   CorpusConfig
	Sinks    SinkConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	OtelEnabled        bool
	MetricsNamespace   string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	OpenAI       string
	GoogleGemini string
	// Service account JSON used by the spreadsheet sink.
	GoogleCredentials string
}

type AIConfig struct {
	EmbeddingProvider string // "openai", "ollama" or "gemini"
	EmbeddingModel    string
	EmbeddingCacheTTL time.Duration
	LLMProvider       string // "openai" or "ollama"
	LLMModel          string
	OpenAIBaseURL     string
	OllamaBaseURL     string
	LLMTimeout        time.Duration
}

type RagConfig struct {
	FAQThreshold   float64
	Temperature    float64
	MaxTurns       int
	PersonaPath    string
	Reinforcement  string
	ParaphraseTone string
}

type CorpusConfig struct {
	Source             string // "file" or "postgres"
	FAQDataPath        string
	FAQEmbeddingsPath  string
	ChunkDataPath      string
	ChunkEmbeddingPath string
}

type SinkConfig struct {
	Topic              string
	SheetsSpreadsheet  string
	SheetsRange        string
	NatsEnabled        bool
	DatabaseEnabled    bool
	TranscriptLogPath  string
	ClassifierDisabled bool
	Timeout            time.Duration
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
			MetricsNamespace:   getEnv("METRICS_NAMESPACE", "chatbot"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			OpenAI:            getEnv("OPENAI_API_KEY", ""),
			GoogleGemini:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
			GoogleCredentials: getEnv("GOOGLE_CREDENTIALS", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "openai"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-ada-002"),
			EmbeddingCacheTTL: getEnvAsDuration("EMBEDDING_CACHE_TTL", 24*time.Hour),
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			LLMModel:          getEnv("LLM_MODEL", "gpt-3.5-turbo"),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMTimeout:        getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
		},
		Rag: RagConfig{
			FAQThreshold:   getEnvAsFloat("RAG_FAQ_THRESHOLD", 0.85),
			Temperature:    getEnvAsFloat("RAG_TEMPERATURE", 0.1),
			MaxTurns:       getEnvAsInt("RAG_MAX_TURNS", 10),
			PersonaPath:    getEnv("PERSONA_PATH", "assets/persona.md"),
			Reinforcement:  getEnv("REINFORCEMENT_DIRECTIVE", ""),
			ParaphraseTone: getEnv("PARAPHRASE_TONE", ""),
		},
		Corpus: CorpusConfig{
			Source:             getEnv("CORPUS_SOURCE", "file"),
			FAQDataPath:        getEnv("FAQ_DATA_PATH", "data/faq_data.json"),
			FAQEmbeddingsPath:  getEnv("FAQ_EMBEDDINGS_PATH", "data/faq_embeddings.json"),
			ChunkDataPath:      getEnv("CHUNK_DATA_PATH", "data/pdf_chunks.json"),
			ChunkEmbeddingPath: getEnv("CHUNK_EMBEDDINGS_PATH", "data/pdf_embeddings.json"),
		},
		Sinks: SinkConfig{
			Topic:              getEnv("INTERACTION_TOPIC_NAME", "interactions"),
			SheetsSpreadsheet:  getEnv("SINK_SHEETS_SPREADSHEET_ID", ""),
			SheetsRange:        getEnv("SINK_SHEETS_RANGE", "Sheet1!A1"),
			NatsEnabled:        getEnvAsBool("SINK_NATS_ENABLED", false),
			DatabaseEnabled:    getEnvAsBool("SINK_DB_ENABLED", false),
			TranscriptLogPath:  getEnv("SINK_TRANSCRIPT_LOG_PATH", "logs/interactions.log"),
			ClassifierDisabled: getEnvAsBool("PROFILE_CLASSIFIER_DISABLED", false),
			Timeout:            getEnvAsDuration("SINK_TIMEOUT", 15*time.Second),
		},
	}
}

// Validate rejects values the router cannot run with.
func (c *Config) Validate() error {
	var problems []string
	if c.Rag.FAQThreshold < -1 || c.Rag.FAQThreshold > 1 {
		problems = append(problems, fmt.Sprintf("RAG_FAQ_THRESHOLD must be within [-1, 1], got %v", c.Rag.FAQThreshold))
	}
	if c.Rag.Temperature < 0 || c.Rag.Temperature > 2 {
		problems = append(problems, fmt.Sprintf("RAG_TEMPERATURE must be within [0, 2], got %v", c.Rag.Temperature))
	}
	if c.Rag.MaxTurns < 2 {
		problems = append(problems, fmt.Sprintf("RAG_MAX_TURNS must be at least 2, got %d", c.Rag.MaxTurns))
	}
	if c.Ai.LLMTimeout <= 0 {
		problems = append(problems, "LLM_TIMEOUT must be positive")
	}
	switch c.Corpus.Source {
	case "file", "postgres":
	default:
		problems = append(problems, fmt.Sprintf("CORPUS_SOURCE must be file or postgres, got %q", c.Corpus.Source))
	}
	if c.Corpus.Source == "postgres" && c.Database.Connection == "" {
		problems = append(problems, "CORPUS_SOURCE=postgres requires DB_CONNECTION_STRING")
	}
	if c.Sinks.DatabaseEnabled && c.Database.Connection == "" {
		problems = append(problems, "SINK_DB_ENABLED requires DB_CONNECTION_STRING")
	}
	if c.Sinks.NatsEnabled && c.App.NatsURL == "" {
		problems = append(problems, "SINK_NATS_ENABLED requires NATS_URL")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
