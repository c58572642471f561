package bootstrap

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"escapadas-chatbot-be/internal/config"
	"escapadas-chatbot-be/internal/constant"
	"escapadas-chatbot-be/internal/controller"
	"escapadas-chatbot-be/internal/observability"
	"escapadas-chatbot-be/internal/pkg/logger"
	"escapadas-chatbot-be/internal/repository/implementation"
	"escapadas-chatbot-be/internal/repository/memory"
	"escapadas-chatbot-be/internal/service"
	"escapadas-chatbot-be/internal/websocket"
	"escapadas-chatbot-be/pkg/database"
	"escapadas-chatbot-be/pkg/embedding"
	"escapadas-chatbot-be/pkg/knowledge"
	"escapadas-chatbot-be/pkg/llm/factory"
	pktNats "escapadas-chatbot-be/pkg/nats"
	"escapadas-chatbot-be/pkg/rag/profile"
	"escapadas-chatbot-be/pkg/rag/prompt"
	"escapadas-chatbot-be/pkg/rag/response"
	"escapadas-chatbot-be/pkg/rag/router"
	"escapadas-chatbot-be/pkg/rag/session"
	"escapadas-chatbot-be/pkg/sink"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
	"gorm.io/gorm"
)

const ragLogPath = "logs/llm_rag.log"

type Container struct {
	ChatbotController controller.IChatbotController

	// Background services, started by main.go
	InteractionConsumer service.IInteractionConsumer
	WebSocketHub        *websocket.Hub

	Metrics *observability.Metrics
	Logger  logger.ILogger

	closers []func()
}

// NewContainer wires every dependency. A corpus that cannot be loaded is an
// error: the service must not start without its knowledge base.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	metrics := observability.NewMetrics(cfg.App.MetricsNamespace)
	c.Logger = sysLogger
	c.Metrics = metrics

	// Database (optional)
	var db *gorm.DB
	if cfg.Database.Connection != "" {
		gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		db = gormDB
	}

	// Embeddings
	baseEmbedder, err := embedding.NewProvider(embedding.ProviderConfig{
		Provider:     cfg.Ai.EmbeddingProvider,
		Model:        cfg.Ai.EmbeddingModel,
		OpenAIKey:    cfg.Keys.OpenAI,
		OpenAIURL:    cfg.Ai.OpenAIBaseURL,
		OllamaURL:    cfg.Ai.OllamaBaseURL,
		GeminiAPIKey: cfg.Keys.GoogleGemini,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	embedder := embedding.NewCachedProvider(baseEmbedder, c.vectorCache(ctx, cfg), cfg.Ai.EmbeddingProvider+":"+cfg.Ai.EmbeddingModel)
	log.Printf("[INFO] Using Embedding Provider: %s (%s)", cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingModel)

	// LLM
	llmBaseURL := cfg.Ai.OpenAIBaseURL
	if cfg.Ai.LLMProvider == "ollama" {
		llmBaseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, llmBaseURL, cfg.Keys.OpenAI)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Knowledge base
	var source knowledge.Source = knowledge.FileSource{
		FAQDataPath:        cfg.Corpus.FAQDataPath,
		FAQEmbeddingsPath:  cfg.Corpus.FAQEmbeddingsPath,
		ChunkDataPath:      cfg.Corpus.ChunkDataPath,
		ChunkEmbeddingPath: cfg.Corpus.ChunkEmbeddingPath,
	}
	if cfg.Corpus.Source == "postgres" {
		source = knowledge.NewRepositorySource(implementation.NewKnowledgeFragmentRepository(db))
	}
	corpus, err := knowledge.LoadCorpus(ctx, source)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] Knowledge base loaded: %d FAQ entries, %d chunks", corpus.FAQ.Index.Len(), corpus.Chunks.Index.Len())

	// Conversation memory and retrieval
	persona := loadPersona(cfg.Rag.PersonaPath)
	reinforcement := cfg.Rag.Reinforcement
	if reinforcement == "" {
		reinforcement = constant.DefaultReinforcement
	}

	sessionRepo := memory.NewSessionRepository()
	sessionMemory := session.NewMemory(sessionRepo, persona, cfg.Rag.MaxTurns)
	ragLogger := service.NewRAGLogger(ragLogPath)

	chatRouter := router.NewRouter(
		embedder,
		llmProvider,
		response.NewParaphraser(llmProvider, cfg.Rag.ParaphraseTone),
		corpus,
		sessionMemory,
		prompt.NewAssembler(persona, reinforcement),
		router.Config{
			FAQThreshold:      cfg.Rag.FAQThreshold,
			Temperature:       cfg.Rag.Temperature,
			GenerationTimeout: cfg.Ai.LLMTimeout,
		},
		ragLogger,
	)

	// Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var classifier service.ProfileClassifier
	if !cfg.Sinks.ClassifierDisabled {
		classifier = profile.NewClassifier(llmProvider, ragLogger)
	}

	c.InteractionConsumer = service.NewInteractionConsumer(
		pubSub,
		cfg.Sinks.Topic,
		classifier,
		c.sinks(ctx, cfg, db),
		cfg.Sinks.Timeout,
		metrics,
		sysLogger,
	)
	publisher := service.NewInteractionPublisher(pubSub, cfg.Sinks.Topic, metrics, sysLogger)

	// Transport
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	c.WebSocketHub = websocket.NewHub(metrics, wsLogger)

	chatbotService := service.NewChatbotService(chatRouter, publisher, corpus, sessionRepo, metrics, sysLogger)
	c.ChatbotController = controller.NewChatbotController(chatbotService, c.WebSocketHub)

	return c, nil
}

// Close releases background resources in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

func (c *Container) vectorCache(ctx context.Context, cfg *config.Config) embedding.VectorCache {
	if cfg.App.RedisURL == "" {
		return embedding.NewMemoryCache(cfg.Ai.EmbeddingCacheTTL)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Using in-memory embedding cache", err)
		_ = rdb.Close()
		return embedding.NewMemoryCache(cfg.Ai.EmbeddingCacheTTL)
	}
	c.closers = append(c.closers, func() { _ = rdb.Close() })
	return embedding.NewRedisCache(rdb, cfg.Ai.EmbeddingCacheTTL)
}

// sinks builds the interaction sinks. A sink that cannot be built is logged
// and skipped; it never prevents startup.
func (c *Container) sinks(ctx context.Context, cfg *config.Config, db *gorm.DB) []sink.Sink {
	sinks := []sink.Sink{
		sink.NewLogSink(logger.NewIsolatedLogger(cfg.Sinks.TranscriptLogPath)),
	}

	if cfg.Sinks.SheetsSpreadsheet != "" {
		opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
		if cfg.Keys.GoogleCredentials != "" {
			opts = append(opts, option.WithCredentialsJSON([]byte(cfg.Keys.GoogleCredentials)))
		}
		s, err := sink.NewSheetsSink(ctx, cfg.Sinks.SheetsSpreadsheet, cfg.Sinks.SheetsRange, opts...)
		if err != nil {
			log.Printf("[WARN] Spreadsheet sink disabled: %v", err)
		} else {
			sinks = append(sinks, s)
		}
	}

	if cfg.Sinks.NatsEnabled {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			c.closers = append(c.closers, natsPub.Close)
			sinks = append(sinks, sink.NewEventSink(natsPub))
		}
	}

	if cfg.Sinks.DatabaseEnabled && db != nil {
		sinks = append(sinks, sink.NewRepositorySink(implementation.NewInteractionRepository(db)))
	}

	names := make([]string, len(sinks))
	for i, s := range sinks {
		names[i] = s.Name()
	}
	log.Printf("[INFO] Interaction sinks: %s", strings.Join(names, ", "))
	return sinks
}

func loadPersona(path string) string {
	if path == "" {
		return constant.DefaultPersona
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[WARN] Persona file %s not readable (%v). Using built-in persona", path, err)
		return constant.DefaultPersona
	}
	if persona := strings.TrimSpace(string(raw)); persona != "" {
		return persona
	}
	return constant.DefaultPersona
}
