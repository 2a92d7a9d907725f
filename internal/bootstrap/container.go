package bootstrap

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"resume-assistant-be/internal/config"
	"resume-assistant-be/internal/controller"
	"resume-assistant-be/internal/model"
	"resume-assistant-be/internal/pkg/logger"
	"resume-assistant-be/internal/repository/cache"
	"resume-assistant-be/internal/repository/contract"
	"resume-assistant-be/internal/repository/implementation"
	"resume-assistant-be/internal/repository/memory"
	"resume-assistant-be/internal/service"
	"resume-assistant-be/pkg/candidate"
	"resume-assistant-be/pkg/database"
	"resume-assistant-be/pkg/events"
	"resume-assistant-be/pkg/github"
	"resume-assistant-be/pkg/llm/factory"
	"resume-assistant-be/pkg/rag/history"
	"resume-assistant-be/pkg/rag/intent"
	"resume-assistant-be/pkg/rag/response"
	"resume-assistant-be/pkg/resume"

	pktNats "resume-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverRedis    = "redis"
	StoreDriverPostgres = "postgres"
)

type Container struct {
	// Controllers
	HealthController    controller.IHealthController
	UploadController    controller.IUploadController
	ChatController      controller.IChatController
	CandidateController controller.ICandidateController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []func()
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c.Logger = sysLogger

	// 1. Candidate registry
	candidateRepo, err := c.newCandidateRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var eventPublisher events.Publisher = events.NopPublisher{}
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, cfg.Events.SubjectRoot)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// 3. Collaborators
	var extractor resume.Extractor = resume.NoopExtractor{}
	if cfg.Extractor.URL != "" {
		extractor = resume.NewHTTPExtractor(cfg.Extractor.URL, cfg.Extractor.Timeout)
		log.Printf("[INFO] Using resume extractor at %s", cfg.Extractor.URL)
	}

	llmProvider, err := factory.NewLLMProvider(ctx, factory.Settings{
		Responders:    cfg.Ai.Responders,
		Responder:     cfg.Ai.Responder,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
		OllamaModel:   cfg.Ai.LLMModel,
		GeminiAPIKey:  cfg.Keys.GoogleGemini,
		GeminiModel:   cfg.Ai.GeminiModel,
		GroqAPIKey:    cfg.Keys.Groq,
		GroqModel:     cfg.Ai.GroqModel,
		XAIAPIKey:     cfg.Keys.XAI,
		XAIModel:      cfg.Ai.XAIModel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	if llmProvider != nil {
		log.Printf("[INFO] Using LLM responder: %s", llmProvider.Name())
	}

	window := cfg.Ai.HistoryWindow
	if window <= 0 {
		window = history.DefaultWindow
	}
	resolver := intent.NewResolverWithRules(intent.DefaultRules(), intent.FallbackRule(), window)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Events.Topic, pubSub)
	uploadService := service.NewUploadService(candidateRepo, candidate.NewIDGenerator(), publisherService, eventPublisher, sysLogger)
	chatService := service.NewChatService(resolver, response.NewGenerator(llmProvider, sysLogger), candidateRepo, eventPublisher, sysLogger)
	githubClient := github.NewClient(cfg.Github.BaseURL, cfg.Keys.Github, cfg.Github.Timeout)
	candidateService := service.NewCandidateService(candidateRepo, githubClient, eventPublisher, sysLogger)

	ingestLogger := logger.NewIsolatedLogger(filepath.Join(filepath.Dir(cfg.App.LogFilePath), "ingest.log"))
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Events.Topic, candidateRepo, extractor, cfg.Extractor.Timeout, eventPublisher, ingestLogger)

	// 5. Controllers
	c.HealthController = controller.NewHealthController()
	c.UploadController = controller.NewUploadController(uploadService)
	c.ChatController = controller.NewChatController(chatService)
	c.CandidateController = controller.NewCandidateController(candidateService)

	return c, nil
}

func (c *Container) newCandidateRepository(ctx context.Context, cfg *config.Config) (contract.CandidateRepository, error) {
	switch cfg.Store.Driver {
	case "", StoreDriverMemory:
		return memory.NewCandidateRepository(cfg.Store.TTL), nil

	case StoreDriverRedis:
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.closers = append(c.closers, func() { _ = rdb.Close() })
		return cache.NewCandidateRepository(rdb, cfg.Store.TTL), nil

	case StoreDriverPostgres:
		if cfg.Store.DSN == "" {
			return nil, fmt.Errorf("DB_CONNECTION_STRING is required for the postgres store")
		}
		db, err := database.NewGormDBFromDSN(cfg.Store.DSN, !cfg.IsProduction())
		if err != nil {
			return nil, fmt.Errorf("unable to connect to GORM DB: %w", err)
		}
		if err := database.Migrate(db, &model.CandidateProfile{}); err != nil {
			return nil, fmt.Errorf("failed to migrate candidate_profiles: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			c.closers = append(c.closers, func() { _ = sqlDB.Close() })
		}
		return implementation.NewCandidateRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}
