package bootstrap

import (
	"context"
	"log"
	"time"

	"gem-curator-be/internal/config"
	"gem-curator-be/internal/controller"
	"gem-curator-be/internal/pkg/logger"
	"gem-curator-be/internal/repository/catalog"
	"gem-curator-be/internal/repository/memory"
	"gem-curator-be/internal/repository/redisstore"
	"gem-curator-be/internal/repository/unitofwork"
	"gem-curator-be/internal/service"
	"gem-curator-be/pkg/curator"
	"gem-curator-be/pkg/events"
	"gem-curator-be/pkg/llm"
	"gem-curator-be/pkg/llm/factory"

	pktNats "gem-curator-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	CuratorController controller.ICuratorController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger  logger.ILogger
	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	decisionLogger := logger.NewIsolatedLogger(cfg.Curator.DecisionLogPath)

	c := &Container{Logger: sysLogger}

	// 2. Text generation, also backs the LLM policy
	llmProvider, err := factory.NewLLMProvider(factory.Settings{
		Provider:      cfg.Ai.LLMProvider,
		Model:         cfg.Ai.LLMModel,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
		OpenAIBaseURL: cfg.Ai.OpenAIBaseURL,
		OpenAIAPIKey:  cfg.Ai.OpenAIAPIKey,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 3. Session persistence
	store := c.newSessionStore(cfg)

	// 4. Event Bus
	publisher, subscriber := c.newEventBus(cfg)

	// 5. Curation engine
	trackCatalog := catalog.NewCatalog(uowFactory)
	supervisor := NewSupervisor(cfg.Curator.Policy, curator.Dependencies{
		Seeds:  trackCatalog,
		Search: trackCatalog,
		Writer: llmProvider,
		Logger: sysLogger,
	}, llmProvider, decisionLogger)

	curatorService := service.NewCuratorService(uowFactory, supervisor, store, publisher, sysLogger)
	c.CuratorController = controller.NewCuratorController(curatorService)

	if subscriber != nil {
		c.ConsumerService = service.NewConsumerService(subscriber, "curation-audit", decisionLogger)
	}

	return c
}

// NewSupervisor builds the decision loop with the configured policy:
// "rules" selects the deterministic rule table, anything else the LLM.
func NewSupervisor(policyName string, deps curator.Dependencies, provider llm.LLMProvider, decisionLog logger.ILogger) *curator.Supervisor {
	registry := curator.DefaultRegistry(deps)

	var policy curator.Policy
	if policyName == "rules" || provider == nil {
		policy = curator.NewRulePolicy()
		log.Printf("[INFO] Using Curator Policy: RULES")
	} else {
		policy = curator.NewLLMPolicy(provider, registry)
		log.Printf("[INFO] Using Curator Policy: LLM")
	}

	return curator.NewSupervisor(registry, policy, decisionLog)
}

func (c *Container) newSessionStore(cfg *config.Config) curator.SessionStore {
	ttl := time.Duration(cfg.Curator.SessionTTLMin) * time.Minute

	if cfg.Curator.SessionStore != "redis" {
		log.Printf("[INFO] Using Session Store: MEMORY (ttl %s)", ttl)
		return memory.NewSessionRepository(ttl)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Falling back to MEMORY session store", err)
		_ = rdb.Close()
		return memory.NewSessionRepository(ttl)
	}
	c.closers = append(c.closers, func() { _ = rdb.Close() })

	log.Printf("[INFO] Using Session Store: REDIS (ttl %s)", ttl)
	return redisstore.NewSessionRepository(rdb, ttl)
}

// newEventBus prefers NATS JetStream and falls back to the in-process bus.
func (c *Container) newEventBus(cfg *config.Config) (events.Publisher, events.Subscriber) {
	if !cfg.App.EventsEnabled {
		log.Printf("[INFO] Curation events disabled")
		return nil, nil
	}

	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err == nil {
		natsSub, subErr := pktNats.NewSubscriber(cfg.App.NatsURL)
		if subErr == nil {
			c.closers = append(c.closers, natsPub.Close, natsSub.Close)
			log.Printf("[INFO] Using Event Bus: NATS (%s)", cfg.App.NatsURL)
			return natsPub, natsSub
		}
		natsPub.Close()
		err = subErr
	}
	log.Printf("[WARN] Failed to connect to NATS: %v. Using in-process event bus", err)

	bus := events.NewChannelBus(watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { _ = bus.Close() })
	return bus, bus
}

func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
