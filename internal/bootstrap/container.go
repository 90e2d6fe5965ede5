package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"infoguru-be/internal/config"
	"infoguru-be/internal/constant"
	"infoguru-be/internal/controller"
	"infoguru-be/internal/pkg/logger"
	"infoguru-be/internal/pkg/serverutils"
	"infoguru-be/internal/repository/unitofwork"
	"infoguru-be/internal/service"
	"infoguru-be/pkg/assistant"
	"infoguru-be/pkg/events"
	"infoguru-be/pkg/llm/factory"
	pktNats "infoguru-be/pkg/nats"
	"infoguru-be/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	activityTopic  = "infoguru.activity"
	devTokenSecret = "infoguru-dev-secret"
)

type Container struct {
	// Controllers
	AuthController controller.IAuthController
	UserController controller.IUserController
	ChatController controller.IChatController

	AuthMiddleware fiber.Handler
	Logger         logger.ILogger

	// Background Services (Exposed for main.go to run)
	ActivityService service.IActivityService

	closers []func() error
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	ctx := context.Background()
	c := &Container{}

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	activityLogger := logger.NewIsolatedLogger(cfg.App.ActivityLogPath)
	c.Logger = sysLogger
	c.closers = append(c.closers, sysLogger.Sync, activityLogger.Sync)

	// 2. Event Bus
	localBus := events.NewLocalBus(activityTopic)
	c.closers = append(c.closers, localBus.Close)

	publishers := []events.Publisher{localBus}
	if cfg.Infra.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.Infra.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			publishers = append(publishers, natsPub)
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}
	}
	publisher := events.NewMultiPublisher(publishers...)

	// 3. Credentials
	blacklist, err := newBlacklist(ctx, cfg, c)
	if err != nil {
		return nil, err
	}
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		log.Printf("[WARN] JWT_SECRET is empty, using the development secret")
		secret = devTokenSecret
	}
	tokens := token.NewManager(secret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL, blacklist)

	// 4. Reply generation
	generator, err := newGenerator(ctx, cfg.Assistant, c)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] Using assistant provider: %s", cfg.Assistant.Provider)

	// 5. Services
	users := service.NewUserDirectory(uowFactory, sysLogger)
	chats := service.NewChatStore(uowFactory, sysLogger)

	authService := service.NewAuthService(users, tokens, publisher, sysLogger)
	userService := service.NewUserService(users)
	chatService := service.NewChatService(users, chats, generator, publisher, sysLogger)
	c.ActivityService = service.NewActivityService(localBus, activityLogger)

	// 6. Controllers
	c.AuthController = controller.NewAuthController(authService)
	c.UserController = controller.NewUserController(userService)
	c.ChatController = controller.NewChatController(chatService)
	c.AuthMiddleware = serverutils.NewJwtMiddleware(tokens)

	return c, nil
}

func newBlacklist(ctx context.Context, cfg *config.Config, c *Container) (token.Blacklist, error) {
	if cfg.Auth.Blacklist != "redis" {
		return token.NewMemoryBlacklist(), nil
	}

	opt, err := redis.ParseURL(cfg.Infra.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.Infra.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis token blacklist unavailable: %w", err)
	}
	c.closers = append(c.closers, rdb.Close)
	return token.NewRedisBlacklist(rdb), nil
}

func newGenerator(ctx context.Context, cfg config.AssistantConfig, c *Container) (assistant.Generator, error) {
	if cfg.Provider == "" || cfg.Provider == "static" {
		return assistant.NewStaticGenerator(constant.PlaceholderReply), nil
	}

	provider, err := factory.NewLLMProvider(ctx, factory.Settings{
		Provider:      cfg.Provider,
		Model:         cfg.Model,
		OllamaBaseURL: cfg.OllamaBaseURL,
		GroqAPIKey:    cfg.GroqAPIKey,
		GeminiAPIKey:  cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	if closer, ok := provider.(io.Closer); ok {
		c.closers = append(c.closers, closer.Close)
	}
	return assistant.NewLLMGenerator(
		provider,
		constant.AssistantSystemPrompt,
		constant.FallbackReply,
		constant.AssistantHistoryLimit,
	), nil
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
