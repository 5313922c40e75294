package container

import (
	"context"
	"fmt"
	"time"

	"libreria-backend/internal/config"
	infraCache "libreria-backend/internal/infrastructure/cache"
	"libreria-backend/internal/infrastructure/database"
	"libreria-backend/internal/infrastructure/storage"
	"libreria-backend/pkg/cache"
	"libreria-backend/pkg/jwt"
	"libreria-backend/pkg/logger"

	authorHandler "libreria-backend/internal/domains/author/handler"
	authorRepo "libreria-backend/internal/domains/author/repository"
	authorService "libreria-backend/internal/domains/author/service"
	bookHandler "libreria-backend/internal/domains/book/handler"
	bookRepo "libreria-backend/internal/domains/book/repository"
	bookService "libreria-backend/internal/domains/book/service"
	userHandler "libreria-backend/internal/domains/user/handler"
	userRepo "libreria-backend/internal/domains/user/repository"
	userService "libreria-backend/internal/domains/user/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton built once at startup; initialization order is config, then
// infrastructure, then repositories, services and handlers.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	BlobStore  storage.BlobStore
	JWTManager *jwt.Manager

	AuthorRepo authorRepo.Repository
	BookRepo   bookRepo.Repository
	UserRepo   userRepo.Repository

	AuthorService authorService.Service
	BookService   bookService.Service
	UserService   userService.Service

	AuthorHandler *authorHandler.AuthorHandler
	BookHandler   *bookHandler.BookHandler
	UserHandler   *userHandler.UserHandler
}

// NewContainer builds and wires the whole application. A database or blob
// store failure aborts startup; an unreachable Redis does not.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	logger.Info("database connected", nil)

	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(context.Background()); err != nil {
		// Degraded but functional: reads fall through to Postgres.
		logger.Warn("redis connection failed, caching disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		logger.Info("redis connected", nil)
	}
	c.Cache = redisCache

	blobStore, err := storage.NewBlobStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize blob store: %w", err)
	}
	c.BlobStore = blobStore
	logger.Info("blob store initialized", map[string]interface{}{
		"backend": cfg.Storage.Backend,
	})

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.AuthorRepo = authorRepo.NewPostgresRepository(pool, c.Cache)
	c.BookRepo = bookRepo.NewPostgresRepository(pool, c.Cache)
	c.UserRepo = userRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo)
	c.BookService = bookService.NewBookService(c.BookRepo, c.BlobStore, c.AuthorRepo)
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
}

func (c *Container) initHandlers() {
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService, c.BlobStore)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
}

// Cleanup releases infrastructure resources during graceful shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
		logger.Info("database connections closed", nil)
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				logger.Warn("failed to close redis", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}
