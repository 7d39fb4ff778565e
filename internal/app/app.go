// internal/app/app.go

// Package app wires configuration, infrastructure and services together
// for the api, worker and seeder binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/pharmacy-be/internal/adapters/db"
	redis_a "github.com/ammerola/pharmacy-be/internal/adapters/redis_adapter"
	"github.com/ammerola/pharmacy-be/internal/adapters/spreadsheet"
	"github.com/ammerola/pharmacy-be/internal/adapters/storage"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
	"github.com/ammerola/pharmacy-be/internal/core/services"
	"github.com/ammerola/pharmacy-be/internal/pkg/config"
	"github.com/ammerola/pharmacy-be/internal/workers"
)

// Container holds every long-lived dependency of a process.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	Database    *db.Database
	RedisClient *redis.Client
	Cache       *redis_a.Cache
	AsynqClient *asynq.Client
	Store       *db.Store
	Files       ports.FileStore
	Sheets      spreadsheet.XLSX

	Auth         *services.AuthService
	Users        *services.UserService
	Audit        *services.AuditService
	Stock        *services.StockService
	Purchases    *services.PurchaseService
	Sales        *services.SaleService
	Batches      *services.BatchService
	Medicines    *services.MedicineService
	Catalog      *services.CatalogService
	Transactions *services.TransactionService
	Imports      *services.ImportService
	ImportJobs   *services.ImportJobService
	Dashboard    *services.DashboardService
}

// LoadConfig reads configuration and, when SECRETS_NAME is set, overlays
// the sensitive values from AWS Secrets Manager.
func LoadConfig(ctx context.Context, logger *slog.Logger) (*config.Config, error) {
	cfg, err := config.Load(logger)
	if err != nil {
		return nil, err
	}
	if cfg.Secrets.Name == "" {
		return cfg, nil
	}

	sm, err := config.NewAWSSecretsManager(ctx, cfg.Secrets.Region, cfg.Secrets.Name, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create secrets manager: %w", err)
	}
	if err := config.ApplySecrets(ctx, cfg, sm); err != nil {
		return nil, err
	}
	logger.Info("secrets loaded", slog.String("secret", cfg.Secrets.Name))
	return cfg, nil
}

// AsynqRedisOpt returns the asynq connection settings. Tasks live in their
// own Redis database next to the cache.
func AsynqRedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Asynq.RedisDB,
	}
}

// New connects to Postgres, Redis and the file store and builds the
// services. Call Close when done.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *Container, err error) {
	c := &Container{Config: cfg, Logger: logger, Sheets: spreadsheet.New()}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	logger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name))

	c.Database, err = db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logger.Info("connecting to Redis", slog.String("addr", cfg.Redis.Addr()))
	c.RedisClient = redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	if err = c.RedisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	c.Cache = redis_a.NewCache(c.RedisClient, cfg.Redis.TTL, logger)

	if c.Files, err = newFileStore(ctx, cfg, logger); err != nil {
		return nil, err
	}

	c.AsynqClient = asynq.NewClient(AsynqRedisOpt(cfg))
	queue := workers.NewTaskQueue(c.AsynqClient, cfg.Asynq.RetryMax, cfg.Upload.ProcessingTimeout)

	c.Store = db.NewStore(c.Database, logger)
	c.buildServices(queue)

	logger.Info("all dependencies initialized successfully")
	return c, nil
}

func (c *Container) buildServices(queue ports.TaskQueue) {
	cfg, logger := c.Config, c.Logger

	c.Auth = services.NewAuthService(c.Store, c.Cache, services.AuthConfig{
		Secret:     cfg.Security.JWTSecret,
		Issuer:     cfg.Security.JWTIssuer,
		AccessTTL:  cfg.Security.JWTExpiration,
		RefreshTTL: cfg.Security.JWTRefreshExpiration,
		BcryptCost: cfg.Security.BcryptCost,
	}, logger)
	c.Users = services.NewUserService(c.Store, cfg.Security.BcryptCost, logger)
	c.Audit = services.NewAuditService(c.Store, logger)
	c.Catalog = services.NewCatalogService(c.Store, c.Cache, logger)
	c.Stock = services.NewStockService(c.Store, c.Cache, cfg.Redis.TTL, logger)
	c.Purchases = services.NewPurchaseService(c.Store, c.Cache, logger)
	c.Sales = services.NewSaleService(c.Store, c.Cache, logger)
	c.Batches = services.NewBatchService(c.Store, c.Cache, cfg.Redis.TTL, logger)
	c.Medicines = services.NewMedicineService(c.Store, c.Catalog, c.Cache, logger)
	c.Transactions = services.NewTransactionService(c.Store, logger)
	c.Imports = services.NewImportService(c.Store, c.Catalog, c.Medicines, c.Purchases, c.Sheets, logger)
	c.ImportJobs = services.NewImportJobService(c.Imports, c.Files, queue, c.Cache, logger)
	c.Dashboard = services.NewDashboardService(c.Store, c.Cache, cfg.Redis.DashboardTTL, logger)
}

func newFileStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.FileStore, error) {
	if !cfg.Storage.UseS3() {
		logger.Info("using local upload storage", slog.String("path", cfg.Storage.LocalPath))
		return storage.NewLocalStorage(cfg.Storage.LocalPath, logger)
	}

	logger.Info("using S3 upload storage",
		slog.String("bucket", cfg.Storage.S3Bucket),
		slog.String("region", cfg.Storage.Region))
	return storage.NewS3Storage(ctx, &storage.S3Config{
		Region:          cfg.Storage.Region,
		Bucket:          cfg.Storage.S3Bucket,
		Prefix:          cfg.Storage.S3Prefix,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		Endpoint:        cfg.Storage.S3Endpoint,
		UsePathStyle:    cfg.Storage.UsePathStyle,
	}, logger)
}

// Migrate applies the embedded migrations with retries.
func (c *Container) Migrate(ctx context.Context) error {
	c.Logger.Info("running database migrations")
	return db.RunMigrationsWithRetry(ctx, &db.MigrationConfig{
		DatabaseURL: c.Config.GetDatabaseURL(),
	}, c.Logger, c.Config.Database.MigrationRetries)
}

// Rollback undoes the last steps migrations, or all of them when steps is
// not positive.
func (c *Container) Rollback(ctx context.Context, steps int) error {
	c.Logger.Warn("rolling back database migrations", slog.Int("steps", steps))
	return db.RollbackMigrations(ctx, &db.MigrationConfig{
		DatabaseURL: c.Config.GetDatabaseURL(),
	}, c.Logger, steps)
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			c.Logger.Error("failed to close Asynq client", slog.String("error", err.Error()))
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Error("failed to close Redis client", slog.String("error", err.Error()))
		}
	}
	if c.Database != nil {
		c.Database.Close()
	}
}
