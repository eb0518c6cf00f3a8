package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	appAuth "github.com/aarjjun/EventSync/internal/app/auth"
	appControllers "github.com/aarjjun/EventSync/internal/app/controllers"
	appMigrations "github.com/aarjjun/EventSync/internal/app/migrations"
	appRepos "github.com/aarjjun/EventSync/internal/app/repositories"
	appRoutes "github.com/aarjjun/EventSync/internal/app/routes"
	appServices "github.com/aarjjun/EventSync/internal/app/services"
	"github.com/aarjjun/EventSync/internal/config"
	"github.com/aarjjun/EventSync/internal/db"
	appMiddleware "github.com/aarjjun/EventSync/internal/middleware"
	pkgAuth "github.com/aarjjun/EventSync/internal/pkg/auth"
	"github.com/aarjjun/EventSync/internal/pkg/email"
	"github.com/aarjjun/EventSync/internal/pkg/filestorage"
	"github.com/aarjjun/EventSync/internal/pkg/lock"
	"github.com/aarjjun/EventSync/internal/pkg/logger"
	"github.com/aarjjun/EventSync/internal/pkg/websocket"
	"github.com/aarjjun/EventSync/internal/seed"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos            *appRepos.Repositories
	JWTService       *pkgAuth.JWTService
	AuthzService     *appAuth.AuthorizationService
	AuthService      *appServices.AuthService
	EventService     *appServices.EventService
	ReportService    *appServices.ReportService
	AuthController   *appControllers.AuthController
	EventController  *appControllers.EventController
	ReportController *appControllers.ReportController
	HealthController *appControllers.HealthController
	AuthMiddleware   *appMiddleware.AuthMiddleware
	Hub              *websocket.Hub
	WSHandler        *websocket.Handler
	FileStorage      *filestorage.LocalStorage
	Redis            *redis.Client // nil when the submission guard is in process
	Logger           zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.FromSettings(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	dbPool, err := db.NewPostgresPool(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	// Default data is created after migrations; failures do not stop startup
	reviewer := seed.ReviewerAccount{Email: cfg.Seed.ReviewerEmail, Password: cfg.Seed.ReviewerPassword}
	if err := seed.CreateDefaultData(ctx, appRepos.NewUserRepository(dbPool), reviewer, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// SetupRedis connects to redis when a URL is configured. It returns nil without one.
func SetupRedis(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*redis.Client, error) {
	if cfg.Redis.URL == "" {
		lgr.Info().Msg("Redis not configured, submission guard kept in process")
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	lgr.Info().Str("addr", opts.Addr).Msg("Redis connection established")
	return client, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, redisClient *redis.Client, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Redis: redisClient}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.Path, cfg.Storage.Bucket, cfg.PublicBaseURL())
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	var guard lock.Guard
	if redisClient != nil {
		guard = lock.NewRedisGuard(redisClient, cfg.SubmitLockTTL())
	} else {
		guard = lock.NewMemoryGuard(cfg.SubmitLockTTL())
	}

	deps.Hub = websocket.NewHub(lgr.With().Str("component", "hub").Logger())
	deps.WSHandler = websocket.NewHandler(deps.Hub, lgr)

	mailer := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		BaseURL:   cfg.PublicBaseURL(),
	}, lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.UserRepository)

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, lgr)
	deps.EventService = appServices.NewEventService(
		deps.Repos.EventRepository,
		deps.Repos.UserRepository,
		deps.FileStorage,
		guard,
		deps.Hub,
		mailer,
		cfg.Location(),
		lgr,
	)
	deps.ReportService = appServices.NewReportService(deps.Repos.EventRepository, appServices.ReportSettings{
		Title:    cfg.Report.Title,
		Subtitle: cfg.Report.Subtitle,
		Location: cfg.Location(),
	}, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.AuthzService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.EventController = appControllers.NewEventController(deps.EventService, lgr)
	deps.ReportController = appControllers.NewReportController(deps.ReportService, lgr)

	checks := map[string]appControllers.Pinger{"database": dbPool}
	if redisClient != nil {
		checks["redis"] = appControllers.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	deps.HealthController = appControllers.NewHealthController(checks)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.EventController,
		deps.ReportController,
		deps.HealthController,
		deps.WSHandler,
		deps.AuthMiddleware,
	)

	return router
}
