package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/councilcms/internal/app/controllers"
	appMigrations "github.com/yigit/councilcms/internal/app/migrations"
	appModels "github.com/yigit/councilcms/internal/app/models"
	appRepos "github.com/yigit/councilcms/internal/app/repositories"
	appRoutes "github.com/yigit/councilcms/internal/app/routes"
	appServices "github.com/yigit/councilcms/internal/app/services"
	"github.com/yigit/councilcms/internal/config"
	"github.com/yigit/councilcms/internal/db"
	appMiddleware "github.com/yigit/councilcms/internal/middleware"
	pkgAuth "github.com/yigit/councilcms/internal/pkg/auth"
	"github.com/yigit/councilcms/internal/pkg/logger"
	"github.com/yigit/councilcms/internal/pkg/metrics"
	"github.com/yigit/councilcms/internal/seed"
)

// DefaultConfigPath is read when no other path is given
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos               *appRepos.Repositories
	ContentServices     *appServices.ContentServices
	AuthService         appServices.AuthService
	MigrationService    appServices.MigrationService
	AuthController      *appControllers.AuthController
	ContentControllers  *appControllers.ContentControllers
	MigrationController *appControllers.MigrationController
	HealthController    *appControllers.HealthController
	AuthMiddleware      *appMiddleware.AuthMiddleware
	JWTService          *pkgAuth.JWTService
	Metrics             *metrics.Metrics
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to PostgreSQL and applies the schema. It returns a
// nil pool when no content type is stored in postgres.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	if !CurrentBackends(cfg)[config.BackendPostgres] {
		lgr.Info().Msg("No content type uses postgres, skipping database setup")
		return nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).ApplyDefault(ctx, cfg.Database.MigrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database.Pool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.New().WithRuntimeCollectors()
	}

	backends, err := OpenBackends(ctx, cfg.Storage.BackendSettings, CurrentBackends(cfg), dbPool, deps.Metrics, lgr)
	if err != nil {
		return nil, err
	}

	deps.Repos, err = appRepos.NewRepositories(func(ct appModels.ContentType) string {
		return cfg.BackendFor(ct.String())
	}, backends, seed.Defaults())
	if err != nil {
		return nil, fmt.Errorf("failed to open record stores: %w", err)
	}

	if cfg.Storage.SeedDefaults {
		if err := seed.CreateDefaultData(ctx, deps.Repos, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		SessionExp:  config.ParseDuration(cfg.JWT.SessionExpiration, 24*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})
	if cfg.Admin.PasswordHash == "" {
		lgr.Warn().Msg("admin.password_hash is empty, admin login is disabled")
	}

	deps.ContentServices = appServices.NewContentServices(deps.Repos, lgr)
	deps.AuthService = appServices.NewAuthService(deps.JWTService, cfg.Admin.Emails, cfg.Admin.PasswordHash, lgr)
	deps.MigrationService = appServices.NewMigrationService(
		deps.Repos,
		LegacyOpener(ctx, cfg, deps.Metrics, lgr),
		cfg.Legacy.Source,
		deps.Metrics,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService, cfg.JWT.CookieName)

	deps.AuthController = appControllers.NewAuthController(
		deps.AuthService,
		deps.AuthMiddleware,
		appControllers.CookieConfig{Name: cfg.JWT.CookieName, Secure: cfg.JWT.SecureCookie},
		lgr,
	)
	deps.ContentControllers = appControllers.NewContentControllers(deps.ContentServices, lgr)
	deps.MigrationController = appControllers.NewMigrationController(deps.MigrationService, lgr)
	deps.HealthController = appControllers.NewHealthController(BackendMap(cfg))

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	appMiddleware.RegisterValidation()

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))

	if deps.Metrics != nil {
		router.Use(appMiddleware.Metrics(deps.Metrics))
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(deps.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ContentControllers,
		deps.MigrationController,
		deps.HealthController,
		deps.AuthMiddleware,
	)

	return router
}
