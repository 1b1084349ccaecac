package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gin-gonic/gin"

	"userprefs-backend/internal/images"
	"userprefs-backend/internal/preferences"
	"userprefs-backend/internal/services/health"
	"userprefs-backend/internal/shared/config"
	"userprefs-backend/internal/shared/identity"
	"userprefs-backend/internal/shared/metrics"
	"userprefs-backend/internal/shared/server"
	"userprefs-backend/internal/shared/storage/db"
	"userprefs-backend/internal/shared/storage/object"
	s3issuer "userprefs-backend/internal/shared/storage/object/s3"
	"userprefs-backend/internal/shared/telemetry"
)

// App holds shared dependencies, built once per process.
type App struct {
	Config             config.Config
	Router             *gin.Engine
	Metrics            *metrics.Metrics
	Health             *health.Service
	DB                 *sql.DB
	PreferencesRepo    preferences.Repo
	Issuer             object.Issuer
	Identity           identity.Extractor
	PreferencesService *preferences.Service
	ImagesService      *images.Service
	PreferencesHandler *preferences.Handler
	ImagesHandler      *images.Handler

	awsCfg *aws.Config
}

// Build constructs every collaborator and the router. Missing required
// settings fail here rather than on the first request.
func Build(cfg config.Config) (*App, error) {
	ctx := context.Background()

	app := &App{
		Config:  cfg,
		Metrics: metrics.New(),
		Health:  health.NewService(),
	}

	repo, err := app.buildPreferencesRepo(ctx)
	if err != nil {
		return nil, err
	}
	app.PreferencesRepo = repo

	issuer, err := app.buildIssuer(ctx)
	if err != nil {
		return nil, err
	}
	app.Issuer = issuer

	app.Identity = buildIdentity(cfg)
	app.PreferencesService = preferences.NewService(app.PreferencesRepo, app.Metrics)
	app.ImagesService = images.NewService(app.Issuer, app.Metrics)
	app.PreferencesHandler = preferences.NewHandler(app.PreferencesService)
	app.ImagesHandler = images.NewHandler(app.ImagesService)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             app.Config,
		Identity:           app.Identity,
		Metrics:            app.Metrics,
		PreferencesHandler: app.PreferencesHandler,
		ImagesHandler:      app.ImagesHandler,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":               cfg.Env,
		"preferences_store": fmt.Sprintf("%T", app.PreferencesRepo),
		"issuer":            fmt.Sprintf("%T", app.Issuer),
		"stages":            cfg.StagePrefixes,
	})
	return app, nil
}

// Close releases pooled connections.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func (a *App) awsConfig(ctx context.Context) (aws.Config, error) {
	if a.awsCfg != nil {
		return *a.awsCfg, nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(a.Config.AWSRegion))
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	a.awsCfg = &cfg
	return cfg, nil
}

func (a *App) buildPreferencesRepo(ctx context.Context) (preferences.Repo, error) {
	cfg := a.Config
	switch cfg.PreferencesStore {
	case config.StoreMemory:
		return preferences.NewMemoryRepo(), nil

	case config.StorePostgres:
		sqlDB, err := a.buildDB(ctx)
		if err != nil {
			return nil, err
		}
		if sqlDB == nil {
			return preferences.NewMemoryRepo(), nil
		}
		return &preferences.PGRepo{DB: sqlDB}, nil

	case config.StoreDynamoDB, "":
		if cfg.PreferencesTable == "" {
			if cfg.IsDevLike() {
				telemetry.Warn("bootstrap.preferences.memory", map[string]any{"reason": "PREFERENCES_TABLE_NAME empty"})
				return preferences.NewMemoryRepo(), nil
			}
			return nil, errors.New("PREFERENCES_TABLE_NAME is required")
		}
		awsCfg, err := a.awsConfig(ctx)
		if err != nil {
			return nil, err
		}
		endpoint := strings.TrimSpace(cfg.DynamoDBEndpoint)
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
		})
		telemetry.Debug("bootstrap.dynamodb", map[string]any{"table": cfg.PreferencesTable, "endpoint": endpoint})
		return &preferences.DynamoRepo{Client: client, Table: cfg.PreferencesTable}, nil

	default:
		return nil, fmt.Errorf("unknown PREFERENCES_STORE %q", cfg.PreferencesStore)
	}
}

func (a *App) buildDB(ctx context.Context) (*sql.DB, error) {
	cfg := a.Config
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.preferences.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}

	defaults := db.DefaultServerOptions()
	if config.IsLambdaRuntime() {
		defaults = db.DefaultLambdaOptions()
	}
	opts, err := db.OptionsFromEnv(defaults)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.preferences.memory", map[string]any{"reason": "database connect failed", "err": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	if cfg.IsDevLike() {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	a.DB = sqlDB
	a.Health.Register("postgres", sqlDB.PingContext)
	return sqlDB, nil
}

func (a *App) buildIssuer(ctx context.Context) (object.Issuer, error) {
	cfg := a.Config
	if cfg.S3Bucket == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.issuer.disabled", map[string]any{"reason": "S3_BUCKET_NAME empty"})
			return object.Disabled{}, nil
		}
		return nil, errors.New("S3_BUCKET_NAME is required")
	}
	awsCfg, err := a.awsConfig(ctx)
	if err != nil {
		return nil, err
	}
	telemetry.Debug("bootstrap.s3", map[string]any{"bucket": cfg.S3Bucket, "endpoint": cfg.S3Endpoint, "expires": cfg.PresignTTL().String()})
	return s3issuer.NewFromConfig(awsCfg, s3issuer.Options{
		Bucket:   cfg.S3Bucket,
		Endpoint: cfg.S3Endpoint,
		Expires:  cfg.PresignTTL(),
	})
}

// buildIdentity trusts the gateway authorizer everywhere and, on a developer
// machine outside Lambda, a plain header as well.
func buildIdentity(cfg config.Config) identity.Extractor {
	chain := identity.Chain{identity.GatewayClaims{Claim: cfg.IdentityClaim}}
	if cfg.IsDevLike() && !config.IsLambdaRuntime() && cfg.DevIdentityHeader != "" {
		chain = append(chain, identity.TrustedHeader{Header: cfg.DevIdentityHeader})
		telemetry.Warn("bootstrap.identity.dev_header", map[string]any{"header": cfg.DevIdentityHeader})
	}
	return chain
}
