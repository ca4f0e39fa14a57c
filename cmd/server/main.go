package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apptracking "github.com/shiptrack/backend/internal/application/tracking"
	"github.com/shiptrack/backend/internal/infrastructure/config"
	"github.com/shiptrack/backend/internal/infrastructure/logger"
	"github.com/shiptrack/backend/internal/infrastructure/persistence"
	"github.com/shiptrack/backend/internal/infrastructure/telemetry"
	"github.com/shiptrack/backend/internal/interfaces/graph"
	"github.com/shiptrack/backend/internal/interfaces/http/handler"
	"github.com/shiptrack/backend/internal/interfaces/http/middleware"
	"github.com/shiptrack/backend/internal/interfaces/http/router"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 30 * time.Second

// providers groups the OpenTelemetry providers that need an orderly shutdown
type providers struct {
	tracer *telemetry.TracerProvider
	meter  *telemetry.MeterProvider
	logs   *telemetry.LoggerProvider
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	otel, err := setupTelemetry(ctx, cfg, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	// Re-create the logger so every entry is also exported over OTLP
	log, err := logger.New(logCfg, telemetry.NewZapOTELCore(otel.logs, logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Shiptrack backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	schema, err := graph.LoadSchema()
	if err != nil {
		log.Fatal("Failed to load GraphQL schema", zap.Error(err))
	}
	if err := graph.VerifyRegistry(schema, persistence.Entities); err != nil {
		log.Fatal("GraphQL schema and entity registry disagree", zap.Error(err))
	}

	db, dbMetrics, err := setupDatabase(cfg, log, otel.meter)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if dbMetrics != nil {
			dbMetrics.Stop()
		}
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("dialect", cfg.Database.Dialect))

	repos := persistence.NewRepositories(db)
	queries := apptracking.NewQueryService(repos, log,
		apptracking.WithLegacyListArguments(cfg.GraphQL.LegacyListArguments),
	)
	mutations := apptracking.NewMutationService(repos, queries)

	gqlMetrics, err := newGraphQLMetrics(otel.meter)
	if err != nil {
		log.Warn("GraphQL metrics disabled", zap.Error(err))
	}
	es := graph.NewExecutableSchema(schema, graph.NewResolver(queries, mutations))
	gqlServer := graph.NewHandler(es, cfg.GraphQL, log, gqlMetrics)

	engine := newEngine(cfg, log, otel.meter)

	r := router.NewRouter(engine)
	r.Register(handler.NewHealthHandler(db, cfg.App.Name, log, handler.WithVersion(version)).Routes()).
		Register(graph.NewRoutes(cfg.GraphQL, gqlServer))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting",
			zap.String("addr", srv.Addr),
			zap.String("graphql", cfg.GraphQL.Path),
			zap.Bool("playground", cfg.GraphQL.PlaygroundEnabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	otel.shutdown(shutdownCtx, log)

	log.Info("Server exited gracefully")
}

func setupTelemetry(ctx context.Context, cfg *config.Config, log *zap.Logger) (*providers, error) {
	tc := cfg.Telemetry

	tracer, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           tc.Enabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		SamplingRatio:     tc.SamplingRatio,
		ServiceName:       tc.ServiceName,
		ServiceVersion:    version,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		return nil, err
	}

	meter, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           tc.Enabled && tc.MetricsEnabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		ServiceName:       tc.ServiceName,
		ServiceVersion:    version,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		_ = tracer.Shutdown(ctx)
		return nil, err
	}

	logs, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           tc.Enabled && tc.LogsEnabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		ServiceName:       tc.ServiceName,
		ServiceVersion:    version,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		_ = meter.Shutdown(ctx)
		_ = tracer.Shutdown(ctx)
		return nil, err
	}

	return &providers{tracer: tracer, meter: meter, logs: logs}, nil
}

// shutdown flushes logs last so the shutdown of the other providers is recorded
func (p *providers) shutdown(ctx context.Context, log *zap.Logger) {
	if err := p.tracer.Shutdown(ctx); err != nil {
		log.Error("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := p.meter.Shutdown(ctx); err != nil {
		log.Error("Meter provider shutdown failed", zap.Error(err))
	}
	_ = p.logs.Shutdown(ctx)
}

func setupDatabase(cfg *config.Config, log *zap.Logger, meter *telemetry.MeterProvider) (*persistence.Database, *telemetry.DBMetrics, error) {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return nil, nil, err
	}

	dbSystem := "postgresql"
	if cfg.Database.Dialect == config.DialectSQLite {
		dbSystem = "sqlite"
	}
	tracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        dbSystem,
	}, log)
	if err := tracing.RegisterOtelGorm(db.DB); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	metricsCfg := telemetry.DefaultDBMetricsConfig()
	if cfg.Telemetry.DBSlowQueryThresh > 0 {
		metricsCfg.SlowQueryThreshold = cfg.Telemetry.DBSlowQueryThresh
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meter, metricsCfg, log)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	if cfg.Database.AutoMigrate {
		log.Warn("Auto-migrating tracking tables; use this in development only")
		if err := db.AutoMigrate(); err != nil {
			if dbMetrics != nil {
				dbMetrics.Stop()
			}
			_ = db.Close()
			return nil, nil, err
		}
	}
	return db, dbMetrics, nil
}

func newGraphQLMetrics(meter *telemetry.MeterProvider) (*telemetry.GraphQLMetrics, error) {
	if meter == nil || !meter.IsEnabled() {
		return nil, nil
	}
	return telemetry.NewGraphQLMetrics(meter.Meter("graphql"))
}

func newEngine(cfg *config.Config, log *zap.Logger, meter *telemetry.MeterProvider) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}

	security := middleware.DefaultSecurityConfig()
	if cfg.GraphQL.PlaygroundEnabled {
		security = middleware.PlaygroundSecurityConfig()
	}

	engine.Use(
		middleware.RequestID(),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.TracingAttributeInjector(),
		middleware.SpanErrorMarker(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.HTTPMetrics(meter, log),
		middleware.SecureWithConfig(security),
		middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.Timeout(cfg.HTTP.RequestTimeout),
	)
	return engine
}
