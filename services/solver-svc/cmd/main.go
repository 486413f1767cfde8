package main

import (
	"context"
	"net/http"

	"flownet/gen/openapi"
	"flownet/pkg/cache"
	"flownet/pkg/config"
	"flownet/pkg/database"
	"flownet/pkg/logger"
	"flownet/pkg/metrics"
	"flownet/pkg/ratelimit"
	"flownet/pkg/server"
	"flownet/pkg/swagger"
	"flownet/pkg/telemetry"
	"flownet/services/solver-svc/internal/handlers"
	"flownet/services/solver-svc/internal/middleware"
	"flownet/services/solver-svc/internal/repository"
	"flownet/services/solver-svc/internal/service"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		logger.Init("error")
		logger.Fatal("Failed to load config", "error", err)
	}

	// Инициализируем логгер
	logger.InitWithConfig(cfg.Log)

	logger.Log.Info("Starting Solver Service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Телеметрия
	serviceName := cfg.Tracing.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}
	provider, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		Environment: cfg.App.Environment,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", "error", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Telemetry shutdown error", "error", err)
		}
	}()

	// Метрики
	m := metrics.InitMetrics(cfg.Metrics.Namespace, cfg.Metrics.Subsystem)
	m.SetServiceInfo(cfg.App.Version, cfg.App.Environment)

	// База данных и история расчётов
	var runs repository.RunRepository
	if cfg.Database.Enabled {
		db, err := database.NewPostgresDB(ctx, &cfg.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		defer db.Close()

		if err := database.RunMigrations(ctx, db.Pool(), &cfg.Database,
			repository.Migrations, repository.MigrationsDir); err != nil {
			logger.Fatal("Failed to run migrations", "error", err)
		}

		runs = repository.NewPostgresRunRepository(db)
	} else {
		logger.Log.Info("Database disabled, run history is off")
	}

	// Кэш решений
	var solverCache *cache.SolverCache
	if cfg.Cache.Enabled {
		backing, err := cache.New(cache.FromConfig(&cfg.Cache))
		if err != nil {
			logger.Fatal("Failed to initialize cache", "error", err)
		}
		defer func() { _ = backing.Close() }()

		solverCache = cache.NewSolverCache(backing, cfg.Cache.DefaultTTL)
	}

	// Сервис и обработчики
	svc := service.NewSolverService(cfg.Solver, solverCache, runs)

	mux := http.NewServeMux()
	handlers.NewHandler(svc, cfg).Routes(mux)

	if cfg.Metrics.Enabled && cfg.Metrics.Port == cfg.HTTP.Port {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	if cfg.Swagger.Enabled {
		spec, err := openapi.GetSpec()
		if err != nil {
			logger.Fatal("Failed to load OpenAPI spec", "error", err)
		}
		swagger.RegisterRoutes(mux, &swagger.Config{
			Title:    cfg.Swagger.Title,
			BasePath: "/swagger",
			SpecPath: "/openapi.json",
		}, spec)
	}

	// Цепочка middleware, изнутри наружу
	var handler http.Handler = mux
	handler = telemetry.HTTPMiddleware(handler)
	handler = middleware.Recovery(handler)
	handler = middleware.Auth(cfg.Auth)(handler)

	if cfg.RateLimit.Enabled {
		limiter, err := ratelimit.New(ratelimit.FromConfig(&cfg.RateLimit))
		if err != nil {
			logger.Fatal("Failed to initialize rate limiter", "error", err)
		}
		defer func() { _ = limiter.Close() }()

		handler = ratelimit.Middleware(limiter)(handler)
	}

	handler = middleware.Metrics(handler)
	handler = middleware.Logging(handler)
	handler = middleware.RequestID(handler)

	if cfg.HTTP.CORS.Enabled {
		handler = middleware.CORS(cfg.HTTP.CORS)(handler)
	}

	if err := server.New(cfg, handler).Run(); err != nil {
		logger.Fatal("Server failed", "error", err)
	}

	logger.Log.Info("Server stopped")
}
