package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"tripplanner/config"
	"tripplanner/database"
	"tripplanner/handlers"
	"tripplanner/logger"
	"tripplanner/middleware"
	"tripplanner/services"
	"tripplanner/tracer"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// .env is optional; production sets the environment directly.
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.Debug("no .env file found, using environment variables")
	}

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server exited")
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracer.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Error("failed to shutdown tracer", "error", err)
		}
	}()

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	log.Info("database connected and migrated")

	generator, err := services.NewLLMClient(cfg.LLM)
	if err != nil {
		return err
	}
	log.Info("text-generation backend configured", "model", cfg.LLM.Model, "timeout", cfg.LLM.Timeout)

	var limiter middleware.RateLimiter
	if cfg.RateLimit.Enabled() {
		opts, err := redis.ParseURL(cfg.RateLimit.RedisURL)
		if err != nil {
			return err
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, rate limiter will let requests through", "error", err)
		}
		limiter = middleware.NewRedisLimiter(rdb)
		log.Info("rate limiting enabled", "per_minute", cfg.RateLimit.RequestsPerMinute)
	}

	trips := database.NewTripStore(db)
	h := handlers.New(
		services.NewItineraryService(generator, trips),
		trips,
		services.NewPlaceService(database.NewPlaceStore(db)),
		db,
	)

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(h, handlers.RouterConfig{
		CORSOrigins:          cfg.CORSOrigins,
		JWTSecret:            cfg.JWTSecret,
		ServiceName:          cfg.Tracing.ServiceName,
		Limiter:              limiter,
		GenerationsPerMinute: cfg.RateLimit.RequestsPerMinute,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// A generation request may wait the full LLM timeout before answering.
		WriteTimeout: cfg.LLM.Timeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("trip planner backend starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
