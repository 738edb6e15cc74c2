// cmd/guidance-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"guidance-engine/internal/common/config"
	"guidance-engine/internal/common/database"
	"guidance-engine/internal/common/logger"
	"guidance-engine/internal/common/observability"
	"guidance-engine/internal/guidance/aggregate"
	"guidance-engine/internal/guidance/cache"
	"guidance-engine/internal/guidance/loader"
	"guidance-engine/internal/guidance/normalize"
	"guidance-engine/internal/guidance/rotation"
	"guidance-engine/internal/guidance/sources"
	"guidance-engine/internal/profiles"
	"guidance-engine/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting guidance manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("guidance-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Source registry and clients ---
	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("source registry load failed", zap.Error(err))
	}

	clients, err := sources.BuildClients(reg, cfg.Sources, log)
	if err != nil {
		zapLog.Fatal("source client construction failed", zap.Error(err))
	}
	zapLog.Info("source clients ready", zap.Int("count", len(clients)))

	// --- Pipeline wiring ---
	kv := cache.NewRedisKV(rdb.GetClient())
	store := cache.NewStore(kv, cfg.Guidance.CacheNamespace, log)
	aggregator := aggregate.New(clients, log)
	normalizer := normalize.New(cfg.Guidance.OverviewMaxRunes)
	daily := loader.New(store, aggregator, normalizer, log, obs)

	selector := rotation.NewSelector(kv, cfg.Rotation.Pool, cfg.Rotation.MinTags, cfg.Rotation.MaxTags, log)

	repo := profiles.NewRepository(pg.DB, log)

	// --- Metrics / health / inspection endpoints ---
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.HandleFunc("/rotation", func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("key")
		if key == "" {
			http.Error(w, "missing key", http.StatusBadRequest)
			return
		}
		seed := r.URL.Query().Get("seed")
		if seed == "" {
			seed = key
		}
		tags := selector.Select(r.Context(), key, seed, rotation.Hints{
			MoodLogged:       r.URL.Query().Get("moodLogged") == "true",
			LastExpandedArea: r.URL.Query().Get("lastArea"),
		})
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(tags)
	})
	go func() {
		zapLog.Info("metrics server listening", zap.String("addr", cfg.App.MetricsAddr))
		if err := http.ListenAndServe(cfg.App.MetricsAddr, mux); err != nil {
			zapLog.Error("metrics server stopped", zap.Error(err))
		}
	}()

	// --- Optional demo load for a stored profile ---
	if profileID := os.Getenv("GUIDANCE_DEMO_PROFILE"); profileID != "" {
		runDemoLoad(ctx, zapLog, repo, daily, profileID)
	}

	// Wait for shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	zapLog.Info("shutting down", zap.String("signal", sig.String()))
}

func runDemoLoad(ctx context.Context, zapLog *zap.Logger, repo *profiles.Repository, daily *loader.Loader, profileID string) {
	profile, err := repo.GetByID(ctx, profileID)
	if err != nil {
		zapLog.Error("demo profile load failed", zap.Error(err))
		return
	}

	result, err := daily.LoadDaily(ctx, *profile, loader.Options{})
	if err != nil {
		zapLog.Error("demo guidance load failed", zap.Error(err))
		return
	}

	pretty, _ := json.MarshalIndent(result.Payload, "", "  ")
	zapLog.Info("demo guidance generated",
		zap.Bool("fromCache", result.FromCache),
		zap.String("payload", string(pretty)),
	)
}
