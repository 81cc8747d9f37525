package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/Navin-04/Katomaran-To-Do-App/internal/app/session"
	"github.com/Navin-04/Katomaran-To-Do-App/internal/app/tasks"
	"github.com/Navin-04/Katomaran-To-Do-App/internal/app/theme"
	"github.com/Navin-04/Katomaran-To-Do-App/internal/platform/auth"
	"github.com/Navin-04/Katomaran-To-Do-App/internal/platform/dbpool"
	"github.com/Navin-04/Katomaran-To-Do-App/internal/platform/env"
	"github.com/Navin-04/Katomaran-To-Do-App/internal/platform/kvstore"
	"github.com/Navin-04/Katomaran-To-Do-App/internal/platform/metrics"
	"github.com/Navin-04/Katomaran-To-Do-App/internal/platform/natsutil"
)

var appOnline = metrics.NewGauge(metrics.Opts{
	Name: "app_online",
	Help: "1 while the host reports connectivity, 0 otherwise.",
})

func init() {
	metrics.Default.MustRegister(appOnline)
	appOnline.Set(1)
}

func main() {
	_ = godotenv.Load()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apiAddr := env.String("API_ADDR", env.DefaultAPIAddr)
	uiOrigin := env.String("UI_ORIGIN", "http://localhost:5173")
	pgURL := env.String("DATABASE_URL", env.DefaultDatabaseURL)
	redisAddr := env.String("REDIS_ADDR", "")
	natsURL := env.String("NATS_URL", "")
	jwtSecret := env.String("JWT_SECRET", "dev-insecure-change-me")
	tokenTTL := env.Duration("TOKEN_TTL", 24*time.Hour)
	shutdownTimeout := env.Duration("SHUTDOWN_TIMEOUT", 10*time.Second)

	tokens := auth.NewManager(jwtSecret, tokenTTL)

	// Durable key-value snapshots live in Redis when configured, otherwise
	// in process memory.
	var store kvstore.Store
	var redisClient *redis.Client
	if redisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: redisAddr})
		defer redisClient.Close()
		store = kvstore.NewRedis(redisClient)
		log.Printf("session/theme snapshots on redis at %s", redisAddr)
	} else {
		store = kvstore.NewMemory()
		log.Print("session/theme snapshots in memory")
	}

	var pool *pgxpool.Pool
	var taskRepo tasks.Repository
	if pgURL != "" {
		var err error
		pool, err = dbpool.New(runCtx, pgURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pool.Close()
		pg := tasks.NewPostgresRepository(pool)
		if err := waitForTaskSchema(runCtx, pg, 30*time.Second); err != nil {
			log.Fatal(err)
		}
		taskRepo = pg
		log.Print("task collection on postgres")
	} else {
		taskRepo = tasks.NewMemoryRepository()
		log.Print("task collection in memory")
	}

	taskSvc := tasks.NewService(taskRepo)
	sessionSvc := session.NewService(store, tokens)
	themeSvc := theme.NewService(store)

	var natsClient *natsutil.Client
	if natsURL != "" {
		var err error
		natsClient, err = natsutil.ConnectWithRetry(natsURL, 20*time.Second)
		if err != nil {
			log.Fatal(err)
		}
		defer natsClient.Close()

		publisher := natsutil.ConnPublisher{Conn: natsClient.Conn}
		taskSvc.Publish = publisher.Publish

		themeSvc.Subscribe = func(apply func(dark bool)) error {
			_, err := natsutil.SubscribeFlag(natsClient.Conn, "host.signal.scheme", apply)
			return err
		}
		if _, err := natsutil.SubscribeFlag(natsClient.Conn, "host.signal.connectivity", func(online bool) {
			if online {
				appOnline.Set(1)
			} else {
				appOnline.Set(0)
			}
		}); err != nil {
			log.Printf("connectivity signal unavailable: %v", err)
		}
	}

	sessionSvc.Restore(runCtx)
	themeSvc.Initialize(runCtx)
	if err := seedIfEmpty(runCtx, taskRepo, taskSvc); err != nil {
		log.Fatal(err)
	}

	root := chi.NewRouter()
	root.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	root.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := checkReadiness(r.Context(), pool, redisClient, natsClient); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	root.Handle("/metrics", metrics.Default.Handler())
	root.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", session.NewHandler(sessionSvc, tokens).Routes())
		r.Mount("/tasks", tasks.NewHandler(taskSvc, tokens).Routes())
		r.Mount("/theme", theme.NewHandler(themeSvc, tokens).Routes())
	})

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{uiOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:              apiAddr,
		Handler:           corsMiddleware.Handler(root),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	fmt.Printf("API listening on %s\n", apiAddr)
	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		log.Fatal(err)
	case <-runCtx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("api graceful shutdown failed: %v", err)
	}
}

// seedIfEmpty loads the demo collection on first boot only; a populated
// store survives restarts untouched.
func seedIfEmpty(ctx context.Context, repo tasks.Repository, svc *tasks.Service) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("inspect task collection: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	return svc.FetchAll(ctx)
}

func waitForTaskSchema(ctx context.Context, repo *tasks.PostgresRepository, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		attemptCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		lastErr = repo.EnsureSchema(attemptCtx)
		cancel()
		if lastErr == nil {
			return nil
		}
		log.Printf("waiting for task schema readiness: %v", lastErr)
		time.Sleep(500 * time.Millisecond)
	}
	return lastErr
}

func checkReadiness(ctx context.Context, pool *pgxpool.Pool, rdb *redis.Client, nc *natsutil.Client) error {
	if nc != nil {
		if nc.Conn == nil || nc.Conn.Status() != nats.CONNECTED {
			return errors.New("nats is not connected")
		}
	}
	if pool != nil {
		if err := dbpool.Ping(ctx, pool, 1500*time.Millisecond); err != nil {
			return fmt.Errorf("postgres ping failed: %w", err)
		}
	}
	if rdb != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 1500*time.Millisecond)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
	}
	return nil
}
