package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayush/tweeter-backend/internal/auth"
	"github.com/ayush/tweeter-backend/internal/config"
	"github.com/ayush/tweeter-backend/internal/metrics"
	"github.com/ayush/tweeter-backend/internal/middleware"
	"github.com/ayush/tweeter-backend/internal/posts"
	"github.com/ayush/tweeter-backend/internal/profiles"
	"github.com/ayush/tweeter-backend/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// ── PostgreSQL ───────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	defer pgPool.Close()
	pgStore := store.NewPostgresStore(pgPool)
	if err := pgStore.Migrate(ctx); err != nil {
		log.Fatalf("postgres migrate: %v", err)
	}

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connect: %v", err)
	}
	defer rdb.Close()
	sessions := auth.NewSessionStore(rdb)

	// ── MinIO ────────────────────────────────────────────────
	minioStore, err := store.NewMinioStore(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		log.Fatalf("minio connect: %v", err)
	}

	// ── Handlers ─────────────────────────────────────────────
	resolver := auth.NewResolver(pgStore, sessions)
	authHandler := auth.NewHandler(pgStore, sessions)
	postService := posts.NewService(pgStore)
	postHandler := posts.NewHandler(postService)
	profileHandler := profiles.NewHandler(pgStore, postService, minioStore)

	requireIdentity := middleware.RequireIdentity(resolver)
	optionalIdentity := middleware.OptionalIdentity(resolver)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", metrics.Handler())

	// Auth routes (public)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/signin", authHandler.Signin)
		r.Post("/signout", authHandler.Signout)
		r.With(requireIdentity).Get("/me", authHandler.Me)
	})

	// Post routes
	r.Route("/api/v1/posts", func(r chi.Router) {
		r.With(optionalIdentity).Get("/", postHandler.Feed)
		r.Group(func(r chi.Router) {
			r.Use(requireIdentity)
			r.Post("/", postHandler.Create)
			r.Post("/{id}/like", postHandler.Like)
			r.Delete("/{id}", postHandler.Delete)
			r.Post("/{id}", postHandler.Delete) // HTML form override
		})
	})

	// Profile routes
	r.Route("/api/v1/profiles", func(r chi.Router) {
		r.With(optionalIdentity).Get("/{handle}", profileHandler.Get)
		r.With(requireIdentity).Put("/", profileHandler.Update)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("Backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
