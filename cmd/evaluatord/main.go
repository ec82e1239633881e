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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/mind-engage/mindengage-evaluator/internal/api/http"
	auth "github.com/mind-engage/mindengage-evaluator/internal/auth/middleware"
	"github.com/mind-engage/mindengage-evaluator/internal/config"
	"github.com/mind-engage/mindengage-evaluator/internal/db"
	"github.com/mind-engage/mindengage-evaluator/internal/extract"
	"github.com/mind-engage/mindengage-evaluator/internal/grading"
	"github.com/mind-engage/mindengage-evaluator/internal/language"
	"github.com/mind-engage/mindengage-evaluator/internal/logging"
	"github.com/mind-engage/mindengage-evaluator/internal/rubric"
)

func main() {
	cfg := config.FromEnv()
	log := logging.New(cfg.LogLevel)
	slog.SetDefault(log)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	// --- Rubric (read once, immutable afterwards) ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	rb, err := loadRubric(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Error("rubric load failed", "source", cfg.RubricSource, "err", err)
		os.Exit(1)
	}

	// --- Language models ---
	if _, err := language.Load(); err != nil {
		log.Error("tokenizer setup failed", "err", err)
		os.Exit(1)
	}

	policy, err := grading.ParsePolicy(cfg.SegmentPolicy)
	if err != nil {
		log.Error("bad segment policy", "err", err)
		os.Exit(1)
	}
	engine, err := grading.NewEngine(rb, extract.NewPDFExtractor(),
		grading.WithPolicy(policy),
		grading.WithLogger(log),
	)
	if err != nil {
		log.Error("engine setup failed", "err", err)
		os.Exit(1)
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	opts := api.MountOptions{MaxUpload: cfg.MaxUploadBytes, Log: log}
	if cfg.EnableAuth {
		opts.Auth = auth.NewAuthService(cfg.AuthHMACSecret)
		if cfg.AdminPassHash != "" {
			opts.Accounts = []auth.Account{{Username: cfg.AdminUser, PassHash: cfg.AdminPassHash, Role: "admin"}}
		} else {
			log.Warn("auth enabled without ADMIN_PASS_HASH; /auth/login is disabled")
		}
	}
	api.Mount(r, engine, opts)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Info("listening",
			"addr", cfg.HTTPAddr,
			"rubric", cfg.RubricSource,
			"questions", rb.Len(),
			"policy", policy,
			"auth", cfg.EnableAuth,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "err", err)
	}
}

func loadRubric(ctx context.Context, cfg config.Config, log *slog.Logger) (rubric.Rubric, error) {
	switch cfg.RubricSource {
	case config.RubricBuiltin:
		return rubric.Default(), nil
	case config.RubricFile:
		if cfg.RubricPath == "" {
			return rubric.Rubric{}, errors.New("RUBRIC_PATH is required for the file source")
		}
		return rubric.LoadFile(cfg.RubricPath)
	case config.RubricDB:
		dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			return rubric.Rubric{}, err
		}
		defer dbh.Close()
		store := rubric.NewSQLStore(dbh)
		seeded, err := store.Seed(ctx, rubric.Default())
		if err != nil {
			return rubric.Rubric{}, err
		}
		if seeded {
			log.Info("seeded empty rubric table with the built-in rubric", "driver", cfg.DBDriver)
		}
		return store.Load(ctx)
	default:
		return rubric.Rubric{}, errors.New("unknown RUBRIC_SOURCE: " + string(cfg.RubricSource))
	}
}
