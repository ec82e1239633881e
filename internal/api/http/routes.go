package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/mind-engage/mindengage-evaluator/internal/auth/middleware"
	"github.com/mind-engage/mindengage-evaluator/internal/rbac"
)

type MountOptions struct {
	MaxUpload int64
	Log       *slog.Logger

	// Auth guards /api/* when set; Accounts enables /auth/login.
	Auth     *authmw.AuthService
	Accounts []authmw.Account
}

// Mount wires the UI, the JSON API and health probes onto r.
func Mount(r chi.Router, ev Evaluator, opts MountOptions) {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	if opts.MaxUpload <= 0 {
		opts.MaxUpload = 32 << 20
	}

	// The browser form carries no token, so it is only served unguarded.
	if opts.Auth == nil {
		r.Get("/", UIHandler(ev, opts.MaxUpload, opts.Log))
		r.Post("/", UIHandler(ev, opts.MaxUpload, opts.Log))
	}

	if opts.Auth != nil && len(opts.Accounts) > 0 {
		r.Post("/auth/login", authmw.LoginHandler(opts.Auth, opts.Accounts))
	}

	r.Route("/api", func(ar chi.Router) {
		if opts.Auth != nil {
			ar.Use(authmw.JWTMiddleware(opts.Auth))
			ar.With(rbac.Require("evaluation:create")).
				Post("/evaluations", EvaluateHandler(ev, opts.MaxUpload, opts.Log))
			ar.With(rbac.RequireAny("rubric:view", "evaluation:create")).
				Get("/rubric", GetRubricHandler(ev))
			return
		}
		ar.Post("/evaluations", EvaluateHandler(ev, opts.MaxUpload, opts.Log))
		ar.Get("/rubric", GetRubricHandler(ev))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
}
