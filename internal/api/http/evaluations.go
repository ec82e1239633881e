package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	authmw "github.com/mind-engage/mindengage-evaluator/internal/auth/middleware"
	"github.com/mind-engage/mindengage-evaluator/internal/extract"
	"github.com/mind-engage/mindengage-evaluator/internal/grading"
	"github.com/mind-engage/mindengage-evaluator/internal/rubric"
)

// Evaluator is the part of grading.Engine the handlers need.
type Evaluator interface {
	EvaluateDocument(ctx context.Context, r io.Reader) (grading.Report, error)
	Rubric() rubric.Rubric
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// POST /api/evaluations  multipart: file=<answers.pdf>
func EvaluateHandler(ev Evaluator, maxUpload int64, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, fh, err := formFile(w, r, maxUpload)
		switch {
		case errors.Is(err, errNoUpload):
			writeJSON(w, http.StatusBadRequest, map[string]string{"warning": MissingUploadWarning})
			return
		case isTooLarge(err):
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "upload too large"})
			return
		case err != nil:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad upload: " + err.Error()})
			return
		}
		defer f.Close()

		rep, err := ev.EvaluateDocument(r.Context(), f)
		if err != nil {
			status := statusFor(err)
			log.Warn("evaluation failed", "file", fh.Filename, "status", status, "err", err)
			writeJSON(w, status, map[string]string{"error": err.Error()})
			return
		}
		log.Info("evaluation done",
			"report", rep.ID,
			"file", fh.Filename,
			"subject", authmw.SubjectFromContext(r.Context()),
			"total", rep.Total,
			"max_total", rep.MaxTotal,
		)
		writeJSON(w, http.StatusOK, rep)
	}
}

// statusFor maps evaluation failures to HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, extract.ErrUnreadable):
		return http.StatusUnprocessableEntity
	case isTooLarge(err):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GET /api/rubric
func GetRubricHandler(ev Evaluator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ev.Rubric())
	}
}
