package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authmw "github.com/mind-engage/mindengage-evaluator/internal/auth/middleware"
	"github.com/mind-engage/mindengage-evaluator/internal/extract"
	"github.com/mind-engage/mindengage-evaluator/internal/extract/extracttest"
	"github.com/mind-engage/mindengage-evaluator/internal/grading"
	"github.com/mind-engage/mindengage-evaluator/internal/rubric"
)

type fakeEvaluator struct {
	rep   grading.Report
	err   error
	calls int
	body  string
}

func (f *fakeEvaluator) EvaluateDocument(_ context.Context, r io.Reader) (grading.Report, error) {
	f.calls++
	b, _ := io.ReadAll(r)
	f.body = string(b)
	return f.rep, f.err
}

func (f *fakeEvaluator) Rubric() rubric.Rubric { return rubric.Default() }

var sampleReport = grading.Report{
	ID: "rep-1",
	Questions: []grading.Result{
		{QuestionID: "Q1", Mark: 8, MaxMarks: 10, Feedback: grading.FeedbackStrong},
		{QuestionID: "Q2", Mark: 4, MaxMarks: 10, Feedback: grading.FeedbackWeak},
	},
	Total:    12,
	MaxTotal: 20,
}

func quietLog() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newRouter(ev Evaluator, opts MountOptions) http.Handler {
	opts.Log = quietLog()
	r := chi.NewRouter()
	Mount(r, ev, opts)
	return r
}

func uploadRequest(t *testing.T, target, field string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, "answers.pdf")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file here"))
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestEvaluateHandlerOK(t *testing.T) {
	ev := &fakeEvaluator{rep: sampleReport}
	h := newRouter(ev, MountOptions{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "/api/evaluations", "file", []byte("%PDF-1.4 fake")))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-1.4 fake", ev.body)

	var got grading.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, sampleReport, got)
}

func TestEvaluateHandlerMissingFile(t *testing.T) {
	ev := &fakeEvaluator{rep: sampleReport}
	h := newRouter(ev, MountOptions{})

	for name, req := range map[string]*http.Request{
		"other field":   uploadRequest(t, "/api/evaluations", "", nil),
		"not multipart": httptest.NewRequest(http.MethodPost, "/api/evaluations", strings.NewReader("{}")),
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var out map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
			assert.Equal(t, MissingUploadWarning, out["warning"])
		})
	}
	assert.Equal(t, 0, ev.calls)
}

func TestEvaluateHandlerErrors(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: bad xref", extract.ErrUnreadable), http.StatusUnprocessableEntity},
		{context.DeadlineExceeded, http.StatusServiceUnavailable},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		h := newRouter(&fakeEvaluator{err: tc.err}, MountOptions{})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, uploadRequest(t, "/api/evaluations", "file", []byte("x")))
		assert.Equal(t, tc.want, rec.Code, tc.err.Error())
	}
}

func TestEvaluateHandlerWithRealEngine(t *testing.T) {
	eng, err := grading.NewEngine(rubric.Default(), extract.NewPDFExtractor())
	require.NoError(t, err)
	h := newRouter(eng, MountOptions{})

	pdf := extracttest.BuildPDF(
		extracttest.TextPage("Artificial Intelligence involves learning and reasoning for decision making."),
		extracttest.TextPage("Machine learning uses data in supervised and unsupervised ways."),
	)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "/api/evaluations", "file", pdf))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got grading.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, 16, got.Total)
	assert.Equal(t, 20, got.MaxTotal)
	assert.Equal(t, 2, got.Pages)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "/api/evaluations", "file", []byte("definitely not a pdf")))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetRubric(t *testing.T) {
	h := newRouter(&fakeEvaluator{}, MountOptions{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rubric", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got rubric.Rubric
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, rubric.Default(), got)
}

func TestUIHandler(t *testing.T) {
	ev := &fakeEvaluator{rep: sampleReport}
	h := newRouter(ev, MountOptions{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Offline Test Paper Evaluation System")
	assert.Contains(t, rec.Body.String(), `<button type="submit">Evaluate</button>`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "/", "", nil))
	assert.Contains(t, rec.Body.String(), MissingUploadWarning)
	assert.Equal(t, 0, ev.calls)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "/", "file", []byte("pdf")))
	body := rec.Body.String()
	assert.Contains(t, body, "<strong>Question 1:</strong> 8 / 10")
	assert.Contains(t, body, grading.FeedbackStrong)
	assert.Contains(t, body, "<strong>Question 2:</strong> 4 / 10")
	assert.Contains(t, body, "Total Marks: 12 / 20")

	bad := newRouter(&fakeEvaluator{err: extract.ErrUnreadable}, MountOptions{})
	rec = httptest.NewRecorder()
	bad.ServeHTTP(rec, uploadRequest(t, "/", "file", []byte("pdf")))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not be read")
}

func TestMountWithAuth(t *testing.T) {
	a := authmw.NewAuthService("test-secret")
	ev := &fakeEvaluator{rep: sampleReport}
	h := newRouter(ev, MountOptions{Auth: a})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "/api/evaluations", "file", []byte("x")))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	viewer, err := a.IssueJWT("v", "viewer")
	require.NoError(t, err)
	grader, err := a.IssueJWT("g", "grader")
	require.NoError(t, err)

	req := uploadRequest(t, "/api/evaluations", "file", []byte("x"))
	req.Header.Set("Authorization", "Bearer "+viewer)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/rubric", nil)
	req.Header.Set("Authorization", "Bearer "+viewer)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = uploadRequest(t, "/api/evaluations", "file", []byte("x"))
	req.Header.Set("Authorization", "Bearer "+grader)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, ev.calls)

	// the unauthenticated browser form is not served
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
