package grading

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-evaluator/internal/extract"
	"github.com/mind-engage/mindengage-evaluator/internal/language"
	"github.com/mind-engage/mindengage-evaluator/internal/rubric"
)

// ErrRubricShape is returned when the segment policy cannot map the text
// onto the rubric's questions.
var ErrRubricShape = errors.New("rubric does not fit segment policy")

// Strategy grades a single question.
type Strategy interface {
	Grade(ctx context.Context, q rubric.Entry, answer string) (Result, error)
}

// Engine options

type Option func(*config)

type config struct {
	Policy   SegmentPolicy
	Strategy Strategy
	Logger   *slog.Logger
}

func WithPolicy(p SegmentPolicy) Option { return func(c *config) { c.Policy = p } }
func WithStrategy(s Strategy) Option    { return func(c *config) { c.Strategy = s } }
func WithLogger(l *slog.Logger) Option  { return func(c *config) { c.Logger = l } }

// Engine runs one submission through extraction, segmentation, grading and
// aggregation. It holds no per-request state.
type Engine struct {
	rubric    rubric.Rubric
	extractor extract.Extractor
	cfg       config
}

// NewEngine validates rb and checks it fits the segment policy:
// PolicyMidpoint needs exactly two questions, otherwise ErrRubricShape is
// returned. Defaults are PolicyMidpoint and KeywordStrategy.
func NewEngine(rb rubric.Rubric, ex extract.Extractor, opts ...Option) (*Engine, error) {
	cfg := config{
		Policy:   PolicyMidpoint,
		Strategy: KeywordStrategy{},
		Logger:   slog.Default(),
	}
	for _, o := range opts {
		o(&cfg)
	}
	if err := rb.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Policy {
	case PolicyMidpoint:
		if rb.Len() != 2 {
			return nil, fmt.Errorf("%w: %s needs exactly 2 questions, rubric has %d", ErrRubricShape, cfg.Policy, rb.Len())
		}
	case PolicyEven:
	default:
		return nil, fmt.Errorf("unknown segment policy %q", cfg.Policy)
	}
	return &Engine{rubric: rb, extractor: ex, cfg: cfg}, nil
}

// Rubric returns the table the engine grades against.
func (e *Engine) Rubric() rubric.Rubric { return e.rubric }

// EvaluateDocument extracts the text of r and grades it. Extraction errors
// are returned as is so callers can test for extract.ErrUnreadable.
func (e *Engine) EvaluateDocument(ctx context.Context, r io.Reader) (Report, error) {
	if e.extractor == nil {
		return Report{}, errors.New("grading: no extractor configured")
	}
	doc, err := e.extractor.Extract(ctx, r)
	if err != nil {
		return Report{}, err
	}
	rep, err := e.EvaluateText(ctx, doc.Text)
	if err != nil {
		return Report{}, err
	}
	rep.Pages = doc.Pages
	return rep, nil
}

// EvaluateText grades already extracted text.
func (e *Engine) EvaluateText(ctx context.Context, text string) (Report, error) {
	tk, err := language.Load()
	if err != nil {
		return Report{}, err
	}
	sentences := tk.Sentences(text)
	segs := Split(sentences, e.cfg.Policy, e.rubric.Len())

	results := make([]Result, 0, e.rubric.Len())
	for i, q := range e.rubric.Questions {
		res, err := e.cfg.Strategy.Grade(ctx, q, segs[i].Text)
		if err != nil {
			return Report{}, fmt.Errorf("grading: %s: %w", q.ID, err)
		}
		results = append(results, res)
	}

	rep := Aggregate(results)
	rep.ID = uuid.NewString()
	rep.Sentences = len(sentences)
	e.cfg.Logger.Debug("submission evaluated",
		"report", rep.ID,
		"sentences", rep.Sentences,
		"total", rep.Total,
		"max_total", rep.MaxTotal,
	)
	return rep, nil
}
