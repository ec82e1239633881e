package grading

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/mind-engage/mindengage-evaluator/internal/language"
	"github.com/mind-engage/mindengage-evaluator/internal/rubric"
)

var (
	ErrNoKeywords  = errors.New("keyword list is empty")
	ErrBadMaxMarks = errors.New("max marks must be positive")
)

// Feedback tiers.
const (
	FeedbackStrong = "Very good answer with strong conceptual clarity."
	FeedbackGood   = "Good answer but lacks some important points."
	FeedbackWeak   = "Answer is weak and missing key concepts."
)

// Evaluate scores answer by the share of keywords present as whole tokens.
// A keyword counts once per occurrence in the list, no matter how often the
// answer repeats it; no stemming is applied.
func Evaluate(answer string, keywords []string, maxMarks int) (Result, error) {
	res := Result{MaxMarks: maxMarks}
	if len(keywords) == 0 {
		return res, ErrNoKeywords
	}
	if maxMarks <= 0 {
		return res, ErrBadMaxMarks
	}
	tk, err := language.Load()
	if err != nil {
		return res, err
	}

	tokens := toSet(tk.Words(strings.ToLower(answer)))
	for _, kw := range keywords {
		if _, ok := tokens[strings.ToLower(kw)]; ok {
			res.Matched = append(res.Matched, kw)
		} else {
			res.Missing = append(res.Missing, kw)
		}
	}

	ratio := float64(len(res.Matched)) / float64(len(keywords))
	res.Mark = clamp(int(math.RoundToEven(ratio*float64(maxMarks))), 0, maxMarks)
	res.Feedback = FeedbackFor(res.Mark, maxMarks)
	return res, nil
}

// FeedbackFor picks the tier; both thresholds are inclusive.
func FeedbackFor(mark, maxMarks int) string {
	switch m, ceil := float64(mark), float64(maxMarks); {
	case m >= ceil*0.8:
		return FeedbackStrong
	case m >= ceil*0.5:
		return FeedbackGood
	default:
		return FeedbackWeak
	}
}

// KeywordStrategy grades a segment against one rubric entry.
type KeywordStrategy struct{}

func (KeywordStrategy) Grade(_ context.Context, q rubric.Entry, answer string) (Result, error) {
	res, err := Evaluate(answer, q.Keywords, q.MaxMarks)
	res.QuestionID = q.ID
	return res, err
}

func toSet(arr []string) map[string]struct{} {
	m := make(map[string]struct{}, len(arr))
	for _, s := range arr {
		m[s] = struct{}{}
	}
	return m
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
