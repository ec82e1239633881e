package rubric

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is returned (wrapped) for any rubric that fails Validate.
var ErrInvalid = errors.New("invalid rubric")

// Entry is one question of the rubric.
type Entry struct {
	ID       string   `json:"id" yaml:"id"`
	Keywords []string `json:"keywords" yaml:"keywords"`
	MaxMarks int      `json:"max_marks" yaml:"max_marks"`
}

// Rubric is the ordered question table. Order decides which text segment
// goes to which question.
type Rubric struct {
	Questions []Entry `json:"questions" yaml:"questions"`
}

// Default is the built-in two-question rubric.
func Default() Rubric {
	return Rubric{Questions: []Entry{
		{
			ID:       "Q1",
			Keywords: []string{"artificial", "intelligence", "learning", "reasoning", "decision", "applications"},
			MaxMarks: 10,
		},
		{
			ID:       "Q2",
			Keywords: []string{"machine", "learning", "supervised", "unsupervised", "reinforcement", "data"},
			MaxMarks: 10,
		},
	}}
}

func (r Rubric) Len() int { return len(r.Questions) }

// MaxTotal is the sum of every entry's ceiling.
func (r Rubric) MaxTotal() int {
	total := 0
	for _, e := range r.Questions {
		total += e.MaxMarks
	}
	return total
}

func (r Rubric) Validate() error {
	if len(r.Questions) == 0 {
		return fmt.Errorf("%w: no questions", ErrInvalid)
	}
	seen := make(map[string]struct{}, len(r.Questions))
	for i, e := range r.Questions {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			return fmt.Errorf("%w: question %d has no id", ErrInvalid, i+1)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate question id %q", ErrInvalid, id)
		}
		seen[id] = struct{}{}
		if len(e.Keywords) == 0 {
			return fmt.Errorf("%w: %s has no keywords", ErrInvalid, id)
		}
		for _, k := range e.Keywords {
			if strings.TrimSpace(k) == "" {
				return fmt.Errorf("%w: %s has a blank keyword", ErrInvalid, id)
			}
		}
		if e.MaxMarks <= 0 {
			return fmt.Errorf("%w: %s max_marks must be positive", ErrInvalid, id)
		}
	}
	return nil
}

// clone copies keyword slices so a loaded rubric cannot be mutated through
// a caller's slice.
func (r Rubric) clone() Rubric {
	out := Rubric{Questions: make([]Entry, len(r.Questions))}
	for i, e := range r.Questions {
		e.Keywords = append([]string(nil), e.Keywords...)
		out.Questions[i] = e
	}
	return out
}
