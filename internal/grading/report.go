package grading

import (
	"fmt"
	"io"
	"strings"
)

// Result is the outcome of grading one question.
type Result struct {
	QuestionID string   `json:"question_id"`
	Mark       int      `json:"mark"`
	MaxMarks   int      `json:"max_marks"`
	Feedback   string   `json:"feedback"`
	Matched    []string `json:"matched"`
	Missing    []string `json:"missing"`
}

// Report is the evaluation of one submission. It is never stored.
type Report struct {
	ID        string   `json:"id"`
	Questions []Result `json:"questions"`
	Total     int      `json:"total"`
	MaxTotal  int      `json:"max_total"`
	Pages     int      `json:"pages"`
	Sentences int      `json:"sentences"`
}

// Aggregate sums marks and ceilings; there is no weighting beyond each
// question's own maximum.
func Aggregate(results []Result) Report {
	rep := Report{Questions: results}
	for _, r := range results {
		rep.Total += r.Mark
		rep.MaxTotal += r.MaxMarks
	}
	return rep
}

// WriteText renders the report the way the upload page does.
func (r Report) WriteText(w io.Writer) error {
	var b strings.Builder
	b.WriteString("Evaluation Result\n\n")
	for i, q := range r.Questions {
		fmt.Fprintf(&b, "Question %d: %d / %d\n%s\n\n", i+1, q.Mark, q.MaxMarks, q.Feedback)
	}
	fmt.Fprintf(&b, "Total Marks: %d / %d\n", r.Total, r.MaxTotal)
	_, err := io.WriteString(w, b.String())
	return err
}
