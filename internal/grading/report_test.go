package grading

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteText(t *testing.T) {
	rep := Aggregate([]Result{
		{QuestionID: "Q1", Mark: 8, MaxMarks: 10, Feedback: FeedbackStrong},
		{QuestionID: "Q2", Mark: 0, MaxMarks: 10, Feedback: FeedbackWeak},
	})
	var sb strings.Builder
	require.NoError(t, rep.WriteText(&sb))
	assert.Equal(t, "Evaluation Result\n\n"+
		"Question 1: 8 / 10\n"+FeedbackStrong+"\n\n"+
		"Question 2: 0 / 10\n"+FeedbackWeak+"\n\n"+
		"Total Marks: 8 / 20\n", sb.String())
}
