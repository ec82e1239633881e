package grading

import (
	"fmt"
	"strings"
)

// SegmentPolicy decides which sentences of a submission answer which question.
type SegmentPolicy string

const (
	// PolicyMidpoint always yields two segments: the first n/2 sentences and
	// the rest.
	PolicyMidpoint SegmentPolicy = "midpoint"
	// PolicyEven yields one contiguous segment per rubric question, segment i
	// covering sentences [i*n/k, (i+1)*n/k). For k=2 it equals PolicyMidpoint.
	PolicyEven SegmentPolicy = "even"
)

// ParsePolicy is case-insensitive; an empty name selects PolicyMidpoint.
func ParsePolicy(s string) (SegmentPolicy, error) {
	switch p := SegmentPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PolicyMidpoint:
		return PolicyMidpoint, nil
	case PolicyEven:
		return PolicyEven, nil
	default:
		return "", fmt.Errorf("unknown segment policy %q", s)
	}
}

// Segment is the slice of the submission attributed to one question.
type Segment struct {
	Index     int    `json:"index"`
	Text      string `json:"text"`
	Sentences int    `json:"sentences"`
}

// Split partitions sentences by index. parts is ignored by PolicyMidpoint.
func Split(sentences []string, policy SegmentPolicy, parts int) []Segment {
	if policy == PolicyMidpoint || parts < 1 {
		parts = 2
	}
	n := len(sentences)
	out := make([]Segment, parts)
	for i := 0; i < parts; i++ {
		lo, hi := i*n/parts, (i+1)*n/parts
		out[i] = Segment{
			Index:     i,
			Text:      strings.Join(sentences[lo:hi], " "),
			Sentences: hi - lo,
		}
	}
	return out
}
