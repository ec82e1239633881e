// Package extract turns uploaded documents into plain text.
package extract

import (
	"context"
	"errors"
	"io"
)

// ErrUnreadable wraps every failure to parse a document at all. Pages that
// merely carry no text are not an error.
var ErrUnreadable = errors.New("document cannot be read")

// Document is the text of a whole submission.
type Document struct {
	Text  string
	Pages int
}

type Extractor interface {
	Extract(ctx context.Context, r io.Reader) (Document, error)
}

// Func adapts a plain function to Extractor.
type Func func(ctx context.Context, r io.Reader) (Document, error)

func (f Func) Extract(ctx context.Context, r io.Reader) (Document, error) { return f(ctx, r) }
