package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var pdfcpuOnce sync.Once

// pdfcpu otherwise creates a config dir under the user's home on first use.
func setupPDFCPU() {
	pdfcpuOnce.Do(api.DisableConfigDir)
}

// PDFExtractor validates the document with pdfcpu, then reads the
// text-showing operators of every page, decoding strings through the page
// fonts. Scanned pages and pages with text drawn as paths yield nothing.
type PDFExtractor struct {
	Strict bool // strict pdfcpu validation instead of relaxed
}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

func (p *PDFExtractor) Extract(ctx context.Context, r io.Reader) (Document, error) {
	setupPDFCPU()

	raw, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("extract: read upload: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if p.Strict {
		conf.ValidationMode = model.ValidationStrict
	}

	pc, err := api.ReadContext(bytes.NewReader(raw), conf)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if err := api.ValidateContext(pc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if err := pc.EnsurePageCount(); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	rd, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	pages := make([]string, 0, pc.PageCount)
	for nr := 1; nr <= pc.PageCount; nr++ {
		if err := ctx.Err(); err != nil {
			return Document{}, err
		}
		pg := rd.Page(nr)
		if pg.V.IsNull() {
			continue
		}
		text, err := pageText(pg)
		if err != nil {
			return Document{}, fmt.Errorf("%w: page %d: %v", ErrUnreadable, nr, err)
		}
		if t := strings.TrimSpace(text); t != "" {
			pages = append(pages, t)
		}
	}

	return Document{
		Text:  strings.TrimSpace(strings.Join(pages, " ")),
		Pages: pc.PageCount,
	}, nil
}
