package extract

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// kernSpace is the TJ displacement (thousandths of an em, negative moves
// right) from which a gap is taken to separate words.
const kernSpace = -200

// pageText runs the text operators of one page and decodes every shown
// string through the font selected by the last Tf, so ToUnicode CMaps and
// named encodings apply. Text objects are separated by line breaks; words
// inside a line follow the stream order.
func pageText(p pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("content stream: %v", r)
		}
	}()

	var (
		out   textBuilder
		enc   pdf.TextEncoding
		fonts = map[string]pdf.TextEncoding{}
	)
	show := func(raw string) {
		if enc == nil {
			out.write(bytesAsRunes(raw))
			return
		}
		out.write(enc.Decode(raw))
	}

	do := func(stk *pdf.Stack, op string) {
		args := make([]pdf.Value, stk.Len())
		for i := len(args) - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}
		last := func(kind pdf.ValueKind) (pdf.Value, bool) {
			if len(args) == 0 || args[len(args)-1].Kind() != kind {
				return pdf.Value{}, false
			}
			return args[len(args)-1], true
		}

		switch op {
		case "Tf":
			if len(args) < 2 || args[0].Kind() != pdf.Name {
				return
			}
			name := args[0].Name()
			e, ok := fonts[name]
			if !ok {
				if f := p.Font(name); !f.V.IsNull() {
					e = f.Encoder()
				}
				fonts[name] = e
			}
			enc = e
		case "BT", "ET", "T*", "Tm":
			out.newline()
		case "Td", "TD":
			if ty, ok := lastNumber(args); ok && len(args) >= 2 && ty == 0 {
				out.space()
			} else {
				out.newline()
			}
		case "Tj":
			if s, ok := last(pdf.String); ok {
				show(s.RawString())
			}
		case "'", "\"":
			out.newline()
			if s, ok := last(pdf.String); ok {
				show(s.RawString())
			}
		case "TJ":
			arr, ok := last(pdf.Array)
			if !ok {
				return
			}
			for i := 0; i < arr.Len(); i++ {
				it := arr.Index(i)
				switch it.Kind() {
				case pdf.String:
					show(it.RawString())
				default:
					if isNumber(it) && it.Float64() <= kernSpace {
						out.space()
					}
				}
			}
		}
	}

	contents := p.V.Key("Contents")
	switch contents.Kind() {
	case pdf.Stream:
		pdf.Interpret(contents, do)
	case pdf.Array:
		for i := 0; i < contents.Len(); i++ {
			pdf.Interpret(contents.Index(i), do)
		}
	}
	return out.String(), nil
}

func isNumber(v pdf.Value) bool {
	return v.Kind() == pdf.Integer || v.Kind() == pdf.Real
}

func lastNumber(args []pdf.Value) (float64, bool) {
	if len(args) == 0 || !isNumber(args[len(args)-1]) {
		return 0, false
	}
	return args[len(args)-1].Float64(), true
}

// bytesAsRunes is used when no font is selected: one byte per rune, which
// covers the ASCII range of the standard single-byte encodings.
func bytesAsRunes(s string) string {
	r := make([]rune, len(s))
	for k := 0; k < len(s); k++ {
		r[k] = rune(s[k])
	}
	return string(r)
}

type textBuilder struct {
	sb strings.Builder
}

func (t *textBuilder) last() byte {
	s := t.sb.String()
	if s == "" {
		return 0
	}
	return s[len(s)-1]
}

func (t *textBuilder) write(s string) { t.sb.WriteString(s) }

func (t *textBuilder) newline() {
	if l := t.last(); l != 0 && l != '\n' {
		t.sb.WriteByte('\n')
	}
}

func (t *textBuilder) space() {
	if l := t.last(); l != 0 && l != '\n' && l != ' ' {
		t.sb.WriteByte(' ')
	}
}

func (t *textBuilder) String() string { return t.sb.String() }
