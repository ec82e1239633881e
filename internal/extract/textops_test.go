package extract

import (
	"bytes"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-evaluator/internal/extract/extracttest"
)

func firstPageText(t *testing.T, raw []byte) string {
	t.Helper()
	rd, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)
	text, err := pageText(rd.Page(1))
	require.NoError(t, err)
	return trimNL(text)
}

func TestPageText(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "lines and kerning",
			content: "BT /F1 12 Tf 72 720 Td (Artificial Intelligence involves learning.) Tj 0 -14 Td [(Machine) -250 (lea) 10 (rning)] TJ ET",
			want:    "Artificial Intelligence involves learning.\nMachine learning",
		},
		{
			name:    "same line move is a space",
			content: "BT /F1 12 Tf (decision) Tj 40 0 Td (making) Tj ET",
			want:    "decision making",
		},
		{
			name:    "escapes",
			content: `BT /F1 12 Tf (a\(b\)c \101\102) Tj ET`,
			want:    "a(b)c AB",
		},
		{
			name:    "nested parens",
			content: "BT /F1 12 Tf (f(x) = y) Tj ET",
			want:    "f(x) = y",
		},
		{
			name:    "hex strings",
			content: "BT /F1 12 Tf <48656C6C6F> Tj T* <4869> Tj ET",
			want:    "Hello\nHi",
		},
		{
			name:    "quote operators start new lines",
			content: "BT /F1 12 Tf (one) Tj (two) ' 1 2 (three) \" ET",
			want:    "one\ntwo\nthree",
		},
		{
			name:    "comments and graphics only",
			content: "% header\nq 1 0 0 1 0 0 cm 0 0 m 10 10 l S Q",
			want:    "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, firstPageText(t, extracttest.BuildPDF(tc.content)))
		})
	}
}

func TestPageTextDecodesThroughToUnicode(t *testing.T) {
	line := "artificial intelligence learning reasoning decision applications."
	font := extracttest.NewCIDFont(line)

	raw := extracttest.Build(extracttest.Page{Content: font.TextPage(line), Font: font})
	assert.Equal(t, line, firstPageText(t, raw))
}

func TestPageTextFlateContent(t *testing.T) {
	raw := extracttest.Build(extracttest.Page{
		Content: extracttest.TextPage("Machine learning uses data."),
		Deflate: true,
	})
	assert.Equal(t, "Machine learning uses data.", firstPageText(t, raw))
}

func TestPageTextWinAnsi(t *testing.T) {
	raw := extracttest.Build(extracttest.Page{
		Content: extracttest.TextPage("AI\x92s core is learning."),
		Font:    extracttest.WinAnsi(),
	})
	assert.Equal(t, "AI’s core is learning.", firstPageText(t, raw))
}

func trimNL(s string) string {
	for len(s) > 0 && (s[0] == '\n' || s[0] == ' ') {
		s = s[1:]
	}
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == ' ') {
		s = s[:len(s)-1]
	}
	return s
}
