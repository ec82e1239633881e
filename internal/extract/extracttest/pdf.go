// Package extracttest builds small PDFs for tests.
package extracttest

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"strings"
)

// Page is one page of a test document. The font is bound to /F1.
type Page struct {
	Content string
	Font    Font // nil means Helvetica
	Deflate bool // FlateDecode the content stream
}

// Font writes its objects into a document and returns the font object number.
type Font interface {
	write(w *writer) int
}

type simpleFont struct {
	encoding string
}

func (f simpleFont) write(w *writer) int {
	enc := ""
	if f.encoding != "" {
		enc = " /Encoding /" + f.encoding
	}
	return w.add("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica" + enc + " >>")
}

// Helvetica is the standard Type1 font without an /Encoding entry.
func Helvetica() Font { return simpleFont{} }

// WinAnsi is Helvetica with /WinAnsiEncoding, so 0x92 shows as U+2019.
func WinAnsi() Font { return simpleFont{encoding: "WinAnsiEncoding"} }

// CIDFont is a Type0 /Identity-H font whose 2-byte glyph IDs only mean
// something through its ToUnicode CMap, the way subset fonts from word
// processors are written.
type CIDFont struct {
	gids  map[rune]int
	order []rune
}

// NewCIDFont assigns glyph IDs from 1 to the distinct runes of alphabet.
func NewCIDFont(alphabet string) *CIDFont {
	f := &CIDFont{gids: map[rune]int{}}
	for _, r := range alphabet {
		if _, ok := f.gids[r]; !ok {
			f.order = append(f.order, r)
			f.gids[r] = len(f.order)
		}
	}
	return f
}

// Hex encodes s as a hex string of glyph IDs. It panics on runes missing
// from the alphabet.
func (f *CIDFont) Hex(s string) string {
	var sb strings.Builder
	sb.WriteByte('<')
	for _, r := range s {
		gid, ok := f.gids[r]
		if !ok {
			panic(fmt.Sprintf("extracttest: rune %q not in font alphabet", r))
		}
		fmt.Fprintf(&sb, "%04X", gid)
	}
	sb.WriteByte('>')
	return sb.String()
}

// TextPage is like the package TextPage but shows glyph ID strings.
func (f *CIDFont) TextPage(lines ...string) string {
	shown := make([]string, len(lines))
	for i, l := range lines {
		shown[i] = f.Hex(l)
	}
	return textObject(shown)
}

func (f *CIDFont) toUnicode() string {
	var sb strings.Builder
	sb.WriteString("begincmap\n1 begincodespacerange\n<0000> <FFFF>\nendcodespacerange\n")
	fmt.Fprintf(&sb, "%d beginbfchar\n", len(f.order))
	for _, r := range f.order {
		fmt.Fprintf(&sb, "<%04X> <%04X>\n", f.gids[r], r)
	}
	sb.WriteString("endbfchar\nendcmap\n")
	return sb.String()
}

func (f *CIDFont) write(w *writer) int {
	tu := w.stream("", []byte(f.toUnicode()))
	desc := w.add("<< /Type /FontDescriptor /FontName /AAAAAA+Answer /Flags 32 /FontBBox [0 -200 1000 900] " +
		"/ItalicAngle 0 /Ascent 900 /Descent -200 /CapHeight 700 /StemV 80 >>")
	cid := w.add(fmt.Sprintf("<< /Type /Font /Subtype /CIDFontType2 /BaseFont /AAAAAA+Answer "+
		"/CIDSystemInfo << /Registry (Adobe) /Ordering (Identity) /Supplement 0 >> "+
		"/FontDescriptor %d 0 R /DW 500 /CIDToGIDMap /Identity >>", desc))
	return w.add(fmt.Sprintf("<< /Type /Font /Subtype /Type0 /BaseFont /AAAAAA+Answer /Encoding /Identity-H "+
		"/DescendantFonts [%d 0 R] /ToUnicode %d 0 R >>", cid, tu))
}

// BuildPDF returns an uncompressed Helvetica PDF with one page per content
// stream.
func BuildPDF(contents ...string) []byte {
	pages := make([]Page, len(contents))
	for i, c := range contents {
		pages[i] = Page{Content: c}
	}
	return Build(pages...)
}

// Build returns a PDF with the given pages.
func Build(pages ...Page) []byte {
	w := &writer{}
	catalog := w.alloc()
	tree := w.alloc()

	kids := make([]string, 0, len(pages))
	for _, p := range pages {
		font := p.Font
		if font == nil {
			font = Helvetica()
		}
		fnum := font.write(w)

		data, filter := []byte(p.Content), ""
		if p.Deflate {
			data, filter = deflate(data), " /Filter /FlateDecode"
		}
		cnum := w.stream(filter, data)

		pnum := w.add(fmt.Sprintf("<< /Type /Page /Parent %d 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>", tree, fnum, cnum))
		kids = append(kids, fmt.Sprintf("%d 0 R", pnum))
	}
	w.set(catalog, fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", tree))
	w.set(tree, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(kids)))
	return w.bytes(catalog)
}

// TextPage is a content stream showing each line below the previous one.
func TextPage(lines ...string) string {
	shown := make([]string, len(lines))
	for i, l := range lines {
		shown[i] = "(" + escape(l) + ")"
	}
	return textObject(shown)
}

// BlankPage draws a rectangle and no text.
func BlankPage() string {
	return "q 0 0 0 RG 72 72 200 100 re S Q"
}

func textObject(strs []string) string {
	var sb strings.Builder
	sb.WriteString("BT /F1 12 Tf 72 720 Td")
	for i, s := range strs {
		if i > 0 {
			sb.WriteString(" 0 -14 Td")
		}
		sb.WriteString(" ")
		sb.WriteString(s)
		sb.WriteString(" Tj")
	}
	sb.WriteString(" ET")
	return sb.String()
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

func deflate(b []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, _ = zw.Write(b)
	_ = zw.Close()
	return buf.Bytes()
}

// writer collects numbered objects and serializes them with an xref table.
type writer struct {
	objs [][]byte
}

func (w *writer) alloc() int {
	w.objs = append(w.objs, nil)
	return len(w.objs)
}

func (w *writer) set(n int, body string) { w.objs[n-1] = []byte(body) }

func (w *writer) add(body string) int {
	n := w.alloc()
	w.set(n, body)
	return n
}

func (w *writer) stream(dictExtra string, data []byte) int {
	var b bytes.Buffer
	fmt.Fprintf(&b, "<< /Length %d%s >>\nstream\n", len(data), dictExtra)
	b.Write(data)
	b.WriteString("\nendstream")
	n := w.alloc()
	w.objs[n-1] = b.Bytes()
	return n
}

func (w *writer) bytes(root int) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	offsets := make([]int, len(w.objs))
	for i, body := range w.objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n", i+1)
		buf.Write(body)
		buf.WriteString("\nendobj\n")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, root, xref)
	return buf.Bytes()
}
