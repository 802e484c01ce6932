package internal

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Page geometry in points
const (
	pdfMarginSide   = 72.0
	pdfMarginTop    = 72.0
	pdfMarginBottom = 18.0

	pdfTitleSize    = 18.0
	pdfTitleSpacer  = 14.4 // 0.2in
	pdfBodySize     = 10.0
	pdfBodyLeading  = 12.0
	pdfParagraphGap = 7.2 // 0.1in
	pdfFontFamily   = "Helvetica"
	// family registered for a configured TTF
	pdfUTF8Family = "body"
)

// PDFWriter renders a titled document of justified paragraphs with bold runs.
//
// Without FontFile the core Helvetica font is used, which only covers
// cp1252; other characters are printed as '.'. FontFile (and BoldFontFile,
// defaulting to FontFile) name UTF-8 TrueType fonts that are embedded instead.
type PDFWriter struct {
	Title        string
	Author       string
	FontFile     string
	BoldFontFile string
}

// NewPDFWriter creates a PDF writer with the given document title
func NewPDFWriter(title string) *PDFWriter {
	return &PDFWriter{Title: title}
}

type wordPiece struct {
	text string
	bold bool
}

// pdfWord is a space-delimited word, possibly spanning styles ("LLM," is bold + plain)
type pdfWord struct {
	pieces []wordPiece
	width  float64
}

func (w pdfWord) String() string {
	var sb strings.Builder
	for _, p := range w.pieces {
		sb.WriteString(p.text)
	}
	return sb.String()
}

// Write renders paragraphs to path.
func (w *PDFWriter) Write(path string, paragraphs [][]Run) error {
	pdf := fpdf.New("P", "pt", "A4", "")
	family := pdfFontFamily
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if w.FontFile != "" {
		bold := w.BoldFontFile
		if bold == "" {
			bold = w.FontFile
		}
		pdf.AddUTF8Font(pdfUTF8Family, "", w.FontFile)
		pdf.AddUTF8Font(pdfUTF8Family, "B", bold)
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("loading pdf font: %w", err)
		}
		family = pdfUTF8Family
		tr = func(s string) string { return s }
	}

	pdf.SetTitle(w.Title, true)
	pdf.SetCreator("tldl", true)
	if w.Author != "" {
		pdf.SetAuthor(w.Author, true)
	}
	pdf.SetMargins(pdfMarginSide, pdfMarginTop, pdfMarginSide)
	pdf.SetAutoPageBreak(true, pdfMarginBottom)
	pdf.AddPage()

	pdf.SetFont(family, "B", pdfTitleSize)
	pdf.MultiCell(0, pdfTitleSize*1.2, tr(w.Title), "", "C", false)
	pdf.Ln(pdfTitleSpacer)

	pageW, pageH := pdf.GetPageSize()
	avail := pageW - 2*pdfMarginSide

	measure := func(p wordPiece) float64 {
		pdf.SetFont(family, styleFor(p.bold), pdfBodySize)
		return pdf.GetStringWidth(tr(p.text))
	}
	pdf.SetFont(family, "", pdfBodySize)
	space := pdf.GetStringWidth(" ")

	for i, runs := range paragraphs {
		words := splitWords(runs)
		for j := range words {
			for _, p := range words[j].pieces {
				words[j].width += measure(p)
			}
		}

		lines := breakLines(words, space, avail)
		for k, line := range lines {
			if pdf.GetY()+pdfBodyLeading > pageH-pdfMarginBottom {
				pdf.AddPage()
			}
			gap := space
			if k < len(lines)-1 && len(line) > 1 {
				gap = justifiedGap(line, avail)
			}

			x := pdfMarginSide
			y := pdf.GetY()
			for _, word := range line {
				pdf.SetXY(x, y)
				for _, p := range word.pieces {
					pdf.SetFont(family, styleFor(p.bold), pdfBodySize)
					pdf.CellFormat(measure(p), pdfBodyLeading, tr(p.text), "", 0, "L", false, 0, "")
				}
				x += word.width + gap
			}
			pdf.SetXY(pdfMarginSide, y+pdfBodyLeading)
		}

		if i < len(paragraphs)-1 {
			pdf.Ln(pdfParagraphGap)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}
	return nil
}

func styleFor(bold bool) string {
	if bold {
		return "B"
	}
	return ""
}

// splitWords breaks runs on whitespace, gluing pieces of different styles
// that are not separated by a space into one word.
func splitWords(runs []Run) []pdfWord {
	var words []pdfWord
	var cur pdfWord

	flush := func() {
		if len(cur.pieces) > 0 {
			words = append(words, cur)
			cur = pdfWord{}
		}
	}

	for _, r := range runs {
		var token strings.Builder
		for _, c := range r.Text {
			if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
				if token.Len() > 0 {
					cur.pieces = append(cur.pieces, wordPiece{text: token.String(), bold: r.Bold})
					token.Reset()
				}
				flush()
				continue
			}
			token.WriteRune(c)
		}
		if token.Len() > 0 {
			cur.pieces = append(cur.pieces, wordPiece{text: token.String(), bold: r.Bold})
		}
	}
	flush()
	return words
}

// breakLines fills lines greedily. A word wider than avail gets a line of its own.
func breakLines(words []pdfWord, space, avail float64) [][]pdfWord {
	var lines [][]pdfWord
	var line []pdfWord
	width := 0.0

	for _, w := range words {
		if len(line) == 0 {
			line = []pdfWord{w}
			width = w.width
			continue
		}
		if width+space+w.width > avail {
			lines = append(lines, line)
			line = []pdfWord{w}
			width = w.width
			continue
		}
		line = append(line, w)
		width += space + w.width
	}
	if len(line) > 0 {
		lines = append(lines, line)
	}
	return lines
}

// justifiedGap spreads the remaining width evenly between the words of a line.
func justifiedGap(line []pdfWord, avail float64) float64 {
	total := 0.0
	for _, w := range line {
		total += w.width
	}
	return (avail - total) / float64(len(line)-1)
}
