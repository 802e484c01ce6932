package internal

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSplitWords(t *testing.T) {
	runs := []Run{
		{Text: "Use "},
		{Text: "LLM", Bold: true},
		{Text: ", then  ship "},
		{Text: "law", Bold: true},
	}

	words := splitWords(runs)
	var got []string
	for _, w := range words {
		got = append(got, w.String())
	}
	want := []string{"Use", "LLM,", "then", "ship", "law"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("words = %q, want %q", got, want)
	}

	// "LLM," is one word made of a bold and a plain piece
	if len(words[1].pieces) != 2 || !words[1].pieces[0].bold || words[1].pieces[1].bold {
		t.Errorf("pieces of %q = %#v", words[1].String(), words[1].pieces)
	}
}

func widthWords(widths ...float64) []pdfWord {
	var words []pdfWord
	for _, w := range widths {
		words = append(words, pdfWord{pieces: []wordPiece{{text: "x"}}, width: w})
	}
	return words
}

func TestBreakLines(t *testing.T) {
	tests := []struct {
		name   string
		widths []float64
		avail  float64
		want   []int // words per line
	}{
		{"fits on one line", []float64{10, 10, 10}, 100, []int{3}},
		{"wraps", []float64{40, 40, 40}, 100, []int{2, 1}},
		{"exact fit", []float64{45, 45}, 100, []int{2}},
		{"overlong word alone", []float64{10, 150, 10}, 100, []int{1, 1, 1}},
		{"empty", nil, 100, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := breakLines(widthWords(tt.widths...), 10, tt.avail)
			var got []int
			for _, l := range lines {
				got = append(got, len(l))
			}
			if len(got) != len(tt.want) {
				t.Fatalf("lines = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("lines = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestJustifiedGap(t *testing.T) {
	line := widthWords(20, 30, 10)
	gap := justifiedGap(line, 100)
	if math.Abs(gap-20) > 1e-9 {
		t.Errorf("gap = %v, want 20", gap)
	}
}

func TestPDFWriterWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.pdf")
	h := NewHighlighter(DefaultTerms)

	var paragraphs [][]Run
	long := strings.Repeat("The team discussed semantic search for legal teams and traceable output. ", 80)
	for _, p := range []string{"- First point about the LLM.", "- Café meeting notes", long} {
		paragraphs = append(paragraphs, h.Runs(p))
	}

	if err := NewPDFWriter("Meeting Summary").Write(path, paragraphs); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header")
	}
	if !bytes.Contains(data, []byte("Helvetica-Bold")) {
		t.Errorf("expected the bold font to be embedded")
	}
}

func TestPDFWriterWriteBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "summary.pdf")
	if err := NewPDFWriter("Meeting Summary").Write(path, [][]Run{{{Text: "x"}}}); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestPDFWriterFonts(t *testing.T) {
	dir := t.TempDir()
	paragraphs := [][]Run{{{Text: "会议纪要 "}, {Text: "LLM", Bold: true}, {Text: " 🎉"}}}

	// core font substitutes characters outside cp1252 instead of failing
	if err := NewPDFWriter("Summary").Write(filepath.Join(dir, "core.pdf"), paragraphs); err != nil {
		t.Fatalf("core font: %v", err)
	}

	w := NewPDFWriter("Summary")
	w.FontFile = filepath.Join(dir, "missing.ttf")
	path := filepath.Join(dir, "utf8.pdf")
	if err := w.Write(path, paragraphs); err == nil {
		t.Fatal("expected error for a missing font file")
	}
	if FileExists(path) {
		t.Error("pdf written despite font error")
	}
}
