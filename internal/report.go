package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	transcriptFile   = "transcript.txt"
	summaryFile      = "summary.pdf"
	flatSummaryFile  = "meeting_summary.pdf"
	outputTimeLayout = "20060102_150405"
	maxFolderSuffix  = 1000
)

// ReportOptions configures where and how reports are written
type ReportOptions struct {
	OutputDir   string
	Timestamped bool
	Title       string
	Terms       []string
	Docx        bool
	// UTF-8 TrueType fonts for the PDF; empty uses core Helvetica
	FontFile string
	BoldFont string
}

// ReportWriter turns a transcription result into files on disk
type ReportWriter struct {
	opts        ReportOptions
	highlighter *Highlighter
	now         func() time.Time
}

// NewReportWriter creates a report writer
func NewReportWriter(opts ReportOptions) *ReportWriter {
	if opts.Title == "" {
		opts.Title = "Meeting Summary"
	}
	return &ReportWriter{
		opts:        opts,
		highlighter: NewHighlighter(opts.Terms),
		now:         time.Now,
	}
}

// WithOutputDir returns a copy of the writer targeting dir
func (w *ReportWriter) WithOutputDir(dir string) *ReportWriter {
	cp := *w
	cp.opts.OutputDir = dir
	return &cp
}

// WithTimestamped returns a copy of the writer with timestamped folders on or off
func (w *ReportWriter) WithTimestamped(on bool) *ReportWriter {
	cp := *w
	cp.opts.Timestamped = on
	return &cp
}

// Write renders result for the source called name. On error nothing is left
// in the output directory.
func (w *ReportWriter) Write(name string, result *TranscriptionResult) (*Report, error) {
	if err := EnsureDirs(w.opts.OutputDir); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	staging, err := os.MkdirTemp(w.opts.OutputDir, ".staging-*")
	if err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	summaryName := summaryFile
	if !w.opts.Timestamped {
		summaryName = flatSummaryFile
	}
	files := []string{transcriptFile, summaryName}

	if err := os.WriteFile(filepath.Join(staging, transcriptFile), []byte(result.Text), 0644); err != nil {
		return nil, fmt.Errorf("writing transcript: %w", err)
	}

	paragraphs := w.paragraphRuns(result.SummaryOrFallback())
	pdf := NewPDFWriter(w.opts.Title)
	pdf.FontFile = w.opts.FontFile
	pdf.BoldFontFile = w.opts.BoldFont
	if err := pdf.Write(filepath.Join(staging, summaryName), paragraphs); err != nil {
		return nil, err
	}

	if w.opts.Docx {
		docxName := strings.TrimSuffix(summaryName, ".pdf") + ".docx"
		if err := WriteDocx(filepath.Join(staging, docxName), w.opts.Title, paragraphs); err != nil {
			return nil, err
		}
		files = append(files, docxName)
	}

	dir := w.opts.OutputDir
	if w.opts.Timestamped {
		dir, err = w.reserveFolder(name)
		if err != nil {
			return nil, err
		}
	}

	if err := publish(staging, dir, files); err != nil {
		if w.opts.Timestamped {
			os.RemoveAll(dir)
		}
		return nil, err
	}

	report := &Report{
		Dir:            dir,
		TranscriptPath: filepath.Join(dir, transcriptFile),
		SummaryPath:    filepath.Join(dir, summaryName),
	}
	if w.opts.Docx {
		report.DocxPath = filepath.Join(dir, files[2])
	}
	return report, nil
}

// paragraphRuns splits the summary into paragraphs and marks vocabulary terms.
func (w *ReportWriter) paragraphRuns(summary string) [][]Run {
	var out [][]Run
	for _, p := range Paragraphs(summary) {
		out = append(out, w.highlighter.Runs(p))
	}
	return out
}

// reserveFolder creates <base>_<timestamp>, adding _2, _3... when a run in the
// same second already took the name.
func (w *ReportWriter) reserveFolder(name string) (string, error) {
	stem := ReportStem(name) + "_" + w.now().Format(outputTimeLayout)

	for i := 1; i <= maxFolderSuffix; i++ {
		candidate := stem
		if i > 1 {
			candidate = fmt.Sprintf("%s_%d", stem, i)
		}
		path := filepath.Join(w.opts.OutputDir, candidate)
		err := os.Mkdir(path, 0755)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("creating report folder: %w", err)
		}
	}
	return "", fmt.Errorf("no free report folder name for %s", stem)
}

// publish moves staged files into dir
func publish(staging, dir string, files []string) error {
	var moved []string
	for _, f := range files {
		dst := filepath.Join(dir, f)
		if err := os.Rename(filepath.Join(staging, f), dst); err != nil {
			cleanupFiles(moved...)
			return fmt.Errorf("moving %s into place: %w", f, err)
		}
		moved = append(moved, dst)
	}
	return nil
}

// ReportStem is the file name without directory or extension, safe for a folder name.
func ReportStem(name string) string {
	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, stem)
	stem = strings.TrimSpace(stem)
	if stem == "" || stem == "." || stem == ".." {
		return "recording"
	}
	return stem
}
