package internal

import (
	"fmt"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	docxFont      = "Helvetica"
	docxTitleSize = 18
	docxBodySize  = 10
)

// WriteDocx renders the same titled summary as the PDF into a Word document.
func WriteDocx(path, title string, paragraphs [][]Run) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("creating docx document: %w", err)
	}

	addDocxRun(doc.AddParagraph(""), title, true, docxTitleSize)

	for _, runs := range paragraphs {
		p := doc.AddParagraph("")
		for _, r := range runs {
			addDocxRun(p, r.Text, r.Bold, docxBodySize)
		}
	}

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("saving docx: %w", err)
	}
	return nil
}

func addDocxRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(docxFont).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
