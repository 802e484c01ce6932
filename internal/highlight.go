package internal

import (
	"html"
	"regexp"
	"sort"
	"strings"
)

// DefaultTerms is the vocabulary bolded when the config does not set one
var DefaultTerms = []string{
	"AI agents",
	"legal teams",
	"trustworthy",
	"hybrid RAG",
	"ediscovery",
	"semantic search",
	"structured search",
	"precision",
	"traceable output",
	"LLM",
	"law",
	"medicine",
}

// Run is a span of paragraph text with one style
type Run struct {
	Text string
	Bold bool
}

// Highlighter finds vocabulary terms as case-insensitive whole words.
// A nil pattern means there is nothing to highlight.
type Highlighter struct {
	pattern *regexp.Regexp
}

// NewHighlighter compiles terms into a single alternation, longest term first
// so that a longer term wins over a shorter one it contains.
func NewHighlighter(terms []string) *Highlighter {
	seen := make(map[string]bool)
	var cleaned []string
	for _, t := range terms {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, t)
	}
	if len(cleaned) == 0 {
		return &Highlighter{}
	}

	sort.SliceStable(cleaned, func(i, j int) bool {
		return len(cleaned[i]) > len(cleaned[j])
	})

	quoted := make([]string, len(cleaned))
	for i, t := range cleaned {
		quoted[i] = regexp.QuoteMeta(t)
	}

	return &Highlighter{
		pattern: regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`),
	}
}

// Runs splits text into plain and bold spans. Adjacent spans never share a style.
func (h *Highlighter) Runs(text string) []Run {
	if text == "" {
		return nil
	}
	if h == nil || h.pattern == nil {
		return []Run{{Text: text}}
	}

	var runs []Run
	last := 0
	for _, loc := range h.pattern.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			runs = append(runs, Run{Text: text[last:loc[0]]})
		}
		runs = append(runs, Run{Text: text[loc[0]:loc[1]], Bold: true})
		last = loc[1]
	}
	if last < len(text) {
		runs = append(runs, Run{Text: text[last:]})
	}
	return mergeRuns(runs)
}

// Markup renders text as inline markup: matches wrapped in <b></b> and
// everything else HTML-escaped.
func (h *Highlighter) Markup(text string) string {
	var sb strings.Builder
	for _, r := range h.Runs(text) {
		if r.Bold {
			sb.WriteString("<b>")
			sb.WriteString(html.EscapeString(r.Text))
			sb.WriteString("</b>")
			continue
		}
		sb.WriteString(html.EscapeString(r.Text))
	}
	return sb.String()
}

// mergeRuns joins neighbours with the same style, which happens when two
// terms are separated only by a boundary.
func mergeRuns(runs []Run) []Run {
	if len(runs) < 2 {
		return runs
	}
	out := make([]Run, 0, len(runs))
	out = append(out, runs[0])
	for _, r := range runs[1:] {
		prev := &out[len(out)-1]
		if prev.Bold == r.Bold {
			prev.Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}

// Paragraphs splits a summary into its non-empty lines.
func Paragraphs(summary string) []string {
	var paras []string
	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		paras = append(paras, line)
	}
	return paras
}
