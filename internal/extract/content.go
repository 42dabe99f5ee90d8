// Package extract isolates the canonical order text and pulls structured
// entities (parties, dates) out of it.
package extract

import (
	"regexp"
	"strings"

	"github.com/rmaragno/sigilo/internal/model"
	"golang.org/x/net/html"
)

var (
	ocrSpanRe     = regexp.MustCompile(`(?s)<<OCR>>(.*?)<<OCR>>`)
	blockMarkerRe = regexp.MustCompile(`(?i)(PODER JUDICI[ÁA]RIO|OF[ÍI]CIO|VARA|COMARCA)`)
	htmlHintRe    = regexp.MustCompile(`(?i)<(html|body|div|p|br|table)[\s>/]`)
)

// ContentExtractor isolates the order body from surrounding noise
type ContentExtractor struct{}

// NewContentExtractor creates a content extractor
func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{}
}

// Extract returns the canonical order text, or model.OrderNotFound when no
// order body could be isolated (the caller falls back to the raw text).
func (e *ContentExtractor) Extract(text string, cls model.InputClassification) string {
	// HTML email exports show up occasionally; work on visible text only
	if htmlHintRe.MatchString(text) {
		text = StripHTML(text)
	}

	// Explicit OCR delimiters win over everything else
	if cls.HasOCRDelimiters {
		if spans := ocrSpanRe.FindAllStringSubmatch(text, -1); len(spans) > 0 {
			parts := make([]string, 0, len(spans))
			for _, m := range spans {
				parts = append(parts, strings.TrimSpace(m[1]))
			}
			text = strings.Join(parts, "\n\n")
		}
	}

	if cls.ContentType == model.ContentOrderComplete {
		return text
	}

	if cls.ContentType == model.ContentEmailChain {
		var orderBlocks []string
		for _, block := range strings.Split(text, "\n\n") {
			if blockMarkerRe.MatchString(block) {
				orderBlocks = append(orderBlocks, block)
			}
		}
		if len(orderBlocks) > 0 {
			return strings.Join(orderBlocks, "\n\n")
		}
	}

	return model.OrderNotFound
}

// StripHTML extracts the visible text of an HTML document, skipping script
// and style subtrees. Parse errors fall back to the input unchanged.
func StripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				buf.WriteString(t)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.TrimSpace(buf.String())
}

var (
	processNumRe = regexp.MustCompile(`\d{7}-\d{2}\.\d{4}\.\d\.\d{2}\.\d{4}`)
	looseNameRe  = regexp.MustCompile(`(?:Investigado|Requerido|Nome)[:\s]+([A-ZÀ-Ú][A-ZÀ-Ú\s]{3,50})`)
)

// MinimalLookup extracts just enough identifiers from an incomplete document
// to drive an external system lookup for the full order.
func MinimalLookup(text string) model.LookupData {
	if spans := ocrSpanRe.FindAllStringSubmatch(text, -1); len(spans) > 0 {
		parts := make([]string, 0, len(spans))
		for _, m := range spans {
			parts = append(parts, m[1])
		}
		text = strings.Join(parts, "\n\n")
	}

	info := model.LookupData{
		ProcessNumbers: uniqueMatches(processNumRe, text),
		CPFs:           digitsOnly(uniqueMatches(cpfRe, text)),
		CNPJs:          digitsOnly(uniqueMatches(cnpjRe, text)),
	}
	for _, m := range looseNameRe.FindAllStringSubmatch(text, -1) {
		info.Names = append(info.Names, strings.TrimSpace(m[1]))
	}
	info.CanQuerySystem = len(info.ProcessNumbers) > 0 || len(info.CPFs) > 0 || len(info.CNPJs) > 0
	return info
}

func uniqueMatches(re *regexp.Regexp, text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range re.FindAllString(text, -1) {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

var nonDigitRe = regexp.MustCompile(`\D`)

func digitsOnly(in []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range in {
		d := nonDigitRe.ReplaceAllString(s, "")
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}
