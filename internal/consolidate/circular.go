package consolidate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rmaragno/sigilo/internal/model"
)

// Orders sometimes anchor their requests on a BACEN Carta Circular
// ("CC 3.454/2010" and variants). The reference is carried on each match
// so the fulfillment team knows which regulation governs the layout.
var circularRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Carta\s+Circular|C\.C\.)\s*(?:n[º°]?\s*)?([\d.]+)(?:\s*[/-]\s*(\d{2,4}))?`),
	regexp.MustCompile(`(?i)\bCC\s*([\d.]+)(?:\s*[/-]\s*(\d{2,4}))?`),
}

var circularScopeAllRe = regexp.MustCompile(`(?i)todos?|demais|listad[oa]s?|acima|abaixo|seguintes?`)

type circularRef struct {
	label string // "CC 3454/2010" or "CC 3454"
	start int
	end   int
}

// AnnotateCirculars binds circular references in text to matches. A match
// whose source text appears inside the mention's surrounding context gets
// a direct association; otherwise the circular applies to every match with
// the inferred flag set. Returns one alert per distinct circular found.
func AnnotateCirculars(text string, matches []model.SubsidyMatch) []string {
	refs := findCirculars(text)
	if len(refs) == 0 || len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var alerts []string
	for _, ref := range refs {
		if seen[ref.label] {
			continue
		}
		seen[ref.label] = true
		alerts = append(alerts, fmt.Sprintf("Carta Circular detectada no ofício: %s", ref.label))

		context := runeWindow(text, ref.start, ref.end, 100)
		applyAll := circularScopeAllRe.MatchString(context)

		var direct []int
		if !applyAll {
			for i, m := range matches {
				if matchMentioned(context, m) {
					direct = append(direct, i)
				}
			}
		}

		if applyAll || len(direct) == 0 {
			for i := range matches {
				if matches[i].Circular == "" {
					matches[i].Circular = ref.label
					matches[i].CircularInferred = !applyAll
				}
			}
			continue
		}
		for _, i := range direct {
			matches[i].Circular = ref.label
			matches[i].CircularInferred = false
		}
	}
	return alerts
}

func findCirculars(text string) []circularRef {
	var refs []circularRef
	for _, re := range circularRes {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			number := strings.ReplaceAll(text[loc[2]:loc[3]], ".", "")
			label := "CC " + number
			if loc[4] >= 0 {
				label += "/" + expandYear(text[loc[4]:loc[5]])
			}
			refs = append(refs, circularRef{label: label, start: loc[0], end: loc[1]})
		}
	}
	return refs
}

func expandYear(y string) string {
	if len(y) != 2 {
		return y
	}
	n, err := strconv.Atoi(y)
	if err != nil {
		return y
	}
	if n < 50 {
		return "20" + y
	}
	return "19" + y
}

func matchMentioned(context string, m model.SubsidyMatch) bool {
	lc := strings.ToLower(context)
	if m.CatalogName != "" && strings.Contains(lc, strings.ToLower(m.CatalogName)) {
		return true
	}
	src := strings.ToLower(strings.TrimSpace(m.SourceText))
	return src != "" && strings.Contains(lc, src)
}

// runeWindow returns text around [start,end) padded by pad runes per side,
// without splitting multibyte characters.
func runeWindow(text string, start, end, pad int) string {
	lo := start
	for i := 0; i < pad && lo > 0; i++ {
		lo--
		for lo > 0 && !isRuneStart(text[lo]) {
			lo--
		}
	}
	hi := end
	for i := 0; i < pad && hi < len(text); i++ {
		hi++
		for hi < len(text) && !isRuneStart(text[hi]) {
			hi++
		}
	}
	return text[lo:hi]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
