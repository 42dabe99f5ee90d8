package match

import (
	"regexp"
	"strings"
)

// Directive spans: what the judge orders, what the order asks to be
// provided, and bare domain-noun requests.
var requestSpanRes = []*regexp.Regexp{
	regexp.MustCompile(`(?is)(?:DETERMINO|SOLICITO|REQUEIRO|REQUISITO|OFICIE-SE)(.+?)(?:\n\n|$)`),
	regexp.MustCompile(`(?i)(?:forne[çc]a|disponibilize|informe|apresente|encaminhe)(.+?)(?:\.|;|\n|$)`),
	regexp.MustCompile(`(?i)(extratos?[^.;\n]*|saldos?[^.;\n]*|movimenta[çc][õo]es[^.;\n]*)`),
}

var itemSplitRe = regexp.MustCompile(`[;,]|\n\s*-|\n\s*\d+[.)]`)

// Segment scans canonical order text for directive phrases and splits each
// captured span into atomic request items. Items shorter than minLen runes
// are noise and get discarded.
func Segment(text string, minLen int) []string {
	if minLen <= 0 {
		minLen = 10
	}

	seen := make(map[string]bool)
	var items []string

	for _, re := range requestSpanRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			for _, piece := range itemSplitRe.Split(m[1], -1) {
				item := strings.TrimSpace(piece)
				if len([]rune(item)) <= minLen {
					continue
				}
				key := strings.ToLower(item)
				if seen[key] {
					continue
				}
				seen[key] = true
				items = append(items, item)
			}
		}
	}

	return items
}
