package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateKind categorizes a raw date expression
type DateKind string

const (
	DateSpecific DateKind = "especifica" // A single concrete date
	DatePeriod   DateKind = "periodo"    // A month or year span
	DateRelative DateKind = "relativa"   // "últimos N anos", needs a reference date
)

// DateExpression is one raw date found in free text
type DateExpression struct {
	Original   string
	Normalized string // ISO date, or a relative token ULTIMOS_N_(ANOS|MESES|DIAS)
	Kind       DateKind
	Confidence float64
}

var (
	numericDateRe = regexp.MustCompile(`\b(\d{1,2})[/.-](\d{1,2})[/.-](\d{2,4})\b`)
	monthYearRe   = regexp.MustCompile(`(?i)\b(janeiro|fevereiro|mar[çc]o|abril|maio|junho|julho|agosto|setembro|outubro|novembro|dezembro)\s+de\s+(\d{4})\b`)
	relativeRe    = regexp.MustCompile(`(?i)[úu]ltimos?\s+(\d+|um|dois|tr[êe]s|quatro|cinco|seis|sete|oito|nove|dez)\s+(dias?|m[êe]s(?:es)?|anos?)`)
	yearSpanRe    = regexp.MustCompile(`(?i)\b(?:ano|exerc[íi]cio) de (\d{4})\b`)
)

var monthNumbers = map[string]string{
	"janeiro": "01", "fevereiro": "02", "março": "03", "marco": "03",
	"abril": "04", "maio": "05", "junho": "06", "julho": "07",
	"agosto": "08", "setembro": "09", "outubro": "10", "novembro": "11",
	"dezembro": "12",
}

var wordNumbers = map[string]int{
	"um": 1, "dois": 2, "três": 3, "tres": 3, "quatro": 4, "cinco": 5,
	"seis": 6, "sete": 7, "oito": 8, "nove": 9, "dez": 10,
}

// DateExtractor finds raw date and period expressions in free text
type DateExtractor struct{}

// NewDateExtractor creates a date extractor
func NewDateExtractor() *DateExtractor {
	return &DateExtractor{}
}

// Extract returns every date expression found, in document order per pattern
func (e *DateExtractor) Extract(text string) []DateExpression {
	var dates []DateExpression

	for _, m := range numericDateRe.FindAllStringSubmatch(text, -1) {
		day, month, year := m[1], m[2], m[3]
		if len(year) == 2 {
			if y, _ := strconv.Atoi(year); y < 30 {
				year = "20" + year
			} else {
				year = "19" + year
			}
		}
		d, _ := strconv.Atoi(day)
		mo, _ := strconv.Atoi(month)
		if d < 1 || d > 31 || mo < 1 || mo > 12 {
			continue
		}
		dates = append(dates, DateExpression{
			Original:   m[0],
			Normalized: fmt.Sprintf("%s-%02d-%02d", year, mo, d),
			Kind:       DateSpecific,
			Confidence: 0.95,
		})
	}

	for _, m := range monthYearRe.FindAllStringSubmatch(text, -1) {
		num, ok := monthNumbers[strings.ToLower(m[1])]
		if !ok {
			continue
		}
		dates = append(dates, DateExpression{
			Original:   m[0],
			Normalized: m[2] + "-" + num + "-01",
			Kind:       DatePeriod,
			Confidence: 0.90,
		})
	}

	for _, m := range yearSpanRe.FindAllStringSubmatch(text, -1) {
		dates = append(dates, DateExpression{
			Original:   m[0],
			Normalized: m[1] + "-01-01",
			Kind:       DatePeriod,
			Confidence: 0.90,
		})
	}

	for _, m := range relativeRe.FindAllStringSubmatch(text, -1) {
		n, ok := parseCount(m[1])
		if !ok {
			continue
		}
		dates = append(dates, DateExpression{
			Original:   m[0],
			Normalized: relativeToken(n, m[2]),
			Kind:       DateRelative,
			Confidence: 0.85,
		})
	}

	return dates
}

func parseCount(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, n > 0
	}
	n, ok := wordNumbers[strings.ToLower(s)]
	return n, ok
}

var writtenDateRe = regexp.MustCompile(`(?i)\b(\d{1,2})\s+de\s+(janeiro|fevereiro|mar[çc]o|abril|maio|junho|julho|agosto|setembro|outubro|novembro|dezembro)\s+de\s+(\d{4})\b`)

// OrderDate finds the order's own issue date: the fully written date from
// the signature block ("Brasília, 12 de março de 2024"). The last
// occurrence wins because signatures close the document.
func OrderDate(text string) (time.Time, bool) {
	ms := writtenDateRe.FindAllStringSubmatch(text, -1)
	if len(ms) == 0 {
		return time.Time{}, false
	}
	m := ms[len(ms)-1]
	month, ok := monthNumbers[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	t, err := time.Parse("2006-01-02", fmt.Sprintf("%s-%s-%02d", m[3], month, day))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// relativeToken builds the canonical ULTIMOS_N_UNIT token
func relativeToken(n int, unit string) string {
	u := strings.ToLower(unit)
	switch {
	case strings.HasPrefix(u, "dia"):
		return fmt.Sprintf("ULTIMOS_%d_DIAS", n)
	case strings.HasPrefix(u, "mes"), strings.HasPrefix(u, "mês"):
		return fmt.Sprintf("ULTIMOS_%d_MESES", n)
	default:
		return fmt.Sprintf("ULTIMOS_%d_ANOS", n)
	}
}
