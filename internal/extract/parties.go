package extract

import (
	"regexp"
	"strings"

	"github.com/rmaragno/sigilo/internal/model"
)

var (
	cpfRe  = regexp.MustCompile(`\d{3}\.?\d{3}\.?\d{3}-?\d{2}`)
	cnpjRe = regexp.MustCompile(`\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}`)

	// Labeled party block: "INVESTIGADOS: 1. João Silva CPF ..." up to the
	// next blank line or a directive keyword
	partyBlockRe = regexp.MustCompile(`(?is)(?:INVESTIGAD[OA]S?|REQUERID[OA]S?|PARTES?)[:\s]+(.+?)(?:\n\n|DETERMINO|OFICIE-SE|$)`)

	// Free-text name-adjacent-to-identifier pairs
	cpfPairRe  = regexp.MustCompile(`([A-ZÀ-Ú][a-zà-ú]+(?:\s+(?:de|da|do|dos|das|e|[A-ZÀ-Ú][a-zà-ú]+))*)\s*,?\s*(?:CPF|C\.P\.F\.)[:\s]*(?:n[º°]?\s*)?(\d{3}\.?\d{3}\.?\d{3}-?\d{2})`)
	cnpjPairRe = regexp.MustCompile(`([A-ZÀ-Ú][^,;\n]{2,60}?)\s*,?\s*(?:CNPJ|C\.N\.P\.J\.)[:\s]*(?:n[º°]?\s*)?(\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2})`)

	morePartiesRe = regexp.MustCompile(`(?i)(e outros|et al|demais envolvidos|entre outros|\.\.\.)`)
	enumPrefixRe  = regexp.MustCompile(`^\s*(?:\d+[.)]\s*|-\s*|•\s*)`)
	idKeywordRe   = regexp.MustCompile(`(?i)\s*,?\s*(?:CPF|C\.P\.F\.|CNPJ|C\.N\.P\.J\.).*$`)
	nameLikeRe    = regexp.MustCompile(`^[A-ZÀ-Ú][\p{L}\s.&-]{4,80}$`)
)

// PartyExtraction is the deduplicated party list plus a signal that the
// document hints at parties it did not enumerate ("e outros", ellipsis).
type PartyExtraction struct {
	Parties    []model.InvestigatedParty
	MoreLikely bool
}

// PartyExtractor finds every targeted individual or entity
type PartyExtractor struct{}

// NewPartyExtractor creates a party extractor
func NewPartyExtractor() *PartyExtractor {
	return &PartyExtractor{}
}

// Extract runs both strategies (labeled block scan, free-text scan) and
// merges by identity key. A party with a name but no identifier is kept and
// flagged rather than dropped.
func (e *PartyExtractor) Extract(text string) PartyExtraction {
	seen := make(map[string]bool)
	var parties []model.InvestigatedParty

	add := func(p model.InvestigatedParty) {
		key := p.Key()
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		parties = append(parties, p)
	}

	// Strategy 1: labeled block, one party per line
	for _, block := range partyBlockRe.FindAllStringSubmatch(text, -1) {
		for _, line := range strings.Split(block[1], "\n") {
			if p, ok := partyFromLine(line); ok {
				add(p)
			}
		}
	}

	// Strategy 2: name-adjacent-to-identifier anywhere in the document
	for _, m := range cpfPairRe.FindAllStringSubmatch(text, -1) {
		add(model.InvestigatedParty{
			Name:       strings.TrimSpace(m[1]),
			TaxID:      nonDigitRe.ReplaceAllString(m[2], ""),
			Kind:       model.PartyIndividual,
			Confidence: 0.9,
		})
	}
	for _, m := range cnpjPairRe.FindAllStringSubmatch(text, -1) {
		add(model.InvestigatedParty{
			Name:       strings.TrimSpace(m[1]),
			TaxID:      nonDigitRe.ReplaceAllString(m[2], ""),
			Kind:       model.PartyCompany,
			Confidence: 0.9,
		})
	}

	return PartyExtraction{
		Parties:    parties,
		MoreLikely: morePartiesRe.MatchString(text),
	}
}

// partyFromLine parses one line of a labeled party block
func partyFromLine(line string) (model.InvestigatedParty, bool) {
	line = enumPrefixRe.ReplaceAllString(strings.TrimSpace(line), "")
	if line == "" {
		return model.InvestigatedParty{}, false
	}

	if cnpj := cnpjRe.FindString(line); cnpj != "" && strings.Contains(strings.ToUpper(line), "CNPJ") {
		name := strings.TrimSpace(idKeywordRe.ReplaceAllString(line, ""))
		return model.InvestigatedParty{
			Name:       name,
			TaxID:      nonDigitRe.ReplaceAllString(cnpj, ""),
			Kind:       model.PartyCompany,
			Confidence: 0.9,
		}, name != ""
	}

	if cpf := cpfRe.FindString(line); cpf != "" {
		name := strings.TrimSpace(idKeywordRe.ReplaceAllString(line, ""))
		return model.InvestigatedParty{
			Name:       name,
			TaxID:      nonDigitRe.ReplaceAllString(cpf, ""),
			Kind:       model.PartyIndividual,
			Confidence: 0.9,
		}, name != ""
	}

	// Name only: keep, flagged as identifier-less
	if nameLikeRe.MatchString(line) && len(strings.Fields(line)) >= 2 {
		return model.InvestigatedParty{
			Name:       line,
			Kind:       model.PartyIndividual,
			Confidence: 0.6,
			NoTaxID:    true,
		}, true
	}

	return model.InvestigatedParty{}, false
}
