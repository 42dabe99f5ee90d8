package consolidate

import (
	"regexp"
	"strings"

	"github.com/rmaragno/sigilo/internal/model"
)

// Counterpart disclosure ("DE/PARA"): the order wants not only the
// investigated party's movements but the origin and destination of each
// transfer. Detection is lexical; association follows the same
// direct-else-inferred policy as circulars.
var fromToRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)origem\s+e\s+destino|DE[/-]PARA|\bde\s+para\b`),
	regexp.MustCompile(`(?i)conta\s+de\s+(?:origem|destino)`),
	regexp.MustCompile(`(?i)\b(?:remetente|destinat[áa]rio|benefici[áa]rio)\b`),
	regexp.MustCompile(`(?i)transfer[êe]ncias?\s+(?:para|de|entre)`),
	regexp.MustCompile(`(?i)identifica[çc][ãa]o\s+do\s+(?:remetente|destinat[áa]rio)`),
	regexp.MustCompile(`(?i)dados?\s+do\s+(?:favorecido|recebedor)`),
	regexp.MustCompile(`(?i)(?:discriminando|especificando|detalhando)\s+(?:origem|destino|benefici[áa]rio)`),
	regexp.MustCompile(`(?i)(?:CPF|CNPJ|nome|raz[ãa]o\s+social)\s+do\s+(?:destinat[áa]rio|benefici[áa]rio|favorecido)`),
}

// Categories that carry counterpart data by nature.
var fromToTypical = []string{
	"transferência", "ted", "doc", "pix", "remessa",
	"pagamento", "débito", "crédito", "movimentação",
}

// AnnotateFromTo marks matches that must include transfer counterpart
// identification. Typical transfer categories are marked directly; when
// the order demands DE/PARA but no match is typical, every match is
// marked with the inferred flag. Returns an alert when the requirement
// is present.
func AnnotateFromTo(text string, matches []model.SubsidyMatch) []string {
	var evidence []string
	for _, re := range fromToRes {
		evidence = append(evidence, re.FindAllString(text, -1)...)
	}
	if len(evidence) == 0 || len(matches) == 0 {
		return nil
	}

	marked := false
	for i, m := range matches {
		hay := strings.ToLower(m.CatalogName + " " + m.SourceText)
		for _, word := range fromToTypical {
			if strings.Contains(hay, word) {
				matches[i].RequiresFromTo = true
				matches[i].FromToInferred = false
				marked = true
				break
			}
		}
	}
	if !marked {
		for i := range matches {
			matches[i].RequiresFromTo = true
			matches[i].FromToInferred = true
		}
	}

	return []string{"Ofício exige identificação de origem e destino (DE/PARA) nas movimentações"}
}
