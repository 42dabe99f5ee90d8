package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rmaragno/sigilo/internal/model"
	"github.com/rmaragno/sigilo/internal/period"
)

// WriteJSON writes one result as indented JSON
func WriteJSON(w io.Writer, result *model.WarrantProcessingResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}

// WriteJSONBatch writes a batch of results as one JSON array
func WriteJSONBatch(w io.Writer, results []*model.WarrantProcessingResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(results)
}

// Summary renders a short human-readable digest of one run
func Summary(result *model.WarrantProcessingResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sessão:     %s\n", result.SessionID)
	fmt.Fprintf(&b, "Estado:     %s\n", result.State)
	fmt.Fprintf(&b, "Roteamento: %s (confiança %.2f)\n", result.RoutingStatus, result.OverallConfidence)

	if len(result.Parties) > 0 {
		b.WriteString("Envolvidos:\n")
		for _, p := range result.Parties {
			doc := p.TaxID
			if doc == "" {
				doc = "sem documento"
			}
			fmt.Fprintf(&b, "  - %s (%s)\n", p.Name, doc)
		}
	}
	if len(result.Matches) > 0 {
		b.WriteString("Subsídios:\n")
		for _, m := range result.Matches {
			name := m.CatalogName
			if name == "" {
				name = m.CatalogID
			}
			marker := ""
			if m.SemanticValidated {
				marker = " ✓"
			}
			fmt.Fprintf(&b, "  - %s (%.2f)%s\n", name, effectiveScore(m), marker)
		}
	}
	if len(result.Periods) > 0 {
		b.WriteString("Períodos:\n")
		for _, p := range result.Periods {
			fmt.Fprintf(&b, "  - %s\n", period.Describe(p))
		}
	}
	for _, a := range result.Alerts {
		fmt.Fprintf(&b, "Alerta: %s\n", a)
	}
	if result.Error != "" {
		fmt.Fprintf(&b, "Erro: %s\n", result.Error)
	}
	return b.String()
}
