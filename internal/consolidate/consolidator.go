// Package consolidate merges the lexical and semantic passes into the
// final match set. Rejections drop candidates, verdict metadata is folded
// into surviving matches, and validator-surfaced items enter as new
// matches. The merge is idempotent: feeding its output back with the same
// response changes nothing.
package consolidate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rmaragno/sigilo/internal/catalog"
	"github.com/rmaragno/sigilo/internal/model"
	"github.com/rmaragno/sigilo/internal/semantic"
)

type Consolidator struct {
	cat *catalog.Catalog
}

func New(cat *catalog.Catalog) *Consolidator {
	return &Consolidator{cat: cat}
}

// Merge applies the validator response to the lexical match set. A nil
// response means lexical-only mode: matches pass through unvalidated.
// Returned alerts are operator-facing strings in the order they arose.
func (c *Consolidator) Merge(lexical []model.SubsidyMatch, resp *semantic.Response) ([]model.SubsidyMatch, []string) {
	if resp == nil {
		return dedupe(lexical), nil
	}

	verdicts := make(map[string]semantic.Verdict, len(resp.Verdicts))
	for _, v := range resp.Verdicts {
		verdicts[v.CatalogID] = v
	}

	var alerts []string
	merged := make([]model.SubsidyMatch, 0, len(lexical)+len(resp.NewItems))
	for _, m := range lexical {
		v, judged := verdicts[m.CatalogID]
		if !judged {
			// The validator was silent on this candidate. Keep it so
			// nothing requested is silently lost, but at reduced weight:
			// silence on an explicit candidate is a soft anomaly.
			m.SemanticValidated = false
			m.SemanticConfidence = nil
			m.Score *= 0.8
			merged = append(merged, m)
			continue
		}
		if !v.Accepted {
			alerts = append(alerts, fmt.Sprintf(
				"Subsídio %q descartado pela validação semântica: %s", m.CatalogID, v.Justification))
			continue
		}
		conf := v.Confidence
		m.SemanticValidated = true
		m.SemanticConfidence = &conf
		m.EvidenceText = v.EvidenceText
		m.Justification = v.Justification
		m.SuggestedExample = v.SuggestedExample
		merged = append(merged, m)
	}

	for _, n := range resp.NewItems {
		m := model.SubsidyMatch{
			SourceText:        n.RequestText,
			SemanticValidated: true,
			EvidenceText:      n.EvidenceText,
			Justification:     n.Justification,
		}
		if entry, ok := c.cat.Get(n.SuggestedCatalogID); ok {
			// The validator mapped a missed request onto the catalog
			conf := resp.Confidence
			m.CatalogID = entry.ID
			m.CatalogName = entry.Name
			m.SemanticConfidence = &conf
			merged = append(merged, m)
			continue
		}
		if !n.IsNew {
			// Claimed variant of an existing entry but the id does not
			// resolve; there is nothing actionable to add
			continue
		}
		m.CatalogID = model.UncataloguedID
		alerts = append(alerts, fmt.Sprintf(
			"Subsídio não catalogado identificado: %q", n.RequestText))
		merged = append(merged, m)
	}

	if !resp.AllCaptured {
		alerts = append(alerts, "Validação semântica indica subsídios possivelmente não capturados; revisar o ofício na íntegra")
	}

	return dedupe(merged), alerts
}

// dedupe keeps one match per catalog id, preferring the higher effective
// confidence. Uncatalogued matches are distinct requests and dedupe by
// their normalized source text instead.
func dedupe(matches []model.SubsidyMatch) []model.SubsidyMatch {
	best := make(map[string]int)
	keep := make([]model.SubsidyMatch, 0, len(matches))
	for _, m := range matches {
		key := m.CatalogID
		if m.CatalogID == model.UncataloguedID {
			key = model.UncataloguedID + "|" + strings.ToLower(strings.TrimSpace(m.SourceText))
		}
		idx, seen := best[key]
		if !seen {
			best[key] = len(keep)
			keep = append(keep, m)
			continue
		}
		if effectiveConfidence(m) > effectiveConfidence(keep[idx]) {
			keep[idx] = m
		}
	}
	sort.SliceStable(keep, func(i, j int) bool {
		return effectiveConfidence(keep[i]) > effectiveConfidence(keep[j])
	})
	return keep
}

func effectiveConfidence(m model.SubsidyMatch) float64 {
	if m.SemanticConfidence != nil {
		return *m.SemanticConfidence
	}
	return m.Score
}
