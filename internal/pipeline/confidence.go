package pipeline

import "github.com/rmaragno/sigilo/internal/model"

// aggregateConfidence computes the run confidence as the unweighted mean
// of four signals: classifier confidence, party presence, match presence,
// and the weakest consolidated match score. Missing parties or matches
// then halve the result: extraction that found nothing to act on must
// never route automatically.
func aggregateConfidence(classifier float64, parties []model.InvestigatedParty, matches []model.SubsidyMatch) float64 {
	partySignal := 0.0
	if len(parties) > 0 {
		partySignal = 1.0
	}

	matchSignal := 0.5
	minScore := 0.5
	if len(matches) > 0 {
		matchSignal = 1.0
		minScore = effectiveScore(matches[0])
		for _, m := range matches[1:] {
			if s := effectiveScore(m); s < minScore {
				minScore = s
			}
		}
	}

	conf := (classifier + partySignal + matchSignal + minScore) / 4.0

	if len(parties) == 0 {
		conf *= 0.5
	}
	if len(matches) == 0 {
		conf *= 0.5
	}
	return conf
}

func effectiveScore(m model.SubsidyMatch) float64 {
	if m.SemanticConfidence != nil {
		return *m.SemanticConfidence
	}
	return m.Score
}

// route maps confidence to a routing decision using configured cutoffs
func route(conf float64, cfg model.RoutingConfig) model.RoutingStatus {
	switch {
	case conf >= cfg.AutoProcess:
		return model.RoutingAutomatic
	case conf >= cfg.HumanReview:
		return model.RoutingHumanReview
	default:
		return model.RoutingManualAnalysis
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
