// Package semantic defines the semantic-validation contract and its
// LLM-backed implementation. The core never depends on the backend: it sends
// lexical candidates plus unmatched fragments and receives per-candidate
// verdicts and newly surfaced items. Anything malformed coming back is
// rejected at this boundary so callers can fall back to lexical-only mode.
package semantic

import (
	"context"
	"fmt"

	"github.com/rmaragno/sigilo/internal/catalog"
)

// LexicalMatch is one candidate produced by the lexical pass
type LexicalMatch struct {
	CatalogID string  `json:"catalog_id"`
	TextSpan  string  `json:"text_span"`
	Score     float64 `json:"score"`
}

// Request is the validator's input contract
type Request struct {
	DocumentText       string
	LexicalMatches     []LexicalMatch
	UnmatchedFragments []string
	CatalogSubset      []catalog.Entry
}

// Verdict is the validator's judgment on one lexical candidate.
// JSON tags follow the response wire format.
type Verdict struct {
	CatalogID        string  `json:"subsidio_id"`
	Accepted         bool    `json:"e_valido"`
	Confidence       float64 `json:"confidence"`
	EvidenceText     string  `json:"texto_evidencia"`
	Justification    string  `json:"justificativa"`
	SuggestedExample string  `json:"sugestao_exemplo"`
}

// NewItem is a request the lexical pass missed
type NewItem struct {
	RequestText        string `json:"texto_solicitacao"`
	EvidenceText       string `json:"texto_evidencia"`
	SuggestedCatalogID string `json:"catalogo_id_sugerido,omitempty"`
	IsNew              bool   `json:"e_subsidio_novo"`
	Justification      string `json:"justificativa"`
}

// Response is the validator's output contract
type Response struct {
	Verdicts    []Verdict `json:"validacoes"`
	NewItems    []NewItem `json:"subsidios_novos"`
	AllCaptured bool      `json:"todos_subsidios_capturados"`
	Confidence  float64   `json:"confidence_geral"`
	Notes       string    `json:"observacoes,omitempty"`
}

// Validator is the pluggable semantic-validation capability. Calls are
// blocking and single-shot; callers do not retry a failed call.
type Validator interface {
	Name() string
	Validate(ctx context.Context, req Request) (*Response, error)
}

// CheckResponse enforces the response schema. A violation means the whole
// response is untrustworthy and must be discarded, not patched around.
func CheckResponse(resp *Response) error {
	if resp == nil {
		return fmt.Errorf("nil response")
	}
	if resp.Confidence < 0 || resp.Confidence > 1 {
		return fmt.Errorf("overall confidence %v out of [0,1]", resp.Confidence)
	}
	for i, v := range resp.Verdicts {
		if v.CatalogID == "" {
			return fmt.Errorf("verdict %d: empty catalog id", i)
		}
		if v.Confidence < 0 || v.Confidence > 1 {
			return fmt.Errorf("verdict %d (%s): confidence %v out of [0,1]", i, v.CatalogID, v.Confidence)
		}
	}
	for i, n := range resp.NewItems {
		if n.RequestText == "" {
			return fmt.Errorf("new item %d: empty request text", i)
		}
	}
	return nil
}
