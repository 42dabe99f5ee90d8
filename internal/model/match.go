package model

// UncataloguedID marks a validator-surfaced request the catalog does not
// cover yet. Such matches are routed to manual triage, never auto-served.
const UncataloguedID = "NAO_CATALOGADO"

// SubsidyMatch binds one requested data category to a catalog entry
type SubsidyMatch struct {
	CatalogID   string  `json:"catalog_id"` // Entry id, or UncataloguedID
	CatalogName string  `json:"catalog_name,omitempty"`
	SourceText  string  `json:"source_text"` // Request fragment as it appeared
	Score       float64 `json:"score"`       // Lexical cosine similarity [0,1]

	SemanticValidated  bool     `json:"semantic_validated"`
	SemanticConfidence *float64 `json:"semantic_confidence,omitempty"`
	EvidenceText       string   `json:"evidence_text,omitempty"` // Verbatim span cited by the validator
	Justification      string   `json:"justification,omitempty"`
	SuggestedExample   string   `json:"suggested_example,omitempty"` // Catalog enrichment hint

	Circular         string `json:"circular,omitempty"` // Associated regulatory circular, "CC n/yyyy"
	CircularInferred bool   `json:"circular_inferred,omitempty"`
	RequiresFromTo   bool   `json:"requires_from_to,omitempty"` // Transfer counterpart disclosure
	FromToInferred   bool   `json:"from_to_inferred,omitempty"`

	Period *PeriodRequirement `json:"period,omitempty"`
}

// Sentinel values for period bounds. A bound is either a DDMMYYYY date,
// a relative token (ULTIMOS_N_ANOS|MESES|DIAS, start only), or one of these.
const (
	PeriodNotFound       = "NAO_ENCONTRADO_NO_TEXTO"
	PeriodOrderDate      = "DATA_OFICIO"      // End bound: the order's own date
	PeriodSinceInception = "DESDE_A_ABERTURA" // Start bound: since account opening
)

// PeriodRequirement is the resolved disclosure window for one (party, match)
type PeriodRequirement struct {
	Start      string `json:"start"`
	End        string `json:"end"`
	SourceText string `json:"source_text,omitempty"`
}

// Unresolved reports whether neither bound was found in the text
func (p PeriodRequirement) Unresolved() bool {
	return p.Start == PeriodNotFound && p.End == PeriodNotFound
}

// ResolvedPeriod keys one resolved window by its (party, match) pair
type ResolvedPeriod struct {
	PartyKey  string `json:"party_key"`
	CatalogID string `json:"catalog_id"`
	PeriodRequirement
}
