package model

// InstitutionType classifies an addressee mentioned by the order
type InstitutionType string

const (
	InstitutionTarget        InstitutionType = "banco_especifico"       // The operating institution itself
	InstitutionFinancial     InstitutionType = "instituicao_financeira" // Generic bank / financial institution
	InstitutionCentralBank   InstitutionType = "bacen"
	InstitutionTaxAuthority  InstitutionType = "receita"
	InstitutionTelecom       InstitutionType = "operadora"
	InstitutionPolice        InstitutionType = "policia"
	InstitutionIndeterminate InstitutionType = "indeterminado"
)

// SecrecyType is the kind of legal secrecy the order lifts
type SecrecyType string

const (
	SecrecyBanking       SecrecyType = "bancario"
	SecrecyFiscal        SecrecyType = "fiscal"
	SecrecyTelephone     SecrecyType = "telefonico"
	SecrecyMixed         SecrecyType = "misto"
	SecrecyIndeterminate SecrecyType = "indeterminado"
)

// MentionedInstitution is one addressee found in the document
type MentionedInstitution struct {
	Type            InstitutionType `json:"type"`
	Name            string          `json:"name,omitempty"`
	Excerpt         string          `json:"excerpt"` // Where it was mentioned (truncated)
	DirectAddressee bool            `json:"direct_addressee"`
	Confidence      float64         `json:"confidence"`
}

// RelevanceDecision is the relevance filter's verdict
type RelevanceDecision struct {
	Relevant           bool                   `json:"relevant"`
	Reason             string                 `json:"reason"`
	Confidence         float64                `json:"confidence"`
	Institutions       []MentionedInstitution `json:"institutions"`
	MultipleAddressees bool                   `json:"multiple_addressees"`
	SecrecyType        SecrecyType            `json:"secrecy_type"`
	RelevantSpan       string                 `json:"relevant_span,omitempty"` // Only the blocks addressed to us
}
