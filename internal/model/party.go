package model

import "strings"

// PartyKind distinguishes individuals from legal entities
type PartyKind string

const (
	PartyIndividual PartyKind = "pessoa_fisica"   // Identified by CPF
	PartyCompany    PartyKind = "pessoa_juridica" // Identified by CNPJ
)

// InvestigatedParty is one person or entity targeted by the order
type InvestigatedParty struct {
	Name       string    `json:"name"`
	TaxID      string    `json:"tax_id,omitempty"` // Digits only (CPF 11, CNPJ 14)
	Kind       PartyKind `json:"kind"`
	Confidence float64   `json:"confidence"`
	NoTaxID    bool      `json:"no_tax_id,omitempty"` // Kept on name evidence alone
}

// Key is the deduplication identity: normalized tax identifier when present,
// otherwise the normalized name.
func (p InvestigatedParty) Key() string {
	if p.TaxID != "" {
		return p.TaxID
	}
	return NormalizeName(p.Name)
}

// NormalizeName collapses whitespace and case for identity comparison
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
