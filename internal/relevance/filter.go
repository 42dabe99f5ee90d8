// Package relevance decides whether an order is addressed to the operating
// institution at all. Court orders frequently bundle requests to several
// recipients (tax authority, telecoms, police); only the banking blocks
// matter here, and a document addressed exclusively elsewhere is rejected
// before any extraction runs.
package relevance

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rmaragno/sigilo/internal/model"
)

const excerptLen = 200

var (
	addressRe     = regexp.MustCompile(`(?i)(?:OFICIE-SE|EXPE[ÇC]A-SE)[^.\n]*?(?:AOS?|ÀS?|A)\s+([^.,\n]+)`)
	financialRe   = regexp.MustCompile(`(?i)(bancos?\b|institui[çc][ãa]o banc[áa]ria|institui[çc][õo]?[ãe]s? financeiras?)`)
	centralBankRe = regexp.MustCompile(`(?i)(bacen|banco central)`)
	taxRe         = regexp.MustCompile(`(?i)(receita federal|fazenda nacional|\brfb\b|sigilo fiscal)`)
	telecomRe     = regexp.MustCompile(`(?i)(operadora|telefonia|sigilo telef[ôo]nico)`)
	policeRe      = regexp.MustCompile(`(?i)(pol[íi]cia|delegacia)`)

	bankingSecrecyRe   = regexp.MustCompile(`(?i)sigilo banc[áa]rio`)
	fiscalSecrecyRe    = regexp.MustCompile(`(?i)sigilo fiscal`)
	telephoneSecrecyRe = regexp.MustCompile(`(?i)sigilo telef[ôo]nico`)

	bankingContentRe = regexp.MustCompile(`(?i)(extratos?|saldos?|movimenta[çc][õo]es|conta corrente|aplica[çc][õo]es)`)
)

// Filter classifies addressee blocks and decides relevance
type Filter struct {
	institution   string
	institutionRe *regexp.Regexp
}

// New creates a filter for the named operating institution. An empty name
// means no specific-institution pattern; only generic financial markers fire.
func New(institution string) *Filter {
	f := &Filter{institution: institution}
	if institution != "" {
		f.institutionRe = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(strings.ToLower(institution)))
	}
	return f
}

// addresseeBlock is one per-recipient span of the document
type addresseeBlock struct {
	addressee string // Empty for the generic whole-document block
	text      string
	generic   bool
}

// Decide analyzes the document and returns the relevance verdict
func (f *Filter) Decide(text string) model.RelevanceDecision {
	blocks := splitBlocks(text)
	secrecy := detectSecrecy(text)

	var institutions []model.MentionedInstitution
	var relevantSpans []string

	for _, b := range blocks {
		inst := f.classifyBlock(b)
		institutions = append(institutions, inst)
		if inst.Type == model.InstitutionTarget || inst.Type == model.InstitutionFinancial || inst.Type == model.InstitutionIndeterminate {
			relevantSpans = append(relevantSpans, b.text)
		}
	}

	decision := model.RelevanceDecision{
		Institutions:       institutions,
		MultipleAddressees: len(blocks) > 1,
		SecrecyType:        secrecy,
	}

	hasFinancial := false
	onlyNonFinancial := true
	for _, inst := range institutions {
		switch inst.Type {
		case model.InstitutionTarget, model.InstitutionFinancial:
			hasFinancial = true
			onlyNonFinancial = false
		case model.InstitutionIndeterminate, model.InstitutionCentralBank:
			onlyNonFinancial = false
		}
	}

	singleGeneric := len(blocks) == 1 && blocks[0].generic

	switch {
	case onlyNonFinancial && (secrecy == model.SecrecyFiscal || secrecy == model.SecrecyTelephone):
		// (a) exclusively addressed elsewhere under a non-banking secrecy type
		decision.Relevant = false
		decision.Reason = fmt.Sprintf("Ofício exclusivamente de sigilo %s, não dirigido a instituição financeira", secrecy)
		decision.Confidence = 0.95

	case hasFinancial:
		// (b) the target institution or a generic bank is addressed
		decision.Relevant = true
		decision.Reason = "Ofício dirigido a instituição financeira"
		decision.Confidence = 0.95

	case singleGeneric && (secrecy == model.SecrecyBanking || (secrecy == model.SecrecyIndeterminate && bankingContentRe.MatchString(text))):
		// (c) one generic block, content implies banking secrecy
		decision.Relevant = true
		decision.Reason = "Sigilo bancário sem destinatário específico - assume instituição financeira"
		decision.Confidence = 0.85

	case secrecy == model.SecrecyMixed && len(relevantSpans) > 0:
		// (d) mixed document: keep only the financial blocks
		decision.Relevant = true
		decision.Reason = "Ofício misto - isolando apenas trechos para instituição financeira"
		decision.Confidence = 0.80

	default:
		// (e) nothing clearly addressed to us
		decision.Relevant = false
		decision.Reason = "Ofício não contém solicitação clara para instituição financeira"
		decision.Confidence = 0.70
	}

	if decision.Relevant {
		if len(relevantSpans) > 0 && decision.MultipleAddressees {
			decision.RelevantSpan = strings.Join(relevantSpans, "\n\n---\n\n")
		} else {
			decision.RelevantSpan = text
		}
	}

	return decision
}

// splitBlocks segments the document into per-addressee spans. A document with
// no explicit "oficie-se" address markers is one generic block.
func splitBlocks(text string) []addresseeBlock {
	locs := addressRe.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return []addresseeBlock{{addressee: "", text: text, generic: true}}
	}

	blocks := make([]addresseeBlock, 0, len(locs))
	for i, loc := range locs {
		start := loc[0]
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		blocks = append(blocks, addresseeBlock{
			addressee: strings.TrimSpace(text[loc[2]:loc[3]]),
			text:      text[start:end],
		})
	}
	return blocks
}

// classifyBlock tags a block's addressee by pattern family
func (f *Filter) classifyBlock(b addresseeBlock) model.MentionedInstitution {
	subject := b.addressee + " " + b.text
	inst := model.MentionedInstitution{
		Name:            b.addressee,
		Excerpt:         excerpt(b.text),
		DirectAddressee: !b.generic,
	}

	switch {
	case f.institutionRe != nil && f.institutionRe.MatchString(subject):
		inst.Type = model.InstitutionTarget
		inst.Confidence = 0.95
	case financialRe.MatchString(subject):
		inst.Type = model.InstitutionFinancial
		inst.Confidence = 0.95
	case centralBankRe.MatchString(b.addressee):
		inst.Type = model.InstitutionCentralBank
		inst.Confidence = 0.95
	case taxRe.MatchString(subject):
		inst.Type = model.InstitutionTaxAuthority
		inst.Confidence = 0.90
	case telecomRe.MatchString(subject):
		inst.Type = model.InstitutionTelecom
		inst.Confidence = 0.90
	case policeRe.MatchString(subject):
		inst.Type = model.InstitutionPolice
		inst.Confidence = 0.90
	default:
		inst.Type = model.InstitutionIndeterminate
		inst.Confidence = 0.5
	}
	return inst
}

// detectSecrecy identifies which secrecy types the order lifts
func detectSecrecy(text string) model.SecrecyType {
	var found []model.SecrecyType
	if bankingSecrecyRe.MatchString(text) {
		found = append(found, model.SecrecyBanking)
	}
	if fiscalSecrecyRe.MatchString(text) {
		found = append(found, model.SecrecyFiscal)
	}
	if telephoneSecrecyRe.MatchString(text) {
		found = append(found, model.SecrecyTelephone)
	}
	switch len(found) {
	case 0:
		return model.SecrecyIndeterminate
	case 1:
		return found[0]
	default:
		return model.SecrecyMixed
	}
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) > excerptLen {
		return string(runes[:excerptLen])
	}
	return s
}
