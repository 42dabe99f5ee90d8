// Package classify determines what kind of input arrived: a complete court
// order, an email thread wrapping one, a bare fragment, a reiteration or a
// supplement. Classification is deterministic regex scanning; the absence of
// every marker yields an indeterminate result, never an error.
package classify

import (
	"regexp"

	"github.com/rmaragno/sigilo/internal/model"
)

var (
	emailHeaderRe  = regexp.MustCompile(`(?i)(From:|Para:|Subject:|Assunto:|De:|Date:|Data:)`)
	orderMarkerRe  = regexp.MustCompile(`(?i)(PODER JUDICI[ÁA]RIO|OF[ÍI]CIO|MANDADO|VARA|COMARCA|JUIZ)`)
	processRe      = regexp.MustCompile(`\d{7}-\d{2}\.\d{4}\.\d\.\d{2}\.\d{4}`)
	cpfRe          = regexp.MustCompile(`\d{3}\.?\d{3}\.?\d{3}-?\d{2}`)
	cnpjRe         = regexp.MustCompile(`\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}`)
	reiterationRe  = regexp.MustCompile(`(?i)(REITERA|PRAZO VENCIDO|N[ÃA]O ATENDIDO)`)
	supplementRe   = regexp.MustCompile(`(?i)(COMPLEMENTAR|COMPLEMENTO|EM ADITAMENTO|ADITAMENTO AO OF)`)
	ocrDelimiterRe = regexp.MustCompile(`<<OCR>>`)
)

// Classifier scans raw text for disjoint marker families
type Classifier struct{}

// New creates a classifier
func New() *Classifier {
	return &Classifier{}
}

// Classify analyzes the structure of the raw input text
func (c *Classifier) Classify(text string) model.InputClassification {
	cls := model.InputClassification{
		ContentType: model.ContentIndeterminate,
		OrderClass:  model.OrderIndeterminate,
	}

	if emailHeaderRe.MatchString(text) {
		cls.ContentType = model.ContentEmailChain
		cls.MatchedMarkers = append(cls.MatchedMarkers, "email_headers")
	}

	if orderMarkerRe.MatchString(text) {
		cls.HasOrderMarkers = true
		if cls.ContentType != model.ContentEmailChain {
			cls.ContentType = model.ContentOrderComplete
		}
		cls.MatchedMarkers = append(cls.MatchedMarkers, "order_markers")
	}

	if ocrDelimiterRe.MatchString(text) {
		cls.HasOCRDelimiters = true
		cls.MatchedMarkers = append(cls.MatchedMarkers, "ocr_delimiters")
	}

	if processRe.MatchString(text) {
		cls.HasProcessNumber = true
		cls.MatchedMarkers = append(cls.MatchedMarkers, "process_number")
	}

	if cpfRe.MatchString(text) || cnpjRe.MatchString(text) {
		cls.HasPartyIdentifiers = true
		cls.MatchedMarkers = append(cls.MatchedMarkers, "party_identifiers")
	}

	// A bare fragment: identifiers but no order body and no email framing
	if cls.ContentType == model.ContentIndeterminate && cls.HasPartyIdentifiers {
		cls.ContentType = model.ContentFragment
	}

	reiteration := reiterationRe.MatchString(text)
	supplement := supplementRe.MatchString(text)

	// Order-class precedence: reiteration > supplement > first request
	switch {
	case reiteration:
		cls.OrderClass = model.OrderReiteration
		cls.MatchedMarkers = append(cls.MatchedMarkers, "reiteration")
	case supplement:
		cls.OrderClass = model.OrderSupplement
		cls.MatchedMarkers = append(cls.MatchedMarkers, "supplement")
	case cls.HasOrderMarkers:
		cls.OrderClass = model.OrderFirstRequest
	}

	// Confidence: marker families matched over families checked. OCR
	// delimiters hint at content shape but carry no signal of their own,
	// so they stay out of the count.
	families := [...]bool{
		cls.ContentType == model.ContentEmailChain,
		cls.HasOrderMarkers,
		cls.HasProcessNumber,
		cls.HasPartyIdentifiers,
		reiteration,
		supplement,
	}
	found := 0
	for _, hit := range families {
		if hit {
			found++
		}
	}
	cls.Confidence = float64(found) / float64(len(families))

	return cls
}
