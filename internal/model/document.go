package model

// ContentType describes the structural shape of the raw input
type ContentType string

const (
	ContentOrderComplete ContentType = "oficio_completo" // Standalone court order
	ContentEmailChain    ContentType = "email_chain"     // Order embedded in an email thread
	ContentFragment      ContentType = "fragmento"       // Partial text, no order body
	ContentIndeterminate ContentType = "indeterminado"   // No structural markers found
)

// OrderClass describes what kind of order arrived
type OrderClass string

const (
	OrderFirstRequest  OrderClass = "primeiro_oficio" // First request for this process
	OrderReiteration   OrderClass = "reiteracao"      // Repeats a prior, unfulfilled request
	OrderSupplement    OrderClass = "complemento"     // Adds requests to a prior order
	OrderIndeterminate OrderClass = "indeterminado"
)

// InputClassification is the structural classifier's verdict on the raw text
type InputClassification struct {
	ContentType         ContentType `json:"content_type"`
	OrderClass          OrderClass  `json:"order_class"`
	HasOrderMarkers     bool        `json:"has_order_markers"`     // PODER JUDICIÁRIO, OFÍCIO, VARA...
	HasOCRDelimiters    bool        `json:"has_ocr_delimiters"`    // <<OCR>> wrapped content
	HasProcessNumber    bool        `json:"has_process_number"`    // CNJ-style process number
	HasPartyIdentifiers bool        `json:"has_party_identifiers"` // CPF or CNPJ present
	Confidence          float64     `json:"confidence"`            // marker families matched / checked
	MatchedMarkers      []string    `json:"matched_markers"`       // Which marker families fired
}

// OrderNotFound is returned by the content extractor when no order body
// could be isolated. The orchestrator falls back to the whole raw text.
const OrderNotFound = "[OFICIO_NAO_ENCONTRADO]"

// LookupData carries the minimal identifiers extracted from an incomplete
// document so an external system lookup can recover the full order.
type LookupData struct {
	ProcessNumbers []string `json:"process_numbers"`
	CPFs           []string `json:"cpfs"`
	CNPJs          []string `json:"cnpjs"`
	Names          []string `json:"names"`
	CanQuerySystem bool     `json:"can_query_system"`
}
