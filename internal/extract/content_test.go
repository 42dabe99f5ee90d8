package extract

import (
	"strings"
	"testing"

	"github.com/rmaragno/sigilo/internal/model"
)

func TestContentExtractor_OCRDelimiters(t *testing.T) {
	e := NewContentExtractor()

	text := "cabeçalho do sistema\n<<OCR>>PODER JUDICIÁRIO\nOFÍCIO 12/2024<<OCR>>\nrodapé\n<<OCR>>página dois<<OCR>>"
	cls := model.InputClassification{
		ContentType:      model.ContentOrderComplete,
		HasOCRDelimiters: true,
	}

	got := e.Extract(text, cls)

	if !strings.Contains(got, "PODER JUDICIÁRIO") || !strings.Contains(got, "página dois") {
		t.Errorf("expected both OCR spans, got %q", got)
	}
	if strings.Contains(got, "cabeçalho") || strings.Contains(got, "rodapé") {
		t.Errorf("expected noise outside OCR spans dropped, got %q", got)
	}
}

func TestContentExtractor_CompleteOrderPassthrough(t *testing.T) {
	e := NewContentExtractor()

	text := "PODER JUDICIÁRIO\nOFÍCIO 1/2024\nDETERMINO a quebra."
	cls := model.InputClassification{ContentType: model.ContentOrderComplete}

	if got := e.Extract(text, cls); got != text {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestContentExtractor_EmailChainKeepsOrderBlocks(t *testing.T) {
	e := NewContentExtractor()

	text := "De: cartorio@tj.jus.br\nAssunto: ofício anexo\n\nPrezados, segue para cumprimento.\n\nPODER JUDICIÁRIO\n2ª VARA CRIMINAL\nDETERMINO a quebra de sigilo.\n\nAtenciosamente,\nCartório"
	cls := model.InputClassification{ContentType: model.ContentEmailChain}

	got := e.Extract(text, cls)

	if !strings.Contains(got, "PODER JUDICIÁRIO") {
		t.Errorf("expected order block kept, got %q", got)
	}
	if strings.Contains(got, "Atenciosamente") || strings.Contains(got, "Prezados") {
		t.Errorf("expected email pleasantries dropped, got %q", got)
	}
}

func TestContentExtractor_NotFound(t *testing.T) {
	e := NewContentExtractor()

	cls := model.InputClassification{ContentType: model.ContentFragment}

	if got := e.Extract("CPF 123.456.789-01 sem corpo de ofício", cls); got != model.OrderNotFound {
		t.Errorf("expected %s, got %q", model.OrderNotFound, got)
	}
}

func TestStripHTML(t *testing.T) {
	in := `<html><head><style>p{color:red}</style></head><body><p>OFÍCIO 9/2024</p><script>alert(1)</script><div>VARA ÚNICA</div></body></html>`

	got := StripHTML(in)

	if !strings.Contains(got, "OFÍCIO 9/2024") || !strings.Contains(got, "VARA ÚNICA") {
		t.Errorf("expected visible text kept, got %q", got)
	}
	if strings.Contains(got, "alert") || strings.Contains(got, "color") {
		t.Errorf("expected script/style dropped, got %q", got)
	}
}

func TestMinimalLookup(t *testing.T) {
	text := `Fragmento ilegível. Processo 1234567-89.2024.8.26.0100.
Investigado: JOAO DA SILVA
CPF 123.456.789-01 e CNPJ 12.345.678/0001-90.`

	info := MinimalLookup(text)

	if len(info.ProcessNumbers) != 1 || info.ProcessNumbers[0] != "1234567-89.2024.8.26.0100" {
		t.Errorf("expected one process number, got %v", info.ProcessNumbers)
	}
	if len(info.CPFs) != 1 || info.CPFs[0] != "12345678901" {
		t.Errorf("expected normalized CPF, got %v", info.CPFs)
	}
	if len(info.CNPJs) != 1 || info.CNPJs[0] != "12345678000190" {
		t.Errorf("expected normalized CNPJ, got %v", info.CNPJs)
	}
	if !info.CanQuerySystem {
		t.Error("expected CanQuerySystem with identifiers present")
	}
}

func TestMinimalLookup_Empty(t *testing.T) {
	info := MinimalLookup("nada aqui")

	if info.CanQuerySystem {
		t.Error("expected CanQuerySystem false with no identifiers")
	}
}
