package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rmaragno/sigilo/internal/catalog"
	"github.com/rmaragno/sigilo/internal/model"
	"github.com/rmaragno/sigilo/internal/semantic"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Entry{
		{
			ID:          "EXTRATOS",
			Name:        "Extratos bancários",
			Description: "Extratos de conta corrente e poupança do período solicitado",
			Examples:    []string{"extratos bancários", "extrato de conta corrente"},
		},
		{
			ID:          "SALDOS",
			Name:        "Saldos",
			Description: "Saldos atuais e históricos das contas",
			Examples:    []string{"saldo atual", "saldos das contas"},
		},
		{
			ID:          "CADASTRO",
			Name:        "Dados cadastrais",
			Description: "Ficha cadastral completa do cliente",
			Examples:    []string{"dados cadastrais", "ficha cadastral"},
		},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return cat
}

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Institution.Name = "Banco Sigilo"
	cfg.Matching.AcceptThreshold = 0.35
	cfg.Matching.RecallThreshold = 0.25
	cfg.Cache.TTL = time.Hour
	cfg.Concurrency.PeriodWorkers = 2
	cfg.Validator.RatePerSec = 100
	cfg.Validator.Burst = 10
	return cfg
}

const completeOrder = `PODER JUDICIÁRIO
2ª VARA CRIMINAL DA COMARCA DE SÃO PAULO
Processo nº 1234567-89.2024.8.26.0001

OFICIE-SE ao Banco Sigilo S.A. para quebra de sigilo bancário.

Investigado: João da Silva, CPF 123.456.789-01

DETERMINO que forneça os extratos bancários de conta corrente e os saldos das contas do período de 01/01/2020 a 31/12/2022.

O descumprimento da presente determinação judicial sujeitará o responsável legal da instituição às sanções previstas na legislação vigente, sem prejuízo da apuração de eventual crime de desobediência. A resposta deverá ser dirigida a este juízo com referência expressa ao número do processo em epígrafe, observado o sigilo que o caso requer, vedada a comunicação do teor desta ordem às partes investigadas.

São Paulo, 12 de março de 2024.`

func TestProcessDocument_CompleteOrder(t *testing.T) {
	o := NewOrchestrator(testConfig(), testCatalog(t), nil)

	res := o.ProcessDocument(context.Background(), "oficio-001", completeOrder)

	if res.State != model.StateRouted {
		t.Fatalf("expected ROUTED, got %s (error: %s)", res.State, res.Error)
	}
	if !res.ShouldProcess {
		t.Error("a routed run should be marked for processing")
	}
	if res.SessionID == "" {
		t.Error("expected a session id")
	}
	if res.RoutingStatus == "" || res.RoutingStatus == model.RoutingError {
		t.Errorf("unexpected routing status %q", res.RoutingStatus)
	}

	if len(res.Parties) == 0 {
		t.Fatal("expected at least one extracted party")
	}
	if res.Parties[0].TaxID != "12345678901" {
		t.Errorf("unexpected party: %+v", res.Parties[0])
	}

	var ids []string
	for _, m := range res.Matches {
		ids = append(ids, m.CatalogID)
	}
	if len(ids) == 0 {
		t.Fatal("expected catalog matches")
	}
	found := false
	for _, id := range ids {
		if id == "EXTRATOS" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected EXTRATOS among matches, got %v", ids)
	}

	if len(res.Periods) != len(res.Parties)*len(res.Matches) {
		t.Errorf("expected %d period slots, got %d", len(res.Parties)*len(res.Matches), len(res.Periods))
	}
	for _, p := range res.Periods {
		if p.Start != "01012020" || p.End != "31122022" {
			t.Errorf("unexpected window for %s/%s: %+v", p.PartyKey, p.CatalogID, p.PeriodRequirement)
		}
	}
	for _, m := range res.Matches {
		if m.Period == nil {
			t.Fatalf("match %s missing its resolved window", m.CatalogID)
		}
		if m.Period.Start != "01012020" || m.Period.End != "31122022" {
			t.Errorf("unexpected window bound to match %s: %+v", m.CatalogID, *m.Period)
		}
	}

	if res.OverallConfidence <= 0 || res.OverallConfidence > 1 {
		t.Errorf("confidence out of range: %v", res.OverallConfidence)
	}
}

func TestProcessDocument_ReiterationHeld(t *testing.T) {
	o := NewOrchestrator(testConfig(), testCatalog(t), nil)

	text := "REITERA-SE o ofício nº 100/2024, com prazo vencido e não atendido até a presente data."
	res := o.ProcessDocument(context.Background(), "oficio-002", text)

	if res.State != model.StateReiterationHeld {
		t.Fatalf("expected REITERATION_HELD, got %s", res.State)
	}
	if res.RoutingStatus != model.RoutingReiterationHeld {
		t.Errorf("unexpected routing status %q", res.RoutingStatus)
	}
	if res.ShouldProcess {
		t.Error("a held reiteration must not be processed")
	}
	if len(res.Matches) != 0 {
		t.Error("no extraction should run for a held reiteration")
	}
}

func TestProcessDocument_NotRelevant(t *testing.T) {
	o := NewOrchestrator(testConfig(), testCatalog(t), nil)

	text := "OFICIE-SE à Receita Federal para quebra de sigilo fiscal do contribuinte."
	res := o.ProcessDocument(context.Background(), "oficio-003", text)

	if res.State != model.StateNotRelevant {
		t.Fatalf("expected NOT_RELEVANT, got %s", res.State)
	}
	if res.RoutingStatus != model.RoutingNotRelevant {
		t.Errorf("unexpected routing status %q", res.RoutingStatus)
	}
	if !hasAlertPrefix(res.Alerts, "Ofício não direcionado à instituição") {
		t.Errorf("expected a rejection alert, got %v", res.Alerts)
	}
}

func TestProcessDocument_InsufficientInfo(t *testing.T) {
	o := NewOrchestrator(testConfig(), testCatalog(t), nil)

	text := "Solicito os extratos bancários e os saldos das contas do investigado."
	res := o.ProcessDocument(context.Background(), "oficio-004", text)

	if res.State != model.StateInsufficientInfo {
		t.Fatalf("expected INSUFFICIENT_INFO, got %s", res.State)
	}
	if res.RoutingStatus != model.RoutingInsufficientInfo {
		t.Errorf("unexpected routing status %q", res.RoutingStatus)
	}
	if res.Lookup == nil {
		t.Fatal("expected lookup data on the result")
	}
	if res.Lookup.CanQuerySystem {
		t.Error("a document with no identifiers cannot drive a lookup")
	}
}

func TestProcessDocument_TwoPartiesRelativeWindow(t *testing.T) {
	o := NewOrchestrator(testConfig(), testCatalog(t), nil)

	text := `PODER JUDICIÁRIO
1ª VARA CRIMINAL DA COMARCA DE CAMPINAS
Processo nº 7654321-10.2024.8.26.0114

OFICIE-SE ao Banco Sigilo S.A. para quebra de sigilo bancário.

Investigados:
1. João da Silva, CPF 123.456.789-01
2. Maria de Souza, CPF 987.654.321-00

DETERMINO que forneça os extratos de conta corrente dos últimos 2 anos.

Campinas, 10 de junho de 2024.`

	res := o.ProcessDocument(context.Background(), "oficio-010", text)

	if res.State != model.StateRouted {
		t.Fatalf("expected ROUTED, got %s (error: %s)", res.State, res.Error)
	}
	if len(res.Parties) != 2 {
		t.Fatalf("expected 2 parties, got %d: %+v", len(res.Parties), res.Parties)
	}
	seen := make(map[string]bool)
	for _, p := range res.Parties {
		seen[p.TaxID] = true
	}
	if !seen["12345678901"] || !seen["98765432100"] {
		t.Errorf("unexpected party tax ids: %+v", res.Parties)
	}

	if len(res.Matches) == 0 {
		t.Fatal("expected catalog matches")
	}
	if want := 2 * len(res.Matches); len(res.Periods) != want {
		t.Fatalf("expected %d period slots, got %d", want, len(res.Periods))
	}
	// "últimos 2 anos" counted back from the order's signature date
	for _, p := range res.Periods {
		if p.Start != "10062022" || p.End != "10062024" {
			t.Errorf("unexpected window for %s/%s: %+v", p.PartyKey, p.CatalogID, p.PeriodRequirement)
		}
	}
	for _, m := range res.Matches {
		if m.Period == nil {
			t.Fatalf("match %s missing its resolved window", m.CatalogID)
		}
		if m.Period.Start != "10062022" || m.Period.End != "10062024" {
			t.Errorf("unexpected window bound to match %s: %+v", m.CatalogID, *m.Period)
		}
	}
}

func TestProcessDocument_FragmentWithIdentifierContinues(t *testing.T) {
	o := NewOrchestrator(testConfig(), testCatalog(t), nil)

	text := "Solicito os extratos bancários de João da Silva, CPF 123.456.789-01, dos últimos 6 meses."
	res := o.ProcessDocument(context.Background(), "oficio-005", text)

	if res.State != model.StateRouted {
		t.Fatalf("expected ROUTED, got %s (error: %s)", res.State, res.Error)
	}
	if res.Lookup == nil {
		t.Error("expected the minimal lookup identifiers to be attached")
	}
	if !hasAlertPrefix(res.Alerts, "Corpo do ofício não isolado") {
		t.Errorf("expected a raw-text fallback alert, got %v", res.Alerts)
	}
}

type stubValidator struct {
	calls atomic.Int64
	err   error
}

func (v *stubValidator) Name() string { return "stub" }

func (v *stubValidator) Validate(ctx context.Context, req semantic.Request) (*semantic.Response, error) {
	v.calls.Add(1)
	if v.err != nil {
		return nil, v.err
	}
	resp := &semantic.Response{AllCaptured: true, Confidence: 0.9}
	for _, m := range req.LexicalMatches {
		resp.Verdicts = append(resp.Verdicts, semantic.Verdict{
			CatalogID:    m.CatalogID,
			Accepted:     true,
			Confidence:   0.9,
			EvidenceText: m.TextSpan,
		})
	}
	return resp, nil
}

func TestProcessDocument_SemanticValidationAttached(t *testing.T) {
	o := NewOrchestrator(testConfig(), testCatalog(t), nil)
	stub := &stubValidator{}
	o.validator = stub

	res := o.ProcessDocument(context.Background(), "oficio-006", completeOrder)

	if res.State != model.StateRouted {
		t.Fatalf("expected ROUTED, got %s (error: %s)", res.State, res.Error)
	}
	if stub.calls.Load() != 1 {
		t.Fatalf("expected 1 validator call, got %d", stub.calls.Load())
	}
	for _, m := range res.Matches {
		if !m.SemanticValidated {
			t.Errorf("match %s should carry the semantic verdict", m.CatalogID)
		}
		if m.SemanticConfidence == nil {
			t.Errorf("match %s missing semantic confidence", m.CatalogID)
		}
	}
}

func TestProcessDocument_ValidatorResponseCached(t *testing.T) {
	o := NewOrchestrator(testConfig(), testCatalog(t), nil)
	stub := &stubValidator{}
	o.validator = stub

	o.ProcessDocument(context.Background(), "oficio-007", completeOrder)
	o.ProcessDocument(context.Background(), "oficio-007", completeOrder)

	if stub.calls.Load() != 1 {
		t.Errorf("second identical document should hit the cache, got %d calls", stub.calls.Load())
	}
}

func TestProcessDocument_ValidatorFailureFallsBackToLexical(t *testing.T) {
	o := NewOrchestrator(testConfig(), testCatalog(t), nil)
	o.validator = &stubValidator{err: errors.New("provider timeout")}

	res := o.ProcessDocument(context.Background(), "oficio-008", completeOrder)

	if res.State != model.StateRouted {
		t.Fatalf("expected ROUTED, got %s (error: %s)", res.State, res.Error)
	}
	if !hasAlertPrefix(res.Alerts, "Validação semântica indisponível") {
		t.Errorf("expected degraded-mode alert, got %v", res.Alerts)
	}
	if len(res.Matches) == 0 {
		t.Error("lexical matches should survive a validator failure")
	}
	for _, m := range res.Matches {
		if m.SemanticValidated {
			t.Errorf("match %s must not claim semantic validation", m.CatalogID)
		}
	}

	// The degraded run scores strictly below the same document validated
	validated := NewOrchestrator(testConfig(), testCatalog(t), nil)
	validated.validator = &stubValidator{}
	okRes := validated.ProcessDocument(context.Background(), "oficio-008", completeOrder)
	if okRes.State != model.StateRouted {
		t.Fatalf("expected ROUTED, got %s (error: %s)", okRes.State, okRes.Error)
	}
	if res.OverallConfidence >= okRes.OverallConfidence {
		t.Errorf("degraded confidence %v should be below validated confidence %v",
			res.OverallConfidence, okRes.OverallConfidence)
	}
}

func TestProcessDocument_PanicBecomesErrorState(t *testing.T) {
	o := NewOrchestrator(testConfig(), testCatalog(t), nil)
	o.filter = nil // forces a nil dereference inside the run

	res := o.ProcessDocument(context.Background(), "oficio-009", completeOrder)

	if res.State != model.StateError {
		t.Fatalf("expected ERROR, got %s", res.State)
	}
	if res.RoutingStatus != model.RoutingError {
		t.Errorf("unexpected routing status %q", res.RoutingStatus)
	}
	if res.ShouldProcess {
		t.Error("a failed run must not be processed")
	}
	if !strings.Contains(res.Error, "falha interna inesperada") {
		t.Errorf("unexpected error message: %q", res.Error)
	}
}

func hasAlertPrefix(alerts []string, prefix string) bool {
	for _, a := range alerts {
		if strings.HasPrefix(a, prefix) {
			return true
		}
	}
	return false
}
