package period

import (
	"context"
	"testing"
	"time"

	"github.com/rmaragno/sigilo/internal/model"
)

func refDate() time.Time {
	return time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
}

func matchFor(fragment string) model.SubsidyMatch {
	return model.SubsidyMatch{CatalogID: "EXTRATOS", SourceText: fragment}
}

func TestResolve_ExplicitDatePair(t *testing.T) {
	r := NewResolver(1)

	text := "Forneça os extratos bancários do período de 01/01/2020 a 31/12/2022."
	got := r.Resolve(text, matchFor("extratos bancários"), refDate())

	if got.Start != "01012020" || got.End != "31122022" {
		t.Errorf("expected explicit pair, got %+v", got)
	}
}

func TestResolve_SingleDateBoundsBothSides(t *testing.T) {
	r := NewResolver(1)

	text := "Informe as movimentações do dia 15/05/2023."
	got := r.Resolve(text, matchFor("movimentações"), refDate())

	if got.Start != "15052023" || got.End != "15052023" {
		t.Errorf("expected same-day window, got %+v", got)
	}
}

func TestResolve_RelativeWithReferenceDate(t *testing.T) {
	r := NewResolver(1)

	text := "Forneça os extratos bancários dos últimos 5 anos."
	got := r.Resolve(text, matchFor("extratos bancários"), refDate())

	if got.Start != "12032019" {
		t.Errorf("expected start 5 years before reference, got %+v", got)
	}
	if got.End != "12032024" {
		t.Errorf("expected end at reference date, got %+v", got)
	}
}

func TestResolve_RelativeWithoutReferenceDate(t *testing.T) {
	r := NewResolver(1)

	text := "Forneça os extratos bancários dos últimos 6 meses."
	got := r.Resolve(text, matchFor("extratos bancários"), time.Time{})

	if got.Start != "ULTIMOS_6_MESES" {
		t.Errorf("expected relative token kept, got %+v", got)
	}
	if got.End != model.PeriodOrderDate {
		t.Errorf("expected DATA_OFICIO end sentinel, got %+v", got)
	}
}

func TestResolve_SinceInception(t *testing.T) {
	r := NewResolver(1)

	text := "Forneça os extratos bancários desde a abertura da conta."
	got := r.Resolve(text, matchFor("extratos bancários"), refDate())

	if got.Start != model.PeriodSinceInception {
		t.Errorf("expected DESDE_A_ABERTURA, got %+v", got)
	}
	if got.End != "12032024" {
		t.Errorf("expected reference date end, got %+v", got)
	}
}

func TestResolve_NothingFound(t *testing.T) {
	r := NewResolver(1)

	got := r.Resolve("Forneça os extratos bancários do investigado.", matchFor("extratos bancários"), refDate())

	if !got.Unresolved() {
		t.Errorf("expected unresolved sentinels, got %+v", got)
	}
}

func TestValidate_RejectsBadGrammar(t *testing.T) {
	cases := []struct {
		in   model.PeriodRequirement
		want model.PeriodRequirement
	}{
		{
			// Well-formed bounds pass through
			model.PeriodRequirement{Start: "01012020", End: "31122022"},
			model.PeriodRequirement{Start: "01012020", End: "31122022"},
		},
		{
			// A date that does not exist on the calendar is discarded
			model.PeriodRequirement{Start: "32132020", End: "31122022"},
			model.PeriodRequirement{Start: model.PeriodNotFound, End: "31122022"},
		},
		{
			// Relative tokens are valid starts but never valid ends
			model.PeriodRequirement{Start: "ULTIMOS_5_ANOS", End: "ULTIMOS_5_ANOS"},
			model.PeriodRequirement{Start: "ULTIMOS_5_ANOS", End: model.PeriodNotFound},
		},
		{
			model.PeriodRequirement{Start: "qualquer coisa", End: "amanhã"},
			model.PeriodRequirement{Start: model.PeriodNotFound, End: model.PeriodNotFound},
		},
	}

	for i, c := range cases {
		got := validate(c.in)
		if got.Start != c.want.Start || got.End != c.want.End {
			t.Errorf("case %d: got %+v, want %+v", i, got, c.want)
		}
	}
}

func TestResolveAll_CoversEveryPair(t *testing.T) {
	r := NewResolver(4)
	parties := []model.InvestigatedParty{
		{Name: "João da Silva", TaxID: "12345678901"},
		{Name: "Maria Souza", TaxID: "98765432100"},
	}
	matches := []model.SubsidyMatch{
		{CatalogID: "EXTRATOS", SourceText: "extratos bancários"},
		{CatalogID: "SALDOS", SourceText: "saldos das contas"},
	}
	text := "Forneça os extratos bancários e os saldos das contas de 01/01/2020 a 31/12/2022."

	periods := r.ResolveAll(context.Background(), text, parties, matches, refDate())

	if len(periods) != 4 {
		t.Fatalf("expected 4 (party x match) slots, got %d", len(periods))
	}
	seen := make(map[string]bool)
	for _, p := range periods {
		seen[p.PartyKey+"|"+p.CatalogID] = true
		if p.Start != "01012020" || p.End != "31122022" {
			t.Errorf("unexpected window for %s/%s: %+v", p.PartyKey, p.CatalogID, p.PeriodRequirement)
		}
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 distinct pairs, got %v", seen)
	}
}

func TestResolveAll_NoParties(t *testing.T) {
	r := NewResolver(2)

	matches := []model.SubsidyMatch{{CatalogID: "EXTRATOS", SourceText: "extratos"}}
	periods := r.ResolveAll(context.Background(), "extratos de 01/01/2020 a 31/12/2020", nil, matches, time.Time{})

	if len(periods) != 1 {
		t.Fatalf("expected 1 global slot, got %d", len(periods))
	}
	if periods[0].PartyKey != "" {
		t.Errorf("expected empty party key for global scope, got %q", periods[0].PartyKey)
	}
}

func TestResolveAll_Empty(t *testing.T) {
	r := NewResolver(2)

	if periods := r.ResolveAll(context.Background(), "texto", nil, nil, time.Time{}); periods != nil {
		t.Errorf("expected nil for no work, got %+v", periods)
	}
}
