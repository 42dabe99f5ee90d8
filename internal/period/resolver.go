// Package period resolves the disclosure window for each (party, match)
// pair. Resolution is a pure function over immutable inputs, so the
// per-document fan-out runs in parallel with each task writing only to
// its own output slot.
package period

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rmaragno/sigilo/internal/extract"
	"github.com/rmaragno/sigilo/internal/model"
)

const ddmmyyyy = "02012006"

var (
	absoluteBoundRe = regexp.MustCompile(`^\d{8}$`)
	relativeBoundRe = regexp.MustCompile(`^ULTIMOS_(\d+)_(ANOS|MESES|DIAS)$`)

	sinceInceptionRe = regexp.MustCompile(`(?i)desde\s+a\s+abertura(?:\s+da\s+conta)?`)
)

type Resolver struct {
	dates   *extract.DateExtractor
	workers int
}

func NewResolver(workers int) *Resolver {
	if workers < 1 {
		workers = 1
	}
	return &Resolver{dates: extract.NewDateExtractor(), workers: workers}
}

// Resolve finds the disclosure window for one match. It looks at the text
// surrounding the match's request fragment first and falls back to the
// whole document. refDate is the order's own date; zero means unknown.
func (r *Resolver) Resolve(text string, match model.SubsidyMatch, refDate time.Time) model.PeriodRequirement {
	scope := contextAround(text, match.SourceText, 300)

	req := r.resolveIn(scope, refDate)
	if req.Unresolved() && scope != text {
		req = r.resolveIn(text, refDate)
	}
	return validate(req)
}

func (r *Resolver) resolveIn(scope string, refDate time.Time) model.PeriodRequirement {
	if m := sinceInceptionRe.FindString(scope); m != "" {
		end := model.PeriodOrderDate
		if !refDate.IsZero() {
			end = refDate.Format(ddmmyyyy)
		}
		return model.PeriodRequirement{
			Start:      model.PeriodSinceInception,
			End:        end,
			SourceText: m,
		}
	}

	exprs := r.dates.Extract(scope)

	for _, e := range exprs {
		if e.Kind != extract.DateRelative {
			continue
		}
		if refDate.IsZero() {
			return model.PeriodRequirement{
				Start:      e.Normalized,
				End:        model.PeriodOrderDate,
				SourceText: e.Original,
			}
		}
		start, ok := subtractRelative(refDate, e.Normalized)
		if !ok {
			continue
		}
		return model.PeriodRequirement{
			Start:      start.Format(ddmmyyyy),
			End:        refDate.Format(ddmmyyyy),
			SourceText: e.Original,
		}
	}

	var concrete []time.Time
	var spans []string
	for _, e := range exprs {
		if e.Kind == extract.DateRelative {
			continue
		}
		t, err := time.Parse("2006-01-02", e.Normalized)
		if err != nil {
			continue
		}
		concrete = append(concrete, t)
		spans = append(spans, e.Original)
	}
	switch len(concrete) {
	case 0:
		return model.PeriodRequirement{Start: model.PeriodNotFound, End: model.PeriodNotFound}
	case 1:
		// A single stated day bounds the window on both sides
		d := concrete[0].Format(ddmmyyyy)
		return model.PeriodRequirement{Start: d, End: d, SourceText: spans[0]}
	default:
		lo, hi := concrete[0], concrete[0]
		for _, t := range concrete[1:] {
			if t.Before(lo) {
				lo = t
			}
			if t.After(hi) {
				hi = t
			}
		}
		return model.PeriodRequirement{
			Start:      lo.Format(ddmmyyyy),
			End:        hi.Format(ddmmyyyy),
			SourceText: strings.Join(spans, "; "),
		}
	}
}

// subtractRelative applies a ULTIMOS_N_UNIT token to a reference date
func subtractRelative(ref time.Time, token string) (time.Time, bool) {
	m := relativeBoundRe.FindStringSubmatch(token)
	if m == nil {
		return time.Time{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return time.Time{}, false
	}
	switch m[2] {
	case "ANOS":
		return ref.AddDate(-n, 0, 0), true
	case "MESES":
		return ref.AddDate(0, -n, 0), true
	default:
		return ref.AddDate(0, 0, -n), true
	}
}

// validate enforces the bound grammar: a DDMMYYYY date that actually
// parses, a relative token (start only), or a defined sentinel. Anything
// else is discarded and replaced by the unresolved sentinel.
func validate(req model.PeriodRequirement) model.PeriodRequirement {
	if !validStart(req.Start) {
		req.Start = model.PeriodNotFound
	}
	if !validEnd(req.End) {
		req.End = model.PeriodNotFound
	}
	if req.Unresolved() {
		req.SourceText = ""
	}
	return req
}

func validStart(s string) bool {
	if s == model.PeriodNotFound || s == model.PeriodSinceInception {
		return true
	}
	if relativeBoundRe.MatchString(s) {
		return true
	}
	return validDate(s)
}

func validEnd(s string) bool {
	if s == model.PeriodNotFound || s == model.PeriodOrderDate {
		return true
	}
	return validDate(s)
}

func validDate(s string) bool {
	if !absoluteBoundRe.MatchString(s) {
		return false
	}
	_, err := time.Parse(ddmmyyyy, s)
	return err == nil
}

// contextAround returns a rune-safe window of pad bytes around the first
// occurrence of fragment, or the whole text when the fragment is absent.
func contextAround(text, fragment string, pad int) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return text
	}
	idx := strings.Index(strings.ToLower(text), strings.ToLower(fragment))
	if idx < 0 {
		return text
	}
	lo := idx - pad
	for lo > 0 && text[lo]&0xC0 == 0x80 {
		lo--
	}
	if lo < 0 {
		lo = 0
	}
	hi := idx + len(fragment) + pad
	if hi > len(text) {
		hi = len(text)
	}
	for hi < len(text) && text[hi]&0xC0 == 0x80 {
		hi++
	}
	return text[lo:hi]
}

// ResolveAll fans the resolution out over every (party, match) pair under
// bounded parallelism. Results land in pre-allocated slots, so output
// order is deterministic regardless of scheduling.
func (r *Resolver) ResolveAll(ctx context.Context, text string, parties []model.InvestigatedParty, matches []model.SubsidyMatch, refDate time.Time) []model.ResolvedPeriod {
	type task struct {
		slot      int
		partyKey  string
		catalogID string
		match     model.SubsidyMatch
	}

	var tasks []task
	if len(parties) == 0 {
		// No identified party: resolve once per match under a global key
		for _, m := range matches {
			tasks = append(tasks, task{slot: len(tasks), partyKey: "", catalogID: m.CatalogID, match: m})
		}
	} else {
		for _, p := range parties {
			for _, m := range matches {
				tasks = append(tasks, task{slot: len(tasks), partyKey: p.Key(), catalogID: m.CatalogID, match: m})
			}
		}
	}
	if len(tasks) == 0 {
		return nil
	}

	out := make([]model.ResolvedPeriod, len(tasks))
	jobs := make(chan task)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				out[t.slot] = model.ResolvedPeriod{
					PartyKey:          t.partyKey,
					CatalogID:         t.catalogID,
					PeriodRequirement: r.Resolve(text, t.match, refDate),
				}
			}
		}()
	}

	canceled := false
	for _, t := range tasks {
		select {
		case jobs <- t:
		case <-ctx.Done():
			canceled = true
		}
		if canceled {
			break
		}
	}
	close(jobs)
	wg.Wait()

	if canceled {
		// Tasks never dispatched keep the unresolved sentinel
		for i := range out {
			if out[i].CatalogID == "" {
				out[i] = model.ResolvedPeriod{
					PartyKey:          tasks[i].partyKey,
					CatalogID:         tasks[i].catalogID,
					PeriodRequirement: model.PeriodRequirement{Start: model.PeriodNotFound, End: model.PeriodNotFound},
				}
			}
		}
	}
	return out
}

// Describe renders a resolved window for summaries and logs
func Describe(p model.ResolvedPeriod) string {
	key := p.PartyKey
	if key == "" {
		key = "geral"
	}
	return fmt.Sprintf("%s / %s: %s a %s", key, p.CatalogID, p.Start, p.End)
}
