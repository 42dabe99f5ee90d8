// Package pipeline orchestrates the full processing of one disclosure
// order: classification, relevance filtering, content isolation, entity
// extraction, catalog matching with optional semantic validation, period
// resolution and the final routing decision. Every run produces a
// structured result; no failure escapes to the caller.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rmaragno/sigilo/internal/cache"
	"github.com/rmaragno/sigilo/internal/catalog"
	"github.com/rmaragno/sigilo/internal/classify"
	"github.com/rmaragno/sigilo/internal/consolidate"
	"github.com/rmaragno/sigilo/internal/extract"
	"github.com/rmaragno/sigilo/internal/match"
	"github.com/rmaragno/sigilo/internal/model"
	"github.com/rmaragno/sigilo/internal/period"
	"github.com/rmaragno/sigilo/internal/relevance"
	"github.com/rmaragno/sigilo/internal/semantic"
	"github.com/rmaragno/sigilo/internal/worker"
)

// Orchestrator wires the processing stages together. It is safe for
// concurrent use: stages hold no per-document state and the catalog is
// read-only after construction.
type Orchestrator struct {
	cfg *model.Config
	cat *catalog.Catalog
	log *zap.Logger

	classifier   *classify.Classifier
	filter       *relevance.Filter
	content      *extract.ContentExtractor
	parties      *extract.PartyExtractor
	matcher      *match.Matcher
	consolidator *consolidate.Consolidator
	resolver     *period.Resolver

	validator semantic.Validator // nil means lexical-only mode
	respCache cache.Cache        // nil means caching disabled
	limiter   *worker.Limiter
}

// NewOrchestrator builds an orchestrator from configuration. A validator
// that fails to initialize degrades the run to lexical-only mode instead
// of failing construction.
func NewOrchestrator(cfg *model.Config, cat *catalog.Catalog, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}

	var validator semantic.Validator
	if cfg.Validator.Provider != "" {
		v, err := semantic.NewValidator(cfg.Validator)
		if err != nil {
			log.Warn("semantic validator unavailable, running lexical-only", zap.Error(err))
		} else {
			validator = v
		}
	}

	var respCache cache.Cache
	if cfg.Cache.Enabled {
		memory := cache.NewMemoryCache(cfg.Cache.TTL)
		if cfg.Cache.Dir != "" {
			if disk, err := cache.NewDiskCache(cfg.Cache.Dir); err == nil {
				respCache = cache.NewLayeredCache(memory, disk, cfg.Cache.TTL)
			} else {
				log.Warn("disk cache unavailable, using memory only", zap.Error(err))
				respCache = memory
			}
		} else {
			respCache = memory
		}
	}

	return &Orchestrator{
		cfg:          cfg,
		cat:          cat,
		log:          log,
		classifier:   classify.New(),
		filter:       relevance.New(cfg.Institution.Name),
		content:      extract.NewContentExtractor(),
		parties:      extract.NewPartyExtractor(),
		matcher:      match.New(cat, cfg.Matching.NGramMin, cfg.Matching.NGramMax),
		consolidator: consolidate.New(cat),
		resolver:     period.NewResolver(cfg.Concurrency.PeriodWorkers),
		validator:    validator,
		respCache:    respCache,
		limiter:      worker.NewLimiter(cfg.Validator.RatePerSec, cfg.Validator.Burst),
	}
}

// ProcessDocument runs the state machine over one raw document. The id is
// the caller's handle for the document (file name, queue id); it appears
// only in logs, the result carries its own session id.
func (o *Orchestrator) ProcessDocument(ctx context.Context, id, text string) (res *model.WarrantProcessingResult) {
	res = &model.WarrantProcessingResult{
		SessionID: uuid.New().String(),
		State:     model.StateInit,
		Alerts:    []string{},
	}
	log := o.log.With(zap.String("document", id), zap.String("session", res.SessionID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("unexpected failure", zap.Any("panic", r))
			res.State = model.StateError
			res.RoutingStatus = model.RoutingError
			res.ShouldProcess = false
			res.Error = fmt.Sprintf("falha interna inesperada: %v", r)
		}
	}()

	// Classification
	cls := o.classifier.Classify(text)
	res.Classification = cls
	res.OrderClass = cls.OrderClass
	res.State = model.StateClassified
	log.Debug("classified",
		zap.String("content_type", string(cls.ContentType)),
		zap.String("order_class", string(cls.OrderClass)),
		zap.Float64("confidence", cls.Confidence))

	if cls.OrderClass == model.OrderReiteration {
		res.State = model.StateReiterationHeld
		res.RoutingStatus = model.RoutingReiterationHeld
		res.OverallConfidence = cls.Confidence
		res.Alerts = append(res.Alerts, "Reiteração detectada; encaminhada para fila prioritária de pendências")
		return res
	}

	// Relevance
	dec := o.filter.Decide(text)
	res.Relevance = &dec
	res.State = model.StateFiltered
	if !dec.Relevant {
		res.State = model.StateNotRelevant
		res.RoutingStatus = model.RoutingNotRelevant
		res.OverallConfidence = dec.Confidence
		res.Alerts = append(res.Alerts, "Ofício não direcionado à instituição: "+dec.Reason)
		return res
	}
	if dec.MultipleAddressees {
		res.Alerts = append(res.Alerts, "Ofício com múltiplos destinatários; apenas os blocos direcionados à instituição foram considerados")
	}

	// Content isolation
	scope := text
	if dec.RelevantSpan != "" {
		scope = dec.RelevantSpan
	}
	content := o.content.Extract(scope, cls)
	if content == model.OrderNotFound {
		lookup := extract.MinimalLookup(text)
		if !lookup.CanQuerySystem {
			res.Lookup = &lookup
			res.State = model.StateInsufficientInfo
			res.RoutingStatus = model.RoutingInsufficientInfo
			res.Alerts = append(res.Alerts, "Conteúdo do ofício não localizado e sem dados mínimos para consulta externa")
			return res
		}
		res.Lookup = &lookup
		res.Alerts = append(res.Alerts, "Corpo do ofício não isolado; análise executada sobre o texto bruto completo")
		content = scope
	}
	res.State = model.StateContentExtracted

	// Entity extraction
	pe := o.parties.Extract(content)
	res.Parties = pe.Parties
	if pe.MoreLikely {
		res.Alerts = append(res.Alerts, "Indícios de envolvidos adicionais não extraídos; conferir lista de investigados")
	}
	res.State = model.StateEntitiesExtracted

	// Lexical matching
	threshold := o.cfg.Matching.AcceptThreshold
	if o.validator != nil {
		threshold = o.cfg.Matching.RecallThreshold
	}
	var lexical []model.SubsidyMatch
	var unmatched []string
	for _, fragment := range match.Segment(content, o.cfg.Matching.MinFragmentLen) {
		best, ok := o.matcher.Best(fragment, threshold)
		if !ok {
			unmatched = append(unmatched, fragment)
			continue
		}
		lexical = append(lexical, model.SubsidyMatch{
			CatalogID:   best.CatalogID,
			CatalogName: best.Name,
			SourceText:  fragment,
			Score:       best.Score,
		})
	}
	log.Debug("lexical pass done",
		zap.Int("candidates", len(lexical)),
		zap.Int("unmatched", len(unmatched)))

	// Semantic validation
	validatorFailed := false
	var resp *semantic.Response
	if o.validator != nil && len(lexical)+len(unmatched) > 0 {
		var err error
		resp, err = o.validate(ctx, content, lexical, unmatched)
		if err != nil {
			validatorFailed = true
			log.Warn("semantic validation failed", zap.Error(err))
			res.Alerts = append(res.Alerts, "Validação semântica indisponível; resultado baseado apenas na análise lexical")
		}
	}

	matches, alerts := o.consolidator.Merge(lexical, resp)
	res.Alerts = append(res.Alerts, alerts...)
	res.Alerts = append(res.Alerts, consolidate.AnnotateCirculars(content, matches)...)
	res.Alerts = append(res.Alerts, consolidate.AnnotateFromTo(content, matches)...)
	res.Matches = matches
	res.State = model.StateMatched

	// Period resolution
	refDate, _ := extract.OrderDate(text)
	res.Periods = o.resolver.ResolveAll(ctx, content, res.Parties, matches, refDate)
	// Resolution reads the match fragment, not the party, so the first
	// block of slots carries each match's window
	for i := range matches {
		if i < len(res.Periods) {
			pr := res.Periods[i].PeriodRequirement
			matches[i].Period = &pr
		}
	}
	res.State = model.StatePeriodsResolved

	// Confidence and routing
	conf := aggregateConfidence(cls.Confidence, res.Parties, matches)
	if cls.OrderClass == model.OrderSupplement {
		conf *= 0.9
	}
	if validatorFailed {
		conf *= 0.9
	}
	res.OverallConfidence = clamp01(conf)
	res.RoutingStatus = route(res.OverallConfidence, o.cfg.Routing)
	res.ShouldProcess = true
	res.State = model.StateRouted
	log.Info("routed",
		zap.Float64("confidence", res.OverallConfidence),
		zap.String("routing", string(res.RoutingStatus)),
		zap.Int("parties", len(res.Parties)),
		zap.Int("matches", len(res.Matches)))
	return res
}

// validate performs one semantic-validation call, going through the
// response cache and the per-provider rate limiter. A malformed response
// is an error: the caller falls back to lexical-only mode.
func (o *Orchestrator) validate(ctx context.Context, content string, lexical []model.SubsidyMatch, unmatched []string) (*semantic.Response, error) {
	req := semantic.Request{
		DocumentText:       content,
		UnmatchedFragments: unmatched,
		CatalogSubset:      o.catalogSubset(),
	}
	ids := make([]string, 0, len(lexical))
	for _, m := range lexical {
		req.LexicalMatches = append(req.LexicalMatches, semantic.LexicalMatch{
			CatalogID: m.CatalogID,
			TextSpan:  m.SourceText,
			Score:     m.Score,
		})
		ids = append(ids, m.CatalogID)
	}

	key := cache.ResponseKey(content, ids)
	if o.respCache != nil {
		if raw, ok := o.respCache.Get(key); ok {
			var cached semantic.Response
			if err := json.Unmarshal(raw, &cached); err == nil {
				if err := semantic.CheckResponse(&cached); err == nil {
					return &cached, nil
				}
			}
			_ = o.respCache.Delete(key)
		}
	}

	if err := o.limiter.Wait(ctx, o.validator.Name()); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	resp, err := o.validator.Validate(ctx, req)
	if err != nil {
		return nil, err
	}

	if o.respCache != nil {
		if raw, err := json.Marshal(resp); err == nil {
			_ = o.respCache.Set(key, raw, o.cfg.Cache.TTL)
		}
	}
	return resp, nil
}

func (o *Orchestrator) catalogSubset() []catalog.Entry {
	entries := o.cat.Entries()
	if limit := o.cfg.Validator.CatalogLimit; limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}
