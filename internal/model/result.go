package model

// RunState is the orchestrator's position in the processing state machine
type RunState string

const (
	StateInit              RunState = "INIT"
	StateClassified        RunState = "CLASSIFIED"
	StateFiltered          RunState = "FILTERED"
	StateContentExtracted  RunState = "CONTENT_EXTRACTED"
	StateEntitiesExtracted RunState = "ENTITIES_EXTRACTED"
	StateMatched           RunState = "MATCHED"
	StatePeriodsResolved   RunState = "PERIODS_RESOLVED"
	StateRouted            RunState = "ROUTED"

	// Early terminals
	StateReiterationHeld  RunState = "REITERATION_HELD"
	StateNotRelevant      RunState = "NOT_RELEVANT"
	StateInsufficientInfo RunState = "INSUFFICIENT_INFO"
	StateError            RunState = "ERROR"
)

// RoutingStatus is the final disposition of a processed document
type RoutingStatus string

const (
	RoutingAutomatic        RoutingStatus = "automatic"        // Confidence cleared the auto-process threshold
	RoutingHumanReview      RoutingStatus = "human_review"     // Pre-extracted data attached for an analyst
	RoutingManualAnalysis   RoutingStatus = "manual_analysis"  // Too low to trust any extraction
	RoutingReiterationHeld  RoutingStatus = "reiteration_held" // Held for the priority follow-up queue
	RoutingNotRelevant      RoutingStatus = "not_relevant"
	RoutingInsufficientInfo RoutingStatus = "insufficient_info" // External lookup needed first
	RoutingError            RoutingStatus = "error"
)

// WarrantProcessingResult is the structured outcome of one run. Every run
// produces one, including failed runs; no error escapes to the caller.
type WarrantProcessingResult struct {
	SessionID      string              `json:"session_id"`
	State          RunState            `json:"state"`
	Classification InputClassification `json:"classification"`
	OrderClass     OrderClass          `json:"order_class"`
	Relevance      *RelevanceDecision  `json:"relevance,omitempty"`
	ShouldProcess  bool                `json:"should_process"`

	Parties []InvestigatedParty `json:"parties"`
	Matches []SubsidyMatch      `json:"matches"`
	Periods []ResolvedPeriod    `json:"periods"`

	Lookup *LookupData `json:"lookup_data,omitempty"` // Set on INSUFFICIENT_INFO

	OverallConfidence float64       `json:"overall_confidence"`
	Alerts            []string      `json:"alerts"`
	RoutingStatus     RoutingStatus `json:"routing_status"`
	Error             string        `json:"error,omitempty"`
}
