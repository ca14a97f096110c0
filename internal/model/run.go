package model

// SkipReason explains why a tenant was skipped during tuple derivation.
type SkipReason string

const (
	SkipNoLocation SkipReason = "no_location"
	SkipNoCategory SkipReason = "no_category"
)

// RunError records one isolated tuple- or org-level failure. Exactly one
// of Tuple or OrgID is set.
type RunError struct {
	Tuple  string `json:"tuple,omitempty"`
	OrgID  string `json:"org_id,omitempty"`
	Reason string `json:"reason"`
}

// RunSummary is the response contract of one citation cron run.
type RunSummary struct {
	OK               bool       `json:"ok"`
	Halted           bool       `json:"halted,omitempty"`
	OrgsProcessed    int        `json:"orgs_processed"`
	OrgsSkipped      int        `json:"orgs_skipped"`
	QueriesRun       int        `json:"queries_run"`
	QueriesAmbiguous int        `json:"queries_ambiguous"`
	PlatformsFound   int        `json:"platforms_found"`
	Errors           []RunError `json:"errors"`
	DurationMS       int64      `json:"duration_ms"`
}
