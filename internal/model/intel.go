package model

import (
	"fmt"
	"time"
)

// DiscoveryTuple is the canonical unit of sampling work: one business
// category in one city/state market. Category is stored normalized
// (lower-cased); City and State are exact. Tuples are derived fresh each
// run and never persisted.
type DiscoveryTuple struct {
	Category string `json:"category"`
	City     string `json:"city"`
	State    string `json:"state"`
}

// String renders the tuple for logs and run-summary error entries.
func (t DiscoveryTuple) String() string {
	return fmt.Sprintf("%s/%s/%s", t.Category, t.City, t.State)
}

// CitationQueryResult is the outcome of one discovery query against the
// answer engine. Success is false only on a fatal per-query error;
// an empty or unparseable response still counts as a successful query.
type CitationQueryResult struct {
	QueryText string   `json:"query_text"`
	CitedURLs []string `json:"cited_urls"`
	Success   bool     `json:"success"`
	// Ambiguous marks a response that came back but could not be parsed
	// as recommendations. It counts as a successful query with zero
	// citations; the flag exists for data-quality observability.
	Ambiguous bool `json:"ambiguous,omitempty"`
}

// SourceIntelligence is one persisted frequency measurement: how often the
// answer engine cited a platform for one tuple, per model provider.
// At most one row exists per (category, city, state, platform, provider);
// each run's write fully replaces the previous measurement.
type SourceIntelligence struct {
	BusinessCategory  string    `json:"business_category"`
	City              string    `json:"city"`
	State             string    `json:"state"`
	Platform          string    `json:"platform"`
	ModelProvider     string    `json:"model_provider"`
	CitationFrequency float64   `json:"citation_frequency"`
	SampleQuery       string    `json:"sample_query"`
	SampleSize        int       `json:"sample_size"`
	MeasuredAt        time.Time `json:"measured_at"`
}

// ListingSyncStatus is the sync state of a tenant's directory listing.
type ListingSyncStatus string

const (
	SyncStatusLinked    ListingSyncStatus = "linked"
	SyncStatusPending   ListingSyncStatus = "pending"
	SyncStatusNotLinked ListingSyncStatus = "not_linked"
)

// Listing is a tenant's presence on one directory platform. Read-only to
// this engine; used only to test platform coverage.
type Listing struct {
	Directory  string            `json:"directory"`
	SyncStatus ListingSyncStatus `json:"sync_status"`
}

// GapSummary is the computed citation-gap report for one tenant tuple.
// Never persisted.
type GapSummary struct {
	GapScore            int          `json:"gap_score"`
	PlatformsCovered    int          `json:"platforms_covered"`
	PlatformsThatMatter int          `json:"platforms_that_matter"`
	TopGap              *GapPlatform `json:"top_gap"`
}

// GapPlatform is the single highest-value platform a tenant is missing.
type GapPlatform struct {
	Platform          string  `json:"platform"`
	CitationFrequency float64 `json:"citation_frequency"`
	Action            string  `json:"action"`
}
