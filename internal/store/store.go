// Package store persists citation source intelligence and reads the
// tenant records the sampling run is derived from.
package store

import (
	"context"

	"github.com/localclarity/citation-intel/internal/model"
)

// Store defines the persistence interface for the citation engine.
// Intelligence rows are last-write-wins per (category, city, state,
// platform, model_provider); tenant tables are read-only to this core.
type Store interface {
	// Intelligence
	UpsertIntelligence(ctx context.Context, row model.SourceIntelligence) error
	IntelligenceFor(ctx context.Context, category, city, state, provider string) ([]model.SourceIntelligence, error)

	// Tenants
	ListEligibleOrgs(ctx context.Context) ([]model.Org, error)
	GetOrg(ctx context.Context, orgID string) (*model.Org, error)
	ListListings(ctx context.Context, orgID string) ([]model.Listing, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
