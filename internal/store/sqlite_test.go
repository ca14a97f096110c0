package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localclarity/citation-intel/internal/model"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLite(filepath.Join(t.TempDir(), "citation.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLiteUpsertAndQueryIntelligence(t *testing.T) {
	st := newSQLiteStore(t)
	ctx := context.Background()

	measured := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	row := model.SourceIntelligence{
		BusinessCategory:  "plumber",
		City:              "Austin",
		State:             "TX",
		Platform:          "yelp",
		ModelProvider:     "perplexity",
		CitationFrequency: 0.6,
		SampleQuery:       "best plumber in Austin, TX",
		SampleSize:        5,
		MeasuredAt:        measured,
	}
	require.NoError(t, st.UpsertIntelligence(ctx, row))

	// Second write for the same 5-tuple replaces, never duplicates.
	row.CitationFrequency = 0.8
	row.MeasuredAt = measured.Add(24 * time.Hour)
	require.NoError(t, st.UpsertIntelligence(ctx, row))

	// A different provider for the same tuple is a separate row.
	row.ModelProvider = "anthropic"
	row.CitationFrequency = 0.2
	require.NoError(t, st.UpsertIntelligence(ctx, row))

	out, err := st.IntelligenceFor(ctx, "plumber", "Austin", "TX", "perplexity")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 0.8, out[0].CitationFrequency)
	assert.Equal(t, 5, out[0].SampleSize)

	out, err = st.IntelligenceFor(ctx, "plumber", "Austin", "TX", "anthropic")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 0.2, out[0].CitationFrequency)
}

func TestSQLiteIntelligenceOrdering(t *testing.T) {
	st := newSQLiteStore(t)
	ctx := context.Background()

	base := model.SourceIntelligence{
		BusinessCategory: "plumber",
		City:             "Austin",
		State:            "TX",
		ModelProvider:    "perplexity",
		SampleSize:       5,
		MeasuredAt:       time.Now().UTC(),
	}
	for platform, freq := range map[string]float64{
		"yelp":        0.4,
		"tripadvisor": 0.8,
		"google":      0.4,
	} {
		row := base
		row.Platform = platform
		row.CitationFrequency = freq
		require.NoError(t, st.UpsertIntelligence(ctx, row))
	}

	out, err := st.IntelligenceFor(ctx, "plumber", "Austin", "TX", "perplexity")
	require.NoError(t, err)
	require.Len(t, out, 3)

	// Frequency descending, then platform ascending for ties.
	assert.Equal(t, "tripadvisor", out[0].Platform)
	assert.Equal(t, "google", out[1].Platform)
	assert.Equal(t, "yelp", out[2].Platform)
}

func TestSQLiteOrgs(t *testing.T) {
	st := newSQLiteStore(t)
	ctx := context.Background()

	_, err := st.db.ExecContext(ctx, `INSERT INTO orgs (id, name, plan_tier, status) VALUES
		('org-1', 'Austin Plumbing Co', 'pro', 'active'),
		('org-2', 'Free Tier LLC', 'free', 'active'),
		('org-3', 'Suspended Inc', 'pro', 'suspended'),
		('org-4', 'No Location LLC', 'pro', 'active')`)
	require.NoError(t, err)

	_, err = st.db.ExecContext(ctx, `INSERT INTO org_locations (id, org_id, city, state, categories, is_primary) VALUES
		('loc-1', 'org-1', 'Austin', 'TX', '["plumber","drain cleaning"]', 1),
		('loc-2', 'org-1', 'Dallas', 'TX', '["plumber"]', 0)`)
	require.NoError(t, err)

	orgs, err := st.ListEligibleOrgs(ctx)
	require.NoError(t, err)
	require.Len(t, orgs, 2)

	// Free and suspended orgs are excluded; only the primary location joins.
	assert.Equal(t, "org-1", orgs[0].ID)
	require.NotNil(t, orgs[0].Location)
	assert.Equal(t, "Austin", orgs[0].Location.City)
	assert.Equal(t, []string{"plumber", "drain cleaning"}, orgs[0].Location.Categories)

	assert.Equal(t, "org-4", orgs[1].ID)
	assert.Nil(t, orgs[1].Location)

	org, err := st.GetOrg(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, "Austin Plumbing Co", org.Name)

	_, err = st.GetOrg(ctx, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "org not found")
}

func TestSQLiteListListings(t *testing.T) {
	st := newSQLiteStore(t)
	ctx := context.Background()

	_, err := st.db.ExecContext(ctx, `INSERT INTO orgs (id, name, plan_tier) VALUES ('org-1', 'Org', 'pro')`)
	require.NoError(t, err)
	_, err = st.db.ExecContext(ctx, `INSERT INTO org_listings (id, org_id, directory, sync_status) VALUES
		('l-1', 'org-1', 'yelp', 'linked'),
		('l-2', 'org-1', 'google', 'not_linked')`)
	require.NoError(t, err)

	listings, err := st.ListListings(ctx, "org-1")
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "google", listings[0].Directory)
	assert.Equal(t, model.SyncStatusNotLinked, listings[0].SyncStatus)
	assert.Equal(t, "yelp", listings[1].Directory)
	assert.Equal(t, model.SyncStatusLinked, listings[1].SyncStatus)

	listings, err = st.ListListings(ctx, "org-2")
	require.NoError(t, err)
	assert.Empty(t, listings)
}
