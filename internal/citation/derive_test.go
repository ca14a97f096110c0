package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localclarity/citation-intel/internal/model"
)

func org(id string, loc *model.Location) model.Org {
	return model.Org{ID: id, Name: id, PlanTier: "growth", Location: loc}
}

func TestDeriveTuples_DedupesAcrossOrgs(t *testing.T) {
	orgs := []model.Org{
		org("org-1", &model.Location{City: "Austin", State: "TX", Categories: []string{"Pizza Restaurant"}}),
		org("org-2", &model.Location{City: "Austin", State: "TX", Categories: []string{"pizza restaurant"}}),
	}

	d := DeriveTuples(orgs)

	require.Len(t, d.Tuples, 1)
	assert.Equal(t, model.DiscoveryTuple{Category: "pizza restaurant", City: "Austin", State: "TX"}, d.Tuples[0])
	assert.Equal(t, 2, d.OrgsProcessed)
	assert.Empty(t, d.Skips)
}

func TestDeriveTuples_DedupesWithinOneOrg(t *testing.T) {
	orgs := []model.Org{
		org("org-1", &model.Location{City: "Austin", State: "TX", Categories: []string{"Plumber", "  plumber ", "electrician"}}),
	}

	d := DeriveTuples(orgs)

	require.Len(t, d.Tuples, 2)
	assert.Equal(t, "plumber", d.Tuples[0].Category)
	assert.Equal(t, "electrician", d.Tuples[1].Category)
}

func TestDeriveTuples_SkipReasons(t *testing.T) {
	orgs := []model.Org{
		org("no-loc", nil),
		org("no-cat", &model.Location{City: "Reno", State: "NV"}),
		org("blank-cats", &model.Location{City: "Reno", State: "NV", Categories: []string{"", "   "}}),
		org("ok", &model.Location{City: "Reno", State: "NV", Categories: []string{"florist"}}),
	}

	d := DeriveTuples(orgs)

	assert.Equal(t, 1, d.OrgsProcessed)
	require.Len(t, d.Skips, 3)
	assert.Equal(t, Skip{OrgID: "no-loc", Reason: model.SkipNoLocation}, d.Skips[0])
	assert.Equal(t, Skip{OrgID: "no-cat", Reason: model.SkipNoCategory}, d.Skips[1])
	assert.Equal(t, Skip{OrgID: "blank-cats", Reason: model.SkipNoCategory}, d.Skips[2])
	require.Len(t, d.Tuples, 1)
}

func TestDeriveTuples_CityIsExactMatch(t *testing.T) {
	// Category equality is normalized; city and state are exact.
	orgs := []model.Org{
		org("a", &model.Location{City: "Austin", State: "TX", Categories: []string{"bakery"}}),
		org("b", &model.Location{City: "austin", State: "TX", Categories: []string{"bakery"}}),
	}

	d := DeriveTuples(orgs)
	assert.Len(t, d.Tuples, 2)
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "pizza restaurant", NormalizeCategory("  Pizza   Restaurant "))
	assert.Equal(t, "hvac contractor", NormalizeCategory("HVAC Contractor"))
	assert.Empty(t, NormalizeCategory("   "))
}
