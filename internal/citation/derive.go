package citation

import (
	"strings"

	"github.com/localclarity/citation-intel/internal/model"
)

// Skip records one tenant excluded from tuple derivation.
type Skip struct {
	OrgID  string
	Reason model.SkipReason
}

// Derivation is the outcome of deriving sampling work from tenant records.
type Derivation struct {
	// Tuples is the deduplicated sampling scope, in first-seen order.
	Tuples        []model.DiscoveryTuple
	OrgsProcessed int
	Skips         []Skip
}

// DeriveTuples turns eligible tenant records into the deduplicated set of
// discovery tuples for one run. Eligibility (plan tier) is the caller's
// concern; this assumes it receives exactly the tenants to consider.
// Two tenants in the same city with the same normalized category yield
// one tuple, so the sampler never runs twice for the same work.
func DeriveTuples(orgs []model.Org) Derivation {
	var d Derivation
	seen := make(map[model.DiscoveryTuple]struct{})

	for _, org := range orgs {
		loc := org.Location
		if loc == nil {
			d.Skips = append(d.Skips, Skip{OrgID: org.ID, Reason: model.SkipNoLocation})
			continue
		}

		categories := make([]string, 0, len(loc.Categories))
		for _, c := range loc.Categories {
			if normalized := NormalizeCategory(c); normalized != "" {
				categories = append(categories, normalized)
			}
		}
		if len(categories) == 0 {
			d.Skips = append(d.Skips, Skip{OrgID: org.ID, Reason: model.SkipNoCategory})
			continue
		}

		d.OrgsProcessed++
		for _, category := range categories {
			tuple := model.DiscoveryTuple{Category: category, City: loc.City, State: loc.State}
			if _, ok := seen[tuple]; ok {
				continue
			}
			seen[tuple] = struct{}{}
			d.Tuples = append(d.Tuples, tuple)
		}
	}
	return d
}

// NormalizeCategory canonicalizes a tenant-entered category label for
// tuple equality: trimmed, inner whitespace collapsed, lower-cased.
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.Join(strings.Fields(category), " "))
}
