package citation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/localclarity/citation-intel/internal/model"
)

// DefaultRelevanceThreshold is the minimum citation frequency a platform
// must reach before it counts toward gap scoring.
const DefaultRelevanceThreshold = 0.30

// GapConfig holds the scoring constants, injected so tests can exercise
// boundary values.
type GapConfig struct {
	RelevanceThreshold float64
}

// DefaultGapConfig returns the production scoring constants.
func DefaultGapConfig() GapConfig {
	return GapConfig{RelevanceThreshold: DefaultRelevanceThreshold}
}

// CalculateGapScore compares a tenant's listing coverage against the
// persisted intelligence for its tuple. Pure, no I/O.
//
// Platforms below the relevance threshold are ignored. When nothing is
// relevant the optimistic default is returned: absence of data is not a
// failure. A relevant platform is covered when some listing's directory
// name case-insensitively equals the platform identifier and its sync
// status is not not_linked. TopGap is the highest-frequency uncovered
// platform; ties resolve to whichever sorts first in the stable
// descending order of the input.
func CalculateGapScore(platforms []model.SourceIntelligence, listings []model.Listing, cfg GapConfig) model.GapSummary {
	relevant := make([]model.SourceIntelligence, 0, len(platforms))
	for _, p := range platforms {
		if p.CitationFrequency >= cfg.RelevanceThreshold {
			relevant = append(relevant, p)
		}
	}

	if len(relevant) == 0 {
		return model.GapSummary{GapScore: 100}
	}

	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].CitationFrequency > relevant[j].CitationFrequency
	})

	covered := 0
	var topGap *model.GapPlatform
	for _, p := range relevant {
		if listingCovers(listings, p.Platform) {
			covered++
			continue
		}
		if topGap == nil {
			gain := int(math.Round(p.CitationFrequency * 100))
			topGap = &model.GapPlatform{
				Platform:          p.Platform,
				CitationFrequency: p.CitationFrequency,
				Action: fmt.Sprintf("Claim your %s listing to capture an estimated %d%% of AI recommendations for your category.",
					p.Platform, gain),
			}
		}
	}

	return model.GapSummary{
		GapScore:            int(math.Round(float64(covered) / float64(len(relevant)) * 100)),
		PlatformsCovered:    covered,
		PlatformsThatMatter: len(relevant),
		TopGap:              topGap,
	}
}

func listingCovers(listings []model.Listing, platform string) bool {
	for _, l := range listings {
		if strings.EqualFold(l.Directory, platform) && l.SyncStatus != model.SyncStatusNotLinked {
			return true
		}
	}
	return false
}
