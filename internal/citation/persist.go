package citation

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/localclarity/citation-intel/internal/model"
	"github.com/localclarity/citation-intel/internal/store"
)

// Persister turns a sample into upserted intelligence rows.
type Persister struct {
	store    store.Store
	provider string
}

// NewPersister creates a Persister writing rows keyed by the given model
// provider.
func NewPersister(st store.Store, provider string) *Persister {
	return &Persister{store: st, provider: provider}
}

// Write upserts one intelligence row per observed platform and returns
// how many were written. A sample with zero successful queries carries no
// signal and writes nothing, so a bad run never overwrites good prior
// data. One platform's write failure is logged and skipped; the other
// platforms still get written.
func (p *Persister) Write(ctx context.Context, tuple model.DiscoveryTuple, sample *SampleResult) int {
	if sample.SuccessfulQueries == 0 {
		zap.L().Info("citation: no successful queries, skipping persist",
			zap.String("tuple", tuple.String()),
		)
		return 0
	}

	platforms := make([]string, 0, len(sample.PlatformCounts))
	for platform := range sample.PlatformCounts {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)

	measuredAt := time.Now().UTC()
	written := 0
	for _, platform := range platforms {
		count := sample.PlatformCounts[platform]
		row := model.SourceIntelligence{
			BusinessCategory:  tuple.Category,
			City:              tuple.City,
			State:             tuple.State,
			Platform:          platform,
			ModelProvider:     p.provider,
			CitationFrequency: roundFrequency(count, sample.SuccessfulQueries),
			SampleQuery:       sample.SampleQuery,
			SampleSize:        sample.SuccessfulQueries,
			MeasuredAt:        measuredAt,
		}
		if err := p.store.UpsertIntelligence(ctx, row); err != nil {
			zap.L().Error("citation: intelligence write failed",
				zap.String("tuple", tuple.String()),
				zap.String("platform", platform),
				zap.Error(err),
			)
			continue
		}
		written++
	}
	return written
}

// roundFrequency computes count/total rounded to 3 decimal places.
func roundFrequency(count, total int) float64 {
	return math.Round(float64(count)/float64(total)*1000) / 1000
}
