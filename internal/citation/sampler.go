package citation

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/localclarity/citation-intel/internal/model"
)

// SampleResult aggregates one full sampling run of one tuple.
type SampleResult struct {
	// PlatformCounts maps platform identifier to the number of citations
	// observed across the sample. In-memory only.
	PlatformCounts    map[string]int
	SuccessfulQueries int
	AmbiguousQueries  int
	// SampleQuery is the first successful query text, kept as the
	// representative query on persisted rows.
	SampleQuery string
}

// Sampler runs the full query set for one tuple. All engine calls go
// through a shared rate limiter, so spacing holds even if multiple
// samplers run concurrently.
type Sampler struct {
	runner   *Runner
	limiter  *rate.Limiter
	patterns map[string]string
}

// NewSampler creates a Sampler. The limiter is shared across all callers
// of the same answer engine; patterns defaults to
// DefaultPlatformPatterns when nil.
func NewSampler(runner *Runner, limiter *rate.Limiter, patterns map[string]string) *Sampler {
	if patterns == nil {
		patterns = DefaultPlatformPatterns()
	}
	return &Sampler{runner: runner, limiter: limiter, patterns: patterns}
}

// Sample runs the query set for one tuple sequentially. A single query's
// failure or panic is absorbed and the remaining queries still run; the
// only error returned is context cancellation while waiting on the rate
// limiter.
func (s *Sampler) Sample(ctx context.Context, tuple model.DiscoveryTuple) (*SampleResult, error) {
	queries := GenerateSampleQueries(tuple.Category, tuple.City, tuple.State)
	out := &SampleResult{PlatformCounts: make(map[string]int)}

	for _, q := range queries {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrapf(err, "citation: sample interrupted for %s", tuple)
		}

		res := s.runOne(ctx, q)
		if !res.Success {
			continue
		}

		out.SuccessfulQueries++
		if res.Ambiguous {
			out.AmbiguousQueries++
		}
		if out.SampleQuery == "" {
			out.SampleQuery = q
		}
		for _, cited := range res.CitedURLs {
			if platform := ExtractPlatform(cited, s.patterns); platform != "" {
				out.PlatformCounts[platform]++
			}
		}
	}

	zap.L().Debug("citation: sample complete",
		zap.String("tuple", tuple.String()),
		zap.Int("successful_queries", out.SuccessfulQueries),
		zap.Int("ambiguous_queries", out.AmbiguousQueries),
		zap.Int("platforms", len(out.PlatformCounts)),
	)
	return out, nil
}

// runOne shields the sample loop from a panicking query.
func (s *Sampler) runOne(ctx context.Context, query string) (res model.CitationQueryResult) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("citation: query panicked",
				zap.String("query", query),
				zap.Any("panic", r),
			)
			res = model.CitationQueryResult{QueryText: query, Success: false}
		}
	}()
	return s.runner.RunQuery(ctx, query)
}
