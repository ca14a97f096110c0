package citation

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/localclarity/citation-intel/internal/model"
	"github.com/localclarity/citation-intel/internal/store"
	"github.com/localclarity/citation-intel/pkg/answers"
)

// ErrNoCredential aborts a run before any work when the answer engine has
// no usable credential.
var ErrNoCredential = eris.New("citation: answer engine credential not configured")

// TupleSampler samples the full query set for one tuple.
type TupleSampler interface {
	Sample(ctx context.Context, tuple model.DiscoveryTuple) (*SampleResult, error)
}

// ResultWriter persists one tuple's sample and reports rows written.
type ResultWriter interface {
	Write(ctx context.Context, tuple model.DiscoveryTuple, sample *SampleResult) int
}

// CronRunner is the batch entry point: it derives the sampling scope from
// tenant records, samples and persists each unique tuple, and produces a
// run summary. Tuple failures are isolated; one failing tuple never
// prevents the others from completing.
type CronRunner struct {
	store     store.Store
	sampler   TupleSampler
	persister ResultWriter
	client    answers.Client

	// halted is the kill switch, re-read before each tuple so an
	// operator can stop an in-progress run.
	halted func() bool

	// maxConcurrent bounds how many tuples sample in parallel. 1 keeps
	// the engine fully sequential; higher values still share one rate
	// limiter, so inter-call spacing holds.
	maxConcurrent int
}

// NewCronRunner wires a CronRunner. A nil killSwitch means no kill switch.
func NewCronRunner(st store.Store, sampler TupleSampler, persister ResultWriter, client answers.Client, killSwitch func() bool, maxConcurrent int) *CronRunner {
	if killSwitch == nil {
		killSwitch = func() bool { return false }
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &CronRunner{
		store:         st,
		sampler:       sampler,
		persister:     persister,
		client:        client,
		halted:        killSwitch,
		maxConcurrent: maxConcurrent,
	}
}

// Run executes one full citation sampling run.
func (r *CronRunner) Run(ctx context.Context) (*model.RunSummary, error) {
	start := time.Now()

	if r.client == nil || !r.client.Configured() {
		return nil, ErrNoCredential
	}
	if r.halted() {
		zap.L().Info("citation: run halted by kill switch")
		return &model.RunSummary{OK: true, Halted: true, Errors: []model.RunError{}}, nil
	}

	orgs, err := r.store.ListEligibleOrgs(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "citation: list eligible orgs")
	}

	derivation := DeriveTuples(orgs)
	for _, skip := range derivation.Skips {
		zap.L().Info("citation: org skipped",
			zap.String("org_id", skip.OrgID),
			zap.String("reason", string(skip.Reason)),
		)
	}

	summary := &model.RunSummary{
		OK:            true,
		OrgsProcessed: derivation.OrgsProcessed,
		OrgsSkipped:   len(derivation.Skips),
		Errors:        []model.RunError{},
	}

	zap.L().Info("citation: run starting",
		zap.Int("orgs", derivation.OrgsProcessed),
		zap.Int("tuples", len(derivation.Tuples)),
		zap.Int("max_concurrent", r.maxConcurrent),
	)

	// Workers mutate the summary only under mu, and only additively, so
	// the accumulation stays safe at any concurrency.
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrent)

	for _, tuple := range derivation.Tuples {
		tuple := tuple // per-iteration copy; go directive predates 1.22 loopvar semantics
		if r.halted() {
			zap.L().Warn("citation: run halted mid-flight by kill switch")
			summary.Halted = true
			break
		}

		g.Go(func() error {
			// Never return an error from the group: that would cancel
			// sibling tuples through the group context.
			if err := r.processTuple(gctx, tuple, summary, &mu); err != nil {
				mu.Lock()
				summary.Errors = append(summary.Errors, model.RunError{
					Tuple:  tuple.String(),
					Reason: err.Error(),
				})
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	summary.DurationMS = time.Since(start).Milliseconds()
	zap.L().Info("citation: run complete",
		zap.Int("queries_run", summary.QueriesRun),
		zap.Int("platforms_found", summary.PlatformsFound),
		zap.Int("errors", len(summary.Errors)),
		zap.Int64("duration_ms", summary.DurationMS),
	)
	return summary, nil
}

// processTuple samples and persists one tuple. A panic anywhere inside is
// converted to a tuple-level error so the run keeps going.
func (r *CronRunner) processTuple(ctx context.Context, tuple model.DiscoveryTuple, summary *model.RunSummary, mu *sync.Mutex) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = eris.Errorf("citation: tuple panicked: %v", rec)
		}
	}()

	sample, err := r.sampler.Sample(ctx, tuple)
	if err != nil {
		return err
	}

	written := r.persister.Write(ctx, tuple, sample)

	mu.Lock()
	summary.QueriesRun += sample.SuccessfulQueries
	summary.QueriesAmbiguous += sample.AmbiguousQueries
	summary.PlatformsFound += written
	mu.Unlock()
	return nil
}
