package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/localclarity/citation-intel/internal/citation"
	"github.com/localclarity/citation-intel/internal/store"
	"github.com/localclarity/citation-intel/pkg/answers"
)

// initStore opens the configured store backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "", "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	case "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initAnswers builds the answer-engine client from config.
func initAnswers() (answers.Client, error) {
	var opts []answers.Option
	if cfg.Answers.BaseURL != "" {
		opts = append(opts, answers.WithBaseURL(cfg.Answers.BaseURL))
	}
	if cfg.Answers.Model != "" {
		opts = append(opts, answers.WithModel(cfg.Answers.Model))
	}
	if cfg.Answers.MaxTokens > 0 {
		opts = append(opts, answers.WithMaxTokens(cfg.Answers.MaxTokens))
	}
	return answers.New(cfg.Answers.Provider, cfg.Answers.Key, opts...)
}

// initCronRunner wires the full sampling engine on top of an open store.
func initCronRunner(st store.Store) (*citation.CronRunner, error) {
	client, err := initAnswers()
	if err != nil {
		return nil, err
	}

	delay := time.Duration(cfg.Citation.QueryDelayMS) * time.Millisecond
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	limiter := rate.NewLimiter(rate.Every(delay), 1)

	runner := citation.NewRunner(client)
	sampler := citation.NewSampler(runner, limiter, nil)
	persister := citation.NewPersister(st, client.Provider())

	return citation.NewCronRunner(st, sampler, persister, client, killSwitch(), cfg.Citation.MaxConcurrentTuples), nil
}

// killSwitch reads the halt flag from config and, live, from the
// environment, so an operator can stop an in-progress run.
func killSwitch() func() bool {
	return func() bool {
		if cfg.Citation.Disabled {
			return true
		}
		v := os.Getenv("CITATION_CITATION_DISABLED")
		return v == "1" || strings.EqualFold(v, "true")
	}
}
