package citation

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/localclarity/citation-intel/internal/model"
)

// --- answers.Client mock ---

type mockEngine struct {
	mock.Mock
	provider     string
	unconfigured bool
}

func (m *mockEngine) Ask(ctx context.Context, systemInstruction, prompt string) (string, error) {
	args := m.Called(ctx, systemInstruction, prompt)
	return args.String(0), args.Error(1)
}

func (m *mockEngine) Provider() string {
	if m.provider != "" {
		return m.provider
	}
	return "perplexity"
}

func (m *mockEngine) Configured() bool {
	return !m.unconfigured
}

// --- store.Store mock ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) UpsertIntelligence(ctx context.Context, row model.SourceIntelligence) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *mockStore) IntelligenceFor(ctx context.Context, category, city, state, provider string) ([]model.SourceIntelligence, error) {
	args := m.Called(ctx, category, city, state, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SourceIntelligence), args.Error(1)
}

func (m *mockStore) ListEligibleOrgs(ctx context.Context) ([]model.Org, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Org), args.Error(1)
}

func (m *mockStore) GetOrg(ctx context.Context, orgID string) (*model.Org, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Org), args.Error(1)
}

func (m *mockStore) ListListings(ctx context.Context, orgID string) ([]model.Listing, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Listing), args.Error(1)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
