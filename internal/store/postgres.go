package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/localclarity/citation-intel/internal/db"
	"github.com/localclarity/citation-intel/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32
	MinConns int32
}

// preparedStatements lists queries to prepare on each new connection for
// the hot paths of a sampling run.
var preparedStatements = map[string]string{
	"intel_for":     intelForSQL,
	"list_listings": listListingsSQL,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS citation_source_intelligence (
	id                 TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	business_category  TEXT NOT NULL,
	city               TEXT NOT NULL,
	state              TEXT NOT NULL,
	platform           TEXT NOT NULL,
	model_provider     TEXT NOT NULL,
	citation_frequency DOUBLE PRECISION NOT NULL,
	sample_query       TEXT NOT NULL DEFAULT '',
	sample_size        INTEGER NOT NULL,
	measured_at        TIMESTAMPTZ NOT NULL,
	UNIQUE (business_category, city, state, platform, model_provider)
);

CREATE INDEX IF NOT EXISTS idx_csi_tuple ON citation_source_intelligence(business_category, city, state);

CREATE TABLE IF NOT EXISTS orgs (
	id        TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name      TEXT NOT NULL,
	plan_tier TEXT NOT NULL DEFAULT 'free',
	status    TEXT NOT NULL DEFAULT 'active'
);

CREATE TABLE IF NOT EXISTS org_locations (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	org_id     TEXT NOT NULL REFERENCES orgs(id),
	city       TEXT NOT NULL,
	state      TEXT NOT NULL,
	categories JSONB NOT NULL DEFAULT '[]',
	is_primary BOOLEAN NOT NULL DEFAULT false
);

CREATE INDEX IF NOT EXISTS idx_org_locations_org ON org_locations(org_id);

CREATE TABLE IF NOT EXISTS org_listings (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	org_id      TEXT NOT NULL REFERENCES orgs(id),
	directory   TEXT NOT NULL,
	sync_status TEXT NOT NULL DEFAULT 'not_linked'
);

CREATE INDEX IF NOT EXISTS idx_org_listings_org ON org_listings(org_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// intelUpsert is the conflict target for intelligence measurements: one
// row per tuple+platform+provider, fully replaced on every write.
var intelUpsert = db.UpsertConfig{
	Table: "citation_source_intelligence",
	Columns: []string{
		"business_category", "city", "state", "platform", "model_provider",
		"citation_frequency", "sample_query", "sample_size", "measured_at",
	},
	ConflictKeys: []string{"business_category", "city", "state", "platform", "model_provider"},
}

func (s *PostgresStore) UpsertIntelligence(ctx context.Context, row model.SourceIntelligence) error {
	err := db.UpsertRow(ctx, s.pool, intelUpsert, []any{
		row.BusinessCategory, row.City, row.State, row.Platform, row.ModelProvider,
		row.CitationFrequency, row.SampleQuery, row.SampleSize, row.MeasuredAt,
	})
	if err != nil {
		return eris.Wrapf(err, "postgres: upsert intelligence %s/%s", row.Platform, row.ModelProvider)
	}
	return nil
}

const intelForSQL = `SELECT business_category, city, state, platform, model_provider, citation_frequency, sample_query, sample_size, measured_at
FROM citation_source_intelligence
WHERE business_category = $1 AND city = $2 AND state = $3 AND model_provider = $4
ORDER BY citation_frequency DESC, platform ASC`

func (s *PostgresStore) IntelligenceFor(ctx context.Context, category, city, state, provider string) ([]model.SourceIntelligence, error) {
	rows, err := s.pool.Query(ctx, intelForSQL, category, city, state, provider)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query intelligence")
	}
	defer rows.Close()

	var out []model.SourceIntelligence
	for rows.Next() {
		var r model.SourceIntelligence
		if err := rows.Scan(
			&r.BusinessCategory, &r.City, &r.State, &r.Platform, &r.ModelProvider,
			&r.CitationFrequency, &r.SampleQuery, &r.SampleSize, &r.MeasuredAt,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan intelligence")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate intelligence")
}

const listEligibleOrgsSQL = `SELECT o.id, o.name, o.plan_tier, l.city, l.state, l.categories
FROM orgs o
LEFT JOIN org_locations l ON l.org_id = o.id AND l.is_primary
WHERE o.status = 'active' AND o.plan_tier <> 'free'
ORDER BY o.id`

func (s *PostgresStore) ListEligibleOrgs(ctx context.Context) ([]model.Org, error) {
	rows, err := s.pool.Query(ctx, listEligibleOrgsSQL)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query eligible orgs")
	}
	defer rows.Close()

	var out []model.Org
	for rows.Next() {
		org, err := scanOrg(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *org)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate orgs")
}

const getOrgSQL = `SELECT o.id, o.name, o.plan_tier, l.city, l.state, l.categories
FROM orgs o
LEFT JOIN org_locations l ON l.org_id = o.id AND l.is_primary
WHERE o.id = $1`

func (s *PostgresStore) GetOrg(ctx context.Context, orgID string) (*model.Org, error) {
	row := s.pool.QueryRow(ctx, getOrgSQL, orgID)
	org, err := scanOrg(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Errorf("postgres: org not found: %s", orgID)
		}
		return nil, err
	}
	return org, nil
}

// scanOrg scans one org row with a nullable primary location.
func scanOrg(row pgx.Row) (*model.Org, error) {
	var org model.Org
	var city, state *string
	var categories []byte

	if err := row.Scan(&org.ID, &org.Name, &org.PlanTier, &city, &state, &categories); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "postgres: scan org")
	}

	if city != nil && state != nil {
		loc := &model.Location{City: *city, State: *state}
		if len(categories) > 0 {
			if err := json.Unmarshal(categories, &loc.Categories); err != nil {
				return nil, eris.Wrapf(err, "postgres: unmarshal categories for org %s", org.ID)
			}
		}
		org.Location = loc
	}
	return &org, nil
}

const listListingsSQL = `SELECT directory, sync_status FROM org_listings WHERE org_id = $1 ORDER BY directory`

func (s *PostgresStore) ListListings(ctx context.Context, orgID string) ([]model.Listing, error) {
	rows, err := s.pool.Query(ctx, listListingsSQL, orgID)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: query listings for org %s", orgID)
	}
	defer rows.Close()

	var out []model.Listing
	for rows.Next() {
		var l model.Listing
		var status string
		if err := rows.Scan(&l.Directory, &status); err != nil {
			return nil, eris.Wrap(err, "postgres: scan listing")
		}
		l.SyncStatus = model.ListingSyncStatus(status)
		out = append(out, l)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate listings")
}
