package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/localclarity/citation-intel/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. Intended for
// local and dev runs; production runs use Postgres.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS citation_source_intelligence (
	id                 TEXT PRIMARY KEY,
	business_category  TEXT NOT NULL,
	city               TEXT NOT NULL,
	state              TEXT NOT NULL,
	platform           TEXT NOT NULL,
	model_provider     TEXT NOT NULL,
	citation_frequency REAL NOT NULL,
	sample_query       TEXT NOT NULL DEFAULT '',
	sample_size        INTEGER NOT NULL,
	measured_at        DATETIME NOT NULL,
	UNIQUE (business_category, city, state, platform, model_provider)
);

CREATE INDEX IF NOT EXISTS idx_csi_tuple ON citation_source_intelligence(business_category, city, state);

CREATE TABLE IF NOT EXISTS orgs (
	id        TEXT PRIMARY KEY,
	name      TEXT NOT NULL,
	plan_tier TEXT NOT NULL DEFAULT 'free',
	status    TEXT NOT NULL DEFAULT 'active'
);

CREATE TABLE IF NOT EXISTS org_locations (
	id         TEXT PRIMARY KEY,
	org_id     TEXT NOT NULL REFERENCES orgs(id),
	city       TEXT NOT NULL,
	state      TEXT NOT NULL,
	categories TEXT NOT NULL DEFAULT '[]',
	is_primary INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_org_locations_org ON org_locations(org_id);

CREATE TABLE IF NOT EXISTS org_listings (
	id          TEXT PRIMARY KEY,
	org_id      TEXT NOT NULL REFERENCES orgs(id),
	directory   TEXT NOT NULL,
	sync_status TEXT NOT NULL DEFAULT 'not_linked'
);

CREATE INDEX IF NOT EXISTS idx_org_listings_org ON org_listings(org_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertIntelligence(ctx context.Context, row model.SourceIntelligence) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO citation_source_intelligence
			(id, business_category, city, state, platform, model_provider, citation_frequency, sample_query, sample_size, measured_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (business_category, city, state, platform, model_provider) DO UPDATE SET
			citation_frequency = excluded.citation_frequency,
			sample_query = excluded.sample_query,
			sample_size = excluded.sample_size,
			measured_at = excluded.measured_at`,
		uuid.New().String(), row.BusinessCategory, row.City, row.State, row.Platform, row.ModelProvider,
		row.CitationFrequency, row.SampleQuery, row.SampleSize, row.MeasuredAt,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: upsert intelligence %s/%s", row.Platform, row.ModelProvider)
	}
	return nil
}

func (s *SQLiteStore) IntelligenceFor(ctx context.Context, category, city, state, provider string) ([]model.SourceIntelligence, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT business_category, city, state, platform, model_provider, citation_frequency, sample_query, sample_size, measured_at
		FROM citation_source_intelligence
		WHERE business_category = ? AND city = ? AND state = ? AND model_provider = ?
		ORDER BY citation_frequency DESC, platform ASC`,
		category, city, state, provider,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query intelligence")
	}
	defer rows.Close()

	var out []model.SourceIntelligence
	for rows.Next() {
		var r model.SourceIntelligence
		if err := rows.Scan(
			&r.BusinessCategory, &r.City, &r.State, &r.Platform, &r.ModelProvider,
			&r.CitationFrequency, &r.SampleQuery, &r.SampleSize, &r.MeasuredAt,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan intelligence")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate intelligence")
}

func (s *SQLiteStore) ListEligibleOrgs(ctx context.Context) ([]model.Org, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT o.id, o.name, o.plan_tier, l.city, l.state, l.categories
		FROM orgs o
		LEFT JOIN org_locations l ON l.org_id = o.id AND l.is_primary = 1
		WHERE o.status = 'active' AND o.plan_tier <> 'free'
		ORDER BY o.id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query eligible orgs")
	}
	defer rows.Close()

	var out []model.Org
	for rows.Next() {
		org, err := scanSQLiteOrg(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *org)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate orgs")
}

func (s *SQLiteStore) GetOrg(ctx context.Context, orgID string) (*model.Org, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT o.id, o.name, o.plan_tier, l.city, l.state, l.categories
		FROM orgs o
		LEFT JOIN org_locations l ON l.org_id = o.id AND l.is_primary = 1
		WHERE o.id = ?`,
		orgID,
	)
	org, err := scanSQLiteOrg(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, eris.Errorf("sqlite: org not found: %s", orgID)
		}
		return nil, err
	}
	return org, nil
}

func scanSQLiteOrg(scan func(dest ...any) error) (*model.Org, error) {
	var org model.Org
	var city, state, categories *string

	if err := scan(&org.ID, &org.Name, &org.PlanTier, &city, &state, &categories); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "sqlite: scan org")
	}

	if city != nil && state != nil {
		loc := &model.Location{City: *city, State: *state}
		if categories != nil && *categories != "" {
			if err := json.Unmarshal([]byte(*categories), &loc.Categories); err != nil {
				return nil, eris.Wrapf(err, "sqlite: unmarshal categories for org %s", org.ID)
			}
		}
		org.Location = loc
	}
	return &org, nil
}

func (s *SQLiteStore) ListListings(ctx context.Context, orgID string) ([]model.Listing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT directory, sync_status FROM org_listings WHERE org_id = ? ORDER BY directory`,
		orgID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: query listings for org %s", orgID)
	}
	defer rows.Close()

	var out []model.Listing
	for rows.Next() {
		var l model.Listing
		var status string
		if err := rows.Scan(&l.Directory, &status); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan listing")
		}
		l.SyncStatus = model.ListingSyncStatus(status)
		out = append(out, l)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate listings")
}
