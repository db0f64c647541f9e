package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/nova-labs/influencer-cli/internal/model"
)

// Pool is the slice of pgxpool.Pool the store uses; narrowed so tests can
// substitute pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
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

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'running',
	result     JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS contacts (
	identity_key TEXT PRIMARY KEY,
	run_id       TEXT REFERENCES runs(id),
	record       JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);
CREATE INDEX IF NOT EXISTS idx_contacts_run_id ON contacts(run_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, source string) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, source, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		id, source, string(model.RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.Run{
		ID:        id,
		Source:    source,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, result *model.RunResult) error {
	return s.finishRun(ctx, runID, result, model.RunStatusComplete)
}

func (s *PostgresStore) FailRun(ctx context.Context, runID string, reason string) error {
	return s.finishRun(ctx, runID, &model.RunResult{Error: reason}, model.RunStatusFailed)
}

func (s *PostgresStore) finishRun(ctx context.Context, runID string, result *model.RunResult, status model.RunStatus) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal result")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET result = $1, status = $2, updated_at = $3 WHERE id = $4`,
		string(resultJSON), string(status), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, source, status, result, created_at, updated_at FROM runs WHERE id = $1`,
		runID,
	)
	r, err := scanPgRun(row)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	return r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, source, status, result, created_at, updated_at FROM runs`
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.Status != "" {
		conds = append(conds, "status = "+arg(string(filter.Status)))
	}
	if filter.Source != "" {
		conds = append(conds, "source = "+arg(filter.Source))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + arg(filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanPgRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: list runs")
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs")
}

func (s *PostgresStore) SaveContacts(ctx context.Context, runID string, records []model.ContactRecord) (int, error) {
	saved := 0
	now := time.Now().UTC()
	for _, r := range records {
		if r.IdentityKey == "" {
			continue
		}
		recordJSON, err := json.Marshal(r)
		if err != nil {
			return 0, eris.Wrap(err, "postgres: marshal contact")
		}
		tag, err := s.pool.Exec(ctx,
			`INSERT INTO contacts (identity_key, run_id, record, created_at) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (identity_key) DO NOTHING`,
			strings.ToLower(r.IdentityKey), runID, string(recordJSON), now,
		)
		if err != nil {
			return 0, eris.Wrap(err, "postgres: insert contact")
		}
		saved += int(tag.RowsAffected())
	}
	return saved, nil
}

func (s *PostgresStore) SeenKeys(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT identity_key FROM contacts`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: seen keys")
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, eris.Wrap(err, "postgres: scan key")
		}
		keys = append(keys, k)
	}
	return keys, eris.Wrap(rows.Err(), "postgres: seen keys")
}

func (s *PostgresStore) Contacts(ctx context.Context, limit int) ([]model.ContactRecord, error) {
	query := `SELECT record FROM contacts ORDER BY created_at DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: contacts")
	}
	defer rows.Close()

	var records []model.ContactRecord
	for rows.Next() {
		var recordJSON []byte
		if err := rows.Scan(&recordJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan contact")
		}
		var r model.ContactRecord
		if err := json.Unmarshal(recordJSON, &r); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal contact")
		}
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "postgres: contacts")
}

func scanPgRun(row pgx.Row) (*model.Run, error) {
	var r model.Run
	var status string
	var resultJSON []byte

	err := row.Scan(&r.ID, &r.Source, &status, &resultJSON, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.New("run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "scan run")
	}
	r.Status = model.RunStatus(status)

	if len(resultJSON) > 0 {
		r.Result = &model.RunResult{}
		if err := json.Unmarshal(resultJSON, r.Result); err != nil {
			return nil, eris.Wrap(err, "unmarshal result")
		}
	}
	return &r, nil
}
