package stub

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"realtyref/pkg/domain"
	"realtyref/pkg/platform/sentinel"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS stub_records (
    id            TEXT        NOT NULL,
    collection    TEXT        NOT NULL,
    role          TEXT        NOT NULL DEFAULT '',
    mobile        TEXT        NOT NULL DEFAULT '',
    password_hash BYTEA,
    referral_code TEXT        NOT NULL DEFAULT '',
    referred_by   TEXT        NOT NULL DEFAULT '',
    fields        JSONB       NOT NULL DEFAULT '{}',
    created_at    TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (collection, id)
);
CREATE UNIQUE INDEX IF NOT EXISTS stub_records_mobile_uq
    ON stub_records (collection, mobile) WHERE mobile <> '';
CREATE INDEX IF NOT EXISTS stub_records_referred_by_idx
    ON stub_records (collection, referred_by);`

// uniqueViolation is the Postgres SQLSTATE for a unique index hit.
const uniqueViolation = "23505"

// PostgresStore persists records in PostgreSQL through lib/pq.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the table and indexes if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("migrate stub schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, r *Record) error {
	fields, err := json.Marshal(r.Fields)
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO stub_records
		    (id, collection, role, mobile, password_hash, referral_code, referred_by, fields, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		r.ID, string(r.Collection), string(r.Role), r.Mobile, r.PasswordHash,
		r.ReferralCode, r.ReferredBy, fields, r.CreatedAt, r.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

const selectColumns = `id, collection, role, mobile, password_hash, referral_code, referred_by, fields, created_at, updated_at`

func (s *PostgresStore) Get(ctx context.Context, c domain.Collection, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM stub_records WHERE collection = $1 AND id = $2`,
		string(c), id)
	return scanRecord(row)
}

func (s *PostgresStore) FindByMobile(ctx context.Context, c domain.Collection, mobile string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM stub_records WHERE collection = $1 AND mobile = $2`,
		string(c), mobile)
	return scanRecord(row)
}

func (s *PostgresStore) List(ctx context.Context, c domain.Collection, f ListFilter) ([]*Record, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if len(f.ReferredBy) == 0 {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+selectColumns+` FROM stub_records WHERE collection = $1 ORDER BY created_at, id`,
			string(c))
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+selectColumns+` FROM stub_records
			 WHERE collection = $1 AND referred_by = ANY($2) AND referred_by <> ''
			 ORDER BY created_at, id`,
			string(c), pq.Array(f.ReferredBy))
	}
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Replace(ctx context.Context, r *Record) error {
	fields, err := json.Marshal(r.Fields)
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE stub_records
		SET role = $3, mobile = $4, password_hash = $5, referral_code = $6,
		    referred_by = $7, fields = $8, updated_at = $9
		WHERE collection = $1 AND id = $2`,
		string(r.Collection), r.ID, string(r.Role), r.Mobile, r.PasswordHash,
		r.ReferralCode, r.ReferredBy, fields, r.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return requireOneRow(res)
}

func (s *PostgresStore) Delete(ctx context.Context, c domain.Collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM stub_records WHERE collection = $1 AND id = $2`, string(c), id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return requireOneRow(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		r          Record
		collection string
		role       string
		fields     []byte
	)
	err := row.Scan(&r.ID, &collection, &role, &r.Mobile, &r.PasswordHash,
		&r.ReferralCode, &r.ReferredBy, &fields, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan record: %w", err)
	}
	r.Collection = domain.Collection(collection)
	r.Role = domain.Role(role)
	if err := json.Unmarshal(fields, &r.Fields); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	return &r, nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
