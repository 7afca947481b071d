// Package repositories provides the PostgreSQL-backed persistence layer for
// extracted case records.
package repositories

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jurimetric/lexmeta/internal/infrastructure/monitoring/logging"
	"github.com/jurimetric/lexmeta/pkg/errors"
	"github.com/jurimetric/lexmeta/pkg/types/caselaw"
)

const uniqueViolation = "23505"

// CaseRecord is a persisted extraction result. A handful of fields are
// promoted to real columns so they can be filtered in SQL; the complete
// CaseMetadata document is kept alongside as JSONB.
type CaseRecord struct {
	ID         string
	SourcePath string
	Metadata   *caselaw.CaseMetadata
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ListFilter narrows List results. Zero-value fields are not applied.
type ListFilter struct {
	Court           string
	Jurisdiction    string
	PrevailingParty string
	Limit           int
	Offset          int
}

// CaseRepository stores and retrieves CaseRecords. All queries are
// parameterised and accept a context for cancellation.
type CaseRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewCaseRepository constructs a ready-to-use CaseRepository.
func NewCaseRepository(pool *pgxpool.Pool, logger logging.Logger) *CaseRepository {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CaseRepository{pool: pool, logger: logger.Named("case_repo")}
}

// ─────────────────────────────────────────────────────────────────────────────
// Save
// ─────────────────────────────────────────────────────────────────────────────

// Save inserts a new case record. When rec.ID is empty a fresh UUID is
// assigned. A duplicate non-empty citation maps to ErrCodeCaseAlreadyExists.
func (r *CaseRepository) Save(ctx context.Context, rec *CaseRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	} else if _, err := uuid.Parse(rec.ID); err != nil {
		return errors.New(errors.ErrCodeCaseInvalidID, "case id is not a valid UUID").WithDetail(rec.ID)
	}
	if rec.Metadata == nil {
		rec.Metadata = caselaw.NewCaseMetadata()
	}

	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	metaJSON, err := json.Marshal(rec.Metadata)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode case metadata")
	}

	m := rec.Metadata
	_, err = r.pool.Exec(ctx, `
		INSERT INTO cases (
			id, source_path, case_name, citation, date_filed, court,
			jurisdiction, disposition, prevailing_party, monetary_damages,
			metadata, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		rec.ID, rec.SourcePath, m.CaseName, nullable(m.Citation), nullable(m.DateFiled),
		nullable(m.CourtName), nullable(m.JurisdictionLevel), nullable(m.Disposition),
		nullable(m.PrevailingParty), m.MonetaryDamages,
		metaJSON, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return errors.New(errors.ErrCodeCaseAlreadyExists, "a case with this citation already exists").
				WithDetail(m.Citation)
		}
		r.logger.Error("insert case failed", logging.String("id", rec.ID), logging.Err(err))
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert case")
	}

	r.logger.Debug("case saved",
		logging.String("id", rec.ID),
		logging.String("citation", m.Citation))
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID / GetByCitation
// ─────────────────────────────────────────────────────────────────────────────

// GetByID loads a case record by primary key.
func (r *CaseRepository) GetByID(ctx context.Context, id string) (*CaseRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New(errors.ErrCodeCaseInvalidID, "case id is not a valid UUID").WithDetail(id)
	}

	return r.scanCase(r.pool.QueryRow(ctx, `
		SELECT id, source_path, metadata, created_at, updated_at
		FROM cases WHERE id = $1`, id))
}

// GetByCitation locates a case record by its reporter citation.
func (r *CaseRepository) GetByCitation(ctx context.Context, citation string) (*CaseRecord, error) {
	return r.scanCase(r.pool.QueryRow(ctx, `
		SELECT id, source_path, metadata, created_at, updated_at
		FROM cases WHERE citation = $1`, citation))
}

// ─────────────────────────────────────────────────────────────────────────────
// List — filtered listing, newest first
// ─────────────────────────────────────────────────────────────────────────────

// List returns case records matching the filter, ordered by creation time
// descending.
func (r *CaseRepository) List(ctx context.Context, filter ListFilter) ([]*CaseRecord, error) {
	var (
		conditions []string
		args       []interface{}
		argIdx     int
	)

	nextArg := func(v interface{}) string {
		argIdx++
		args = append(args, v)
		return fmt.Sprintf("$%d", argIdx)
	}

	if filter.Court != "" {
		conditions = append(conditions, fmt.Sprintf("court = %s", nextArg(filter.Court)))
	}
	if filter.Jurisdiction != "" {
		conditions = append(conditions, fmt.Sprintf("jurisdiction = %s", nextArg(filter.Jurisdiction)))
	}
	if filter.PrevailingParty != "" {
		conditions = append(conditions, fmt.Sprintf("prevailing_party = %s", nextArg(filter.PrevailingParty)))
	}

	query := "SELECT id, source_path, metadata, created_at, updated_at FROM cases"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += fmt.Sprintf(" LIMIT %s", nextArg(limit))
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %s", nextArg(filter.Offset))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("list cases failed", logging.Err(err))
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list cases")
	}
	defer rows.Close()

	var records []*CaseRecord
	for rows.Next() {
		rec, err := r.scanCase(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read case rows")
	}
	return records, nil
}

// Count returns the total number of stored cases.
func (r *CaseRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cases`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count cases")
	}
	return n, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete
// ─────────────────────────────────────────────────────────────────────────────

// Delete removes a case record by ID.
func (r *CaseRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New(errors.ErrCodeCaseInvalidID, "case id is not a valid UUID").WithDetail(id)
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM cases WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("delete case failed", logging.String("id", id), logging.Err(err))
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete case")
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.ErrCodeCaseNotFound, "case not found").WithDetail(id)
	}

	r.logger.Debug("case deleted", logging.String("id", id))
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// row mapping
// ─────────────────────────────────────────────────────────────────────────────

type scanner interface {
	Scan(dest ...interface{}) error
}

func (r *CaseRepository) scanCase(row scanner) (*CaseRecord, error) {
	var (
		rec      CaseRecord
		metaJSON []byte
	)
	err := row.Scan(&rec.ID, &rec.SourcePath, &metaJSON, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New(errors.ErrCodeCaseNotFound, "case not found")
		}
		r.logger.Error("scan case failed", logging.Err(err))
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan case row")
	}

	meta := caselaw.NewCaseMetadata()
	if err := json.Unmarshal(metaJSON, meta); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode case metadata")
	}
	rec.Metadata = meta
	return &rec, nil
}

// nullable maps an empty string to SQL NULL so partial extractions do not
// collide on unique columns.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
