package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/recouvro/recouvro/pkg/apperrors"
	"github.com/recouvro/recouvro/pkg/observability"
)

const recoveryColumns = `id, kompass_id, client_name, payment_method, bank_name, edition_year,
	invoice_date, is_full_payment, amount_due, amount_paid, payment_total_amount,
	agent_name, payment_date, created_at, updated_at`

// Store owns recovery records in PostgreSQL. Writes to the same row are
// serialized by single-statement UPDATE/DELETE by id; last writer wins.
type Store struct {
	db      *sql.DB
	cache   *Cache
	metrics *observability.Metrics
	timeout time.Duration
}

// NewStore creates a ledger store. cache and metrics may be nil. Every store
// call carries a bounded timeout; expiry surfaces as ErrStoreUnavailable.
func NewStore(db *sql.DB, cache *Cache, metrics *observability.Metrics, timeout time.Duration) *Store {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Store{db: db, cache: cache, metrics: metrics, timeout: timeout}
}

// Create validates and inserts a new recovery. It never partially writes:
// validation completes before the single INSERT. The payment date defaults
// to the moment of creation.
func (s *Store) Create(ctx context.Context, params *CreateParams) (*Recovery, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	rec := &Recovery{
		ID:                 uuid.NewString(),
		KompassID:          strings.TrimSpace(params.KompassID),
		ClientName:         strings.TrimSpace(params.ClientName),
		PaymentMethod:      params.PaymentMethod,
		BankName:           strings.TrimSpace(params.BankName),
		EditionYear:        strings.TrimSpace(params.EditionYear),
		InvoiceDate:        params.InvoiceDate,
		IsFullPayment:      *params.IsFullPayment,
		AmountDue:          *params.AmountDue,
		AmountPaid:         *params.AmountPaid,
		PaymentTotalAmount: params.PaymentTotalAmount,
		AgentName:          strings.TrimSpace(params.AgentName),
	}
	if params.PaymentDate != nil {
		rec.PaymentDate = *params.PaymentDate
	} else {
		rec.PaymentDate = time.Now().UTC()
	}

	err := s.observe(ctx, "create_recovery", func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			INSERT INTO recoveries (
				id, kompass_id, client_name, payment_method, bank_name, edition_year,
				invoice_date, is_full_payment, amount_due, amount_paid,
				payment_total_amount, agent_name, payment_date, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
			RETURNING created_at, updated_at
		`, rec.ID, rec.KompassID, rec.ClientName, string(rec.PaymentMethod), rec.BankName,
			rec.EditionYear, rec.InvoiceDate, rec.IsFullPayment, rec.AmountDue,
			rec.AmountPaid, rec.PaymentTotalAmount, rec.AgentName, rec.PaymentDate,
		).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateCompany(ctx, rec.KompassID)
	return rec, nil
}

// GetByID fetches one recovery. A malformed id is InvalidInput, not
// NotFound.
func (s *Store) GetByID(ctx context.Context, id string) (*Recovery, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	if rec, ok := s.cache.GetRecovery(ctx, id); ok {
		return rec, nil
	}

	var rec *Recovery
	err := s.observe(ctx, "get_recovery", func(ctx context.Context) error {
		row := s.db.QueryRowContext(ctx, `
			SELECT `+recoveryColumns+`
			FROM recoveries WHERE id = $1
		`, id)
		var scanErr error
		rec, scanErr = scanRecovery(row)
		return scanErr
	})
	if err != nil {
		return nil, err
	}

	s.cache.SetRecovery(ctx, rec)
	return rec, nil
}

// List returns the full matching set, newest payment first. There is no
// pagination; result size grows with the ledger (documented limitation).
func (s *Store) List(ctx context.Context, filter Filter) ([]*Recovery, error) {
	query := `SELECT ` + recoveryColumns + ` FROM recoveries`
	var (
		clauses []string
		args    []interface{}
	)
	if filter.KompassID != "" {
		args = append(args, filter.KompassID)
		clauses = append(clauses, fmt.Sprintf("kompass_id = $%d", len(args)))
	}
	if filter.EditionYear != "" {
		args = append(args, filter.EditionYear)
		clauses = append(clauses, fmt.Sprintf("edition_year = $%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY payment_date DESC, created_at DESC"

	var out []*Recovery
	err := s.observe(ctx, "list_recoveries", func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			rec, err := scanRecovery(rows)
			if err != nil {
				return err
			}
			out = append(out, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	if out == nil {
		out = []*Recovery{}
	}
	return out, nil
}

// Update applies a presence-typed partial update: nil fields keep their
// previous value, non-nil fields replace it even when zero. The single
// UPDATE ... RETURNING is atomic per row.
func (s *Store) Update(ctx context.Context, id string, params *UpdateParams) (*Recovery, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.Empty() {
		return s.GetByID(ctx, id)
	}

	var (
		sets []string
		args []interface{}
	)
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.KompassID != nil {
		set("kompass_id", strings.TrimSpace(*params.KompassID))
	}
	if params.ClientName != nil {
		set("client_name", strings.TrimSpace(*params.ClientName))
	}
	if params.PaymentMethod != nil {
		set("payment_method", string(*params.PaymentMethod))
	}
	if params.BankName != nil {
		set("bank_name", strings.TrimSpace(*params.BankName))
	}
	if params.EditionYear != nil {
		set("edition_year", strings.TrimSpace(*params.EditionYear))
	}
	if params.InvoiceDate != nil {
		set("invoice_date", *params.InvoiceDate)
	}
	if params.IsFullPayment != nil {
		set("is_full_payment", *params.IsFullPayment)
	}
	if params.AmountDue != nil {
		set("amount_due", *params.AmountDue)
	}
	if params.AmountPaid != nil {
		set("amount_paid", *params.AmountPaid)
	}
	if params.PaymentTotalAmount != nil {
		set("payment_total_amount", *params.PaymentTotalAmount)
	}
	if params.AgentName != nil {
		set("agent_name", strings.TrimSpace(*params.AgentName))
	}
	if params.PaymentDate != nil {
		set("payment_date", *params.PaymentDate)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE recoveries SET %s WHERE id = $%d
		RETURNING `+recoveryColumns, strings.Join(sets, ", "), len(args))

	var rec *Recovery
	err := s.observe(ctx, "update_recovery", func(ctx context.Context) error {
		row := s.db.QueryRowContext(ctx, query, args...)
		var scanErr error
		rec, scanErr = scanRecovery(row)
		return scanErr
	})
	if err != nil {
		return nil, err
	}

	s.cache.DeleteRecovery(ctx, id)
	s.cache.InvalidateCompany(ctx, rec.KompassID)
	return rec, nil
}

// Delete removes a recovery. Deleting an absent id is NotFound, never a
// silent no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	var kompassID string
	err := s.observe(ctx, "delete_recovery", func(ctx context.Context) error {
		err := s.db.QueryRowContext(ctx, `
			DELETE FROM recoveries WHERE id = $1 RETURNING kompass_id
		`, id).Scan(&kompassID)
		return err
	})
	if err != nil {
		return err
	}

	s.cache.DeleteRecovery(ctx, id)
	s.cache.InvalidateCompany(ctx, kompassID)
	return nil
}

// EditionYears returns the distinct edition years recorded for a company,
// most recent first.
func (s *Store) EditionYears(ctx context.Context, kompassID string) ([]string, error) {
	if strings.TrimSpace(kompassID) == "" {
		return nil, apperrors.Required("kompassId")
	}

	if years, ok := s.cache.GetEditionYears(ctx, kompassID); ok {
		return years, nil
	}

	var years []string
	err := s.observe(ctx, "edition_years", func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT DISTINCT edition_year FROM recoveries
			WHERE kompass_id = $1
			ORDER BY edition_year DESC
		`, kompassID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var year string
			if err := rows.Scan(&year); err != nil {
				return err
			}
			years = append(years, year)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	years = distinctYearsDesc(years)
	s.cache.SetEditionYears(ctx, kompassID, years)
	return years, nil
}

// Count returns the total number of recovery records, used by the stats
// collector to refresh the tracked-recoveries gauge.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.observe(ctx, "count_recoveries", func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recoveries`).Scan(&count)
	})
	return count, err
}

// Migrate creates the recoveries table and its reporting index if missing.
func (s *Store) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS recoveries (
			id UUID PRIMARY KEY,
			kompass_id TEXT NOT NULL,
			client_name TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			bank_name TEXT NOT NULL,
			edition_year TEXT NOT NULL,
			invoice_date TIMESTAMPTZ,
			is_full_payment BOOLEAN NOT NULL DEFAULT FALSE,
			amount_due DOUBLE PRECISION NOT NULL CHECK (amount_due >= 0),
			amount_paid DOUBLE PRECISION NOT NULL CHECK (amount_paid >= 0),
			payment_total_amount DOUBLE PRECISION,
			agent_name TEXT NOT NULL,
			payment_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_recoveries_company_edition
			ON recoveries (kompass_id, edition_year)
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate recoveries table: %w", err)
	}
	return nil
}

// observe runs op with the bounded store timeout and records metrics.
func (s *Store) observe(ctx context.Context, name string, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := op(ctx)
	err = mapStoreError(err)
	if s.metrics != nil {
		s.metrics.ObserveStoreOperation(name, time.Since(start), err)
	}
	return err
}

func mapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return apperrors.ErrNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.ErrStoreUnavailable
	default:
		return fmt.Errorf("store operation failed: %w", err)
	}
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.Validation("id", "must be a valid recovery id")
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecovery(row rowScanner) (*Recovery, error) {
	rec := &Recovery{}
	var method string
	err := row.Scan(
		&rec.ID, &rec.KompassID, &rec.ClientName, &method, &rec.BankName,
		&rec.EditionYear, &rec.InvoiceDate, &rec.IsFullPayment, &rec.AmountDue,
		&rec.AmountPaid, &rec.PaymentTotalAmount, &rec.AgentName,
		&rec.PaymentDate, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.PaymentMethod = PaymentMethod(method)
	return rec, nil
}
