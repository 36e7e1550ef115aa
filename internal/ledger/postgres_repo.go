package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const recordColumns = `id, book_id, member_id, issued_date, due_date, return_date,
	copies_lent, fine_per_day, fine, renewals, status`

func scanRecord(row pgx.Row) (LendingRecord, error) {
	var rec LendingRecord
	err := row.Scan(
		&rec.ID, &rec.BookID, &rec.MemberID, &rec.IssuedDate, &rec.DueDate, &rec.ReturnDate,
		&rec.CopiesLent, &rec.FinePerDay, &rec.Fine, &rec.Renewals, &rec.Status,
	)
	return rec, err
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (LendingRecord, error) {
	const query = `SELECT ` + recordColumns + ` FROM lending_records WHERE id = $1 LIMIT 1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rec, err := scanRecord(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LendingRecord{}, ErrNotFound
		}
		return LendingRecord{}, err
	}
	return rec, nil
}

func (r *PostgresRepo) ListByMember(ctx context.Context, memberID string) ([]LendingRecord, error) {
	const query = `
		SELECT ` + recordColumns + `
		FROM lending_records
		WHERE member_id = $1
		ORDER BY issued_date DESC, id DESC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func (r *PostgresRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]LendingRecord, error) {
	const query = `
		SELECT ` + recordColumns + `
		FROM lending_records
		WHERE status = 'NOT_RETURNED' AND due_date < $1
		ORDER BY due_date ASC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func (r *PostgresRepo) ListDueBetween(ctx context.Context, from, to time.Time) ([]LendingRecord, error) {
	const query = `
		SELECT ` + recordColumns + `
		FROM lending_records
		WHERE status = 'NOT_RETURNED' AND due_date >= $1 AND due_date < $2
		ORDER BY due_date ASC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func collectRecords(rows pgx.Rows) ([]LendingRecord, error) {
	var out []LendingRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Insert(ctx context.Context, rec *LendingRecord) error {
	const sql = `
		INSERT INTO lending_records (id, book_id, member_id, issued_date, due_date,
		                             copies_lent, fine_per_day, fine, renewals, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, 0, $8)`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, sql,
		rec.ID, rec.BookID, rec.MemberID, rec.IssuedDate, rec.DueDate,
		rec.CopiesLent, rec.FinePerDay, rec.Status,
	)
	return err
}

func (r *PostgresRepo) MarkReturned(ctx context.Context, id string, returnedAt time.Time, fine int64) error {
	const sql = `
		UPDATE lending_records
		SET status = 'RETURNED', return_date = $2, fine = $3
		WHERE id = $1 AND status = 'NOT_RETURNED'`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, sql, id, returnedAt, fine)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.Get(ctx, id); getErr != nil {
			return getErr
		}
		return ErrAlreadyReturned
	}
	return nil
}

func (r *PostgresRepo) ExtendDue(ctx context.Context, id string, newDue time.Time) error {
	const sql = `
		UPDATE lending_records
		SET due_date = $2, renewals = renewals + 1
		WHERE id = $1 AND status = 'NOT_RETURNED'`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, sql, id, newDue)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.Get(ctx, id); getErr != nil {
			return getErr
		}
		return ErrAlreadyReturned
	}
	return nil
}

func (r *PostgresRepo) CountActiveByMember(ctx context.Context, memberID string) (int, error) {
	const query = `
		SELECT COUNT(*) FROM lending_records
		WHERE member_id = $1 AND status = 'NOT_RETURNED'`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var n int
	err := r.db.QueryRow(timeoutCtx, query, memberID).Scan(&n)
	return n, err
}
