package reservation

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

func (r *PostgresRepo) Get(ctx context.Context, id string) (Reservation, error) {
	const query = `
		SELECT id, book_id, member_id, created_at, status
		FROM reservations
		WHERE id = $1
		LIMIT 1`

	var res Reservation
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(&res.ID, &res.BookID, &res.MemberID, &res.CreatedAt, &res.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Reservation{}, ErrNotFound
		}
		return Reservation{}, err
	}
	return res, nil
}

func (r *PostgresRepo) Create(ctx context.Context, res *Reservation) error {
	const sql = `
		INSERT INTO reservations (id, book_id, member_id, created_at, status)
		VALUES ($1, $2, $3, $4, $5)`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, sql, res.ID, res.BookID, res.MemberID, res.CreatedAt, res.Status)
	return err
}

// OldestPending orders on (created_at, id) so two reservations created in the
// same instant still fulfill deterministically.
func (r *PostgresRepo) OldestPending(ctx context.Context, bookID string) (Reservation, error) {
	const query = `
		SELECT id, book_id, member_id, created_at, status
		FROM reservations
		WHERE book_id = $1 AND status = 'PENDING'
		ORDER BY created_at ASC, id ASC
		LIMIT 1`

	var res Reservation
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, bookID).Scan(&res.ID, &res.BookID, &res.MemberID, &res.CreatedAt, &res.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Reservation{}, ErrNotFound
		}
		return Reservation{}, err
	}
	return res, nil
}

func (r *PostgresRepo) SetStatus(ctx context.Context, id string, status Status) (bool, error) {
	const sql = `UPDATE reservations SET status = $2 WHERE id = $1 AND status = 'PENDING'`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, sql, id, status)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepo) CountPending(ctx context.Context, memberID, bookID string) (int, error) {
	query := `SELECT COUNT(*) FROM reservations WHERE member_id = $1 AND status = 'PENDING'`
	args := []any{memberID}
	if bookID != "" {
		query += ` AND book_id = $2`
		args = append(args, bookID)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var n int
	err := r.db.QueryRow(timeoutCtx, query, args...).Scan(&n)
	return n, err
}

func (r *PostgresRepo) ListByMember(ctx context.Context, memberID string) ([]Reservation, error) {
	const query = `
		SELECT id, book_id, member_id, created_at, status
		FROM reservations
		WHERE member_id = $1
		ORDER BY created_at DESC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reservation
	for rows.Next() {
		var res Reservation
		if err := rows.Scan(&res.ID, &res.BookID, &res.MemberID, &res.CreatedAt, &res.Status); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) HasPendingByOther(ctx context.Context, bookID, memberID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE book_id = $1 AND member_id <> $2 AND status = 'PENDING'
		)`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var exists bool
	err := r.db.QueryRow(timeoutCtx, query, bookID, memberID).Scan(&exists)
	return exists, err
}
