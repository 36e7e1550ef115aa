package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Book, int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.Category != "" {
		clauses = append(clauses, fmt.Sprintf("category = $%d", argn))
		args = append(args, q.Category)
		argn++
	}

	if q.AvailableOnly {
		clauses = append(clauses, "available_copies > 0")
	}

	if q.Q != "" {
		clauses = append(clauses, fmt.Sprintf("(isbn ILIKE $%d OR title ILIKE $%d OR author ILIKE $%d OR category ILIKE $%d)", argn, argn+1, argn+2, argn+3))
		pattern := "%" + q.Q + "%"
		args = append(args, pattern, pattern, pattern, pattern)
		argn += 4
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM books %s", where)
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf(`
		SELECT id, isbn, title, author, category, total_copies, available_copies,
		       fine_per_day, created_at, updated_at
		FROM books
		%s
		ORDER BY title ASC
		LIMIT $%d OFFSET $%d`,
		where, argn, argn+1)

	argsWithPage := append([]any{}, args...)
	argsWithPage = append(argsWithPage, q.Limit, q.Offset)
	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, argsWithPage...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(
			&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Category, &b.TotalCopies, &b.AvailableCopies,
			&b.FinePerDay, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Book, error) {
	const query = `
		SELECT id, isbn, title, author, category, total_copies, available_copies,
		       fine_per_day, created_at, updated_at
		FROM books
		WHERE id = $1
		LIMIT 1
	`
	var b Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(
		&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Category, &b.TotalCopies, &b.AvailableCopies,
		&b.FinePerDay, &b.CreatedAt, &b.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, book *Book) error {
	const sql = `
		INSERT INTO books (id, isbn, title, author, category, total_copies, available_copies,
		                   fine_per_day, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, sql,
		book.ID, book.ISBN, book.Title, book.Author, book.Category, book.TotalCopies,
		book.AvailableCopies, book.FinePerDay, book.CreatedAt, book.UpdatedAt,
	)
	return err
}

// AdjustAvailable guards the copy-count bounds in the UPDATE itself, so the
// database refuses the write even if a caller bypasses the per-book lock.
func (r *PostgresRepo) AdjustAvailable(ctx context.Context, id string, delta int) (int, error) {
	const sql = `
		UPDATE books
		SET available_copies = available_copies + $2, updated_at = NOW()
		WHERE id = $1
		  AND available_copies + $2 >= 0
		  AND available_copies + $2 <= total_copies
		RETURNING available_copies`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var available int
	err := r.db.QueryRow(timeoutCtx, sql, id, delta).Scan(&available)
	if err == nil {
		return available, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	// The guarded UPDATE matched nothing: either the book does not exist
	// or the delta would break the bounds.
	if _, getErr := r.Get(ctx, id); getErr != nil {
		return 0, getErr
	}
	if delta < 0 {
		return 0, ErrCopiesExhausted
	}
	return 0, ErrCopiesOverflow
}
