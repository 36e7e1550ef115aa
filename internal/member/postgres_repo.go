package member

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

func (r *PostgresRepo) Get(ctx context.Context, id string) (Member, error) {
	const query = `
		SELECT id, name, email, role, created_at
		FROM members
		WHERE id = $1
		LIMIT 1
	`
	var m Member
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(&m.ID, &m.Name, &m.Email, &m.Role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Member{}, ErrNotFound
		}
		return Member{}, err
	}
	return m, nil
}

func (r *PostgresRepo) List(ctx context.Context, limit, offset int) ([]Member, int, error) {
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM members").Scan(&total); err != nil {
		return nil, 0, err
	}

	const query = `
		SELECT id, name, email, role, created_at
		FROM members
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`
	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Role, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) Create(ctx context.Context, m *Member) error {
	const sql = `
		INSERT INTO members (id, name, email, role, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, sql, m.ID, m.Name, m.Email, m.Role, m.CreatedAt)
	return err
}
