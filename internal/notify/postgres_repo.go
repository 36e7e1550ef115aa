package notify

import (
	"context"
	"time"

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

func (r *PostgresRepo) Insert(ctx context.Context, n *Notification) error {
	const sql = `
		INSERT INTO notifications (id, member_id, kind, message, read, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, sql, n.ID, n.MemberID, n.Kind, n.Message, n.CreatedAt)
	return err
}

func (r *PostgresRepo) ListByMember(ctx context.Context, memberID string) ([]Notification, error) {
	const query = `
		SELECT id, member_id, kind, message, read, created_at
		FROM notifications
		WHERE member_id = $1
		ORDER BY read ASC, created_at DESC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.MemberID, &n.Kind, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) MarkRead(ctx context.Context, id, memberID string) error {
	const sql = `UPDATE notifications SET read = TRUE WHERE id = $1 AND member_id = $2`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, sql, id, memberID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) MarkAllRead(ctx context.Context, memberID string) error {
	const sql = `UPDATE notifications SET read = TRUE WHERE member_id = $1 AND read = FALSE`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, sql, memberID)
	return err
}
