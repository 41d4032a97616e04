package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/markov9/courier/internal/domain"
)

// GuestMessageRepo backs the legacy anonymous board.
type GuestMessageRepo struct {
	pool *pgxpool.Pool
}

func NewGuestMessageRepo(pool *pgxpool.Pool) *GuestMessageRepo {
	return &GuestMessageRepo{pool: pool}
}

func (r *GuestMessageRepo) Create(ctx context.Context, msg *domain.GuestMessage) error {
	query := `
		INSERT INTO guest_messages (id, sender, content, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.pool.Exec(ctx, query, msg.ID, msg.Sender, msg.Content, msg.CreatedAt)
	return err
}

func (r *GuestMessageRepo) List(ctx context.Context) ([]domain.GuestMessage, error) {
	query := `
		SELECT id, sender, content, created_at
		FROM guest_messages
		ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.GuestMessage
	for rows.Next() {
		var m domain.GuestMessage
		if err := rows.Scan(&m.ID, &m.Sender, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
