package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/markov9/courier/internal/domain"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, thread_id, sender_id, content, attachment_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, query,
		msg.ID, msg.ThreadID, msg.SenderID, msg.Content, msg.AttachmentKey, msg.CreatedAt,
	)
	return err
}

func (r *MessageRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	query := `
		SELECT id, thread_id, sender_id, content, attachment_key, created_at
		FROM messages
		WHERE id = $1`
	var m domain.Message
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.ThreadID, &m.SenderID, &m.Content, &m.AttachmentKey, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &m, err
}

// ListByThread orders by (created_at, id) so list order always matches
// insertion order.
func (r *MessageRepo) ListByThread(ctx context.Context, threadID uuid.UUID) ([]domain.Message, error) {
	query := `
		SELECT m.id, m.thread_id, m.sender_id, m.content, m.attachment_key, m.created_at,
			u.username, u.image_url
		FROM messages m
		LEFT JOIN users u ON m.sender_id = u.id
		WHERE m.thread_id = $1
		ORDER BY m.created_at ASC, m.id ASC`

	rows, err := r.pool.Query(ctx, query, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		var username, imageURL *string
		if err := rows.Scan(
			&m.ID, &m.ThreadID, &m.SenderID, &m.Content, &m.AttachmentKey, &m.CreatedAt,
			&username, &imageURL,
		); err != nil {
			return nil, err
		}
		if username != nil {
			m.SenderUsername = *username
		}
		if imageURL != nil {
			m.SenderImageURL = *imageURL
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *MessageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	return err
}
