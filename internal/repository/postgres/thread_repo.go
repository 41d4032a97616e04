package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/markov9/courier/internal/domain"
	"github.com/markov9/courier/internal/repository"
)

type ThreadRepo struct {
	pool *pgxpool.Pool
}

func NewThreadRepo(pool *pgxpool.Pool) *ThreadRepo {
	return &ThreadRepo{pool: pool}
}

// CreateWithMembers writes the thread and both membership rows in one
// transaction; a thread is never observable with fewer than two members.
func (r *ThreadRepo) CreateWithMembers(ctx context.Context, thread *domain.Thread, userA, userB uuid.UUID) error {
	return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO threads (id, created_at) VALUES ($1, $2)`,
			thread.ID, thread.CreatedAt,
		); err != nil {
			return err
		}
		for _, userID := range []uuid.UUID{userA, userB} {
			if _, err := tx.Exec(ctx,
				`INSERT INTO thread_members (id, thread_id, user_id) VALUES ($1, $2, $3)`,
				uuid.New(), thread.ID, userID,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ThreadRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Thread, error) {
	var t domain.Thread
	err := r.pool.QueryRow(ctx,
		`SELECT id, created_at FROM threads WHERE id = $1`, id,
	).Scan(&t.ID, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &t, err
}

func (r *ThreadRepo) SharedThread(ctx context.Context, userA, userB uuid.UUID) (*domain.Thread, error) {
	query := `
		SELECT t.id, t.created_at
		FROM threads t
		JOIN thread_members m ON m.thread_id = t.id
		WHERE m.user_id IN ($1, $2)
		GROUP BY t.id, t.created_at
		HAVING COUNT(DISTINCT m.user_id) = 2
		LIMIT 1`
	var t domain.Thread
	err := r.pool.QueryRow(ctx, query, userA, userB).Scan(&t.ID, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &t, err
}

func (r *ThreadRepo) IsMember(ctx context.Context, threadID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM thread_members WHERE thread_id = $1 AND user_id = $2)`,
		threadID, userID,
	).Scan(&exists)
	return exists, err
}

func (r *ThreadRepo) OtherMember(ctx context.Context, threadID, userID uuid.UUID) (*domain.ThreadMember, error) {
	query := `
		SELECT id, thread_id, user_id
		FROM thread_members
		WHERE thread_id = $1 AND user_id <> $2
		LIMIT 1`
	var m domain.ThreadMember
	err := r.pool.QueryRow(ctx, query, threadID, userID).Scan(&m.ID, &m.ThreadID, &m.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &m, err
}

func (r *ThreadRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]repository.ThreadJoin, error) {
	query := `
		SELECT t.id, t.created_at,
			u.id, u.username, u.image_url, u.external_id, u.created_at, u.updated_at
		FROM threads t
		JOIN thread_members mine ON mine.thread_id = t.id AND mine.user_id = $1
		LEFT JOIN thread_members other ON other.thread_id = t.id AND other.user_id <> $1
		LEFT JOIN users u ON u.id = other.user_id
		ORDER BY t.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var joins []repository.ThreadJoin
	for rows.Next() {
		var j repository.ThreadJoin
		var u nullableUser
		if err := rows.Scan(
			&j.Thread.ID, &j.Thread.CreatedAt,
			&u.ID, &u.Username, &u.ImageURL, &u.ExternalID, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		j.User = u.toUser()
		joins = append(joins, j)
	}
	return joins, rows.Err()
}
