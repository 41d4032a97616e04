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

type FriendshipRepo struct {
	pool *pgxpool.Pool
}

func NewFriendshipRepo(pool *pgxpool.Pool) *FriendshipRepo {
	return &FriendshipRepo{pool: pool}
}

// Insert relies on the unique index over (least(user1_id, user2_id),
// greatest(user1_id, user2_id)), so two concurrent creates for the same
// pair cannot both succeed regardless of direction.
func (r *FriendshipRepo) Insert(ctx context.Context, f *domain.Friendship) (bool, error) {
	query := `
		INSERT INTO friendships (id, user1_id, user2_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (least(user1_id, user2_id), greatest(user1_id, user2_id))
		DO NOTHING`
	ct, err := r.pool.Exec(ctx, query, f.ID, f.User1ID, f.User2ID, f.Status, f.CreatedAt)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *FriendshipRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Friendship, error) {
	query := `
		SELECT id, user1_id, user2_id, status, created_at
		FROM friendships
		WHERE id = $1`
	var f domain.Friendship
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.User1ID, &f.User2ID, &f.Status, &f.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &f, err
}

// UpdateStatus only transitions rows still in pending, making the
// terminal-state rule atomic at the database.
func (r *FriendshipRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.FriendshipStatus) (bool, error) {
	query := `UPDATE friendships SET status = $2 WHERE id = $1 AND status = 'pending'`
	ct, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *FriendshipRepo) ListPendingForRecipient(ctx context.Context, userID uuid.UUID) ([]repository.FriendshipJoin, error) {
	query := `
		SELECT f.id, f.user1_id, f.user2_id, f.status, f.created_at,
			u.id, u.username, u.image_url, u.external_id, u.created_at, u.updated_at
		FROM friendships f
		LEFT JOIN users u ON f.user1_id = u.id
		WHERE f.user2_id = $1 AND f.status = 'pending'
		ORDER BY f.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFriendshipJoins(rows)
}

func (r *FriendshipRepo) ListAcceptedFor(ctx context.Context, userID uuid.UUID) ([]repository.FriendshipJoin, error) {
	query := `
		SELECT f.id, f.user1_id, f.user2_id, f.status, f.created_at,
			u.id, u.username, u.image_url, u.external_id, u.created_at, u.updated_at
		FROM friendships f
		LEFT JOIN users u
			ON u.id = CASE WHEN f.user1_id = $1 THEN f.user2_id ELSE f.user1_id END
		WHERE (f.user1_id = $1 OR f.user2_id = $1) AND f.status = 'accepted'
		ORDER BY f.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFriendshipJoins(rows)
}

func scanFriendshipJoins(rows pgx.Rows) ([]repository.FriendshipJoin, error) {
	var joins []repository.FriendshipJoin
	for rows.Next() {
		var j repository.FriendshipJoin
		var u nullableUser
		if err := rows.Scan(
			&j.Friendship.ID, &j.Friendship.User1ID, &j.Friendship.User2ID,
			&j.Friendship.Status, &j.Friendship.CreatedAt,
			&u.ID, &u.Username, &u.ImageURL, &u.ExternalID, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		j.User = u.toUser()
		joins = append(joins, j)
	}
	return joins, rows.Err()
}
