package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/markov9/courier/internal/domain"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Upsert(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, image_url, external_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (external_id)
		DO UPDATE SET username = EXCLUDED.username, image_url = EXCLUDED.image_url, updated_at = EXCLUDED.updated_at`
	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Username, user.ImageURL, user.ExternalID,
		user.CreatedAt, user.UpdatedAt,
	)
	return err
}

func (r *UserRepo) DeleteByExternalID(ctx context.Context, externalID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE external_id = $1`, externalID)
	return err
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT id, username, image_url, external_id, created_at, updated_at FROM users WHERE id = $1", id)
}

func (r *UserRepo) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT id, username, image_url, external_id, created_at, updated_at FROM users WHERE external_id = $1", externalID)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT id, username, image_url, external_id, created_at, updated_at FROM users WHERE username = $1", username)
}

func (r *UserRepo) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.ImageURL, &u.ExternalID,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &u, err
}
