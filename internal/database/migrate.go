package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate applies the schema. Dedup rules live in the database itself:
// the unordered-pair index on friendships and the (thread, user) index
// on memberships make check-then-insert races lose cleanly.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		image_url TEXT NOT NULL DEFAULT '',
		external_id TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS friendships (
		id UUID PRIMARY KEY,
		user1_id UUID NOT NULL,
		user2_id UUID NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS friendships_pair_idx
		ON friendships (least(user1_id, user2_id), greatest(user1_id, user2_id))`,
	`CREATE INDEX IF NOT EXISTS friendships_user2_status_idx
		ON friendships (user2_id, status)`,
	`CREATE INDEX IF NOT EXISTS friendships_user1_status_idx
		ON friendships (user1_id, status)`,
	`CREATE TABLE IF NOT EXISTS threads (
		id UUID PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS thread_members (
		id UUID PRIMARY KEY,
		thread_id UUID NOT NULL,
		user_id UUID NOT NULL,
		UNIQUE (thread_id, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS thread_members_user_idx
		ON thread_members (user_id)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY,
		thread_id UUID NOT NULL,
		sender_id UUID NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		attachment_key TEXT,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS messages_thread_idx
		ON messages (thread_id, created_at, id)`,
	`CREATE TABLE IF NOT EXISTS guest_messages (
		id UUID PRIMARY KEY,
		sender TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
}

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying migration: %w", err)
		}
	}
	return nil
}
