package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSyncUpsertIsIdempotent(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewUserService(users)
	ctx := context.Background()

	require.NoError(t, svc.SyncUpsert(ctx, "ext-1", "alice", "https://img.test/a.png"))
	require.NoError(t, svc.SyncUpsert(ctx, "ext-1", "alice2", "https://img.test/a2.png"))

	u, err := svc.Resolve(ctx, "ext-1")
	require.NoError(t, err)
	require.NotNil(t, u)
	require.Equal(t, "alice2", u.Username)
	require.Equal(t, "https://img.test/a2.png", u.ImageURL)
	require.Len(t, users.users, 1)
}

func TestSyncDelete(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewUserService(users)
	ctx := context.Background()

	require.NoError(t, svc.SyncUpsert(ctx, "ext-1", "alice", ""))
	require.NoError(t, svc.SyncDelete(ctx, "ext-1"))

	u, err := svc.Resolve(ctx, "ext-1")
	require.NoError(t, err)
	require.Nil(t, u)

	// Deleting an unknown identity stays quiet.
	require.NoError(t, svc.SyncDelete(ctx, "ext-unknown"))
}
