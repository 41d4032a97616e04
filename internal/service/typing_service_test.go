package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/markov9/courier/internal/domain"
)

func newTypingFixture() (*TypingService, *fakeUserRepo, *fakeThreadRepo, *fakeLedger) {
	users := newFakeUserRepo()
	threads := newFakeThreadRepo(users)
	ledger := newFakeLedger()
	return NewTypingService(ledger, threads), users, threads, ledger
}

func typingThread(t *testing.T, threads *fakeThreadRepo, a, b *domain.User) uuid.UUID {
	t.Helper()
	thread := &domain.Thread{ID: uuid.New(), CreatedAt: time.Now()}
	require.NoError(t, threads.CreateWithMembers(context.Background(), thread, a.ID, b.ID))
	return thread.ID
}

func TestTypingUpsertRequiresMembership(t *testing.T) {
	svc, users, threads, ledger := newTypingFixture()
	ctx := context.Background()

	alice := users.add("alice", "ext-alice")
	bob := users.add("bob", "ext-bob")
	carol := users.add("carol", "ext-carol")
	threadID := typingThread(t, threads, alice, bob)

	err := svc.Upsert(ctx, carol, threadID)
	require.ErrorIs(t, err, ErrNotThreadMember)
	require.False(t, ledger.has(threadID, carol.ID))
}

func TestTypingListRequiresMembership(t *testing.T) {
	svc, users, threads, _ := newTypingFixture()
	ctx := context.Background()

	alice := users.add("alice", "ext-alice")
	bob := users.add("bob", "ext-bob")
	carol := users.add("carol", "ext-carol")
	threadID := typingThread(t, threads, alice, bob)

	_, err := svc.List(ctx, carol.ID, threadID)
	require.ErrorIs(t, err, ErrNotThreadMember)
}

// The caller never sees their own marker; the other member does.
func TestTypingListExcludesSelf(t *testing.T) {
	svc, users, threads, _ := newTypingFixture()
	ctx := context.Background()

	alice := users.add("alice", "ext-alice")
	bob := users.add("bob", "ext-bob")
	threadID := typingThread(t, threads, alice, bob)

	require.NoError(t, svc.Upsert(ctx, alice, threadID))

	names, err := svc.List(ctx, alice.ID, threadID)
	require.NoError(t, err)
	require.Empty(t, names)

	names, err = svc.List(ctx, bob.ID, threadID)
	require.NoError(t, err)
	require.Equal(t, []string{"alice"}, names)
}

func TestTypingListSorted(t *testing.T) {
	svc, users, threads, ledger := newTypingFixture()
	ctx := context.Background()

	alice := users.add("alice", "ext-alice")
	bob := users.add("bob", "ext-bob")
	threadID := typingThread(t, threads, alice, bob)

	// A third marker planted directly in the ledger, as if from an
	// older membership.
	zed := users.add("zed", "ext-zed")
	require.NoError(t, ledger.Mark(ctx, threadID, zed.ID, "zed"))
	require.NoError(t, svc.Upsert(ctx, alice, threadID))

	names, err := svc.List(ctx, bob.ID, threadID)
	require.NoError(t, err)
	require.Equal(t, []string{"alice", "zed"}, names)
}
