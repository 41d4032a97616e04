package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/markov9/courier/internal/blob"
	"github.com/markov9/courier/internal/domain"
	"github.com/markov9/courier/internal/repository"
)

// In-memory fakes for the repository interfaces, the blob store and the
// typing ledger. Maps plus slices, no locking beyond what the
// fire-and-forget typing clear needs.

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) add(username, externalID string) *domain.User {
	u := &domain.User{
		ID:         uuid.New(),
		Username:   username,
		ImageURL:   "https://img.test/" + username + ".png",
		ExternalID: externalID,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) Upsert(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.ExternalID == user.ExternalID {
			u.Username = user.Username
			u.ImageURL = user.ImageURL
			u.UpdatedAt = user.UpdatedAt
			return nil
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) DeleteByExternalID(_ context.Context, externalID string) error {
	for id, u := range r.users {
		if u.ExternalID == externalID {
			delete(r.users, id)
			return nil
		}
	}
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByExternalID(_ context.Context, externalID string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ExternalID == externalID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeFriendshipRepo struct {
	users *fakeUserRepo
	rows  []*domain.Friendship
}

func newFakeFriendshipRepo(users *fakeUserRepo) *fakeFriendshipRepo {
	return &fakeFriendshipRepo{users: users}
}

func (r *fakeFriendshipRepo) Insert(_ context.Context, f *domain.Friendship) (bool, error) {
	for _, row := range r.rows {
		samePair := (row.User1ID == f.User1ID && row.User2ID == f.User2ID) ||
			(row.User1ID == f.User2ID && row.User2ID == f.User1ID)
		if samePair {
			return false, nil
		}
	}
	cp := *f
	r.rows = append(r.rows, &cp)
	return true, nil
}

func (r *fakeFriendshipRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Friendship, error) {
	for _, row := range r.rows {
		if row.ID == id {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeFriendshipRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.FriendshipStatus) (bool, error) {
	for _, row := range r.rows {
		if row.ID == id && row.Status == domain.FriendshipPending {
			row.Status = status
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFriendshipRepo) ListPendingForRecipient(_ context.Context, userID uuid.UUID) ([]repository.FriendshipJoin, error) {
	var joins []repository.FriendshipJoin
	for _, row := range r.rows {
		if row.User2ID == userID && row.Status == domain.FriendshipPending {
			joins = append(joins, repository.FriendshipJoin{
				Friendship: *row,
				User:       r.users.users[row.User1ID],
			})
		}
	}
	return joins, nil
}

func (r *fakeFriendshipRepo) ListAcceptedFor(_ context.Context, userID uuid.UUID) ([]repository.FriendshipJoin, error) {
	var joins []repository.FriendshipJoin
	for _, row := range r.rows {
		if row.Status != domain.FriendshipAccepted {
			continue
		}
		var otherID uuid.UUID
		switch userID {
		case row.User1ID:
			otherID = row.User2ID
		case row.User2ID:
			otherID = row.User1ID
		default:
			continue
		}
		joins = append(joins, repository.FriendshipJoin{
			Friendship: *row,
			User:       r.users.users[otherID],
		})
	}
	return joins, nil
}

type fakeThreadRepo struct {
	users   *fakeUserRepo
	threads map[uuid.UUID]*domain.Thread
	members map[uuid.UUID][]uuid.UUID
}

func newFakeThreadRepo(users *fakeUserRepo) *fakeThreadRepo {
	return &fakeThreadRepo{
		users:   users,
		threads: make(map[uuid.UUID]*domain.Thread),
		members: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *fakeThreadRepo) CreateWithMembers(_ context.Context, thread *domain.Thread, userA, userB uuid.UUID) error {
	cp := *thread
	r.threads[thread.ID] = &cp
	r.members[thread.ID] = []uuid.UUID{userA, userB}
	return nil
}

func (r *fakeThreadRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Thread, error) {
	if t, ok := r.threads[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeThreadRepo) SharedThread(_ context.Context, userA, userB uuid.UUID) (*domain.Thread, error) {
	for id, members := range r.members {
		if contains(members, userA) && contains(members, userB) {
			cp := *r.threads[id]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeThreadRepo) IsMember(_ context.Context, threadID, userID uuid.UUID) (bool, error) {
	return contains(r.members[threadID], userID), nil
}

func (r *fakeThreadRepo) OtherMember(_ context.Context, threadID, userID uuid.UUID) (*domain.ThreadMember, error) {
	for _, id := range r.members[threadID] {
		if id != userID {
			return &domain.ThreadMember{ID: uuid.New(), ThreadID: threadID, UserID: id}, nil
		}
	}
	return nil, nil
}

func (r *fakeThreadRepo) ListForUser(_ context.Context, userID uuid.UUID) ([]repository.ThreadJoin, error) {
	var joins []repository.ThreadJoin
	for id, members := range r.members {
		if !contains(members, userID) {
			continue
		}
		j := repository.ThreadJoin{Thread: *r.threads[id]}
		for _, m := range members {
			if m != userID {
				j.User = r.users.users[m]
			}
		}
		joins = append(joins, j)
	}
	return joins, nil
}

func contains(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type fakeMessageRepo struct {
	users *fakeUserRepo
	msgs  []*domain.Message
}

func newFakeMessageRepo(users *fakeUserRepo) *fakeMessageRepo {
	return &fakeMessageRepo{users: users}
}

func (r *fakeMessageRepo) Create(_ context.Context, msg *domain.Message) error {
	cp := *msg
	r.msgs = append(r.msgs, &cp)
	return nil
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Message, error) {
	for _, m := range r.msgs {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMessageRepo) ListByThread(_ context.Context, threadID uuid.UUID) ([]domain.Message, error) {
	var out []domain.Message
	for _, m := range r.msgs {
		if m.ThreadID != threadID {
			continue
		}
		cp := *m
		cp.SenderUsername = ""
		cp.SenderImageURL = ""
		if u, ok := r.users.users[m.SenderID]; ok {
			cp.SenderUsername = u.Username
			cp.SenderImageURL = u.ImageURL
		}
		out = append(out, cp)
	}
	return out, nil
}

func (r *fakeMessageRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, m := range r.msgs {
		if m.ID == id {
			r.msgs = append(r.msgs[:i], r.msgs[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeBlobStore struct {
	mu       sync.Mutex
	nextKey  int
	blobs    map[string]bool
	released []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string]bool)}
}

func (s *fakeBlobStore) GenerateUploadTarget(_ context.Context) (*blob.UploadTarget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextKey++
	key := fmt.Sprintf("blob-%d", s.nextKey)
	s.blobs[key] = true
	return &blob.UploadTarget{
		Key:       key,
		URL:       "https://blobs.test/upload/" + key,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}, nil
}

func (s *fakeBlobStore) ResolveReadURL(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.blobs[key] {
		return "", nil
	}
	return "https://blobs.test/read/" + key, nil
}

func (s *fakeBlobStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	s.released = append(s.released, key)
	return nil
}

type fakeLedger struct {
	mu      sync.Mutex
	markers map[string]string
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{markers: make(map[string]string)}
}

func ledgerKey(threadID, userID uuid.UUID) string {
	return threadID.String() + "/" + userID.String()
}

func (l *fakeLedger) Mark(_ context.Context, threadID, userID uuid.UUID, username string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.markers[ledgerKey(threadID, userID)] = username
	return nil
}

func (l *fakeLedger) Clear(_ context.Context, threadID, userID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.markers, ledgerKey(threadID, userID))
	return nil
}

func (l *fakeLedger) Active(_ context.Context, threadID uuid.UUID) (map[uuid.UUID]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	active := make(map[uuid.UUID]string)
	for key, username := range l.markers {
		if len(key) > 37 && key[:36] == threadID.String() {
			userID, err := uuid.Parse(key[37:])
			if err != nil {
				continue
			}
			active[userID] = username
		}
	}
	return active, nil
}

func (l *fakeLedger) has(threadID, userID uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.markers[ledgerKey(threadID, userID)]
	return ok
}
