package auth

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/olehluchkiv/gosummary/internal/llm"
	"github.com/olehluchkiv/gosummary/internal/logging"
	"github.com/olehluchkiv/gosummary/internal/summary"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "users.db"), logging.Discard())
	require.NoError(t, err)
	s.cost = bcrypt.MinCost
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRegisterAndAuthenticate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Register(ctx, "alice", "s3cret"))
	require.NoError(t, s.Authenticate(ctx, "alice", "s3cret"))
	require.NoError(t, s.Authenticate(ctx, "  alice ", "s3cret"))

	assert.True(t, errors.Is(s.Authenticate(ctx, "alice", "wrong"), ErrInvalidCredentials))
	assert.True(t, errors.Is(s.Authenticate(ctx, "bob", "s3cret"), ErrInvalidCredentials))
}

func TestRegister_Duplicate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Register(ctx, "alice", "one"))
	err := s.Register(ctx, "alice", "two")
	assert.True(t, errors.Is(err, ErrUserExists))

	// The original password still works.
	require.NoError(t, s.Authenticate(ctx, "alice", "one"))
}

func TestRegister_MissingFields(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	assert.True(t, errors.Is(s.Register(ctx, "", "pw"), ErrMissingCredentials))
	assert.True(t, errors.Is(s.Register(ctx, "  ", "pw"), ErrMissingCredentials))
	assert.True(t, errors.Is(s.Register(ctx, "alice", ""), ErrMissingCredentials))
	assert.True(t, errors.Is(s.Authenticate(ctx, "alice", ""), ErrMissingCredentials))
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.db")
	ctx := context.Background()

	s, err := Open(ctx, path, logging.Discard())
	require.NoError(t, err)
	s.cost = bcrypt.MinCost
	require.NoError(t, s.Register(ctx, "carol", "pw"))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path, logging.Discard())
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	require.NoError(t, s.Authenticate(ctx, "carol", "pw"))
}

func TestStore_PasswordsAreHashed(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Register(ctx, "dave", "plaintext"))

	var stored string
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT password FROM users WHERE username = ?`, "dave").Scan(&stored))
	assert.NotEqual(t, "plaintext", stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("plaintext")))
}

func TestSessions_Lifecycle(t *testing.T) {
	ss := NewSessions(0)

	sess := ss.Create()
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, summary.DefaultLanguage, sess.Language)
	assert.Equal(t, summary.DefaultLength, sess.Length)

	ok := ss.Update(sess.ID, func(s *Session) {
		s.Username = "alice"
		s.Authenticated = true
		s.Dark = true
		s.Language = "French"
		s.Summary = &summary.Summary{Text: "text"}
		s.Messages = append(s.Messages, llm.Message{Role: llm.RoleUser, Content: "q"})
		s.PDF = []byte("%PDF")
	})
	require.True(t, ok)

	got, ok := ss.Get(sess.ID)
	require.True(t, ok)
	assert.True(t, got.Authenticated)
	assert.Equal(t, "French", got.Language)
	assert.Len(t, got.Messages, 1)

	require.True(t, ss.Logout(sess.ID))
	got, ok = ss.Get(sess.ID)
	require.True(t, ok)
	assert.Equal(t, sess.ID, got.ID)
	assert.True(t, got.Dark, "theme preference survives logout")
	assert.False(t, got.Authenticated)
	assert.Empty(t, got.Username)
	assert.Nil(t, got.Summary)
	assert.Empty(t, got.Messages)
	assert.Nil(t, got.PDF)
	assert.Equal(t, summary.DefaultLanguage, got.Language)
}

func TestSessions_Rotate(t *testing.T) {
	ss := NewSessions(0)
	before := ss.Create()
	require.True(t, ss.Update(before.ID, func(s *Session) {
		s.Dark = true
		s.Language = "French"
	}))

	after, ok := ss.Rotate(before.ID, func(s *Session) {
		s.Authenticated = true
		s.Username = "alice"
		s.ID = "ignored"
	})
	require.True(t, ok)
	assert.NotEqual(t, before.ID, after.ID)
	assert.NotEqual(t, "ignored", after.ID)
	assert.True(t, after.Authenticated)
	assert.True(t, after.Dark, "theme carries over")
	assert.Equal(t, summary.DefaultLanguage, after.Language, "nothing else carries over")

	_, ok = ss.Get(before.ID)
	assert.False(t, ok, "old ID no longer resolves")
	got, ok := ss.Get(after.ID)
	require.True(t, ok)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, 1, ss.Len())
}

func TestSessions_Unknown(t *testing.T) {
	ss := NewSessions(0)
	_, ok := ss.Get("nope")
	assert.False(t, ok)
	assert.False(t, ss.Update("nope", func(*Session) {}))
	assert.False(t, ss.Logout("nope"))
	_, ok = ss.Rotate("nope", nil)
	assert.False(t, ok)
}

func TestSessions_Expiry(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	ss := NewSessions(time.Hour)
	ss.now = func() time.Time { return now }

	a := ss.Create()
	b := ss.Create()

	now = now.Add(50 * time.Minute)
	_, ok := ss.Get(a.ID) // refreshes a
	require.True(t, ok)

	now = now.Add(20 * time.Minute)
	assert.Equal(t, 1, ss.Sweep())
	_, ok = ss.Get(b.ID)
	assert.False(t, ok)
	_, ok = ss.Get(a.ID)
	assert.True(t, ok)
}

func TestSessions_Concurrent(t *testing.T) {
	ss := NewSessions(0)
	id := ss.Create().ID

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ss.Update(id, func(s *Session) {
				s.Messages = append(s.Messages, llm.Message{Role: llm.RoleUser, Content: "x"})
			})
			_, _ = ss.Get(id)
		}()
	}
	wg.Wait()

	got, _ := ss.Get(id)
	assert.Len(t, got.Messages, 50)
	assert.Equal(t, 1, ss.Len())
}
