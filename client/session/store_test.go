package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCookies struct {
	err   error
	calls int
}

func (f *failingCookies) SyncAccessToken(token string) error {
	f.calls++
	return f.err
}

func fixedClock() time.Time {
	return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
}

func TestStore_SetAuthPayload(t *testing.T) {
	var testCases = []struct {
		description  string
		payload      *AuthPayload
		tenantSlug   string
		expectErr    error
		expectSlug   string
		expectExpiry time.Time
	}{
		{
			description:  "payload slug",
			payload:      &AuthPayload{AccessToken: "a1", RefreshToken: "r1", ExpiresIn: 60, TenantSlug: "acme", TenantID: "t1", User: User{"id": "u1"}},
			expectSlug:   "acme",
			expectExpiry: fixedClock().Add(time.Minute),
		},
		{
			description: "explicit slug wins",
			payload:     &AuthPayload{AccessToken: "a1", RefreshToken: "r1", TenantSlug: "acme"},
			tenantSlug:  "globex",
			expectSlug:  "globex",
		},
		{
			description: "missing refresh token",
			payload:     &AuthPayload{AccessToken: "a1"},
			expectErr:   ErrIncompleteTokens,
		},
		{
			description: "nil payload",
			expectErr:   ErrIncompleteTokens,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			store := New(WithClock(fixedClock))
			err := store.SetAuthPayload(testCase.payload, testCase.tenantSlug)
			if testCase.expectErr != nil {
				assert.ErrorIs(t, err, testCase.expectErr)
				assert.Equal(t, StatusIdle, store.State().Status)
				return
			}
			require.NoError(t, err)
			state := store.State()
			assert.Equal(t, StatusAuthenticated, state.Status)
			assert.True(t, state.Authenticated())
			assert.Equal(t, testCase.payload.AccessToken, state.AccessToken)
			assert.Equal(t, testCase.payload.RefreshToken, state.RefreshToken)
			assert.Equal(t, testCase.expectSlug, state.TenantSlug)
			assert.Equal(t, testCase.expectExpiry, state.ExpiresAt)
		})
	}
}

func TestStore_SetAuthPayloadKeepsUser(t *testing.T) {
	store := New()
	require.NoError(t, store.SetAuthPayload(&AuthPayload{AccessToken: "a1", RefreshToken: "r1", User: User{"id": "u1"}}, ""))
	require.NoError(t, store.SetAuthPayload(&AuthPayload{AccessToken: "a2", RefreshToken: "r1"}, ""))
	state := store.State()
	assert.Equal(t, "a2", state.AccessToken)
	assert.Equal(t, User{"id": "u1"}, state.User)
}

func TestStore_StateIsSnapshot(t *testing.T) {
	store := New()
	require.NoError(t, store.SetAuthPayload(&AuthPayload{AccessToken: "a1", RefreshToken: "r1", User: User{"name": "Ann"}}, ""))
	state := store.State()
	state.User["name"] = "Bob"
	state.AccessToken = "mutated"
	assert.Equal(t, "Ann", store.State().User["name"])
	assert.Equal(t, "a1", store.State().AccessToken)
}

func TestStore_UpdateUser(t *testing.T) {
	store := New()
	assert.ErrorIs(t, store.UpdateUser(User{"name": "Ann"}), ErrNotAuthenticated)

	require.NoError(t, store.SetAuthPayload(&AuthPayload{AccessToken: "a1", RefreshToken: "r1", User: User{"id": "u1", "name": "Ann"}}, ""))
	require.NoError(t, store.UpdateUser(User{"name": "Anna", "locale": "en"}))
	assert.Equal(t, User{"id": "u1", "name": "Anna", "locale": "en"}, store.State().User)
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	persister := NewMemoryPersister()
	store := New(WithPersister(persister))
	require.NoError(t, store.SetAuthPayload(&AuthPayload{AccessToken: "a1", RefreshToken: "r1", TenantID: "t1", TenantSlug: "acme", User: User{"id": "u1"}}, ""))

	require.NoError(t, store.Clear())
	once := store.State()
	require.NoError(t, store.Clear())
	twice := store.State()

	expected := Session{Status: StatusUnauthenticated}
	assert.Equal(t, expected, once)
	assert.Equal(t, expected, twice)
	persisted, err := persister.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, persisted)
}

func TestStore_RestoreAfterRestart(t *testing.T) {
	ctx := context.Background()
	location := filepath.Join(t.TempDir(), "session.json")

	first := New(WithPersister(NewFilePersister(location)))
	require.NoError(t, first.SetAuthPayload(&AuthPayload{AccessToken: "a1", RefreshToken: "r1", TenantSlug: "acme", User: User{"id": "u1"}}, ""))

	second := New(WithPersister(NewFilePersister(location)))
	assert.Equal(t, StatusIdle, second.State().Status)
	require.NoError(t, second.Restore(ctx))
	state := second.State()
	assert.Equal(t, StatusAuthenticated, state.Status)
	assert.Equal(t, "a1", state.AccessToken)
	assert.Equal(t, "r1", state.RefreshToken)
	assert.Equal(t, "acme", state.TenantSlug)
	assert.Equal(t, "u1", state.User["id"])

	require.NoError(t, second.Clear())
	third := New(WithPersister(NewFilePersister(location)))
	require.NoError(t, third.Restore(ctx))
	assert.Equal(t, StatusUnauthenticated, third.State().Status)
}

func TestStore_RestoreWithoutPersister(t *testing.T) {
	store := New()
	require.NoError(t, store.Restore(context.Background()))
	assert.Equal(t, StatusUnauthenticated, store.State().Status)
}

func TestStore_CookieFailureDoesNotDiverge(t *testing.T) {
	persister := NewMemoryPersister()
	cookies := &failingCookies{}
	store := New(WithPersister(persister), WithCookieSync(cookies))
	require.NoError(t, store.SetAuthPayload(&AuthPayload{AccessToken: "a1", RefreshToken: "r1"}, ""))

	cookies.err = errors.New("disk full")
	err := store.SetAuthPayload(&AuthPayload{AccessToken: "a2", RefreshToken: "r2"}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, cookies.err)

	assert.Equal(t, "a1", store.State().AccessToken)
	persisted, err := persister.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, "a1", persisted.AccessToken)
	assert.Equal(t, "r1", persisted.RefreshToken)
}

func TestStore_CookieSyncedWithToken(t *testing.T) {
	jar, err := NewFileJar(filepath.Join(t.TempDir(), "cookies.json"), "http://api.example.com/api")
	require.NoError(t, err)
	store := New(WithCookieSync(jar))

	require.NoError(t, store.SetAuthPayload(&AuthPayload{AccessToken: "a1", RefreshToken: "r1"}, ""))
	assert.Equal(t, "a1", jar.AccessToken())
	require.NoError(t, store.Clear())
	assert.Equal(t, "", jar.AccessToken())
}

type failingDelete struct {
	*MemoryPersister
	err error
}

func (f *failingDelete) Delete(ctx context.Context) error {
	return f.err
}

func TestStore_ClearSurvivesPersisterFailure(t *testing.T) {
	persister := &failingDelete{MemoryPersister: NewMemoryPersister(), err: errors.New("connection refused")}
	jar, err := NewFileJar(filepath.Join(t.TempDir(), "cookies.json"), "http://api.example.com/api")
	require.NoError(t, err)
	store := New(WithPersister(persister), WithCookieSync(jar))
	require.NoError(t, store.SetAuthPayload(&AuthPayload{AccessToken: "a1", RefreshToken: "r1", User: User{"id": "u1"}}, ""))

	err = store.Clear()
	assert.ErrorIs(t, err, persister.err)
	assert.Equal(t, Session{Status: StatusUnauthenticated}, store.State())
	assert.Equal(t, "", jar.AccessToken())
}

func TestStore_ClearSurvivesCookieFailure(t *testing.T) {
	persister := NewMemoryPersister()
	cookies := &failingCookies{}
	store := New(WithPersister(persister), WithCookieSync(cookies))
	require.NoError(t, store.SetAuthPayload(&AuthPayload{AccessToken: "a1", RefreshToken: "r1"}, ""))

	cookies.err = errors.New("read-only file system")
	err := store.Clear()
	assert.ErrorIs(t, err, cookies.err)
	assert.Equal(t, StatusUnauthenticated, store.State().Status)
	persisted, err := persister.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, persisted)
}

type blockingLoad struct {
	*MemoryPersister
	release chan struct{}
}

func (b *blockingLoad) Load(ctx context.Context) (*Session, error) {
	<-b.release
	return b.MemoryPersister.Load(ctx)
}

func TestStore_RestoreReportsLoading(t *testing.T) {
	memory := NewMemoryPersister()
	require.NoError(t, memory.Save(context.Background(), &Session{AccessToken: "a1", RefreshToken: "r1"}))
	persister := &blockingLoad{MemoryPersister: memory, release: make(chan struct{})}
	store := New(WithPersister(persister))

	done := make(chan error, 1)
	go func() { done <- store.Restore(context.Background()) }()
	require.Eventually(t, func() bool { return store.State().Status == StatusLoading }, time.Second, time.Millisecond)

	close(persister.release)
	require.NoError(t, <-done)
	state := store.State()
	assert.Equal(t, StatusAuthenticated, state.Status)
	assert.Equal(t, "a1", state.AccessToken)
}

func TestStore_WriteDuringRestoreWins(t *testing.T) {
	memory := NewMemoryPersister()
	require.NoError(t, memory.Save(context.Background(), &Session{AccessToken: "a1", RefreshToken: "r1"}))
	persister := &blockingLoad{MemoryPersister: memory, release: make(chan struct{})}
	store := New(WithPersister(persister))

	done := make(chan error, 1)
	go func() { done <- store.Restore(context.Background()) }()
	require.Eventually(t, func() bool { return store.State().Status == StatusLoading }, time.Second, time.Millisecond)

	require.NoError(t, store.SetAuthPayload(&AuthPayload{AccessToken: "a2", RefreshToken: "r2"}, ""))
	close(persister.release)
	require.NoError(t, <-done)
	assert.Equal(t, "a2", store.State().AccessToken)
}
