package mock

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/viant/tenantadmin/internal/collection"
)

// Account is a user allowed to log in.
type Account struct {
	ID         string
	Email      string
	Password   string
	Name       string
	TenantID   string
	TenantSlug string
}

// Backend is the mock admin API.
type Backend struct {
	Secret        []byte
	AccessTTL     time.Duration
	RotateRefresh bool

	accounts      *collection.SyncMap[string, *Account]
	refreshTokens *collection.SyncMap[string, string]
	resources     map[string]*collection.SyncMap[string, Record]

	generation    atomic.Int64
	refreshCalls  atomic.Int32
	loginCalls    atomic.Int32
	rejectRefresh atomic.Bool
	refreshDelay  atomic.Int64

	mux      sync.Mutex
	requests []*http.Request

	// BeforeProtected, when set, runs before every authenticated handler.
	BeforeProtected func(r *http.Request)
}

// Option configures a Backend.
type Option func(*Backend)

// WithAccount registers an account.
func WithAccount(account *Account) Option {
	return func(b *Backend) {
		if account.ID == "" {
			account.ID = uuid.NewString()
		}
		b.accounts.Put(account.Email, account)
	}
}

// WithRefreshRotation makes refresh return a new refresh token.
func WithRefreshRotation(rotate bool) Option {
	return func(b *Backend) {
		b.RotateRefresh = rotate
	}
}

// New creates a backend with a default admin account admin@acme.test / secret.
func New(options ...Option) *Backend {
	ret := &Backend{
		Secret:        []byte("mock-secret"),
		AccessTTL:     15 * time.Minute,
		accounts:      collection.NewSyncMap[string, *Account](),
		refreshTokens: collection.NewSyncMap[string, string](),
		resources:     map[string]*collection.SyncMap[string, Record]{},
	}
	for _, name := range resourceNames {
		ret.resources[name] = collection.NewSyncMap[string, Record]()
	}
	ret.accounts.Put(DefaultEmail, &Account{ID: "u-admin", Email: DefaultEmail, Password: DefaultPassword, Name: "Admin", TenantID: "t-acme", TenantSlug: "acme"})
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

const (
	DefaultEmail    = "admin@acme.test"
	DefaultPassword = "secret"
)

// NewServer starts an httptest server for the backend.
func NewServer(options ...Option) (*httptest.Server, *Backend) {
	backend := New(options...)
	return httptest.NewServer(backend.Handler()), backend
}

// ExpireAccessTokens invalidates every access token issued so far.
func (b *Backend) ExpireAccessTokens() {
	b.generation.Add(1)
}

// RejectRefresh makes the refresh endpoint answer 401.
func (b *Backend) RejectRefresh(reject bool) {
	b.rejectRefresh.Store(reject)
}

// SetRefreshDelay slows the refresh endpoint down.
func (b *Backend) SetRefreshDelay(delay time.Duration) {
	b.refreshDelay.Store(int64(delay))
}

// RefreshCalls returns the number of refresh endpoint calls.
func (b *Backend) RefreshCalls() int {
	return int(b.refreshCalls.Load())
}

// LoginCalls returns the number of login calls.
func (b *Backend) LoginCalls() int {
	return int(b.loginCalls.Load())
}

// Requests returns the requests received so far.
func (b *Backend) Requests() []*http.Request {
	b.mux.Lock()
	defer b.mux.Unlock()
	return append([]*http.Request(nil), b.requests...)
}

// LastRequest returns the most recent request, or nil.
func (b *Backend) LastRequest() *http.Request {
	b.mux.Lock()
	defer b.mux.Unlock()
	if len(b.requests) == 0 {
		return nil
	}
	return b.requests[len(b.requests)-1]
}

// Seed stores a record for resource under its "id" field.
func (b *Backend) Seed(resource string, record Record) {
	if store, ok := b.resources[resource]; ok {
		id, _ := record["id"].(string)
		if id == "" {
			id = uuid.NewString()
			record["id"] = id
		}
		store.Put(id, record)
	}
}

func (b *Backend) record(r *http.Request) {
	b.mux.Lock()
	defer b.mux.Unlock()
	b.requests = append(b.requests, r.Clone(r.Context()))
}
