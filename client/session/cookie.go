package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	neturl "net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultCookieName is the cookie carrying the bare access token.
const DefaultCookieName = "accessToken"

// CookieSync receives every access token change made by the Store.
// An empty token means the cookie must be removed.
type CookieSync interface {
	SyncAccessToken(token string) error
}

// FileJar is a cookiejar.Jar that persists its cookies to a JSON file and
// doubles as the access token side channel for one API origin.
type FileJar struct {
	mu     sync.RWMutex
	inner  *cookiejar.Jar
	path   string
	name   string
	origin *neturl.URL
	index  map[string]persistedCookie
}

type persistedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain"`
	Path     string    `json:"path"`
	Expires  time.Time `json:"expires"`
	Secure   bool      `json:"secure"`
	HttpOnly bool      `json:"httpOnly"`
}

type cookieSnapshot struct {
	Cookies []persistedCookie `json:"cookies"`
}

// JarOption configures a FileJar.
type JarOption func(*FileJar)

// WithCookieName overrides DefaultCookieName.
func WithCookieName(name string) JarOption {
	return func(j *FileJar) {
		if name != "" {
			j.name = name
		}
	}
}

// NewFileJar creates a jar persisted at path whose access token cookie is
// scoped to the origin of baseURL.
func NewFileJar(path, baseURL string, options ...JarOption) (*FileJar, error) {
	origin, err := neturl.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if origin.Host == "" {
		return nil, fmt.Errorf("base URL %q has no host", baseURL)
	}
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	j := &FileJar{
		inner:  inner,
		path:   path,
		name:   DefaultCookieName,
		origin: &neturl.URL{Scheme: origin.Scheme, Host: origin.Host, Path: "/"},
		index:  map[string]persistedCookie{},
	}
	for _, opt := range options {
		opt(j)
	}
	if err = j.load(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *FileJar) Cookies(u *neturl.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.inner.Cookies(u)
}

func (j *FileJar) SetCookies(u *neturl.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	_ = j.setCookies(u, cookies)
}

// SyncAccessToken writes the access token cookie, or expires it when token is empty.
func (j *FileJar) SyncAccessToken(token string) error {
	cookie := &http.Cookie{Name: j.name, Value: token, Path: "/"}
	if token == "" {
		cookie.MaxAge = -1
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.setCookies(j.origin, []*http.Cookie{cookie})
}

// AccessToken returns the token currently held by the side channel.
func (j *FileJar) AccessToken() string {
	for _, c := range j.Cookies(j.origin) {
		if c.Name == j.name {
			return c.Value
		}
	}
	return ""
}

func (j *FileJar) setCookies(u *neturl.URL, cookies []*http.Cookie) error {
	j.inner.SetCookies(u, cookies)
	now := time.Now()
	for _, c := range cookies {
		domain := strings.TrimPrefix(strings.TrimSpace(c.Domain), ".")
		if domain == "" {
			domain = u.Host
			if h, _, err := net.SplitHostPort(domain); err == nil && h != "" {
				domain = h
			}
		}
		path := c.Path
		if strings.TrimSpace(path) == "" {
			path = "/"
		}
		key := domain + "|" + path + "|" + c.Name
		if c.MaxAge < 0 || (!c.Expires.IsZero() && now.After(c.Expires)) {
			delete(j.index, key)
			continue
		}
		expires := c.Expires
		if c.MaxAge > 0 {
			expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		j.index[key] = persistedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   domain,
			Path:     path,
			Expires:  expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
	}
	return j.save()
}

func (j *FileJar) save() error {
	snap := cookieSnapshot{Cookies: make([]persistedCookie, 0, len(j.index))}
	for _, v := range j.index {
		snap.Cookies = append(snap.Cookies, v)
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return err
	}
	tmp := j.path + ".tmp"
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, j.path)
}

func (j *FileJar) load() error {
	data, err := os.ReadFile(j.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var snap cookieSnapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to decode cookie jar %s: %w", j.path, err)
	}
	now := time.Now()
	for _, pc := range snap.Cookies {
		if pc.Domain == "" || (!pc.Expires.IsZero() && now.After(pc.Expires)) {
			continue
		}
		scheme := "https"
		if !pc.Secure {
			scheme = "http"
		}
		u := &neturl.URL{Scheme: scheme, Host: pc.Domain, Path: pc.Path}
		j.inner.SetCookies(u, []*http.Cookie{{
			Name:     pc.Name,
			Value:    pc.Value,
			Path:     pc.Path,
			Expires:  pc.Expires,
			Secure:   pc.Secure,
			HttpOnly: pc.HttpOnly,
		}})
		j.index[pc.Domain+"|"+pc.Path+"|"+pc.Name] = pc
	}
	return nil
}
