package session

import (
	"net/http"
	neturl "net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileJar_SyncAccessToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jar", "cookies.json")
	jar, err := NewFileJar(path, "http://127.0.0.1:8080/api", WithCookieName("token"))
	require.NoError(t, err)

	require.NoError(t, jar.SyncAccessToken("t1"))
	assert.Equal(t, "t1", jar.AccessToken())

	reloaded, err := NewFileJar(path, "http://127.0.0.1:8080/api", WithCookieName("token"))
	require.NoError(t, err)
	assert.Equal(t, "t1", reloaded.AccessToken())
	cookies := reloaded.Cookies(&neturl.URL{Scheme: "http", Host: "127.0.0.1:8080", Path: "/api/tenants"})
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)

	require.NoError(t, reloaded.SyncAccessToken(""))
	assert.Equal(t, "", reloaded.AccessToken())
	again, err := NewFileJar(path, "http://127.0.0.1:8080/api", WithCookieName("token"))
	require.NoError(t, err)
	assert.Equal(t, "", again.AccessToken())
}

func TestFileJar_KeepsServerCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	jar, err := NewFileJar(path, "http://localhost:9000")
	require.NoError(t, err)
	u := &neturl.URL{Scheme: "http", Host: "localhost:9000", Path: "/"}
	jar.SetCookies(u, []*http.Cookie{{Name: "csrf", Value: "x1", Path: "/"}})
	require.NoError(t, jar.SyncAccessToken("t1"))

	reloaded, err := NewFileJar(path, "http://localhost:9000")
	require.NoError(t, err)
	names := map[string]string{}
	for _, c := range reloaded.Cookies(u) {
		names[c.Name] = c.Value
	}
	assert.Equal(t, map[string]string{"csrf": "x1", DefaultCookieName: "t1"}, names)
}

func TestNewFileJar_Errors(t *testing.T) {
	_, err := NewFileJar(filepath.Join(t.TempDir(), "c.json"), "/relative/only")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err = NewFileJar(path, "http://localhost")
	assert.Error(t, err)
}
