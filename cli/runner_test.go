package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/tenantadmin/client/auth/mock"
	"github.com/viant/tenantadmin/client/request"
	"github.com/viant/tenantadmin/client/session"
)

type harness struct {
	backend *mock.Backend
	global  []string
}

func newHarness(t *testing.T) *harness {
	server, backend := mock.NewServer()
	t.Cleanup(server.Close)
	dir := t.TempDir()
	return &harness{
		backend: backend,
		global: []string{
			"-u", server.URL,
			"-s", filepath.Join(dir, "session.json"),
			"-j", filepath.Join(dir, "cookies.json"),
			"--env-file", filepath.Join(dir, "missing.env"),
			"-l", "error",
		},
	}
}

func (h *harness) run(args ...string) (string, error) {
	stdout := &bytes.Buffer{}
	err := Run(context.Background(), append(append([]string{}, h.global...), args...), stdout)
	return stdout.String(), err
}

func TestRun_LoginThenCommands(t *testing.T) {
	h := newHarness(t)

	output, err := h.run("login", "-m", mock.DefaultEmail, "-p", mock.DefaultPassword)
	require.NoError(t, err)
	login := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(output), &login))
	assert.Equal(t, "acme", login["tenant"])

	output, err = h.run("whoami")
	require.NoError(t, err)
	user := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(output), &user))
	assert.Equal(t, "Admin", user["name"])

	h.backend.Seed("tenants", mock.Record{"id": "t1", "name": "Acme"})
	h.backend.Seed("tenants", mock.Record{"id": "t2", "name": "Globex"})
	output, err = h.run("tenants", "-q", "glob")
	require.NoError(t, err)
	var tenants []map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &tenants))
	require.Len(t, tenants, 1)
	assert.Equal(t, "Globex", tenants[0]["name"])

	h.backend.ExpireAccessTokens()
	output, err = h.run("get", "/tenants", "-q", "search=acme")
	require.NoError(t, err)
	envelope := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(output), &envelope))
	assert.Equal(t, true, envelope["success"])
	assert.Len(t, envelope["data"], 1)
	assert.Equal(t, 1, h.backend.RefreshCalls())
	assert.Equal(t, 1, h.backend.LoginCalls())

	_, err = h.run("logout")
	require.NoError(t, err)
	_, err = h.run("whoami")
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestRun_Errors(t *testing.T) {
	h := newHarness(t)
	var testCases = []struct {
		description string
		args        []string
		expectAPI   int
	}{
		{description: "no command", args: nil},
		{description: "unknown command", args: []string{"deploy"}},
		{description: "missing password", args: []string{"login", "-m", mock.DefaultEmail}},
		{description: "wrong password", args: []string{"login", "-m", mock.DefaultEmail, "-p", "nope"}, expectAPI: http.StatusUnauthorized},
		{description: "get without path", args: []string{"get"}},
		{description: "malformed query", args: []string{"get", "/tenants", "-q", "search"}},
		{description: "anonymous request", args: []string{"get", "/tenants"}, expectAPI: http.StatusUnauthorized},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			_, err := h.run(testCase.args...)
			require.Error(t, err)
			if testCase.expectAPI != 0 {
				assert.True(t, request.IsStatus(err, testCase.expectAPI), err.Error())
			}
		})
	}
}

func TestRun_Help(t *testing.T) {
	stdout := &bytes.Buffer{}
	require.NoError(t, Run(context.Background(), []string{"--help"}, stdout))
	assert.Contains(t, stdout.String(), "tenantctl")
	assert.Contains(t, stdout.String(), "login")
}
