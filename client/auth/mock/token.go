package mock

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Tenant   string `json:"tenant"`
}

func (b *Backend) loginHandler(w http.ResponseWriter, r *http.Request) {
	b.loginCalls.Add(1)
	var input credentials
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	account, ok := b.accounts.Get(input.Email)
	if !ok || account.Password != input.Password {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	b.writeAuthPayload(w, http.StatusOK, account)
}

func (b *Backend) registerHandler(w http.ResponseWriter, r *http.Request) {
	var input credentials
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Email == "" || input.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if _, ok := b.accounts.Get(input.Email); ok {
		writeError(w, http.StatusConflict, "Email already registered")
		return
	}
	slug := input.Tenant
	if slug == "" {
		slug = "acme"
	}
	account := &Account{ID: uuid.NewString(), Email: input.Email, Password: input.Password, Name: input.Name, TenantID: "t-" + slug, TenantSlug: slug}
	b.accounts.Put(account.Email, account)
	b.writeAuthPayload(w, http.StatusCreated, account)
}

func (b *Backend) refreshHandler(w http.ResponseWriter, r *http.Request) {
	b.refreshCalls.Add(1)
	if delay := time.Duration(b.refreshDelay.Load()); delay > 0 {
		time.Sleep(delay)
	}
	var input struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	email, ok := b.refreshTokens.Get(input.RefreshToken)
	if !ok || b.rejectRefresh.Load() {
		writeError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	account, ok := b.accounts.Get(email)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	accessToken, err := b.createAccessToken(account)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	refreshToken := input.RefreshToken
	if b.RotateRefresh {
		b.refreshTokens.Delete(refreshToken)
		refreshToken = b.issueRefreshToken(account)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"expiresIn":    int(b.AccessTTL.Seconds()),
		"sessionId":    uuid.NewString(),
	})
}

func (b *Backend) logoutHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		RefreshToken string `json:"refreshToken"`
	}
	_ = json.NewDecoder(r.Body).Decode(&input)
	if input.RefreshToken != "" {
		b.refreshTokens.Delete(input.RefreshToken)
	}
	writeEnvelope(w, http.StatusOK, nil, "Logged out")
}

func (b *Backend) meHandler(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	writeEnvelope(w, http.StatusOK, userView(account), "")
}

func (b *Backend) writeAuthPayload(w http.ResponseWriter, status int, account *Account) {
	accessToken, err := b.createAccessToken(account)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeEnvelope(w, status, map[string]interface{}{
		"accessToken":  accessToken,
		"refreshToken": b.issueRefreshToken(account),
		"expiresIn":    int(b.AccessTTL.Seconds()),
		"sessionId":    uuid.NewString(),
		"tenantId":     account.TenantID,
		"tenantSlug":   account.TenantSlug,
		"user":         userView(account),
	}, "")
}

func (b *Backend) issueRefreshToken(account *Account) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	b.refreshTokens.Put(token, account.Email)
	return token
}

func userView(account *Account) map[string]interface{} {
	return map[string]interface{}{
		"id":       account.ID,
		"email":    account.Email,
		"name":     account.Name,
		"tenantId": account.TenantID,
	}
}
