package mock

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/viant/tenantadmin/internal/collection"
)

// Record is a stored resource item.
type Record map[string]interface{}

var resourceNames = []string{"tenants", "users", "roles", "menus"}

type accountKey struct{}

func accountFrom(r *http.Request) *Account {
	account, _ := r.Context().Value(accountKey{}).(*Account)
	return account
}

// authenticate rejects requests without a valid, current access token.
func (b *Backend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		subject, err := b.verifyAccessToken(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		account := b.accountByID(subject)
		if account == nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if b.BeforeProtected != nil {
			b.BeforeProtected(r)
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), accountKey{}, account)))
	})
}

func (b *Backend) accountByID(id string) *Account {
	var ret *Account
	b.accounts.Range(func(_ string, account *Account) bool {
		if account.ID == id {
			ret = account
			return false
		}
		return true
	})
	return ret
}

func (b *Backend) store(r *http.Request) (*collection.SyncMap[string, Record], bool) {
	store, ok := b.resources[chi.URLParam(r, "resource")]
	return store, ok
}

func (b *Backend) listHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := b.store(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	items := collection.SortedValues(store, func(a, b string) bool { return a < b })
	if search := r.URL.Query().Get("search"); search != "" {
		var filtered []Record
		for _, item := range items {
			if name, _ := item["name"].(string); strings.Contains(strings.ToLower(name), strings.ToLower(search)) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}
	if items == nil {
		items = []Record{}
	}
	writeEnvelope(w, http.StatusOK, items, "")
}

func (b *Backend) getHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := b.store(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	item, ok := store.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	writeEnvelope(w, http.StatusOK, item, "")
}

func (b *Backend) createHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := b.store(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	item := Record{}
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if name, _ := item["name"].(string); name == "" {
		writeError(w, http.StatusUnprocessableEntity, "Name is required")
		return
	}
	item["id"] = uuid.NewString()
	if tenantID := r.Header.Get("x-tenant-id"); tenantID != "" {
		item["tenantId"] = tenantID
	}
	store.Put(item["id"].(string), item)
	writeEnvelope(w, http.StatusCreated, item, "Created")
}

func (b *Backend) updateHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := b.store(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	id := chi.URLParam(r, "id")
	item, ok := store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	patch := Record{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	updated := Record{}
	for k, v := range item {
		updated[k] = v
	}
	for k, v := range patch {
		updated[k] = v
	}
	updated["id"] = id
	store.Put(id, updated)
	writeEnvelope(w, http.StatusOK, updated, "Updated")
}

func (b *Backend) deleteHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := b.store(r)
	if !ok || !store.Delete(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	writeEnvelope(w, http.StatusOK, nil, "Deleted")
}

func (b *Backend) permissionsHandler(w http.ResponseWriter, r *http.Request) {
	store := b.resources["roles"]
	id := chi.URLParam(r, "id")
	item, ok := store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	var input struct {
		Permissions []string `json:"permissions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	updated := Record{}
	for k, v := range item {
		updated[k] = v
	}
	updated["permissions"] = input.Permissions
	store.Put(id, updated)
	writeEnvelope(w, http.StatusOK, updated, "")
}

func (b *Backend) menuTreeHandler(w http.ResponseWriter, r *http.Request) {
	items := collection.SortedValues(b.resources["menus"], func(a, b string) bool { return a < b })
	children := map[string][]Record{}
	var roots []Record
	for _, item := range items {
		node := Record{}
		for k, v := range item {
			node[k] = v
		}
		if parent, _ := item["parentId"].(string); parent != "" {
			children[parent] = append(children[parent], node)
			continue
		}
		roots = append(roots, node)
	}
	var attach func(nodes []Record)
	attach = func(nodes []Record) {
		for _, node := range nodes {
			if kids := children[node["id"].(string)]; len(kids) > 0 {
				attach(kids)
				node["children"] = kids
			}
		}
	}
	attach(roots)
	if roots == nil {
		roots = []Record{}
	}
	writeEnvelope(w, http.StatusOK, roots, "")
}

func (b *Backend) avatarHandler(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Avatar file is required")
		return
	}
	defer file.Close()
	size, _ := io.Copy(io.Discard, file)
	writeEnvelope(w, http.StatusOK, map[string]interface{}{
		"userId":      chi.URLParam(r, "id"),
		"fileName":    header.Filename,
		"contentType": header.Header.Get("Content-Type"),
		"size":        size,
		"caption":     r.FormValue("caption"),
	}, "")
}

func writeEnvelope(w http.ResponseWriter, status int, data interface{}, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": status < 400,
		"data":    data,
		"message": message,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
