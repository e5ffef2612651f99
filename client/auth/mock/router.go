package mock

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler routes requests to the mock endpoints.
func (b *Backend) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(b.recorder)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", b.loginHandler)
		r.Post("/register", b.registerHandler)
		r.Post("/refresh", b.refreshHandler)
		r.Post("/logout", b.logoutHandler)
		r.With(b.authenticate).Get("/me", b.meHandler)
	})
	r.Group(func(r chi.Router) {
		r.Use(b.authenticate)
		r.Get("/menus/tree", b.menuTreeHandler)
		r.Put("/roles/{id}/permissions", b.permissionsHandler)
		r.Post("/users/{id}/avatar", b.avatarHandler)
		r.Get("/{resource}", b.listHandler)
		r.Post("/{resource}", b.createHandler)
		r.Get("/{resource}/{id}", b.getHandler)
		r.Put("/{resource}/{id}", b.updateHandler)
		r.Delete("/{resource}/{id}", b.deleteHandler)
	})
	return r
}

func (b *Backend) recorder(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		next.ServeHTTP(w, r)
	})
}
