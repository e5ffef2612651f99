package admin

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/viant/tenantadmin/client/request"
)

// Resource is a REST collection with the usual CRUD endpoints.
type Resource[T any] struct {
	client Doer
	path   string
}

// NewResource creates a resource rooted at path, e.g. "/tenants".
func NewResource[T any](client Doer, path string) *Resource[T] {
	return &Resource[T]{client: client, path: "/" + strings.Trim(path, "/")}
}

// Path returns the collection path.
func (r *Resource[T]) Path() string {
	return r.path
}

func (r *Resource[T]) item(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

// List returns the collection, filtered by query.
func (r *Resource[T]) List(ctx context.Context, query url.Values) ([]T, error) {
	return call[[]T](ctx, r.client, r.path, request.WithQuery(query))
}

func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	return call[*T](ctx, r.client, r.item(id))
}

func (r *Resource[T]) Create(ctx context.Context, input any) (*T, error) {
	return call[*T](ctx, r.client, r.path, request.WithMethod(http.MethodPost), request.WithBody(input))
}

func (r *Resource[T]) Update(ctx context.Context, id string, input any) (*T, error) {
	return call[*T](ctx, r.client, r.item(id), request.WithMethod(http.MethodPut), request.WithBody(input))
}

func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	_, err := call[any](ctx, r.client, r.item(id), request.WithMethod(http.MethodDelete))
	return err
}
