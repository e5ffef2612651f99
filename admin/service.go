package admin

import (
	"context"
	"net/http"

	"github.com/viant/tenantadmin/client/request"
	"github.com/viant/tenantadmin/client/session"
	"golang.org/x/sync/errgroup"
)

// Tenants manages tenants.
type Tenants struct {
	*Resource[Tenant]
}

// Users manages users of the current tenant.
type Users struct {
	*Resource[User]
}

// UploadAvatar sends content as the user's avatar picture.
func (u *Users) UploadAvatar(ctx context.Context, id, fileName, contentType string, content []byte, caption string) (*Avatar, error) {
	form := (&request.FormData{}).AddFile("avatar", fileName, contentType, content)
	if caption != "" {
		form.AddField("caption", caption)
	}
	return call[*Avatar](ctx, u.client, u.item(id)+"/avatar", request.WithMethod(http.MethodPost), request.WithForm(form))
}

// Roles manages roles of the current tenant.
type Roles struct {
	*Resource[Role]
}

// AssignPermissions replaces the permissions of a role.
func (r *Roles) AssignPermissions(ctx context.Context, id string, permissions []string) (*Role, error) {
	body := map[string][]string{"permissions": permissions}
	return call[*Role](ctx, r.client, r.item(id)+"/permissions", request.WithMethod(http.MethodPut), request.WithBody(body))
}

// Menus manages navigation menus.
type Menus struct {
	*Resource[Menu]
}

// Tree returns the menus nested under their parents.
func (m *Menus) Tree(ctx context.Context) ([]Menu, error) {
	return call[[]Menu](ctx, m.client, m.path+"/tree")
}

// Service bundles every admin service over one client.
type Service struct {
	Auth    *Auth
	Tenants *Tenants
	Users   *Users
	Roles   *Roles
	Menus   *Menus
}

// New creates the services. provider must be the session the client reads from.
func New(client Doer, provider session.Provider) *Service {
	return &Service{
		Auth:    NewAuth(client, provider),
		Tenants: &Tenants{NewResource[Tenant](client, "/tenants")},
		Users:   &Users{NewResource[User](client, "/users")},
		Roles:   &Roles{NewResource[Role](client, "/roles")},
		Menus:   &Menus{NewResource[Menu](client, "/menus")},
	}
}

// Overview loads the dashboard counters concurrently.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	ret := &Overview{}
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		items, err := s.Tenants.List(ctx, nil)
		ret.Tenants = len(items)
		return err
	})
	group.Go(func() error {
		items, err := s.Users.List(ctx, nil)
		ret.Users = len(items)
		return err
	})
	group.Go(func() error {
		items, err := s.Roles.List(ctx, nil)
		ret.Roles = len(items)
		return err
	})
	group.Go(func() error {
		items, err := s.Menus.List(ctx, nil)
		ret.Menus = len(items)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return ret, nil
}
