package admin

// Tenant is an isolated customer workspace.
type Tenant struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Slug   string `json:"slug,omitempty"`
	Domain string `json:"domain,omitempty"`
	Status string `json:"status,omitempty"`
}

// User is a dashboard account within a tenant.
type User struct {
	ID       string   `json:"id,omitempty"`
	Email    string   `json:"email,omitempty"`
	Name     string   `json:"name,omitempty"`
	TenantID string   `json:"tenantId,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	Blocked  bool     `json:"blocked,omitempty"`
}

// Role groups permissions granted to users.
type Role struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	TenantID    string   `json:"tenantId,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// Menu is a navigation entry; Children is only filled by Menus.Tree.
type Menu struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Path     string `json:"path,omitempty"`
	Icon     string `json:"icon,omitempty"`
	ParentID string `json:"parentId,omitempty"`
	Order    int    `json:"order,omitempty"`
	Children []Menu `json:"children,omitempty"`
}

// Avatar describes an uploaded user picture.
type Avatar struct {
	UserID      string `json:"userId"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Caption     string `json:"caption,omitempty"`
}

// Overview holds the dashboard counters.
type Overview struct {
	Tenants int `json:"tenants"`
	Users   int `json:"users"`
	Roles   int `json:"roles"`
	Menus   int `json:"menus"`
}
