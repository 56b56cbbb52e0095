package domain

// Role determines which permission set a user holds within their tenant.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleAnalyst  Role = "analyst"
	RoleReadOnly Role = "read-only"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAnalyst, RoleReadOnly:
		return true
	}
	return false
}

// Permission is a coarse capability guarding an API surface.
type Permission string

const (
	PermissionManageUsers Permission = "manage_users"
	PermissionEditData    Permission = "edit_data"
	PermissionViewData    Permission = "view_data"
)

// rolePermissions is the single source of truth for the role model.
var rolePermissions = map[Role][]Permission{
	RoleAdmin:    {PermissionManageUsers, PermissionEditData, PermissionViewData},
	RoleAnalyst:  {PermissionEditData, PermissionViewData},
	RoleReadOnly: {PermissionViewData},
}

// HasPermission reports whether the user's role grants the permission.
// A nil user never has any permission.
func HasPermission(u *User, p Permission) bool {
	if u == nil {
		return false
	}
	for _, granted := range rolePermissions[u.Role] {
		if granted == p {
			return true
		}
	}
	return false
}

// RoleHasPermission is the claims-level variant of HasPermission, used where
// only the role is at hand (e.g. middleware).
func RoleHasPermission(r Role, p Permission) bool {
	return HasPermission(&User{Role: r}, p)
}

// User is the session-facing identity snapshot. TenantID always equals the
// domain portion of Email and Username its local part.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	TenantID string `json:"tenant_id"`
}

// UserRecord is the persisted catalog entry. The password hash stays inside
// the storage and service layers and is never returned by the API.
type UserRecord struct {
	User
	PasswordHash string `json:"password_hash"`
}
