package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name       string
		role       Role
		permission Permission
		want       bool
	}{
		{"admin manages users", RoleAdmin, PermissionManageUsers, true},
		{"admin edits data", RoleAdmin, PermissionEditData, true},
		{"admin views data", RoleAdmin, PermissionViewData, true},
		{"analyst cannot manage users", RoleAnalyst, PermissionManageUsers, false},
		{"analyst edits data", RoleAnalyst, PermissionEditData, true},
		{"analyst views data", RoleAnalyst, PermissionViewData, true},
		{"read-only cannot manage users", RoleReadOnly, PermissionManageUsers, false},
		{"read-only cannot edit data", RoleReadOnly, PermissionEditData, false},
		{"read-only views data", RoleReadOnly, PermissionViewData, true},
		{"unknown role has nothing", Role("superuser"), PermissionViewData, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{ID: "u1", Role: tt.role}
			assert.Equal(t, tt.want, HasPermission(user, tt.permission))
		})
	}
}

func TestHasPermissionNilUser(t *testing.T) {
	assert.False(t, HasPermission(nil, PermissionViewData))
	assert.False(t, HasPermission(nil, PermissionEditData))
	assert.False(t, HasPermission(nil, PermissionManageUsers))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleAnalyst.Valid())
	assert.True(t, RoleReadOnly.Valid())
	assert.False(t, Role("owner").Valid())
	assert.False(t, Role("").Valid())
}
