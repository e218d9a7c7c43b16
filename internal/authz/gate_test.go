package authz

import (
	"testing"

	"ironpress-terminal/internal/models"

	"github.com/stretchr/testify/assert"
)

func activeStore() *models.Store {
	return &models.Store{ID: "s1", Name: "Press & Go", IsActive: true}
}

func inactiveStore() *models.Store {
	reason := "payment overdue"
	return &models.Store{ID: "s1", Name: "Press & Go", IsActive: false, DeactivationReason: &reason}
}

func userWith(role models.Role) *models.User {
	return &models.User{ID: "u1", Name: "Asha", Email: "asha@shop.com", Role: role, StoreID: "s1"}
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		user     *models.User
		store    *models.Store
		required []models.Role
		want     Decision
	}{
		{
			name: "no principal redirects to login",
			want: RedirectLogin,
		},
		{
			name:     "unknown role is treated as unauthenticated",
			user:     &models.User{ID: "u1", Role: "INTERN"},
			store:    activeStore(),
			required: nil,
			want:     RedirectLogin,
		},
		{
			name:  "employee with active store allowed",
			user:  userWith(models.RoleEmployee),
			store: activeStore(),
			want:  Allow,
		},
		{
			name:     "employee lacking required role goes to dashboard",
			user:     userWith(models.RoleEmployee),
			store:    activeStore(),
			required: []models.Role{models.RoleAdmin},
			want:     RedirectDashboard,
		},
		{
			name:     "admin with required role allowed",
			user:     userWith(models.RoleAdmin),
			store:    activeStore(),
			required: []models.Role{models.RoleAdmin, models.RoleEmployee},
			want:     Allow,
		},
		{
			name:     "super admin ignores store state",
			user:     userWith(models.RoleSuperAdmin),
			store:    inactiveStore(),
			required: []models.Role{models.RoleSuperAdmin},
			want:     Allow,
		},
		{
			name:  "missing store does not lock out an admin",
			user:  userWith(models.RoleAdmin),
			store: nil,
			want:  Allow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Authorize(tt.user, tt.store, tt.required...))
		})
	}
}

// Deactivation wins over everything except a missing principal: whatever
// roles the page asks for, a non-super-admin with an inactive store lands
// on the lockout page.
func TestAuthorizeDeactivatedStoreAlwaysWins(t *testing.T) {
	roleSets := [][]models.Role{
		nil,
		{models.RoleAdmin},
		{models.RoleEmployee},
		{models.RoleSuperAdmin},
		{models.RoleAdmin, models.RoleEmployee, models.RoleSuperAdmin},
	}

	for _, role := range []models.Role{models.RoleAdmin, models.RoleEmployee} {
		for _, required := range roleSets {
			got := Authorize(userWith(role), inactiveStore(), required...)
			assert.Equalf(t, RedirectDeactivated, got, "role=%s required=%v", role, required)
		}
	}
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "ALLOW", Allow.String())
	assert.Equal(t, "REDIRECT_LOGIN", RedirectLogin.String())
	assert.Equal(t, "REDIRECT_DEACTIVATED", RedirectDeactivated.String())
	assert.Equal(t, "REDIRECT_DASHBOARD", RedirectDashboard.String())
}
