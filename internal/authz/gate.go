// Package authz is the route gate: given the current principal, their
// store, and the roles a page requires, it decides where the request goes.
// It is evaluated fresh on every navigation - store activation can change
// between requests, so decisions are never cached.
package authz

import (
	"ironpress-terminal/internal/models"
)

// Decision is the outcome of a gate check.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectDeactivated
	RedirectDashboard
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "ALLOW"
	case RedirectLogin:
		return "REDIRECT_LOGIN"
	case RedirectDeactivated:
		return "REDIRECT_DEACTIVATED"
	case RedirectDashboard:
		return "REDIRECT_DASHBOARD"
	}
	return "UNKNOWN"
}

// Authorize evaluates the gate rules in strict order, first match wins:
//
//  1. no authenticated principal            -> RedirectLogin
//  2. non-super-admin with deactivated store -> RedirectDeactivated
//  3. required roles set and role not in it  -> RedirectDashboard
//  4. otherwise                              -> Allow
func Authorize(user *models.User, store *models.Store, required ...models.Role) Decision {
	// A principal with a role outside the known set is treated as not
	// authenticated rather than guessed at.
	if user == nil || !user.Role.Valid() {
		return RedirectLogin
	}

	switch user.Role {
	case models.RoleSuperAdmin:
		// Super admins are not store-scoped; activation never locks them out.
	case models.RoleAdmin, models.RoleEmployee:
		if store != nil && !store.IsActive {
			return RedirectDeactivated
		}
	}

	if len(required) > 0 {
		allowed := false
		for _, r := range required {
			if user.Role == r {
				allowed = true
				break
			}
		}
		if !allowed {
			return RedirectDashboard
		}
	}

	return Allow
}
