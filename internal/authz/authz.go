// Package authz holds the membership authorization rules. The functions are
// pure decisions over already-loaded identity state: callers load the
// requester, the target and the current membership facts from the repository
// for every request, then ask this package whether access is permitted.
package authz

import "github.com/google/uuid"

// Principal is the authenticated user a decision is made for.
type Principal struct {
	UserID    uuid.UUID
	Staff     bool
	Superuser bool
}

// IsAdmin reports whether the principal may use the admin user endpoints.
// Staff and superusers get full read/write access with no field-level
// restriction.
func (p Principal) IsAdmin() bool {
	return p.Staff || p.Superuser
}

// CanViewUser decides whether the principal may view the target user's
// record. Access is granted to the user themselves, to staff and superusers
// (administrative support bypass), and to co-members: users sharing at least
// one organisation with the target.
func CanViewUser(p Principal, targetID uuid.UUID, coMember bool) bool {
	if p.UserID == targetID {
		return true
	}
	if p.Superuser || p.Staff {
		return true
	}
	return coMember
}

// CanViewOrganisation decides whether the principal may view an
// organisation's detail record. Only members qualify; there is no staff
// bypass for organisation detail.
func CanViewOrganisation(_ Principal, isMember bool) bool {
	return isMember
}
