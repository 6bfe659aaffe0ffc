// Package authz decides whether a role may access a route.
//
// Matching is exact: there is no role hierarchy, so a route open to
// "admin" does not admit any other role implicitly.
package authz

import (
	"slices"
	"strings"
)

// Checker reports whether a role is permitted.
type Checker interface {
	Allows(role string) bool
}

// RoleSet is an immutable set of allowed roles. The zero value is the
// unrestricted set.
type RoleSet struct {
	roles map[string]struct{}
}

var _ Checker = RoleSet{}

// Roles builds a RoleSet from role values of any string-based type.
func Roles[R ~string](roles ...R) RoleSet {
	if len(roles) == 0 {
		return RoleSet{}
	}
	m := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		m[string(r)] = struct{}{}
	}
	return RoleSet{roles: m}
}

// Unrestricted reports whether the set places no role restriction.
func (s RoleSet) Unrestricted() bool { return len(s.roles) == 0 }

// Allows reports whether role is in the set. An unrestricted set allows
// every role, including the empty one.
func (s RoleSet) Allows(role string) bool {
	if s.Unrestricted() {
		return true
	}
	_, ok := s.roles[role]
	return ok
}

// List returns the roles in sorted order.
func (s RoleSet) List() []string {
	out := make([]string, 0, len(s.roles))
	for r := range s.roles {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// String implements fmt.Stringer.
func (s RoleSet) String() string {
	if s.Unrestricted() {
		return "*"
	}
	return strings.Join(s.List(), ",")
}
