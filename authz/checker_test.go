package authz

import "testing"

type role string

func TestRoleSet_ExactMatch(t *testing.T) {
	admins := Roles[role]("admin")

	tests := []struct {
		role string
		want bool
	}{
		{"admin", true},
		{"therapist", false},
		{"Admin", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := admins.Allows(tt.role); got != tt.want {
			t.Errorf("Allows(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestRoleSet_Unrestricted(t *testing.T) {
	for name, s := range map[string]RoleSet{"zero": {}, "empty": Roles[string]()} {
		if !s.Unrestricted() {
			t.Errorf("%s: expected unrestricted", name)
		}
		if !s.Allows("therapist") || !s.Allows("") {
			t.Errorf("%s: unrestricted set should allow any role", name)
		}
	}
}

func TestRoleSet_MultipleRoles(t *testing.T) {
	s := Roles("therapist", "admin")
	if !s.Allows("therapist") || !s.Allows("admin") {
		t.Error("expected both roles allowed")
	}
	if s.String() != "admin,therapist" {
		t.Errorf("String() = %q", s.String())
	}
	if (RoleSet{}).String() != "*" {
		t.Error("expected * for unrestricted set")
	}
}
