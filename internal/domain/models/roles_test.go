package models

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"admin", RoleAdmin, true},
		{" Employee ", RoleEmployee, true},
		{"PATIENT", RolePatient, true},
		{"superadmin", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRole(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseRole(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseSex(t *testing.T) {
	if s, ok := ParseSex("Female"); !ok || s != SexFemale {
		t.Errorf("ParseSex(Female) = (%q, %v)", s, ok)
	}
	if _, ok := ParseSex("unknown"); ok {
		t.Error("ParseSex(unknown) should fail")
	}
}

func TestAccountRole_NoProfile(t *testing.T) {
	a := Account{User: User{Username: "ghost"}}
	if _, ok := a.Role(); ok {
		t.Error("expected no role for account without profile")
	}
	if a.DisplayName() != "ghost" {
		t.Errorf("DisplayName = %q, want username fallback", a.DisplayName())
	}
}

func TestAccountRole_WithProfile(t *testing.T) {
	a := Account{Profile: &Profile{Role: RolePatient, FullName: "Jane Doe"}}
	role, ok := a.Role()
	if !ok || role != RolePatient {
		t.Errorf("Role() = (%q, %v), want (patient, true)", role, ok)
	}
	if a.DisplayName() != "Jane Doe" {
		t.Errorf("DisplayName = %q", a.DisplayName())
	}
}

func TestUserIsPrivileged(t *testing.T) {
	if (User{}).IsPrivileged() {
		t.Error("plain user should not be privileged")
	}
	if !(User{IsStaff: true}).IsPrivileged() {
		t.Error("staff user should be privileged")
	}
	if !(User{IsSuperuser: true}).IsPrivileged() {
		t.Error("superuser should be privileged")
	}
}
