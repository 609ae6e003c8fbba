// internal/domain/models/roles.go
package models

import "strings"

// Role determines which portal (and dashboard) an account belongs to.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RolePatient  Role = "patient"
)

// AllRoles lists the portal roles in display order.
var AllRoles = []Role{RoleAdmin, RoleEmployee, RolePatient}

// ParseRole normalizes s and returns the matching Role.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleEmployee:
		return RoleEmployee, true
	case RolePatient:
		return RolePatient, true
	}
	return "", false
}

// Valid reports whether r is one of the portal roles.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// Label is the human-readable role name.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleEmployee:
		return "Employee"
	case RolePatient:
		return "Patient"
	}
	return string(r)
}

// Sex of a patient.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

// ParseSex normalizes s and returns the matching Sex.
func ParseSex(s string) (Sex, bool) {
	switch Sex(strings.ToLower(strings.TrimSpace(s))) {
	case SexMale:
		return SexMale, true
	case SexFemale:
		return SexFemale, true
	case SexOther:
		return SexOther, true
	}
	return "", false
}

// Patient age bounds (inclusive).
const (
	MinPatientAge = 0
	MaxPatientAge = 130
)
