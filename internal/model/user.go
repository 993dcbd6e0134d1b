package model

import (
	"fmt"
	"strings"
	"time"
)

// PrincipalType mirrors DAViCal's principal_type table.
type PrincipalType int

const (
	PrincipalPerson   PrincipalType = 1
	PrincipalResource PrincipalType = 2
	PrincipalGroup    PrincipalType = 3
)

func (t PrincipalType) String() string {
	switch t {
	case PrincipalPerson:
		return "person"
	case PrincipalResource:
		return "resource"
	case PrincipalGroup:
		return "group"
	default:
		return fmt.Sprintf("type-%d", int(t))
	}
}

// ParsePrincipalType accepts the names printed by String, case-insensitively.
func ParsePrincipalType(s string) (PrincipalType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "person", "user":
		return PrincipalPerson, nil
	case "resource":
		return PrincipalResource, nil
	case "group":
		return PrincipalGroup, nil
	default:
		return 0, fmt.Errorf("unknown principal type %q (want person, resource or group)", s)
	}
}

// User is a row of DAViCal's usr table joined with its principal.
// Resources and groups are users too; Type tells them apart.
type User struct {
	UserNo      int64         `json:"user_no" yaml:"user_no"`
	PrincipalID int64         `json:"principal_id" yaml:"principal_id"`
	Username    string        `json:"username" yaml:"username"`
	Fullname    string        `json:"fullname" yaml:"fullname"`
	Email       string        `json:"email" yaml:"email"`
	Active      bool          `json:"active" yaml:"active"`
	Type        PrincipalType `json:"type" yaml:"type"`
	Joined      time.Time     `json:"joined" yaml:"joined"`
	Updated     *time.Time    `json:"updated,omitempty" yaml:"updated,omitempty"`
	LastUsed    *time.Time    `json:"last_used,omitempty" yaml:"last_used,omitempty"`

	// Password is the stored password string; it is never rendered.
	Password string `json:"-" yaml:"-"`
}

// UserDetails is a user together with the rows that hang off it.
type UserDetails struct {
	User        User         `json:"user" yaml:"user"`
	Roles       []string     `json:"roles" yaml:"roles"`
	Groups      []User       `json:"groups" yaml:"groups"`
	Collections []Collection `json:"collections" yaml:"collections"`
}

// IsAdmin reports whether the Admin role is among Roles.
func (d UserDetails) IsAdmin() bool {
	for _, r := range d.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}

// RoleAdmin is the DAViCal role granting administrative rights.
const RoleAdmin = "Admin"
