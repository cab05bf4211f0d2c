// Package identity defines the demo user record synthesized at login.
package identity

import "time"

// Role is the access role attached to an identity.
type Role string

const (
	RoleTeacher Role = "teacher"
)

// DemoOrganization is the organization every synthesized identity belongs to.
const DemoOrganization = "Demo School"

// Identity is the demo user held by the session store.
type Identity struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	Organization string    `json:"organization"`
	Demo         bool      `json:"demo"`
	CreatedAt    time.Time `json:"created_at"`
}
