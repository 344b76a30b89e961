package models

import "time"

// Role tags the two person variants. Dispatch is by tag, not by
// subtyping; Student and Instructor embed the same Person record.
type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleInstructor Role = "INSTRUCTOR"
)

// Person is the identity record shared by students and instructors.
type Person struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
