// Package auth holds the learner account model and the roles the admin
// middleware checks.
package auth

import "time"

// Roles carried in the JWT role claim.
const (
	RoleLearner = "learner"
	RoleAdmin   = "admin"
)

// User is a learner account. PasswordHash is a bcrypt hash and never leaves
// the auth package.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	Role         string    `json:"role"`
	Timezone     string    `json:"timezone"`
	CreatedAt    time.Time `json:"created_at"`
}
