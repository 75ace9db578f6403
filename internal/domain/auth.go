package domain

// Principal is the verified identity attached to an authenticated request.
// It is built from token claims only.
type Principal struct {
	UserID  string
	Role    Role
	IsAdmin bool
}
