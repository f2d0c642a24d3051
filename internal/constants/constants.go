package constants

const (
	// Context keys set by the auth middleware.
	ContextKeyUserID  = "user_id"
	ContextKeyIsAdmin = "is_admin"

	MinPasswordLength = 6

	// Pagination bounds for list endpoints.
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// ResetTokenTTLHours is how long a password reset link stays valid.
	ResetTokenTTLHours = 24
)
