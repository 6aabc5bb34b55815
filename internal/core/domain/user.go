package domain

import "time"

const (
	RoleAdmin  = "admin"
	RoleAgent  = "agent"
	RoleClient = "client"
	RoleGuest  = "guest"
)

const (
	AuthTypeEmail  = "email"
	AuthTypeGoogle = "google"
)

// ValidRole reports whether role is one of the four known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleAgent, RoleClient, RoleGuest:
		return true
	}
	return false
}

// User is the credential record linking an identity to a domain profile.
// PasswordHash is empty for Google-only accounts. ResetTokenHash holds a
// bcrypt hash of the one-time reset code, never the code itself.
type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	GoogleID        string    `json:"-"`
	PasswordHash    string    `json:"-"`
	Role            string    `json:"role"`
	EntityCode      string    `json:"entity_code,omitempty"`
	EntityName      string    `json:"entity_name,omitempty"`
	Avatar          string    `json:"avatar,omitempty"`
	AuthType        string    `json:"auth_type"`
	IsEmailVerified bool      `json:"is_email_verified"`
	ResetTokenHash  string    `json:"-"`
	ResetExpiresAt  time.Time `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// HasActiveResetCode reports whether a reset code is stored and not yet
// expired at the given instant.
func (u *User) HasActiveResetCode(now time.Time) bool {
	return u.ResetTokenHash != "" && now.Before(u.ResetExpiresAt)
}

// RedirectTarget returns the post-login landing path for the user's role.
func (u *User) RedirectTarget() string {
	switch u.Role {
	case RoleAdmin:
		return "/admin"
	case RoleAgent:
		return "/agent"
	case RoleClient:
		return "/client"
	default:
		return "/welcome"
	}
}
