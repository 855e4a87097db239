package domain

import "time"

// User represents an account that can sign in.
// Only admins may mutate genres and bands.
type User struct {
	Syncable
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	LastLoginAt  time.Time `json:"last_login_at,omitzero"`
}

// Principal returns the identity used for authorization checks.
func (u *User) Principal() *Principal {
	return &Principal{UserID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}

// Principal is the authenticated caller of an operation.
// A nil *Principal means an anonymous caller.
type Principal struct {
	UserID   string
	Username string
	IsAdmin  bool
}

// Is reports whether p refers to the user with the given ID.
func (p *Principal) Is(userID string) bool {
	return p != nil && p.UserID == userID
}

// Session is a refresh-token session for a signed-in user.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"-"`
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	LastSeenAt       time.Time `json:"last_seen_at"`
	IPAddress        string    `json:"ip_address,omitempty"`
	UserAgent        string    `json:"user_agent,omitempty"`
}

// Touch updates the session's last seen timestamp.
func (s *Session) Touch() {
	s.LastSeenAt = time.Now()
}

// IsExpired reports whether the session is past its expiry at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
