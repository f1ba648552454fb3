package entity

import "time"

type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Password      string    `json:"-"`
	Coins         int       `json:"coins"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	DMAccessUntil time.Time `json:"dm_access_until,omitempty"`
	LastClaim     time.Time `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"-"`
}

// DMActive reports whether the user's direct-message access has not expired.
// A zero expiry means access was never purchased.
func (u *User) DMActive(now time.Time) bool {
	return !u.DMAccessUntil.IsZero() && u.DMAccessUntil.After(now)
}
