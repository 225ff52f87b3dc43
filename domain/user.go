package domain

import "time"

// User represents a registered account. PasswordHash never leaves the
// process: it is excluded from every JSON rendering.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
