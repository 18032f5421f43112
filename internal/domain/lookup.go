package domain

import "time"

// Lookup is one profile request seen by the relay.
type Lookup struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	UserID    string    `json:"user_id,omitempty"`
	Success   bool      `json:"success"`
	CreatedAt time.Time `json:"created_at"`
}
