package domain

import "time"

// Store is a seller location products are associated with. PasswordHash, when
// present, backs store-admin verification and never leaves the server.
type Store struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Location     string    `json:"location,omitempty"`
	Category     string    `json:"category,omitempty"`
	Timing       string    `json:"timing,omitempty"`
	Mobile       string    `json:"mobile,omitempty"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
