package models

import "time"

// User represents a training account
// @Description User account structure
type User struct {
	ID               string    `json:"id" example:"9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"` // User ID
	Email            string    `json:"email" example:"user@example.com"`                  // User email
	FirstName        string    `json:"firstName" example:"John"`                          // User first name
	LastName         string    `json:"lastName" example:"Doe"`                            // User last name
	Credits          int       `json:"credits" example:"1000"`                            // Current credit balance
	LastRegeneration time.Time `json:"lastRegeneration"`                                  // Last daily credit regeneration
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
