package models

import "time"

// Contact statuses
const (
	ContactStatusPending   = "pending"
	ContactStatusReviewed  = "reviewed"
	ContactStatusResponded = "responded"
)

// Contact is a message submitted through the public contact form.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
