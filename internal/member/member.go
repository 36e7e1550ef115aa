package member

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a member is not found.
var ErrNotFound = errors.New("member not found")

// Member represents a library member account. Credentials live with the
// identity provider; this record only carries profile data.
type Member struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
