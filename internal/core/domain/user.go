package domain

import "time"

// Length bounds enforced before anything reaches the store.
const (
	MaxBioLength     = 500
	MaxPostLength    = 1000
	MaxCommentLength = 500
)

// User is a registered member of the network.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	PasswordHash   string    `json:"-"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profilePicture,omitempty"` // data URI
	CreatedAt      time.Time `json:"createdAt"`
}
