package domain

import "time"

// Post is a piece of content published by a user.
type Post struct {
	ID        int64
	UserID    int64
	Content   string
	ImageURL  string // data URI, empty when the post has no image
	CreatedAt time.Time

	// Author is populated by repository reads that join the owning user.
	Author *User
}

// Like marks that a user likes a post. At most one exists per (UserID, PostID).
type Like struct {
	ID        int64
	UserID    int64
	PostID    int64
	CreatedAt time.Time
}

// Comment is a short reply attached to a post.
type Comment struct {
	ID        int64
	PostID    int64
	UserID    int64
	Content   string
	CreatedAt time.Time

	Author *User
}
