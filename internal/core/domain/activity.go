package domain

import "time"

// ActivityKind names a mutating operation recorded in the activity trail.
type ActivityKind string

const (
	ActivityUserRegistered ActivityKind = "user_registered"
	ActivityProfileUpdated ActivityKind = "profile_updated"
	ActivityPostCreated    ActivityKind = "post_created"
	ActivityPostDeleted    ActivityKind = "post_deleted"
	ActivityPostLiked      ActivityKind = "post_liked"
	ActivityPostUnliked    ActivityKind = "post_unliked"
	ActivityCommentAdded   ActivityKind = "comment_added"
)

// Activity is an audit record of something a user did.
type Activity struct {
	ID         string       `json:"id"`
	Kind       ActivityKind `json:"kind"`
	UserID     int64        `json:"userId"`
	PostID     int64        `json:"postId,omitempty"`
	CommentID  int64        `json:"commentId,omitempty"`
	OccurredAt time.Time    `json:"occurredAt"`
}
