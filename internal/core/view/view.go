// Package view projects domain entities into the shapes returned to clients.
//
// Every outward-facing representation of a user goes through Profile, which
// has no field for the password hash.
package view

import (
	"sort"
	"time"

	"github.com/socialconnect/social-api/internal/core/domain"
)

// Profile is the public projection of a user.
type Profile struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profilePicture"`
}

// Comment is a comment together with its author's profile.
type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	User      Profile   `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

// Post is a post as seen by a particular viewer.
type Post struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	User      Profile   `json:"user"`
	Likes     int64     `json:"likes"`
	UserLiked bool      `json:"userLiked"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewProfile projects u. A nil user yields a zero Profile.
func NewProfile(u *domain.User) Profile {
	if u == nil {
		return Profile{}
	}
	return Profile{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
	}
}

// NewComment projects c using its joined author.
func NewComment(c *domain.Comment) Comment {
	return Comment{
		ID:        c.ID,
		Content:   c.Content,
		User:      NewProfile(c.Author),
		CreatedAt: c.CreatedAt,
	}
}

// NewComments projects cs and orders them newest first.
func NewComments(cs []*domain.Comment) []Comment {
	out := make([]Comment, 0, len(cs))
	for _, c := range cs {
		out = append(out, NewComment(c))
	}
	SortNewestFirst(out)
	return out
}

// NewPost assembles the viewer-relative view of p.
func NewPost(p *domain.Post, likes int64, userLiked bool, comments []*domain.Comment) Post {
	return Post{
		ID:        p.ID,
		Content:   p.Content,
		ImageURL:  p.ImageURL,
		User:      NewProfile(p.Author),
		Likes:     likes,
		UserLiked: userLiked,
		Comments:  NewComments(comments),
		CreatedAt: p.CreatedAt,
	}
}

// SortNewestFirst orders comments by creation time descending. Ties fall back
// to the higher id, which was inserted later.
func SortNewestFirst(cs []Comment) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].CreatedAt.Equal(cs[j].CreatedAt) {
			return cs[i].ID > cs[j].ID
		}
		return cs[i].CreatedAt.After(cs[j].CreatedAt)
	})
}
