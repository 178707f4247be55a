package entity

import (
	"slices"
	"time"
)

type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatarUrl"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Post carries a snapshot of the author's name and avatar taken when it was
// written. Likes is a set of user ids; Comments are newest first.
type Post struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatarUrl"`
	UserID    string    `json:"userId"`
	Likes     []string  `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p *Post) LikedBy(userID string) bool {
	return slices.Contains(p.Likes, userID)
}

// Comment returns the comment with the given id, or nil.
func (p *Post) Comment(id string) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return &p.Comments[i]
		}
	}
	return nil
}
