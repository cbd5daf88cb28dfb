package models

import "time"

// Comment is a reply to a post. Comments are owned by exactly one post; the
// post id travels in the request path, not in the entity.
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Author    User      `json:"author"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
