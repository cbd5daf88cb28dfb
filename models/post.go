package models

import "time"

// CommunityRef is the lightweight community reference embedded in a post.
type CommunityRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Post is a community post as served by the posts API.
type Post struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Author    User         `json:"author"`
	Community CommunityRef `json:"community"`
	Likes     int          `json:"likes"`
	Comments  int          `json:"comments"`
	IsLiked   bool         `json:"isLiked"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// LikeResult is the payload returned by the like/unlike endpoints. Only the
// fields present here may be patched into cached posts.
type LikeResult struct {
	ID    string `json:"id"`
	Likes int    `json:"likes"`
}
