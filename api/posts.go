package api

import (
	"context"
	"net/http"

	"github.com/deeplink-app/deeplink-go/models"
)

// CreatePostInput is the request body for CreatePost.
type CreatePostInput struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	CommunityID string `json:"communityId"`
}

// ListPosts fetches the global feed in server order.
func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	var out []models.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPost fetches a single post by id.
func (c *Client) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var out models.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCommunityPosts fetches the posts belonging to one community.
func (c *Client) ListCommunityPosts(ctx context.Context, communityID string) ([]models.Post, error) {
	var out []models.Post
	if err := c.do(ctx, http.MethodGet, "/api/communities/"+communityID+"/posts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePost creates a post and returns the server's copy of it.
func (c *Client) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	var out models.Post
	if err := c.do(ctx, http.MethodPost, "/api/posts", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LikePost registers the current user's like and returns the new count.
func (c *Client) LikePost(ctx context.Context, id string) (*models.LikeResult, error) {
	var out models.LikeResult
	if err := c.do(ctx, http.MethodPost, "/api/posts/"+id+"/like", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UnlikePost withdraws the current user's like and returns the new count.
func (c *Client) UnlikePost(ctx context.Context, id string) (*models.LikeResult, error) {
	var out models.LikeResult
	if err := c.do(ctx, http.MethodDelete, "/api/posts/"+id+"/like", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
