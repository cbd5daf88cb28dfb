package api

import (
	"context"
	"net/http"

	"github.com/deeplink-app/deeplink-go/models"
)

// ListComments fetches the comments of a post in server order.
func (c *Client) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	var out []models.Comment
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+postID+"/comments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateComment adds a comment to a post.
func (c *Client) CreateComment(ctx context.Context, postID, content string) (*models.Comment, error) {
	body := struct {
		Content string `json:"content"`
	}{Content: content}
	var out models.Comment
	if err := c.do(ctx, http.MethodPost, "/api/posts/"+postID+"/comments", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteComment removes a comment. The server echoes the comment id, which
// callers already know, so the response body is discarded.
func (c *Client) DeleteComment(ctx context.Context, postID, commentID string) error {
	return c.do(ctx, http.MethodDelete, "/api/posts/"+postID+"/comments/"+commentID, nil, nil)
}

// LikeComment registers a like on a comment and returns the new count.
func (c *Client) LikeComment(ctx context.Context, commentID string) (*models.LikeResult, error) {
	var out models.LikeResult
	if err := c.do(ctx, http.MethodPost, "/api/comments/"+commentID+"/like", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
