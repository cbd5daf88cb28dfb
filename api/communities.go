package api

import (
	"context"
	"net/http"

	"github.com/deeplink-app/deeplink-go/models"
)

// CreateCommunityInput is the request body for CreateCommunity.
type CreateCommunityInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
}

// ListCommunities fetches all communities in server order.
func (c *Client) ListCommunities(ctx context.Context) ([]models.Community, error) {
	var out []models.Community
	if err := c.do(ctx, http.MethodGet, "/api/communities", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCommunity fetches a single community by id.
func (c *Client) GetCommunity(ctx context.Context, id string) (*models.Community, error) {
	var out models.Community
	if err := c.do(ctx, http.MethodGet, "/api/communities/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCommunity creates a community and returns the server's copy of it.
func (c *Client) CreateCommunity(ctx context.Context, in CreateCommunityInput) (*models.Community, error) {
	var out models.Community
	if err := c.do(ctx, http.MethodPost, "/api/communities", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// JoinCommunity adds the current user to a community.
func (c *Client) JoinCommunity(ctx context.Context, id string) (*models.JoinResult, error) {
	var out models.JoinResult
	if err := c.do(ctx, http.MethodPost, "/api/communities/"+id+"/join", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LeaveCommunity removes the current user from a community.
func (c *Client) LeaveCommunity(ctx context.Context, id string) (*models.JoinResult, error) {
	var out models.JoinResult
	if err := c.do(ctx, http.MethodDelete, "/api/communities/"+id+"/join", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
