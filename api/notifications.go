package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/deeplink-app/deeplink-go/models"
)

// ListNotifications fetches the current user's notifications, newest first.
func (c *Client) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	var out []models.Notification
	if err := c.do(ctx, http.MethodGet, "/api/notifications/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkNotificationRead flags one notification as read and returns the
// updated entity.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) (*models.Notification, error) {
	body := struct {
		IsRead bool `json:"is_read"`
	}{IsRead: true}
	var out models.Notification
	if err := c.do(ctx, http.MethodPatch, "/api/notifications/"+strconv.FormatInt(id, 10)+"/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkAllNotificationsRead flags every notification as read. The endpoint
// returns no body.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/notifications/mark-all-read/", nil, nil)
}
