package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/deeplink-app/deeplink-go/models"
)

// CreateRoomInput is the request body for CreateChatRoom. Name is optional
// for direct rooms.
type CreateRoomInput struct {
	Name         string          `json:"name,omitempty"`
	Participants []int64         `json:"participants"`
	RoomType     models.RoomType `json:"room_type"`
}

// ListChatRooms fetches the rooms the current user participates in.
func (c *Client) ListChatRooms(ctx context.Context) ([]models.ChatRoom, error) {
	var out []models.ChatRoom
	if err := c.do(ctx, http.MethodGet, "/api/chat/rooms/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetChatRoom fetches one room by id.
func (c *Client) GetChatRoom(ctx context.Context, id int64) (*models.ChatRoom, error) {
	var out models.ChatRoom
	if err := c.do(ctx, http.MethodGet, "/api/chat/rooms/"+strconv.FormatInt(id, 10)+"/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMessages fetches a room's message history in server order.
func (c *Client) ListMessages(ctx context.Context, roomID int64) ([]models.Message, error) {
	var out []models.Message
	if err := c.do(ctx, http.MethodGet, "/api/chat/rooms/"+strconv.FormatInt(roomID, 10)+"/messages/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateChatRoom creates a room and returns the server's copy of it.
func (c *Client) CreateChatRoom(ctx context.Context, in CreateRoomInput) (*models.ChatRoom, error) {
	var out models.ChatRoom
	if err := c.do(ctx, http.MethodPost, "/api/chat/rooms/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
