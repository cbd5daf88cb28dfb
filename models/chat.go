package models

import "time"

// RoomType distinguishes one-to-one conversations from group rooms.
type RoomType string

const (
	RoomDirect RoomType = "direct"
	RoomGroup  RoomType = "group"
)

// ChatRoom is a conversation the current user participates in. Direct rooms
// typically have no name of their own.
type ChatRoom struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name,omitempty"`
	RoomType     RoomType  `json:"room_type"`
	Participants []UserRef `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Message is a single chat message, delivered either by the REST history
// endpoint or over the realtime channel.
type Message struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Sender    UserRef   `json:"sender"`
	Room      int64     `json:"room"`
	CreatedAt time.Time `json:"created_at"`
	IsRead    bool      `json:"is_read"`
}
