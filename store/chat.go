package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/deeplink-app/deeplink-go/api"
	"github.com/deeplink-app/deeplink-go/models"
)

// ChatSlice caches the room list, the open room, its message history, and
// who is currently typing. Messages arrive both from the REST history
// endpoint and from the realtime channel via Append.
type ChatSlice struct {
	api    *api.Client
	log    *zap.Logger
	notify func()

	mu       sync.Mutex
	rooms    []models.ChatRoom
	current  *models.ChatRoom
	messages []models.Message
	typing   map[string]bool
	loading  bool
	errMsg   string
}

// ChatState is a read-only copy of the slice.
type ChatState struct {
	Rooms    []models.ChatRoom
	Current  *models.ChatRoom
	Messages []models.Message
	Typing   map[string]bool
	Loading  bool
	Error    string
}

// Snapshot returns a copy safe to read without further synchronization.
func (s *ChatSlice) Snapshot() ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := ChatState{
		Rooms:    append([]models.ChatRoom(nil), s.rooms...),
		Messages: append([]models.Message(nil), s.messages...),
		Typing:   make(map[string]bool, len(s.typing)),
		Loading:  s.loading,
		Error:    s.errMsg,
	}
	for k, v := range s.typing {
		st.Typing[k] = v
	}
	if s.current != nil {
		cp := *s.current
		st.Current = &cp
	}
	return st
}

func (s *ChatSlice) begin() {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
}

func (s *ChatSlice) fail(msg string, cause error) {
	s.mu.Lock()
	s.loading = false
	s.errMsg = msg
	s.mu.Unlock()
	s.log.Warn("chat operation failed", zap.String("msg", msg), zap.Error(cause))
	s.notify()
}

// FetchRooms replaces the room list with the server's, preserving order.
func (s *ChatSlice) FetchRooms(ctx context.Context) error {
	s.begin()
	rooms, err := s.api.ListChatRooms(ctx)
	if err != nil {
		s.fail("Failed to fetch chat rooms", err)
		return err
	}
	s.mu.Lock()
	s.rooms = rooms
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return nil
}

// FetchRoom replaces the open room wholesale.
func (s *ChatSlice) FetchRoom(ctx context.Context, id int64) error {
	s.begin()
	room, err := s.api.GetChatRoom(ctx, id)
	if err != nil {
		s.fail("Failed to fetch chat room", err)
		return err
	}
	s.mu.Lock()
	s.current = room
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return nil
}

// FetchMessages replaces the message history with the server's.
func (s *ChatSlice) FetchMessages(ctx context.Context, roomID int64) error {
	s.begin()
	messages, err := s.api.ListMessages(ctx, roomID)
	if err != nil {
		s.fail("Failed to fetch messages", err)
		return err
	}
	s.mu.Lock()
	s.messages = messages
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return nil
}

// CreateRoom creates a room, prepends the server's copy to the list and
// opens it.
func (s *ChatSlice) CreateRoom(ctx context.Context, in api.CreateRoomInput) error {
	s.begin()
	room, err := s.api.CreateChatRoom(ctx, in)
	if err != nil {
		s.fail("Failed to create chat room", err)
		return err
	}
	s.mu.Lock()
	s.rooms = append([]models.ChatRoom{*room}, s.rooms...)
	s.current = room
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return nil
}

// Append adds a message delivered over the realtime channel.
func (s *ChatSlice) Append(m models.Message) {
	s.mu.Lock()
	s.messages = append(s.messages, m)
	s.mu.Unlock()
	s.notify()
}

// SetTyping records whether a user is typing in the open room.
func (s *ChatSlice) SetTyping(username string, isTyping bool) {
	s.mu.Lock()
	if s.typing == nil {
		s.typing = make(map[string]bool)
	}
	s.typing[username] = isTyping
	s.mu.Unlock()
	s.notify()
}

// MarkMessagesRead flags every cached message as read.
func (s *ChatSlice) MarkMessagesRead() {
	s.mu.Lock()
	for i := range s.messages {
		s.messages[i].IsRead = true
	}
	s.mu.Unlock()
	s.notify()
}

// ClearCurrentRoom closes the open room, dropping its messages and typing
// state but keeping the room list.
func (s *ChatSlice) ClearCurrentRoom() {
	s.mu.Lock()
	s.current = nil
	s.messages = nil
	s.typing = nil
	s.mu.Unlock()
	s.notify()
}
