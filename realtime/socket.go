// Package realtime implements the chat websocket channel. A Socket is bound
// to one room; incoming frames are folded into the chat slice, so the
// presentation layer observes realtime messages the same way it observes
// REST results.
package realtime

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/deeplink-app/deeplink-go/models"
	"github.com/deeplink-app/deeplink-go/store"
	"github.com/deeplink-app/deeplink-go/utils"
)

// Frame is the wire format of the chat channel, both directions. Type is
// "chat_message" or "typing"; the remaining fields depend on it.
type Frame struct {
	Type      string    `json:"type"`
	Message   string    `json:"message,omitempty"`
	Sender    string    `json:"sender,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
	MessageID int64     `json:"message_id,omitempty"`
	User      string    `json:"user,omitempty"`
	IsTyping  bool      `json:"is_typing,omitempty"`
}

// Socket is a live connection to one chat room. Close it when leaving the
// room; there is no automatic reconnect.
type Socket struct {
	conn   *websocket.Conn
	roomID int64
	chat   *store.ChatSlice
	log    *zap.Logger

	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to {wsBase}/ws/chat/{roomID}/ and starts the reader. The
// bearer token authenticates the handshake.
func Dial(ctx context.Context, wsBase string, roomID int64, token string, chat *store.ChatSlice, log *zap.Logger) (*Socket, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	url := wsBase + "/ws/chat/" + strconv.FormatInt(roomID, 10) + "/"
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	s := &Socket{
		conn:   conn,
		roomID: roomID,
		chat:   chat,
		log:    utils.NopIfNil(log),
		done:   make(chan struct{}),
	}
	go s.readLoop()
	return s, nil
}

func (s *Socket) readLoop() {
	defer close(s.done)
	for {
		var f Frame
		if err := s.conn.ReadJSON(&f); err != nil {
			s.log.Debug("socket closed", zap.Int64("room", s.roomID), zap.Error(err))
			return
		}
		switch f.Type {
		case "chat_message":
			s.chat.Append(models.Message{
				ID:        f.MessageID,
				Content:   f.Message,
				Sender:    models.UserRef{Username: f.Sender},
				Room:      s.roomID,
				CreatedAt: f.Timestamp,
			})
		case "typing":
			s.chat.SetTyping(f.User, f.IsTyping)
		default:
			s.log.Debug("unknown frame type", zap.String("type", f.Type))
		}
	}
}

// Send publishes a chat message to the room.
func (s *Socket) Send(content string) error {
	return s.write(Frame{Type: "chat_message", Message: content})
}

// SendTyping broadcasts the user's typing state.
func (s *Socket) SendTyping(isTyping bool) error {
	return s.write(Frame{Type: "typing", IsTyping: isTyping})
}

func (s *Socket) write(f Frame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(f)
}

// Close tears down the connection and waits for the reader to exit.
func (s *Socket) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.conn.Close()
	})
	<-s.done
	return err
}

// Done is closed when the reader has exited, whether by Close or by the peer
// dropping the connection.
func (s *Socket) Done() <-chan struct{} {
	return s.done
}
