package devserver

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/deeplink-app/deeplink-go/models"
	"github.com/deeplink-app/deeplink-go/utils"
)

// hub fans frames out to every connection in one room.
type hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func (s *Server) roomHub(roomID int64) *hub {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	h := s.data.hubs[roomID]
	if h == nil {
		h = &hub{conns: make(map[*websocket.Conn]bool)}
		s.data.hubs[roomID] = h
	}
	return h
}

func (h *hub) add(c *websocket.Conn) {
	h.mu.Lock()
	h.conns[c] = true
	h.mu.Unlock()
}

func (h *hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
}

// broadcast writes v to every member. Writes are serialized by the hub lock.
func (h *hub) broadcast(v any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		_ = c.WriteJSON(v)
	}
}

type wireFrame struct {
	Type      string    `json:"type"`
	Message   string    `json:"message,omitempty"`
	Sender    string    `json:"sender,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
	MessageID int64     `json:"message_id,omitempty"`
	User      string    `json:"user,omitempty"`
	IsTyping  bool      `json:"is_typing,omitempty"`
}

func (s *Server) chatSocket(ctx *gin.Context) {
	claims, ok := s.parseToken(bearerToken(ctx))
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"detail": "authentication required"})
		return
	}
	roomID, err := strconv.ParseInt(ctx.Param("room"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": "invalid room id"})
		return
	}
	s.data.mu.Lock()
	room := s.data.findRoom(roomID)
	s.data.mu.Unlock()
	if room == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"detail": "room not found"})
		return
	}

	conn, err := s.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	h := s.roomHub(roomID)
	h.add(conn)
	defer func() {
		h.remove(conn)
		conn.Close()
	}()

	for {
		var f wireFrame
		if err := conn.ReadJSON(&f); err != nil {
			return
		}
		switch f.Type {
		case "chat_message":
			now := time.Now().UTC()
			s.data.mu.Lock()
			msg := models.Message{
				ID:        s.data.nextMsgID,
				Content:   utils.Sanitize(f.Message),
				Sender:    models.UserRef{ID: claims.UserID, Username: claims.Username},
				Room:      roomID,
				CreatedAt: now,
			}
			s.data.nextMsgID++
			s.data.messages[roomID] = append(s.data.messages[roomID], msg)
			for _, p := range room.Participants {
				if p.ID == claims.UserID {
					continue
				}
				sender := msg.Sender
				s.data.pushNotification(p.ID, models.Notification{
					Type:       models.NotificationChatMessage,
					Message:    "New message from " + claims.Username,
					Sender:     &sender,
					TargetID:   roomID,
					TargetType: "chat_room",
				})
			}
			s.data.mu.Unlock()
			h.broadcast(wireFrame{
				Type:      "chat_message",
				Message:   msg.Content,
				Sender:    claims.Username,
				Timestamp: now,
				MessageID: msg.ID,
			})
		case "typing":
			h.broadcast(wireFrame{
				Type:     "typing",
				User:     claims.Username,
				IsTyping: f.IsTyping,
			})
		}
	}
}
