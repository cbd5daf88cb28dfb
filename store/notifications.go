package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/deeplink-app/deeplink-go/api"
	"github.com/deeplink-app/deeplink-go/models"
)

// NotificationsSlice caches the user's notifications plus a derived unread
// counter kept in lockstep with the read flags.
type NotificationsSlice struct {
	api    *api.Client
	log    *zap.Logger
	notify func()

	mu            sync.Mutex
	notifications []models.Notification
	unreadCount   int
	loading       bool
	errMsg        string
}

// NotificationsState is a read-only copy of the slice.
type NotificationsState struct {
	Notifications []models.Notification
	UnreadCount   int
	Loading       bool
	Error         string
}

// Snapshot returns a copy safe to read without further synchronization.
func (s *NotificationsSlice) Snapshot() NotificationsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NotificationsState{
		Notifications: append([]models.Notification(nil), s.notifications...),
		UnreadCount:   s.unreadCount,
		Loading:       s.loading,
		Error:         s.errMsg,
	}
}

func (s *NotificationsSlice) begin() {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
}

func (s *NotificationsSlice) fail(msg string, cause error) {
	s.mu.Lock()
	s.loading = false
	s.errMsg = msg
	s.mu.Unlock()
	s.log.Warn("notifications operation failed", zap.String("msg", msg), zap.Error(cause))
	s.notify()
}

// Fetch replaces the list with the server's and recomputes the unread count.
func (s *NotificationsSlice) Fetch(ctx context.Context) error {
	s.begin()
	notifications, err := s.api.ListNotifications(ctx)
	if err != nil {
		s.fail("Failed to fetch notifications", err)
		return err
	}
	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
	}
	s.mu.Lock()
	s.notifications = notifications
	s.unreadCount = unread
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return nil
}

// MarkRead flags one notification as read. The server's copy replaces the
// matching cached entry and the unread count drops by one, floored at zero.
// A returned notification not present in the cache is a silent no-op.
func (s *NotificationsSlice) MarkRead(ctx context.Context, id int64) error {
	s.begin()
	updated, err := s.api.MarkNotificationRead(ctx, id)
	if err != nil {
		s.fail("Failed to mark notification as read", err)
		return err
	}
	s.mu.Lock()
	for i := range s.notifications {
		if s.notifications[i].ID == updated.ID {
			s.notifications[i] = *updated
			if s.unreadCount > 0 {
				s.unreadCount--
			}
			break
		}
	}
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return nil
}

// MarkAllRead flags every cached notification as read and zeroes the unread
// count. Idempotent.
func (s *NotificationsSlice) MarkAllRead(ctx context.Context) error {
	s.begin()
	if err := s.api.MarkAllNotificationsRead(ctx); err != nil {
		s.fail("Failed to mark all notifications as read", err)
		return err
	}
	s.mu.Lock()
	for i := range s.notifications {
		s.notifications[i].IsRead = true
	}
	s.unreadCount = 0
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return nil
}

// Add prepends a notification delivered out-of-band (realtime channel) and
// bumps the unread count when it arrives unread.
func (s *NotificationsSlice) Add(n models.Notification) {
	s.mu.Lock()
	s.notifications = append([]models.Notification{n}, s.notifications...)
	if !n.IsRead {
		s.unreadCount++
	}
	s.mu.Unlock()
	s.notify()
}

// Clear drops all cached notifications.
func (s *NotificationsSlice) Clear() {
	s.mu.Lock()
	s.notifications = nil
	s.unreadCount = 0
	s.mu.Unlock()
	s.notify()
}
