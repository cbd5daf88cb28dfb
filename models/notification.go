package models

import "time"

// NotificationType enumerates the notification kinds the backend emits.
type NotificationType string

const (
	NotificationFollow          NotificationType = "follow"
	NotificationPostLike        NotificationType = "post_like"
	NotificationPostComment     NotificationType = "post_comment"
	NotificationPostRating      NotificationType = "post_rating"
	NotificationCommunityInvite NotificationType = "community_invite"
	NotificationChatMessage     NotificationType = "chat_message"
	NotificationSystem          NotificationType = "system"
)

// Notification is a server-generated event addressed to the current user.
type Notification struct {
	ID         int64            `json:"id"`
	Type       NotificationType `json:"notification_type"`
	Message    string           `json:"message"`
	IsRead     bool             `json:"is_read"`
	CreatedAt  time.Time        `json:"created_at"`
	Sender     *UserRef         `json:"sender,omitempty"`
	TargetID   int64            `json:"target_id,omitempty"`
	TargetType string           `json:"target_type,omitempty"`
}

// LinkKind classifies where a notification should navigate to.
type LinkKind int

const (
	// LinkNone is the fallback for system and unrecognized notification kinds.
	LinkNone LinkKind = iota
	LinkPost
	LinkProfile
	LinkRoom
	LinkCommunity
)

// LinkTarget is the navigation target derived from a notification. Exactly
// one of the payload fields is meaningful, selected by Kind.
type LinkTarget struct {
	Kind        LinkKind
	PostID      int64
	Username    string
	RoomID      int64
	CommunityID int64
}

// Link maps a notification to its navigation target. Total over all
// notification kinds; anything unrecognized resolves to LinkNone rather
// than an error.
func (n Notification) Link() LinkTarget {
	switch n.Type {
	case NotificationPostLike, NotificationPostComment, NotificationPostRating:
		return LinkTarget{Kind: LinkPost, PostID: n.TargetID}
	case NotificationFollow:
		if n.Sender != nil {
			return LinkTarget{Kind: LinkProfile, Username: n.Sender.Username}
		}
		return LinkTarget{Kind: LinkNone}
	case NotificationChatMessage:
		return LinkTarget{Kind: LinkRoom, RoomID: n.TargetID}
	case NotificationCommunityInvite:
		return LinkTarget{Kind: LinkCommunity, CommunityID: n.TargetID}
	default:
		return LinkTarget{Kind: LinkNone}
	}
}
