package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationLink(t *testing.T) {
	sender := &UserRef{ID: 7, Username: "bob"}

	tests := []struct {
		name string
		in   Notification
		want LinkTarget
	}{
		{
			name: "post like",
			in:   Notification{Type: NotificationPostLike, TargetID: 12},
			want: LinkTarget{Kind: LinkPost, PostID: 12},
		},
		{
			name: "post comment",
			in:   Notification{Type: NotificationPostComment, TargetID: 12},
			want: LinkTarget{Kind: LinkPost, PostID: 12},
		},
		{
			name: "post rating",
			in:   Notification{Type: NotificationPostRating, TargetID: 12},
			want: LinkTarget{Kind: LinkPost, PostID: 12},
		},
		{
			name: "follow",
			in:   Notification{Type: NotificationFollow, Sender: sender},
			want: LinkTarget{Kind: LinkProfile, Username: "bob"},
		},
		{
			name: "follow without sender",
			in:   Notification{Type: NotificationFollow},
			want: LinkTarget{Kind: LinkNone},
		},
		{
			name: "chat message",
			in:   Notification{Type: NotificationChatMessage, TargetID: 3},
			want: LinkTarget{Kind: LinkRoom, RoomID: 3},
		},
		{
			name: "community invite",
			in:   Notification{Type: NotificationCommunityInvite, TargetID: 9},
			want: LinkTarget{Kind: LinkCommunity, CommunityID: 9},
		},
		{
			name: "system",
			in:   Notification{Type: NotificationSystem},
			want: LinkTarget{Kind: LinkNone},
		},
		{
			name: "unrecognized kind",
			in:   Notification{Type: NotificationType("mystery"), TargetID: 5},
			want: LinkTarget{Kind: LinkNone},
		},
		{
			name: "zero value",
			in:   Notification{},
			want: LinkTarget{Kind: LinkNone},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Link())
		})
	}
}
