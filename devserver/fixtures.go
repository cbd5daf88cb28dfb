package devserver

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/deeplink-app/deeplink-go/models"
	"github.com/deeplink-app/deeplink-go/utils"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "password123"

type devUser struct {
	id           int64
	username     string
	email        string
	avatar       string
	passwordHash string
}

func (u *devUser) ref() models.UserRef {
	return models.UserRef{ID: u.id, Username: u.username, Avatar: u.avatar}
}

func (u *devUser) author() models.User {
	return models.User{ID: u.username, Username: u.username, Avatar: u.avatar}
}

func (u *devUser) account() models.Account {
	return models.Account{ID: u.id, Username: u.username, Email: u.email, Avatar: u.avatar}
}

type devPost struct {
	post    models.Post // Likes holds the seeded base count
	likedBy map[int64]bool
}

type devCommunity struct {
	community models.Community // MembersCount holds the seeded base count
	members   map[int64]bool
}

type fixtures struct {
	mu sync.Mutex

	users        map[int64]*devUser
	usersByEmail map[string]*devUser
	nextUserID   int64

	posts    []*devPost                  // newest first
	comments map[string][]models.Comment // postID -> newest first

	communities []*devCommunity

	notifications map[int64][]models.Notification // recipient -> newest first
	nextNotifID   int64

	rooms     []*models.ChatRoom
	messages  map[int64][]models.Message
	nextRoom  int64
	nextMsgID int64

	hubs map[int64]*hub
}

func seed() *fixtures {
	hash, _ := utils.HashPassword(SeedPassword)
	now := time.Now().UTC()

	alice := &devUser{id: 1, username: "alice", email: "alice@deeplink.local", passwordHash: hash}
	bob := &devUser{id: 2, username: "bob", email: "bob@deeplink.local", passwordHash: hash}

	f := &fixtures{
		users:         map[int64]*devUser{1: alice, 2: bob},
		usersByEmail:  map[string]*devUser{alice.email: alice, bob.email: bob},
		nextUserID:    3,
		comments:      make(map[string][]models.Comment),
		notifications: make(map[int64][]models.Notification),
		nextNotifID:   1,
		messages:      make(map[int64][]models.Message),
		nextRoom:      1,
		nextMsgID:     1,
		hubs:          make(map[int64]*hub),
	}

	gophers := &devCommunity{
		community: models.Community{
			ID:           uuid.NewString(),
			Name:         "gophers",
			Description:  "Everything Go",
			MembersCount: 41,
			Tags:         []string{"go", "programming"},
			CreatedAt:    now.Add(-72 * time.Hour),
			UpdatedAt:    now.Add(-72 * time.Hour),
		},
		members: make(map[int64]bool),
	}
	hikers := &devCommunity{
		community: models.Community{
			ID:           uuid.NewString(),
			Name:         "weekend-hikers",
			Description:  "Trail reports and meetups",
			MembersCount: 17,
			Tags:         []string{"outdoors"},
			CreatedAt:    now.Add(-48 * time.Hour),
			UpdatedAt:    now.Add(-48 * time.Hour),
		},
		members: make(map[int64]bool),
	}
	f.communities = []*devCommunity{gophers, hikers}

	first := &devPost{
		post: models.Post{
			ID:        uuid.NewString(),
			Title:     "Generics in the standard library",
			Content:   "A tour of slices and maps packages.",
			Author:    alice.author(),
			Community: models.CommunityRef{ID: gophers.community.ID, Name: gophers.community.Name},
			Likes:     3,
			CreatedAt: now.Add(-24 * time.Hour),
			UpdatedAt: now.Add(-24 * time.Hour),
		},
		likedBy: make(map[int64]bool),
	}
	second := &devPost{
		post: models.Post{
			ID:        uuid.NewString(),
			Title:     "Ridge loop conditions",
			Content:   "Snow is gone above 1800m.",
			Author:    bob.author(),
			Community: models.CommunityRef{ID: hikers.community.ID, Name: hikers.community.Name},
			Likes:     1,
			CreatedAt: now.Add(-6 * time.Hour),
			UpdatedAt: now.Add(-6 * time.Hour),
		},
		likedBy: make(map[int64]bool),
	}
	f.posts = []*devPost{second, first}

	f.comments[first.post.ID] = []models.Comment{{
		ID:        uuid.NewString(),
		Content:   "maps.Keys was long overdue.",
		Author:    bob.author(),
		Likes:     1,
		CreatedAt: now.Add(-23 * time.Hour),
		UpdatedAt: now.Add(-23 * time.Hour),
	}}

	sender := bob.ref()
	f.notifications[alice.id] = []models.Notification{{
		ID:         f.nextNotifID,
		Type:       models.NotificationPostComment,
		Message:    "bob commented on your post",
		CreatedAt:  now.Add(-23 * time.Hour),
		Sender:     &sender,
		TargetID:   1,
		TargetType: "post",
	}}
	f.nextNotifID++

	room := &models.ChatRoom{
		ID:           f.nextRoom,
		RoomType:     models.RoomDirect,
		Participants: []models.UserRef{alice.ref(), bob.ref()},
		CreatedAt:    now.Add(-12 * time.Hour),
		UpdatedAt:    now.Add(-1 * time.Hour),
	}
	f.nextRoom++
	f.rooms = []*models.ChatRoom{room}
	f.messages[room.ID] = []models.Message{
		{ID: f.nextMsgID, Content: "Lunch tomorrow?", Sender: bob.ref(), Room: room.ID, CreatedAt: now.Add(-2 * time.Hour), IsRead: true},
		{ID: f.nextMsgID + 1, Content: "Sure, 12:30.", Sender: alice.ref(), Room: room.ID, CreatedAt: now.Add(-1 * time.Hour)},
	}
	f.nextMsgID += 2

	return f
}

// renderPost materializes the per-viewer fields of a post. Callers hold f.mu.
func (f *fixtures) renderPost(dp *devPost, viewer int64) models.Post {
	p := dp.post
	p.Likes += len(dp.likedBy)
	p.IsLiked = viewer != 0 && dp.likedBy[viewer]
	p.Comments = len(f.comments[p.ID])
	return p
}

// renderCommunity materializes the per-viewer fields of a community. Callers hold f.mu.
func (f *fixtures) renderCommunity(dc *devCommunity, viewer int64) models.Community {
	c := dc.community
	c.MembersCount += len(dc.members)
	c.IsJoined = viewer != 0 && dc.members[viewer]
	return c
}

func (f *fixtures) findPost(id string) *devPost {
	for _, dp := range f.posts {
		if dp.post.ID == id {
			return dp
		}
	}
	return nil
}

func (f *fixtures) findCommunity(id string) *devCommunity {
	for _, dc := range f.communities {
		if dc.community.ID == id {
			return dc
		}
	}
	return nil
}

func (f *fixtures) findRoom(id int64) *models.ChatRoom {
	for _, r := range f.rooms {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// pushNotification prepends a notification for the recipient. Callers hold f.mu.
func (f *fixtures) pushNotification(recipient int64, n models.Notification) {
	n.ID = f.nextNotifID
	f.nextNotifID++
	n.CreatedAt = time.Now().UTC()
	f.notifications[recipient] = append([]models.Notification{n}, f.notifications[recipient]...)
}
