package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deeplink-app/deeplink-go/api"
	"github.com/deeplink-app/deeplink-go/config"
	"github.com/deeplink-app/deeplink-go/devserver"
)

// newDevStore runs the full dev server and logs in the seeded alice account.
func newDevStore(t *testing.T) *Store {
	t.Helper()
	cfg := config.Default()
	cfg.GinMode = "test"
	srv := httptest.NewServer(devserver.New(cfg, nil).Router())
	t.Cleanup(srv.Close)

	cfg.BaseURL = srv.URL
	client := api.NewClient(cfg, nil)
	s := New(client, nil)
	require.NoError(t, s.Auth.Login(context.Background(), "alice@deeplink.local", devserver.SeedPassword))
	return s
}

func TestStoreBootstrap(t *testing.T) {
	s := newDevStore(t)
	require.NoError(t, s.Bootstrap(context.Background()))

	assert.Len(t, s.Posts.Snapshot().Posts, 2)
	assert.Len(t, s.Communities.Snapshot().Communities, 2)
	assert.Len(t, s.Chat.Snapshot().Rooms, 1)

	nst := s.Notifications.Snapshot()
	require.Len(t, nst.Notifications, 1)
	assert.Equal(t, 1, nst.UnreadCount)
}

func TestStoreSubscribe(t *testing.T) {
	var fired atomic.Int32
	s := newDevStore(t)
	unsub := s.Subscribe(func() { fired.Add(1) })

	require.NoError(t, s.Posts.Fetch(context.Background()))
	// One pending transition plus one terminal transition.
	assert.Equal(t, int32(2), fired.Load())

	unsub()
	require.NoError(t, s.Posts.Fetch(context.Background()))
	assert.Equal(t, int32(2), fired.Load())
}

func TestStoreEndToEnd(t *testing.T) {
	s := newDevStore(t)
	ctx := context.Background()
	require.NoError(t, s.Bootstrap(ctx))

	t.Run("join community", func(t *testing.T) {
		target := s.Communities.Snapshot().Communities[0]
		before := target.MembersCount
		require.NoError(t, s.Communities.Join(ctx, target.ID))

		got := s.Communities.Snapshot().Communities[0]
		assert.True(t, got.IsJoined)
		assert.Equal(t, before+1, got.MembersCount)
	})

	t.Run("create post then comment on it", func(t *testing.T) {
		community := s.Communities.Snapshot().Communities[0]
		in := api.CreatePostInput{Title: "hello", Content: "world", CommunityID: community.ID}
		require.NoError(t, s.Posts.Create(ctx, in))

		created := s.Posts.Snapshot().Current
		require.NotNil(t, created)
		assert.Equal(t, "hello", created.Title)
		assert.Equal(t, "alice", created.Author.Username)

		require.NoError(t, s.Comments.Create(ctx, created.ID, "nice one"))
		comments := s.Comments.Snapshot().Comments
		require.Len(t, comments, 1)
		assert.Equal(t, "nice one", comments[0].Content)
	})

	t.Run("like round trip against live counts", func(t *testing.T) {
		post := s.Posts.Snapshot().Posts[0]
		before := post.Likes
		require.NoError(t, s.Posts.Like(ctx, post.ID))
		assert.Equal(t, before+1, s.Posts.Snapshot().Posts[0].Likes)

		require.NoError(t, s.Posts.Unlike(ctx, post.ID))
		got := s.Posts.Snapshot().Posts[0]
		assert.Equal(t, before, got.Likes)
		assert.False(t, got.IsLiked)
	})

	t.Run("mark all notifications read is idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			require.NoError(t, s.Notifications.MarkAllRead(ctx))
			assert.Equal(t, 0, s.Notifications.Snapshot().UnreadCount)
		}
	})

	t.Run("unauthenticated operation fails", func(t *testing.T) {
		s.Auth.Logout()
		err := s.Notifications.Fetch(ctx)
		require.Error(t, err)

		var netErr *api.NetworkError
		require.ErrorAs(t, err, &netErr)
		assert.Equal(t, http.StatusUnauthorized, netErr.StatusCode)
		assert.Equal(t, "Failed to fetch notifications", s.Notifications.Snapshot().Error)
	})
}
