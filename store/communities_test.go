package store

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deeplink-app/deeplink-go/api"
)

const twoCommunities = `[
  {"id":"c1","name":"gophers","membersCount":10,"isJoined":false},
  {"id":"c2","name":"hikers","membersCount":4,"isJoined":false}
]`

func TestCommunitiesFetch(t *testing.T) {
	s := newTestStore(t, jsonHandler(http.StatusOK, twoCommunities))
	require.NoError(t, s.Communities.Fetch(context.Background()))

	st := s.Communities.Snapshot()
	require.Len(t, st.Communities, 2)
	assert.Equal(t, "c1", st.Communities[0].ID)
	assert.Equal(t, 10, st.Communities[0].MembersCount)
}

func TestCommunitiesJoinLeave(t *testing.T) {
	t.Run("join patches list entry and current in one transition", func(t *testing.T) {
		var calls atomic.Int32
		s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch calls.Add(1) {
			case 1:
				_, _ = w.Write([]byte(twoCommunities))
			case 2:
				_, _ = w.Write([]byte(`{"id":"c1","name":"gophers","membersCount":10,"isJoined":false}`))
			default:
				_, _ = w.Write([]byte(`{"id":"c1","membersCount":11,"isJoined":true}`))
			}
		}))
		require.NoError(t, s.Communities.Fetch(context.Background()))
		require.NoError(t, s.Communities.FetchByID(context.Background(), "c1"))

		require.NoError(t, s.Communities.Join(context.Background(), "c1"))
		st := s.Communities.Snapshot()
		assert.Equal(t, 11, st.Communities[0].MembersCount)
		assert.True(t, st.Communities[0].IsJoined)
		require.NotNil(t, st.Current)
		assert.Equal(t, 11, st.Current.MembersCount)
		assert.True(t, st.Current.IsJoined)
		// The other community is untouched.
		assert.Equal(t, 4, st.Communities[1].MembersCount)
	})

	t.Run("leave reverses the membership fields", func(t *testing.T) {
		var calls atomic.Int32
		s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch calls.Add(1) {
			case 1:
				_, _ = w.Write([]byte(twoCommunities))
			case 2:
				_, _ = w.Write([]byte(`{"id":"c1","membersCount":11,"isJoined":true}`))
			default:
				_, _ = w.Write([]byte(`{"id":"c1","membersCount":10,"isJoined":false}`))
			}
		}))
		require.NoError(t, s.Communities.Fetch(context.Background()))
		require.NoError(t, s.Communities.Join(context.Background(), "c1"))
		require.NoError(t, s.Communities.Leave(context.Background(), "c1"))

		st := s.Communities.Snapshot()
		assert.Equal(t, 10, st.Communities[0].MembersCount)
		assert.False(t, st.Communities[0].IsJoined)
	})
}

func TestCommunitiesCreate(t *testing.T) {
	var calls atomic.Int32
	s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte(twoCommunities))
			return
		}
		_, _ = w.Write([]byte(`{"id":"c3","name":"readers","membersCount":1,"isJoined":true}`))
	}))
	require.NoError(t, s.Communities.Fetch(context.Background()))
	in := api.CreateCommunityInput{Name: "readers", Description: "books", Tags: []string{"books"}}
	require.NoError(t, s.Communities.Create(context.Background(), in))

	st := s.Communities.Snapshot()
	require.Len(t, st.Communities, 3)
	assert.Equal(t, "c3", st.Communities[0].ID)
	require.NotNil(t, st.Current)
	assert.Equal(t, "c3", st.Current.ID)
}

func TestCommunitiesFailure(t *testing.T) {
	s := newTestStore(t, jsonHandler(http.StatusBadGateway, `{}`))
	err := s.Communities.Fetch(context.Background())
	require.Error(t, err)

	st := s.Communities.Snapshot()
	assert.Equal(t, "Failed to fetch communities", st.Error)
	assert.Empty(t, st.Communities)
	assert.False(t, st.Loading)
}
