package store

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoComments = `[
  {"id":"m1","content":"first","likes":2,"author":{"id":"bob","username":"bob"}},
  {"id":"m2","content":"second","likes":0,"author":{"id":"alice","username":"alice"}}
]`

func TestCommentsFetch(t *testing.T) {
	s := newTestStore(t, jsonHandler(http.StatusOK, twoComments))
	require.NoError(t, s.Comments.Fetch(context.Background(), "p1"))

	st := s.Comments.Snapshot()
	require.Len(t, st.Comments, 2)
	assert.Equal(t, "m1", st.Comments[0].ID)
}

func TestCommentsCreate(t *testing.T) {
	var calls atomic.Int32
	s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte(twoComments))
			return
		}
		_, _ = w.Write([]byte(`{"id":"m3","content":"third","author":{"id":"alice","username":"alice"}}`))
	}))
	require.NoError(t, s.Comments.Fetch(context.Background(), "p1"))
	require.NoError(t, s.Comments.Create(context.Background(), "p1", "third"))

	st := s.Comments.Snapshot()
	require.Len(t, st.Comments, 3)
	assert.Equal(t, "m3", st.Comments[0].ID)
}

func TestCommentsDelete(t *testing.T) {
	t.Run("removes the matching entry", func(t *testing.T) {
		var calls atomic.Int32
		s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				_, _ = w.Write([]byte(twoComments))
				return
			}
			_, _ = w.Write([]byte(`{"id":"m1"}`))
		}))
		require.NoError(t, s.Comments.Fetch(context.Background(), "p1"))
		require.NoError(t, s.Comments.Delete(context.Background(), "p1", "m1"))

		st := s.Comments.Snapshot()
		require.Len(t, st.Comments, 1)
		assert.Equal(t, "m2", st.Comments[0].ID)
	})

	t.Run("unknown id is a silent no-op", func(t *testing.T) {
		var calls atomic.Int32
		s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				_, _ = w.Write([]byte(twoComments))
				return
			}
			_, _ = w.Write([]byte(`{"id":"missing"}`))
		}))
		require.NoError(t, s.Comments.Fetch(context.Background(), "p1"))
		require.NoError(t, s.Comments.Delete(context.Background(), "p1", "missing"))

		st := s.Comments.Snapshot()
		assert.Len(t, st.Comments, 2)
		assert.Empty(t, st.Error)
	})
}

func TestCommentsLike(t *testing.T) {
	var calls atomic.Int32
	s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte(twoComments))
			return
		}
		_, _ = w.Write([]byte(`{"id":"m2","likes":1}`))
	}))
	require.NoError(t, s.Comments.Fetch(context.Background(), "p1"))
	require.NoError(t, s.Comments.Like(context.Background(), "m2"))

	st := s.Comments.Snapshot()
	assert.Equal(t, 1, st.Comments[1].Likes)
	assert.Equal(t, 2, st.Comments[0].Likes)
}

func TestCommentsFailureKeepsCache(t *testing.T) {
	var failing atomic.Bool
	s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			http.Error(w, "boom", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(twoComments))
	}))
	require.NoError(t, s.Comments.Fetch(context.Background(), "p1"))

	failing.Store(true)
	require.Error(t, s.Comments.Create(context.Background(), "p1", "x"))

	st := s.Comments.Snapshot()
	assert.Equal(t, "Failed to create comment", st.Error)
	assert.Len(t, st.Comments, 2)
}
