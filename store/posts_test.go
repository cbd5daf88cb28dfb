package store

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deeplink-app/deeplink-go/api"
)

const twoPosts = `[
  {"id":"7","title":"first","content":"a","likes":5,"isLiked":false,"author":{"id":"alice","username":"alice"},"community":{"id":"c1","name":"gophers"}},
  {"id":"8","title":"second","content":"b","likes":0,"isLiked":false,"author":{"id":"bob","username":"bob"},"community":{"id":"c1","name":"gophers"}}
]`

func TestPostsFetch(t *testing.T) {
	t.Run("replaces list preserving server order", func(t *testing.T) {
		s := newTestStore(t, jsonHandler(http.StatusOK, twoPosts))
		require.NoError(t, s.Posts.Fetch(context.Background()))

		st := s.Posts.Snapshot()
		require.Len(t, st.Posts, 2)
		assert.Equal(t, "7", st.Posts[0].ID)
		assert.Equal(t, "8", st.Posts[1].ID)
		assert.False(t, st.Loading)
		assert.Empty(t, st.Error)
	})

	t.Run("sets loading before the call settles", func(t *testing.T) {
		entered := make(chan struct{})
		release := make(chan struct{})
		s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			close(entered)
			<-release
			_, _ = w.Write([]byte(`[]`))
		}))

		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = s.Posts.Fetch(context.Background())
		}()
		<-entered

		st := s.Posts.Snapshot()
		assert.True(t, st.Loading)
		assert.Empty(t, st.Error)

		close(release)
		<-done
		assert.False(t, s.Posts.Snapshot().Loading)
	})

	t.Run("failure records fixed message and keeps cache", func(t *testing.T) {
		var failing atomic.Bool
		s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if failing.Load() {
				http.Error(w, "boom", http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(twoPosts))
		}))
		require.NoError(t, s.Posts.Fetch(context.Background()))

		failing.Store(true)
		err := s.Posts.Fetch(context.Background())
		require.Error(t, err)

		st := s.Posts.Snapshot()
		assert.Equal(t, "Failed to fetch posts", st.Error)
		assert.False(t, st.Loading)
		require.Len(t, st.Posts, 2)
		assert.Equal(t, "7", st.Posts[0].ID)
	})

	t.Run("last to resolve wins when calls overlap", func(t *testing.T) {
		var calls atomic.Int32
		secondDone := make(chan struct{})
		s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				// First request parks until the second one has answered.
				<-secondDone
				_, _ = w.Write([]byte(`[{"id":"stale","title":"from first call"}]`))
				return
			}
			_, _ = w.Write([]byte(`[{"id":"fresh","title":"from second call"}]`))
			close(secondDone)
		}))

		var wg sync.WaitGroup
		wg.Add(2)
		for i := 0; i < 2; i++ {
			go func() {
				defer wg.Done()
				_ = s.Posts.Fetch(context.Background())
			}()
		}
		wg.Wait()

		// The parked call resolved last, so its payload overwrote the
		// fresher one: wholesale replace has no issue-order protection.
		st := s.Posts.Snapshot()
		require.Len(t, st.Posts, 1)
		assert.Equal(t, "stale", st.Posts[0].ID)
	})
}

func TestPostsFetchByID(t *testing.T) {
	s := newTestStore(t, jsonHandler(http.StatusOK, `{"id":"7","title":"first"}`))
	require.NoError(t, s.Posts.FetchByID(context.Background(), "7"))

	st := s.Posts.Snapshot()
	require.NotNil(t, st.Current)
	assert.Equal(t, "7", st.Current.ID)
}

func TestPostsCreate(t *testing.T) {
	var calls atomic.Int32
	s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte(twoPosts))
			return
		}
		_, _ = w.Write([]byte(`{"id":"9","title":"T","content":"C","community":{"id":"42","name":"n"}}`))
	}))
	require.NoError(t, s.Posts.Fetch(context.Background()))
	in := api.CreatePostInput{Title: "T", Content: "C", CommunityID: "42"}
	require.NoError(t, s.Posts.Create(context.Background(), in))

	st := s.Posts.Snapshot()
	require.Len(t, st.Posts, 3)
	assert.Equal(t, "9", st.Posts[0].ID)
	require.NotNil(t, st.Current)
	assert.Equal(t, "9", st.Current.ID)
}

func TestPostsLikeUnlike(t *testing.T) {
	t.Run("round trip restores count and flag", func(t *testing.T) {
		var calls atomic.Int32
		s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch calls.Add(1) {
			case 1:
				_, _ = w.Write([]byte(twoPosts))
			case 2:
				_, _ = w.Write([]byte(`{"id":"7","title":"first"}`))
			case 3:
				_, _ = w.Write([]byte(`{"id":"7","likes":6}`))
			default:
				_, _ = w.Write([]byte(`{"id":"7","likes":5}`))
			}
		}))
		require.NoError(t, s.Posts.Fetch(context.Background()))
		require.NoError(t, s.Posts.FetchByID(context.Background(), "7"))

		require.NoError(t, s.Posts.Like(context.Background(), "7"))
		st := s.Posts.Snapshot()
		assert.Equal(t, 6, st.Posts[0].Likes)
		assert.True(t, st.Posts[0].IsLiked)
		// The open post is patched in the same transition.
		assert.Equal(t, 6, st.Current.Likes)
		assert.True(t, st.Current.IsLiked)

		require.NoError(t, s.Posts.Unlike(context.Background(), "7"))
		st = s.Posts.Snapshot()
		assert.Equal(t, 5, st.Posts[0].Likes)
		assert.False(t, st.Posts[0].IsLiked)
	})

	t.Run("unknown id is a silent no-op", func(t *testing.T) {
		var calls atomic.Int32
		s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				_, _ = w.Write([]byte(twoPosts))
				return
			}
			_, _ = w.Write([]byte(`{"id":"nope","likes":99}`))
		}))
		require.NoError(t, s.Posts.Fetch(context.Background()))
		require.NoError(t, s.Posts.Like(context.Background(), "nope"))

		st := s.Posts.Snapshot()
		assert.Equal(t, 5, st.Posts[0].Likes)
		assert.False(t, st.Posts[0].IsLiked)
		assert.Empty(t, st.Error)
	})
}

func TestPostsClearReducers(t *testing.T) {
	s := newTestStore(t, jsonHandler(http.StatusOK, `{"id":"7","title":"first"}`))
	require.NoError(t, s.Posts.FetchByID(context.Background(), "7"))
	require.NotNil(t, s.Posts.Snapshot().Current)

	s.Posts.ClearCurrent()
	assert.Nil(t, s.Posts.Snapshot().Current)
}
