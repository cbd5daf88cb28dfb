package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/deeplink-app/deeplink-go/api"
	"github.com/deeplink-app/deeplink-go/models"
)

// PostsSlice caches the global feed, one community's feed, and the post
// currently being viewed.
type PostsSlice struct {
	api    *api.Client
	log    *zap.Logger
	notify func()

	mu             sync.Mutex
	posts          []models.Post
	communityPosts []models.Post
	current        *models.Post
	loading        bool
	errMsg         string
}

// PostsState is a read-only copy of the slice.
type PostsState struct {
	Posts          []models.Post
	CommunityPosts []models.Post
	Current        *models.Post
	Loading        bool
	Error          string
}

// Snapshot returns a copy safe to read without further synchronization.
func (s *PostsSlice) Snapshot() PostsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := PostsState{
		Posts:          append([]models.Post(nil), s.posts...),
		CommunityPosts: append([]models.Post(nil), s.communityPosts...),
		Loading:        s.loading,
		Error:          s.errMsg,
	}
	if s.current != nil {
		cp := *s.current
		st.Current = &cp
	}
	return st
}

func (s *PostsSlice) begin() {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
}

func (s *PostsSlice) fail(msg string, cause error) {
	s.mu.Lock()
	s.loading = false
	s.errMsg = msg
	s.mu.Unlock()
	s.log.Warn("posts operation failed", zap.String("msg", msg), zap.Error(cause))
	s.notify()
}

// Fetch replaces the feed with the server's list, preserving server order.
func (s *PostsSlice) Fetch(ctx context.Context) error {
	s.begin()
	posts, err := s.api.ListPosts(ctx)
	if err != nil {
		s.fail("Failed to fetch posts", err)
		return err
	}
	s.mu.Lock()
	s.posts = posts
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return nil
}

// FetchByID replaces the current post wholesale.
func (s *PostsSlice) FetchByID(ctx context.Context, id string) error {
	s.begin()
	post, err := s.api.GetPost(ctx, id)
	if err != nil {
		s.fail("Failed to fetch post", err)
		return err
	}
	s.mu.Lock()
	s.current = post
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return nil
}

// FetchCommunityPosts replaces the per-community feed wholesale.
func (s *PostsSlice) FetchCommunityPosts(ctx context.Context, communityID string) error {
	s.begin()
	posts, err := s.api.ListCommunityPosts(ctx, communityID)
	if err != nil {
		s.fail("Failed to fetch community posts", err)
		return err
	}
	s.mu.Lock()
	s.communityPosts = posts
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return nil
}

// Create posts a new entry, prepends the server's copy to the feed and makes
// it current. The feed is not refetched.
func (s *PostsSlice) Create(ctx context.Context, in api.CreatePostInput) error {
	s.begin()
	post, err := s.api.CreatePost(ctx, in)
	if err != nil {
		s.fail("Failed to create post", err)
		return err
	}
	s.mu.Lock()
	s.posts = append([]models.Post{*post}, s.posts...)
	s.current = post
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return nil
}

// Like registers a like and patches the server-returned count plus the liked
// flag into every cached copy of the post. An unknown id is a silent no-op.
func (s *PostsSlice) Like(ctx context.Context, id string) error {
	s.begin()
	res, err := s.api.LikePost(ctx, id)
	if err != nil {
		s.fail("Failed to like post", err)
		return err
	}
	s.applyLike(res, true)
	return nil
}

// Unlike withdraws a like; otherwise identical to Like.
func (s *PostsSlice) Unlike(ctx context.Context, id string) error {
	s.begin()
	res, err := s.api.UnlikePost(ctx, id)
	if err != nil {
		s.fail("Failed to unlike post", err)
		return err
	}
	s.applyLike(res, false)
	return nil
}

func (s *PostsSlice) applyLike(res *models.LikeResult, liked bool) {
	s.mu.Lock()
	for i := range s.posts {
		if s.posts[i].ID == res.ID {
			s.posts[i].Likes = res.Likes
			s.posts[i].IsLiked = liked
		}
	}
	for i := range s.communityPosts {
		if s.communityPosts[i].ID == res.ID {
			s.communityPosts[i].Likes = res.Likes
			s.communityPosts[i].IsLiked = liked
		}
	}
	if s.current != nil && s.current.ID == res.ID {
		s.current.Likes = res.Likes
		s.current.IsLiked = liked
	}
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// ClearCurrent drops the post being viewed.
func (s *PostsSlice) ClearCurrent() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	s.notify()
}

// ClearCommunityPosts drops the per-community feed.
func (s *PostsSlice) ClearCommunityPosts() {
	s.mu.Lock()
	s.communityPosts = nil
	s.mu.Unlock()
	s.notify()
}

// ClearError resets the error without touching cached entities.
func (s *PostsSlice) ClearError() {
	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
}
