package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/deeplink-app/deeplink-go/api"
	"github.com/deeplink-app/deeplink-go/models"
)

// CommentsSlice caches the comment list of the post currently being viewed.
// Navigating to another post is expected to Clear and refetch.
type CommentsSlice struct {
	api    *api.Client
	log    *zap.Logger
	notify func()

	mu       sync.Mutex
	comments []models.Comment
	loading  bool
	errMsg   string
}

// CommentsState is a read-only copy of the slice.
type CommentsState struct {
	Comments []models.Comment
	Loading  bool
	Error    string
}

// Snapshot returns a copy safe to read without further synchronization.
func (s *CommentsSlice) Snapshot() CommentsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CommentsState{
		Comments: append([]models.Comment(nil), s.comments...),
		Loading:  s.loading,
		Error:    s.errMsg,
	}
}

func (s *CommentsSlice) begin() {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
}

func (s *CommentsSlice) fail(msg string, cause error) {
	s.mu.Lock()
	s.loading = false
	s.errMsg = msg
	s.mu.Unlock()
	s.log.Warn("comments operation failed", zap.String("msg", msg), zap.Error(cause))
	s.notify()
}

// Fetch replaces the list with the post's comments in server order.
func (s *CommentsSlice) Fetch(ctx context.Context, postID string) error {
	s.begin()
	comments, err := s.api.ListComments(ctx, postID)
	if err != nil {
		s.fail("Failed to fetch comments", err)
		return err
	}
	s.mu.Lock()
	s.comments = comments
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return nil
}

// Create adds a comment and prepends the server's copy. The list is not
// refetched.
func (s *CommentsSlice) Create(ctx context.Context, postID, content string) error {
	s.begin()
	comment, err := s.api.CreateComment(ctx, postID, content)
	if err != nil {
		s.fail("Failed to create comment", err)
		return err
	}
	s.mu.Lock()
	s.comments = append([]models.Comment{*comment}, s.comments...)
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return nil
}

// Delete removes a comment from the cache by id. An id not present in the
// cache is a silent no-op.
func (s *CommentsSlice) Delete(ctx context.Context, postID, commentID string) error {
	s.begin()
	if err := s.api.DeleteComment(ctx, postID, commentID); err != nil {
		s.fail("Failed to delete comment", err)
		return err
	}
	s.mu.Lock()
	kept := s.comments[:0]
	for _, c := range s.comments {
		if c.ID != commentID {
			kept = append(kept, c)
		}
	}
	s.comments = kept
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return nil
}

// Like registers a like on a comment and patches the returned count into the
// cached entry, if present.
func (s *CommentsSlice) Like(ctx context.Context, commentID string) error {
	s.begin()
	res, err := s.api.LikeComment(ctx, commentID)
	if err != nil {
		s.fail("Failed to like comment", err)
		return err
	}
	s.mu.Lock()
	for i := range s.comments {
		if s.comments[i].ID == res.ID {
			s.comments[i].Likes = res.Likes
		}
	}
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return nil
}

// Clear drops all cached comments.
func (s *CommentsSlice) Clear() {
	s.mu.Lock()
	s.comments = nil
	s.mu.Unlock()
	s.notify()
}
