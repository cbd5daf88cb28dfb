package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/deeplink-app/deeplink-go/api"
	"github.com/deeplink-app/deeplink-go/models"
)

// CommunitiesSlice caches the community directory and the community
// currently being viewed.
type CommunitiesSlice struct {
	api    *api.Client
	log    *zap.Logger
	notify func()

	mu          sync.Mutex
	communities []models.Community
	current     *models.Community
	loading     bool
	errMsg      string
}

// CommunitiesState is a read-only copy of the slice.
type CommunitiesState struct {
	Communities []models.Community
	Current     *models.Community
	Loading     bool
	Error       string
}

// Snapshot returns a copy safe to read without further synchronization.
func (s *CommunitiesSlice) Snapshot() CommunitiesState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := CommunitiesState{
		Communities: append([]models.Community(nil), s.communities...),
		Loading:     s.loading,
		Error:       s.errMsg,
	}
	if s.current != nil {
		cp := *s.current
		st.Current = &cp
	}
	return st
}

func (s *CommunitiesSlice) begin() {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
}

func (s *CommunitiesSlice) fail(msg string, cause error) {
	s.mu.Lock()
	s.loading = false
	s.errMsg = msg
	s.mu.Unlock()
	s.log.Warn("communities operation failed", zap.String("msg", msg), zap.Error(cause))
	s.notify()
}

// Fetch replaces the directory with the server's list, preserving server order.
func (s *CommunitiesSlice) Fetch(ctx context.Context) error {
	s.begin()
	communities, err := s.api.ListCommunities(ctx)
	if err != nil {
		s.fail("Failed to fetch communities", err)
		return err
	}
	s.mu.Lock()
	s.communities = communities
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return nil
}

// FetchByID replaces the current community wholesale.
func (s *CommunitiesSlice) FetchByID(ctx context.Context, id string) error {
	s.begin()
	community, err := s.api.GetCommunity(ctx, id)
	if err != nil {
		s.fail("Failed to fetch community", err)
		return err
	}
	s.mu.Lock()
	s.current = community
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return nil
}

// Create adds a community, prepending the server's copy to the directory and
// making it current.
func (s *CommunitiesSlice) Create(ctx context.Context, in api.CreateCommunityInput) error {
	s.begin()
	community, err := s.api.CreateCommunity(ctx, in)
	if err != nil {
		s.fail("Failed to create community", err)
		return err
	}
	s.mu.Lock()
	s.communities = append([]models.Community{*community}, s.communities...)
	s.current = community
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return nil
}

// Join adds the current user to a community. The server-returned member
// count and membership flag are patched into the directory entry and the
// current community in the same transition; an unknown id is a silent no-op.
func (s *CommunitiesSlice) Join(ctx context.Context, id string) error {
	s.begin()
	res, err := s.api.JoinCommunity(ctx, id)
	if err != nil {
		s.fail("Failed to join community", err)
		return err
	}
	s.applyMembership(res)
	return nil
}

// Leave removes the current user from a community; otherwise identical to Join.
func (s *CommunitiesSlice) Leave(ctx context.Context, id string) error {
	s.begin()
	res, err := s.api.LeaveCommunity(ctx, id)
	if err != nil {
		s.fail("Failed to leave community", err)
		return err
	}
	s.applyMembership(res)
	return nil
}

func (s *CommunitiesSlice) applyMembership(res *models.JoinResult) {
	s.mu.Lock()
	for i := range s.communities {
		if s.communities[i].ID == res.ID {
			s.communities[i].MembersCount = res.MembersCount
			s.communities[i].IsJoined = res.IsJoined
		}
	}
	if s.current != nil && s.current.ID == res.ID {
		s.current.MembersCount = res.MembersCount
		s.current.IsJoined = res.IsJoined
	}
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// ClearCurrent drops the community being viewed.
func (s *CommunitiesSlice) ClearCurrent() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	s.notify()
}

// ClearError resets the error without touching cached entities.
func (s *CommunitiesSlice) ClearError() {
	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
}
