// Package store holds the client-side cache of server-owned entities. Each
// domain lives in its own slice: a mutex-guarded state container mutated only
// by its own operations. An operation performs exactly one network call and
// makes exactly two transitions: a pending one before the call and a terminal
// one (merge or error) after it resolves.
//
// Slices never perform rollbacks: a failed operation records its message but
// leaves previously cached entities visible. Concurrent operations on the
// same slice are allowed and resolve independently; for wholesale-replace
// fetches the last call to resolve wins, regardless of issue order.
package store

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/deeplink-app/deeplink-go/api"
	"github.com/deeplink-app/deeplink-go/utils"
)

// Store aggregates all slices into one addressable state tree. It is
// constructed once, passed by reference to whatever owns the presentation
// layer, and lives for the process. There is no package-level instance.
type Store struct {
	Auth          *AuthSlice
	Posts         *PostsSlice
	Communities   *CommunitiesSlice
	Comments      *CommentsSlice
	Notifications *NotificationsSlice
	Chat          *ChatSlice

	mu      sync.Mutex
	subs    map[int]func()
	nextSub int
}

// New builds a store bound to one API client. A nil logger disables logging.
func New(client *api.Client, log *zap.Logger) *Store {
	log = utils.NopIfNil(log)
	s := &Store{subs: make(map[int]func())}
	s.Auth = &AuthSlice{api: client, log: log, notify: s.notify}
	s.Posts = &PostsSlice{api: client, log: log, notify: s.notify}
	s.Communities = &CommunitiesSlice{api: client, log: log, notify: s.notify}
	s.Comments = &CommentsSlice{api: client, log: log, notify: s.notify}
	s.Notifications = &NotificationsSlice{api: client, log: log, notify: s.notify}
	s.Chat = &ChatSlice{api: client, log: log, notify: s.notify}
	return s
}

// Subscribe registers fn to run after every state transition. The returned
// function cancels the subscription. Callbacks run on the goroutine that
// completed the transition and must not block.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Bootstrap runs the initial fetches concurrently and returns the first
// failure, if any. Each fetch still records its own outcome in its slice; a
// failing sibling does not cancel the others.
func (s *Store) Bootstrap(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.Posts.Fetch(ctx) })
	g.Go(func() error { return s.Communities.Fetch(ctx) })
	g.Go(func() error { return s.Notifications.Fetch(ctx) })
	g.Go(func() error { return s.Chat.FetchRooms(ctx) })
	return g.Wait()
}
