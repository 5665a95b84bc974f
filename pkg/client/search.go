package client

import (
	"context"
	"sync"
)

// Searcher serializes the outcome of overlapping search requests. Requests
// are tagged with a monotonically increasing sequence number; a response
// belonging to anything older than the newest issued request is reported
// as stale so a slow reply can never overwrite newer results.
type Searcher struct {
	client *Client

	mu     sync.Mutex
	newest uint64
}

func NewSearcher(client *Client) *Searcher {
	return &Searcher{client: client}
}

// Search runs a listing query. The second return value is true when a
// newer Search was issued while this one was in flight; callers discard
// such results.
func (s *Searcher) Search(ctx context.Context, page, perPage int, term string) (*PaginatedUsers, bool, error) {
	s.mu.Lock()
	s.newest++
	seq := s.newest
	s.mu.Unlock()

	result, err := s.client.Users(ctx, page, perPage, term)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	stale := seq != s.newest
	s.mu.Unlock()

	return result, stale, nil
}
