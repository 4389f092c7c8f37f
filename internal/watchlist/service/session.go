package service

import (
	"sync"

	"golang-stock-watchlist/internal/entity"
)

// Sessions is the registry of per-tenant working watchlists. Each tenant's
// watchlist is only ever touched by that tenant's requests; the mutex guards
// the registry map, not the lists.
type Sessions struct {
	mu    sync.RWMutex
	lists map[string]*entity.Watchlist
}

// NewSessions creates an empty session registry.
func NewSessions() *Sessions {
	return &Sessions{lists: make(map[string]*entity.Watchlist)}
}

// Get returns the tenant's working watchlist, creating an empty one on
// first access.
func (s *Sessions) Get(tenant string) *entity.Watchlist {
	s.mu.RLock()
	wl, ok := s.lists[tenant]
	s.mu.RUnlock()
	if ok {
		return wl
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if wl, ok := s.lists[tenant]; ok {
		return wl
	}
	wl = entity.NewWatchlist()
	s.lists[tenant] = wl
	return wl
}

// Set replaces the tenant's working watchlist, e.g. after a load.
func (s *Sessions) Set(tenant string, wl *entity.Watchlist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[tenant] = wl
}
