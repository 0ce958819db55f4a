package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ranihwanifactory/mya/internal/cache"
	"github.com/ranihwanifactory/mya/internal/db"
	"github.com/ranihwanifactory/mya/internal/metrics"
)

var (
	ErrNotFound     = errors.New("portfolio item not found")
	ErrEmptyPatch   = errors.New("nothing to update")
	ErrMissingID    = errors.New("missing id")
	ErrRefreshStale = errors.New("write stored but list refresh failed")
)

const listCacheKey = "portfolio:list"

// Mutation is the outcome of an admin write: the id written and the list as
// re-read from the store afterwards.
type Mutation struct {
	ID    string `json:"id"`
	Items []Item `json:"items"`
}

type Service struct {
	store Store
	cache cache.Cache
	ttl   time.Duration

	// gen counts admin writes. A list read under an older generation is
	// never written to the cache.
	mu  sync.Mutex
	gen uint64
}

func NewService(store Store, c cache.Cache, ttl time.Duration) *Service {
	if c == nil {
		c = cache.NewNoop()
	}
	return &Service{
		store: store,
		cache: c,
		ttl:   ttl,
	}
}

// List reads the authoritative list from the store, bypassing the cache.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	return s.store.List(ctx)
}

// Gallery returns the public view of the portfolio for filter. The store
// list may be served from the cache.
func (s *Service) Gallery(ctx context.Context, filter Filter) (Result, error) {
	items, err := s.cachedList(ctx)
	if err != nil {
		return Result{}, err
	}
	return Curate(items, filter), nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Mutation, error) {
	id, err := s.store.Create(ctx, req.item())
	metrics.PortfolioWrites.WithLabelValues("create", metrics.Result(err)).Inc()
	if err != nil {
		return Mutation{}, err
	}
	return s.refresh(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Mutation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Mutation{}, ErrMissingID
	}
	patch := req.patch()
	if patch.IsEmpty() {
		return Mutation{}, ErrEmptyPatch
	}

	err := s.store.Update(ctx, id, patch)
	metrics.PortfolioWrites.WithLabelValues("update", metrics.Result(err)).Inc()
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return Mutation{}, ErrNotFound
		}
		return Mutation{}, err
	}
	return s.refresh(ctx, id)
}

// Delete removes the item. Removing an item that is already gone succeeds.
func (s *Service) Delete(ctx context.Context, id string) (Mutation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Mutation{}, ErrMissingID
	}

	err := s.store.Delete(ctx, id)
	metrics.PortfolioWrites.WithLabelValues("delete", metrics.Result(err)).Inc()
	if err != nil {
		return Mutation{}, err
	}
	return s.refresh(ctx, id)
}

// refresh re-reads the list from the store so callers see the store's order
// rather than a local patch, and caches it for the gallery.
func (s *Service) refresh(ctx context.Context, id string) (Mutation, error) {
	gen := s.invalidate(ctx)

	items, err := s.store.List(ctx)
	if err != nil {
		return Mutation{ID: id}, fmt.Errorf("%w: %w", ErrRefreshStale, err)
	}
	s.storeList(ctx, gen, items)
	return Mutation{ID: id, Items: items}, nil
}

func (s *Service) cachedList(ctx context.Context) ([]Item, error) {
	var items []Item
	if s.ttl > 0 {
		if ok, err := cache.GetJSON(ctx, s.cache, listCacheKey, &items); err == nil && ok {
			return items, nil
		}
	}

	gen := s.generation()
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	s.storeList(ctx, gen, items)
	return items, nil
}

func (s *Service) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// invalidate starts a new generation and drops the cached list.
func (s *Service) invalidate(ctx context.Context) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	_ = s.cache.Delete(ctx, listCacheKey)
	return s.gen
}

// storeList caches items read under gen, unless a write has happened since
// or caching is off (ttl <= 0).
func (s *Service) storeList(ctx context.Context, gen uint64, items []Item) {
	if s.ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	_ = cache.SetJSON(ctx, s.cache, listCacheKey, items, s.ttl)
}
