package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cateringops/catermail/pkg/catermail/internalerr"
	"github.com/cateringops/catermail/pkg/catermail/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	orders map[int64]store.Order
	runs   []store.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		nextID: 1,
		orders: make(map[int64]store.Order),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// CreateOrder appends an order with the next sequential id.
func (s *Store) CreateOrder(ctx context.Context, o store.Order) (store.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o.ID = s.nextID
	s.nextID++
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	s.orders[o.ID] = copyOrder(o)
	return o, nil
}

// GetOrder returns an order by id.
func (s *Store) GetOrder(ctx context.Context, id int64) (store.Order, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if o, ok := s.orders[id]; ok {
		return copyOrder(o), true, nil
	}
	return store.Order{}, false, nil
}

// GetOrders returns all orders sorted by id.
func (s *Store) GetOrders(ctx context.Context) ([]store.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, copyOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// FindDuplicate looks up an order by the (email, date, total) dedup key
// using exact string equality.
func (s *Store) FindDuplicate(ctx context.Context, email, date, total string) (store.Order, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.orders {
		if o.Email == email && o.Date == date && o.Total == total {
			return copyOrder(o), true, nil
		}
	}
	return store.Order{}, false, nil
}

// SetPaid updates the paid workflow flag.
func (s *Store) SetPaid(ctx context.Context, id int64, paid bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return internalerr.ErrNotFound
	}
	o.Paid = paid
	s.orders[id] = o
	return nil
}

// SetCompleted updates the kitchen/service completion flags.
func (s *Store) SetCompleted(ctx context.Context, id int64, kitchen, service bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return internalerr.ErrNotFound
	}
	o.CompletedKitchen = kitchen
	o.CompletedService = service
	s.orders[id] = o
	return nil
}

// RecordRun appends an ingestion run record.
func (s *Store) RecordRun(ctx context.Context, r store.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, r)
	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	out := make([]store.Run, len(s.runs))
	copy(out, s.runs)
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func copyOrder(o store.Order) store.Order {
	copyItems := func(in []store.Item) []store.Item {
		if in == nil {
			return nil
		}
		out := make([]store.Item, len(in))
		copy(out, in)
		return out
	}

	o.FoodItems = copyItems(o.FoodItems)
	o.DrinkItems = copyItems(o.DrinkItems)
	o.SauceItems = copyItems(o.SauceItems)
	o.MealBoxes = copyItems(o.MealBoxes)
	return o
}
