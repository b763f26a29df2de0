// Package memory keeps every catalog table in process memory. It backs the
// STORE_DRIVER=memory mode and the service and handler tests, and mirrors the
// Postgres schema's constraints: unique slugs and usernames, foreign keys and
// cascading deletes.
package memory

import (
	"sort"
	"sync"
	"time"

	"catalog_service/internal/domain"
)

type Store struct {
	mu sync.RWMutex

	seq        map[string]int64
	cars       map[int64]domain.Car
	categories map[int64]domain.Category
	products   map[int64]domain.Product
	images     map[int64]domain.Image
	users      map[int64]domain.User
	tokens     map[string]domain.Token

	now func() time.Time
}

var (
	_ domain.CarRepository      = (*Store)(nil)
	_ domain.CategoryRepository = (*Store)(nil)
	_ domain.ProductRepository  = (*Store)(nil)
	_ domain.ImageRepository    = (*Store)(nil)
	_ domain.UserRepository     = (*Store)(nil)
	_ domain.TokenRepository    = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		seq:        make(map[string]int64),
		cars:       make(map[int64]domain.Car),
		categories: make(map[int64]domain.Category),
		products:   make(map[int64]domain.Product),
		images:     make(map[int64]domain.Image),
		users:      make(map[int64]domain.User),
		tokens:     make(map[string]domain.Token),
		now:        time.Now,
	}
}

// WithClock replaces the clock used to stamp created_at columns.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// next must be called with the write lock held.
func (s *Store) next(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Rows are copied with their pointer fields on the way in and out, so nothing
// a caller holds can reach into the store.
func copyOf[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func detachCar(c domain.Car) domain.Car {
	c.Price, c.OwnerID = copyOf(c.Price), copyOf(c.OwnerID)
	return c
}

func detachCategory(c domain.Category) domain.Category {
	c.ParentID = copyOf(c.ParentID)
	return c
}

func detachProduct(p domain.Product) domain.Product {
	p.Price, p.OwnerID = copyOf(p.Price), copyOf(p.OwnerID)
	return p
}
