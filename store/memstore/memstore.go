// Package memstore is an in-process implementation of store.Store used by
// tests and local development. It follows the same matching and counting rules
// as the MongoDB implementation.
package memstore

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/raushankrgupta/phoneswap-server/models"
	"github.com/raushankrgupta/phoneswap-server/store"
)

var _ store.Store = (*Store)(nil)

type table[T any] struct {
	rows map[models.ID]T
	id   func(T) models.ID
}

func newTable[T any](id func(T) models.ID) *table[T] {
	return &table[T]{rows: map[models.ID]T{}, id: id}
}

func (t *table[T]) clone(copyRow func(T) T) *table[T] {
	c := &table[T]{rows: make(map[models.ID]T, len(t.rows)), id: t.id}
	for k, v := range t.rows {
		c.rows[k] = copyRow(v)
	}
	return c
}

// newestFirst returns the rows accepted by keep ordered by descending id.
func (t *table[T]) newestFirst(keep func(T) bool) []T {
	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if keep == nil || keep(row) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return t.id(out[j]).Less(t.id(out[i])) })
	return out
}

func (t *table[T]) first(keep func(T) bool) (T, bool) {
	for _, row := range t.newestFirst(keep) {
		return row, true
	}
	var zero T
	return zero, false
}

type data struct {
	users         *table[models.User]
	products      *table[models.Product]
	categories    *table[models.ProductCategory]
	verifications *table[models.SellerVerificationRequest]
	bookings      *table[models.Booking]
	wishlist      *table[models.WishlistEntry]
}

func identity[T any](v T) T { return v }

func (d *data) clone() *data {
	return &data{
		users:         d.users.clone(identity[models.User]),
		products:      d.products.clone(identity[models.Product]),
		categories:    d.categories.clone(identity[models.ProductCategory]),
		verifications: d.verifications.clone(identity[models.SellerVerificationRequest]),
		bookings:      d.bookings.clone(copyBooking),
		wishlist:      d.wishlist.clone(identity[models.WishlistEntry]),
	}
}

func copyBooking(b models.Booking) models.Booking {
	b.Details = maps.Clone(b.Details)
	return b
}

// Store keeps every collection in memory behind a single mutex.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	d    *data
}

// New returns an empty store.
func New() *Store {
	return &Store{d: &data{
		users:         newTable(func(u models.User) models.ID { return u.ID }),
		products:      newTable(func(p models.Product) models.ID { return p.ID }),
		categories:    newTable(func(c models.ProductCategory) models.ID { return c.ID }),
		verifications: newTable(func(v models.SellerVerificationRequest) models.ID { return v.ID }),
		bookings:      newTable(func(b models.Booking) models.ID { return b.ID }),
		wishlist:      newTable(func(w models.WishlistEntry) models.ID { return w.ID }),
	}}
}

func (s *Store) Users() store.UserRepository                 { return users{s} }
func (s *Store) Products() store.ProductRepository           { return products{s} }
func (s *Store) Categories() store.CategoryRepository        { return categories{s} }
func (s *Store) Verifications() store.VerificationRepository { return verifications{s} }
func (s *Store) Bookings() store.BookingRepository           { return bookings{s} }
func (s *Store) Wishlist() store.WishlistRepository          { return wishlist{s} }

// WithTransaction serializes transactions and restores a snapshot taken before
// fn when fn fails.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.d.clone()
	s.mu.RUnlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.d = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) read(fn func(d *data)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.d)
}

func (s *Store) write(fn func(d *data)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.d)
}

func limit[T any](rows []T, n int64) []T {
	if n > 0 && int64(len(rows)) > n {
		return rows[:n]
	}
	return rows
}
