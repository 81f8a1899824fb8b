package store

import (
	"context"
	"errors"

	"github.com/raushankrgupta/phoneswap-server/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// UpdateResult mirrors the acknowledgement counts returned by the database.
type UpdateResult struct {
	Matched  int64
	Modified int64
	Upserted int64
}

// Store groups the marketplace collections behind one handle so handlers get
// their persistence injected instead of reaching for a global client.
type Store interface {
	Users() UserRepository
	Products() ProductRepository
	Categories() CategoryRepository
	Verifications() VerificationRepository
	Bookings() BookingRepository
	Wishlist() WishlistRepository

	// WithTransaction runs fn atomically. Repository calls made with the ctx
	// passed to fn take part in the transaction; if fn returns an error every
	// write made inside it is discarded.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository is the identity store.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id models.ID) (*models.User, error)
	// List returns users with role, or every user when role is empty.
	List(ctx context.Context, role models.Role) ([]models.User, error)
	// Count counts users with role, or estimates the whole collection when role is empty.
	Count(ctx context.Context, role models.Role) (int64, error)
	// Upsert creates the user keyed on email or refreshes its non-empty profile
	// fields. Role, verification flag and creation time are only written on insert.
	Upsert(ctx context.Context, user models.User) (UpdateResult, error)
	SetRole(ctx context.Context, id models.ID, role models.Role) (UpdateResult, error)
	SetVerified(ctx context.Context, id models.ID, verified bool) (UpdateResult, error)
	Delete(ctx context.Context, id models.ID) (int64, error)
}

// ProductRepository stores listings.
type ProductRepository interface {
	Insert(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id models.ID) (*models.Product, error)
	// List returns products matching filter, newest first.
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	Count(ctx context.Context) (int64, error)
	// MarkBooked moves an Available product to Booked.
	MarkBooked(ctx context.Context, id models.ID) (UpdateResult, error)
	SetPromoted(ctx context.Context, id models.ID, sellerID string, promoted bool) (UpdateResult, error)
	Delete(ctx context.Context, id models.ID, sellerID string) (int64, error)
}

// CategoryRepository stores product categories.
type CategoryRepository interface {
	Insert(ctx context.Context, category *models.ProductCategory) error
	FindByID(ctx context.Context, id models.ID) (*models.ProductCategory, error)
	List(ctx context.Context) ([]models.ProductCategory, error)
	Update(ctx context.Context, category models.ProductCategory) (UpdateResult, error)
	Delete(ctx context.Context, id models.ID) (int64, error)
}

// VerificationRepository stores seller verification requests.
type VerificationRepository interface {
	Insert(ctx context.Context, req *models.SellerVerificationRequest) error
	FindByID(ctx context.Context, id models.ID) (*models.SellerVerificationRequest, error)
	FindByUserID(ctx context.Context, userID string) (*models.SellerVerificationRequest, error)
	FindByEmail(ctx context.Context, email string) (*models.SellerVerificationRequest, error)
	// List returns requests with status, or all requests when status is empty.
	List(ctx context.Context, status models.VerificationStatus) ([]models.SellerVerificationRequest, error)
	SetStatus(ctx context.Context, id models.ID, status models.VerificationStatus) (UpdateResult, error)
	Delete(ctx context.Context, id models.ID) (int64, error)
}

// BookingRepository stores bookings.
type BookingRepository interface {
	Insert(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id models.ID, email string) (*models.Booking, error)
	ListByEmail(ctx context.Context, email string) ([]models.Booking, error)
}

// WishlistRepository stores wishlist entries.
type WishlistRepository interface {
	Insert(ctx context.Context, entry *models.WishlistEntry) error
	Exists(ctx context.Context, productID, email string) (bool, error)
	ListByEmail(ctx context.Context, email string) ([]models.WishlistEntry, error)
	Delete(ctx context.Context, id models.ID, email string) (int64, error)
}
