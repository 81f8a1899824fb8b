package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/raushankrgupta/phoneswap-server/models"
	"github.com/raushankrgupta/phoneswap-server/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers_Upsert(t *testing.T) {
	ctx := context.Background()
	s := New()

	res, err := s.Users().Upsert(ctx, models.User{Email: "a@x.com", Name: "A", Role: models.RoleSeller})
	require.NoError(t, err)
	assert.Equal(t, store.UpdateResult{Upserted: 1}, res)

	u, err := s.Users().FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, u.ID.IsZero())
	assert.False(t, u.CreatedAt.IsZero())

	res, err = s.Users().Upsert(ctx, models.User{Email: "a@x.com", Name: "A", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, store.UpdateResult{Matched: 1}, res)

	res, err = s.Users().Upsert(ctx, models.User{Email: "a@x.com", Name: "B", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, store.UpdateResult{Matched: 1, Modified: 1}, res)

	u, err = s.Users().FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "B", u.Name)
	assert.Equal(t, models.RoleSeller, u.Role)

	res, err = s.Users().Upsert(ctx, models.User{Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, store.UpdateResult{Matched: 1}, res)
	u, err = s.Users().FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "B", u.Name)
}

func TestUsers_ListAndCount(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, u := range []models.User{
		{Email: "a@x.com", Role: models.RoleAdmin},
		{Email: "b@x.com", Role: models.RoleBuyer},
		{Email: "c@x.com", Role: models.RoleBuyer},
	} {
		_, err := s.Users().Upsert(ctx, u)
		require.NoError(t, err)
	}

	all, err := s.Users().List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c@x.com", all[0].Email, "newest first")

	n, err := s.Users().Count(ctx, models.RoleBuyer)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	sellers, err := s.Users().List(ctx, models.RoleSeller)
	require.NoError(t, err)
	assert.NotNil(t, sellers)
	assert.Empty(t, sellers)
}

func TestProducts_OwnershipAndStatus(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := &models.Product{Name: "Pixel", SellerID: "s1", Status: models.StatusAvailable}
	require.NoError(t, s.Products().Insert(ctx, p))

	res, err := s.Products().SetPromoted(ctx, p.ID, "s2", true)
	require.NoError(t, err)
	assert.Zero(t, res.Matched)

	n, err := s.Products().Delete(ctx, p.ID, "s2")
	require.NoError(t, err)
	assert.Zero(t, n)

	res, err = s.Products().MarkBooked(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Modified)

	res, err = s.Products().MarkBooked(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, res.Modified)

	promoted := true
	list, err := s.Products().List(ctx, models.ProductFilter{Status: models.StatusAvailable, Promoted: &promoted})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProducts_ListLimit(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, s.Products().Insert(ctx, &models.Product{Name: name, SellerID: "s1"}))
	}

	list, err := s.Products().List(ctx, models.ProductFilter{SellerID: "s1", Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0].Name)
	assert.Equal(t, "b", list[1].Name)
}

func TestWithTransaction_RollsBack(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := &models.Product{Name: "Pixel", Status: models.StatusAvailable}
	require.NoError(t, s.Products().Insert(ctx, p))

	boom := errors.New("boom")
	err := s.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.Products().MarkBooked(ctx, p.ID); err != nil {
			return err
		}
		b := models.NewBooking(p.ID.String(), "b@x.com", map[string]any{"k": "v"}, p.PostedAt)
		if err := s.Bookings().Insert(ctx, &b); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Products().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAvailable, got.Status)

	bookings, err := s.Bookings().ListByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestWithTransaction_Commits(t *testing.T) {
	ctx := context.Background()
	s := New()
	v := &models.SellerVerificationRequest{UserID: "u1", Email: "s@x.com", Status: models.VerificationPending}
	require.NoError(t, s.Verifications().Insert(ctx, v))

	err := s.WithTransaction(ctx, func(ctx context.Context) error {
		_, err := s.Verifications().SetStatus(ctx, v.ID, models.VerificationApproved)
		return err
	})
	require.NoError(t, err)

	got, err := s.Verifications().FindByEmail(ctx, "s@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationApproved, got.Status)
}

func TestBookings_CopiesDetails(t *testing.T) {
	ctx := context.Background()
	s := New()
	b := models.NewBooking("p1", "b@x.com", map[string]any{"note": "x"}, time.Now())
	require.NoError(t, s.Bookings().Insert(ctx, &b))

	b.Details["note"] = "changed"
	got, err := s.Bookings().FindByID(ctx, b.ID, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, "x", got.Details["note"])

	_, err = s.Bookings().FindByID(ctx, b.ID, "other@x.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestWishlist(t *testing.T) {
	ctx := context.Background()
	s := New()
	e := &models.WishlistEntry{ProductID: "p1", Email: "b@x.com"}
	require.NoError(t, s.Wishlist().Insert(ctx, e))

	ok, err := s.Wishlist().Exists(ctx, "p1", "b@x.com")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Wishlist().Exists(ctx, "p1", "c@x.com")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := s.Wishlist().Delete(ctx, e.ID, "c@x.com")
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = s.Wishlist().Delete(ctx, e.ID, "b@x.com")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCategories_Update(t *testing.T) {
	ctx := context.Background()
	s := New()
	c := &models.ProductCategory{Name: "apple"}
	require.NoError(t, s.Categories().Insert(ctx, c))

	res, err := s.Categories().Update(ctx, models.ProductCategory{ID: c.ID, Name: "apple"})
	require.NoError(t, err)
	assert.Equal(t, store.UpdateResult{Matched: 1}, res)

	res, err = s.Categories().Update(ctx, models.ProductCategory{ID: c.ID, Name: "apple", Label: "Apple"})
	require.NoError(t, err)
	assert.Equal(t, store.UpdateResult{Matched: 1, Modified: 1}, res)

	res, err = s.Categories().Update(ctx, models.ProductCategory{ID: models.NewID(), Name: "x"})
	require.NoError(t, err)
	assert.Zero(t, res.Matched)
}
