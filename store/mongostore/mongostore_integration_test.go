package mongostore

import (
	"context"
	"errors"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/raushankrgupta/phoneswap-server/models"
	"github.com/raushankrgupta/phoneswap-server/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

// newIntegrationStore starts a single node replica set so transactions work.
// Set RUN_MONGO_INTEGRATION=true to run; Docker is required.
func newIntegrationStore(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("RUN_MONGO_INTEGRATION") != "true" {
		t.Skip("set RUN_MONGO_INTEGRATION=true to run MongoDB integration tests")
	}

	ctx := context.Background()
	ctr, err := mongodb.Run(ctx, "mongo:7", mongodb.WithReplicaSet("rs0"))
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)
	u, err := url.Parse(uri)
	require.NoError(t, err)
	q := u.Query()
	q.Del("replicaSet")
	q.Set("directConnection", "true")
	u.RawQuery = q.Encode()

	client, err := Connect(ctx, u.String())
	require.NoError(t, err)

	s := New(client, "phoneswap_test")
	t.Cleanup(func() { _ = s.Disconnect(context.Background()) })
	require.NoError(t, s.EnsureIndexes(ctx))
	return s
}

func TestMongoStore(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()

	t.Run("user upsert keeps insert-only fields", func(t *testing.T) {
		created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		res, err := s.Users().Upsert(ctx, models.User{Email: "a@x.com", Name: "A", Role: models.RoleSeller, CreatedAt: created})
		require.NoError(t, err)
		assert.EqualValues(t, 1, res.Upserted)

		res, err = s.Users().Upsert(ctx, models.User{Email: "a@x.com", Name: "A2", Role: models.RoleBuyer, CreatedAt: time.Now()})
		require.NoError(t, err)
		assert.EqualValues(t, 1, res.Matched)
		assert.EqualValues(t, 1, res.Modified)

		u, err := s.Users().FindByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, "A2", u.Name)
		assert.Equal(t, models.RoleSeller, u.Role)
		assert.False(t, u.IsVerified)
		assert.True(t, created.Equal(u.CreatedAt))

		res, err = s.Users().Upsert(ctx, models.User{Email: "a@x.com"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, res.Matched)
		u, err = s.Users().FindByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, "A2", u.Name)

		n, err := s.Users().Count(ctx, models.RoleSeller)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		_, err = s.Users().FindByEmail(ctx, "nobody@x.com")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("user email is unique", func(t *testing.T) {
		_, err := s.db.Collection(UsersCollection).InsertOne(ctx, bson.M{"email": "a@x.com", "name": "Twin"})
		assert.True(t, mongo.IsDuplicateKeyError(err))
	})

	t.Run("empty lists are not nil", func(t *testing.T) {
		list, err := s.Wishlist().ListByEmail(ctx, "nobody@x.com")
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("products filter by seller and sort newest first", func(t *testing.T) {
		first := &models.Product{Name: "one", SellerID: "s1", Status: models.StatusAvailable}
		second := &models.Product{Name: "two", SellerID: "s1", Status: models.StatusAvailable}
		require.NoError(t, s.Products().Insert(ctx, first))
		require.NoError(t, s.Products().Insert(ctx, second))

		list, err := s.Products().List(ctx, models.ProductFilter{SellerID: "s1"})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID)

		res, err := s.Products().SetPromoted(ctx, first.ID, "s2", true)
		require.NoError(t, err)
		assert.Zero(t, res.Matched)

		n, err := s.Products().Delete(ctx, first.ID, "s2")
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("transaction rolls back both writes", func(t *testing.T) {
		p := &models.Product{Name: "tx", SellerID: "s1", Status: models.StatusAvailable}
		require.NoError(t, s.Products().Insert(ctx, p))

		boom := errors.New("boom")
		err := s.WithTransaction(ctx, func(ctx context.Context) error {
			res, err := s.Products().MarkBooked(ctx, p.ID)
			if err != nil {
				return err
			}
			require.EqualValues(t, 1, res.Modified)
			b := models.NewBooking(p.ID.String(), "tx@x.com", nil, time.Now())
			if err := s.Bookings().Insert(ctx, &b); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := s.Products().FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusAvailable, got.Status)
		bookings, err := s.Bookings().ListByEmail(ctx, "tx@x.com")
		require.NoError(t, err)
		assert.Empty(t, bookings)
	})

	t.Run("booking details round trip", func(t *testing.T) {
		b := models.NewBooking(models.NewID().String(), "b@x.com", map[string]any{"meetAt": "Banani"}, time.Now())
		require.NoError(t, s.Bookings().Insert(ctx, &b))

		got, err := s.Bookings().FindByID(ctx, b.ID, "b@x.com")
		require.NoError(t, err)
		assert.Equal(t, "Banani", got.Details["meetAt"])

		_, err = s.Bookings().FindByID(ctx, b.ID, "other@x.com")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("wishlist exists", func(t *testing.T) {
		e := &models.WishlistEntry{ProductID: "p1", Email: "w@x.com"}
		require.NoError(t, s.Wishlist().Insert(ctx, e))

		ok, err := s.Wishlist().Exists(ctx, "p1", "w@x.com")
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = s.Wishlist().Exists(ctx, "p2", "w@x.com")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("verification approve twice modifies once", func(t *testing.T) {
		v := &models.SellerVerificationRequest{UserID: "u1", Email: "v@x.com", Status: models.VerificationPending}
		require.NoError(t, s.Verifications().Insert(ctx, v))

		res, err := s.Verifications().SetStatus(ctx, v.ID, models.VerificationApproved)
		require.NoError(t, err)
		assert.EqualValues(t, 1, res.Modified)
		res, err = s.Verifications().SetStatus(ctx, v.ID, models.VerificationApproved)
		require.NoError(t, err)
		assert.EqualValues(t, 1, res.Matched)
		assert.Zero(t, res.Modified)
	})
}
