// Package mongostore implements store.Store on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/raushankrgupta/phoneswap-server/store"
)

// Collection names used by the original deployment.
const (
	UsersCollection         = "users"
	ProductsCollection      = "products"
	CategoriesCollection    = "productCategories"
	VerificationsCollection = "sellerVerifications"
	BookingsCollection      = "bookings"
	WishlistCollection      = "wishlist"
)

var _ store.Store = (*Store)(nil)

// Connect opens a client and pings the deployment so startup fails fast on a
// bad URI or unreachable cluster.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// Store is the MongoDB-backed store.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New wraps an already connected client.
func New(client *mongo.Client, dbName string) *Store {
	return &Store{client: client, db: client.Database(dbName)}
}

func (s *Store) Users() store.UserRepository {
	return users{s.db.Collection(UsersCollection)}
}

func (s *Store) Products() store.ProductRepository {
	return products{s.db.Collection(ProductsCollection)}
}

func (s *Store) Categories() store.CategoryRepository {
	return categories{s.db.Collection(CategoriesCollection)}
}

func (s *Store) Verifications() store.VerificationRepository {
	return verifications{s.db.Collection(VerificationsCollection)}
}

func (s *Store) Bookings() store.BookingRepository {
	return bookings{s.db.Collection(BookingsCollection)}
}

func (s *Store) Wishlist() store.WishlistRepository {
	return wishlist{s.db.Collection(WishlistCollection)}
}

// WithTransaction runs fn inside a session transaction. Transactions need a
// replica set or sharded cluster; Atlas clusters qualify.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// EnsureIndexes creates the lookup indexes. Only the user email index is
// unique; it backs concurrent upserts. The one-per-user and one-per-product
// rules are enforced by the handlers.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		ProductsCollection: {
			{Keys: bson.D{{Key: "sellerId", Value: 1}}},
			{Keys: bson.D{{Key: "categoryId", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "isPromoted", Value: 1}, {Key: "status", Value: 1}}},
		},
		VerificationsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}}},
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
		BookingsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
		WishlistCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}, {Key: "productId", Value: 1}}},
		},
	}
	for name, indexes := range specs {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// Disconnect closes the underlying client.
func (s *Store) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var newestFirst = bson.D{{Key: "_id", Value: -1}}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (*T, error) {
	var out T
	err := coll.FindOne(ctx, filter).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", coll.Name(), err)
	}
	return &out, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, limit int64) ([]T, error) {
	opts := options.Find().SetSort(newestFirst)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

func updateOne(ctx context.Context, coll *mongo.Collection, filter, update any, opts ...*options.UpdateOptions) (store.UpdateResult, error) {
	res, err := coll.UpdateOne(ctx, filter, update, opts...)
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("update in %s: %w", coll.Name(), err)
	}
	return store.UpdateResult{
		Matched:  res.MatchedCount,
		Modified: res.ModifiedCount,
		Upserted: res.UpsertedCount,
	}, nil
}

func deleteOne(ctx context.Context, coll *mongo.Collection, filter any) (int64, error) {
	res, err := coll.DeleteOne(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete in %s: %w", coll.Name(), err)
	}
	return res.DeletedCount, nil
}
