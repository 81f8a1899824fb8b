package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/raushankrgupta/phoneswap-server/models"
	"github.com/raushankrgupta/phoneswap-server/store"
)

func insert(ctx context.Context, coll *mongo.Collection, id *models.ID, doc any) error {
	if id.IsZero() {
		*id = models.NewID()
	}
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert into %s: %w", coll.Name(), err)
	}
	return nil
}

type users struct{ coll *mongo.Collection }

func (r users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, r.coll, bson.M{"email": email})
}

func (r users) FindByID(ctx context.Context, id models.ID) (*models.User, error) {
	return findOne[models.User](ctx, r.coll, bson.M{"_id": id})
}

func (r users) List(ctx context.Context, role models.Role) ([]models.User, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}
	return findAll[models.User](ctx, r.coll, filter, 0)
}

func (r users) Count(ctx context.Context, role models.Role) (int64, error) {
	if role == "" {
		n, err := r.coll.EstimatedDocumentCount(ctx)
		if err != nil {
			return 0, fmt.Errorf("estimate users: %w", err)
		}
		return n, nil
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{"role": role})
	if err != nil {
		return 0, fmt.Errorf("count %s users: %w", role, err)
	}
	return n, nil
}

func (r users) Upsert(ctx context.Context, user models.User) (store.UpdateResult, error) {
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	onInsert := bson.M{
		"role":       user.Role,
		"isVerified": user.IsVerified,
		"createdAt":  createdAt,
	}
	// omitted profile fields keep their stored values
	set := bson.M{}
	if user.Name != "" {
		set["name"] = user.Name
	} else {
		onInsert["name"] = ""
	}
	if user.Image != "" {
		set["image"] = user.Image
	}
	if user.Phone != "" {
		set["phone"] = user.Phone
	}
	update := bson.M{"$setOnInsert": onInsert}
	if len(set) > 0 {
		update["$set"] = set
	}
	return updateOne(ctx, r.coll, bson.M{"email": user.Email}, update, options.Update().SetUpsert(true))
}

func (r users) SetRole(ctx context.Context, id models.ID, role models.Role) (store.UpdateResult, error) {
	return updateOne(ctx, r.coll, bson.M{"_id": id}, bson.M{"$set": bson.M{"role": role}})
}

func (r users) SetVerified(ctx context.Context, id models.ID, verified bool) (store.UpdateResult, error) {
	return updateOne(ctx, r.coll, bson.M{"_id": id}, bson.M{"$set": bson.M{"isVerified": verified}})
}

func (r users) Delete(ctx context.Context, id models.ID) (int64, error) {
	return deleteOne(ctx, r.coll, bson.M{"_id": id})
}

type products struct{ coll *mongo.Collection }

func (r products) Insert(ctx context.Context, p *models.Product) error {
	return insert(ctx, r.coll, &p.ID, p)
}

func (r products) FindByID(ctx context.Context, id models.ID) (*models.Product, error) {
	return findOne[models.Product](ctx, r.coll, bson.M{"_id": id})
}

func (r products) List(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	filter := bson.M{}
	if f.SellerID != "" {
		filter["sellerId"] = f.SellerID
	}
	if f.CategoryID != "" {
		filter["categoryId"] = f.CategoryID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Promoted != nil {
		filter["isPromoted"] = *f.Promoted
	}
	return findAll[models.Product](ctx, r.coll, filter, f.Limit)
}

func (r products) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("estimate products: %w", err)
	}
	return n, nil
}

func (r products) MarkBooked(ctx context.Context, id models.ID) (store.UpdateResult, error) {
	filter := bson.M{"_id": id, "status": models.StatusAvailable}
	return updateOne(ctx, r.coll, filter, bson.M{"$set": bson.M{"status": models.StatusBooked}})
}

func (r products) SetPromoted(ctx context.Context, id models.ID, sellerID string, promoted bool) (store.UpdateResult, error) {
	filter := bson.M{"_id": id, "sellerId": sellerID}
	return updateOne(ctx, r.coll, filter, bson.M{"$set": bson.M{"isPromoted": promoted}})
}

func (r products) Delete(ctx context.Context, id models.ID, sellerID string) (int64, error) {
	return deleteOne(ctx, r.coll, bson.M{"_id": id, "sellerId": sellerID})
}

type categories struct{ coll *mongo.Collection }

func (r categories) Insert(ctx context.Context, c *models.ProductCategory) error {
	return insert(ctx, r.coll, &c.ID, c)
}

func (r categories) FindByID(ctx context.Context, id models.ID) (*models.ProductCategory, error) {
	return findOne[models.ProductCategory](ctx, r.coll, bson.M{"_id": id})
}

func (r categories) List(ctx context.Context) ([]models.ProductCategory, error) {
	return findAll[models.ProductCategory](ctx, r.coll, bson.M{}, 0)
}

func (r categories) Update(ctx context.Context, c models.ProductCategory) (store.UpdateResult, error) {
	set := bson.M{"name": c.Name, "label": c.Label, "image": c.Image}
	return updateOne(ctx, r.coll, bson.M{"_id": c.ID}, bson.M{"$set": set})
}

func (r categories) Delete(ctx context.Context, id models.ID) (int64, error) {
	return deleteOne(ctx, r.coll, bson.M{"_id": id})
}

type verifications struct{ coll *mongo.Collection }

func (r verifications) Insert(ctx context.Context, v *models.SellerVerificationRequest) error {
	return insert(ctx, r.coll, &v.ID, v)
}

func (r verifications) FindByID(ctx context.Context, id models.ID) (*models.SellerVerificationRequest, error) {
	return findOne[models.SellerVerificationRequest](ctx, r.coll, bson.M{"_id": id})
}

func (r verifications) FindByUserID(ctx context.Context, userID string) (*models.SellerVerificationRequest, error) {
	return findOne[models.SellerVerificationRequest](ctx, r.coll, bson.M{"userId": userID})
}

func (r verifications) FindByEmail(ctx context.Context, email string) (*models.SellerVerificationRequest, error) {
	return findOne[models.SellerVerificationRequest](ctx, r.coll, bson.M{"email": email})
}

func (r verifications) List(ctx context.Context, status models.VerificationStatus) ([]models.SellerVerificationRequest, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return findAll[models.SellerVerificationRequest](ctx, r.coll, filter, 0)
}

func (r verifications) SetStatus(ctx context.Context, id models.ID, status models.VerificationStatus) (store.UpdateResult, error) {
	return updateOne(ctx, r.coll, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
}

func (r verifications) Delete(ctx context.Context, id models.ID) (int64, error) {
	return deleteOne(ctx, r.coll, bson.M{"_id": id})
}

type bookings struct{ coll *mongo.Collection }

func (r bookings) Insert(ctx context.Context, b *models.Booking) error {
	return insert(ctx, r.coll, &b.ID, b)
}

func (r bookings) FindByID(ctx context.Context, id models.ID, email string) (*models.Booking, error) {
	return findOne[models.Booking](ctx, r.coll, bson.M{"_id": id, "email": email})
}

func (r bookings) ListByEmail(ctx context.Context, email string) ([]models.Booking, error) {
	return findAll[models.Booking](ctx, r.coll, bson.M{"email": email}, 0)
}

type wishlist struct{ coll *mongo.Collection }

func (r wishlist) Insert(ctx context.Context, e *models.WishlistEntry) error {
	return insert(ctx, r.coll, &e.ID, e)
}

func (r wishlist) Exists(ctx context.Context, productID, email string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"productId": productID, "email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count wishlist: %w", err)
	}
	return n > 0, nil
}

func (r wishlist) ListByEmail(ctx context.Context, email string) ([]models.WishlistEntry, error) {
	return findAll[models.WishlistEntry](ctx, r.coll, bson.M{"email": email}, 0)
}

func (r wishlist) Delete(ctx context.Context, id models.ID, email string) (int64, error) {
	return deleteOne(ctx, r.coll, bson.M{"_id": id, "email": email})
}
