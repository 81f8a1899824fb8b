package models

import "time"

// WishlistEntry is a buyer's saved product. The display fields are copied from
// the product when the entry is added and are not kept in sync afterwards.
type WishlistEntry struct {
	ID        ID        `bson:"_id,omitempty" json:"_id"`
	ProductID string    `bson:"productId" json:"productId"`
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name" json:"name"`
	Image     string    `bson:"image" json:"image"`
	Price     float64   `bson:"price" json:"price"`
	Condition string    `bson:"condition" json:"condition"`
	Location  string    `bson:"location" json:"location"`
	AddedAt   time.Time `bson:"addedAt" json:"addedAt"`
}

// SnapshotWishlistEntry copies the display attributes of p.
func SnapshotWishlistEntry(p Product, email string, now time.Time) WishlistEntry {
	return WishlistEntry{
		ProductID: p.ID.String(),
		Email:     email,
		Name:      p.Name,
		Image:     p.Image,
		Price:     p.Price,
		Condition: p.Condition,
		Location:  p.Location,
		AddedAt:   now,
	}
}
