package models

import "time"

// ProductStatus is the listing lifecycle state.
type ProductStatus string

const (
	StatusAvailable ProductStatus = "Available"
	StatusBooked    ProductStatus = "Booked"
)

// Product represents a second-hand phone listing.
type Product struct {
	ID            ID            `bson:"_id,omitempty" json:"_id"`
	Name          string        `bson:"name" json:"name"`
	CategoryID    string        `bson:"categoryId" json:"categoryId"`
	Price         float64       `bson:"price" json:"price"`
	OriginalPrice float64       `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	Condition     string        `bson:"condition" json:"condition"`
	Location      string        `bson:"location" json:"location"`
	YearsOfUse    string        `bson:"yearsOfUse" json:"yearsOfUse"`
	Description   string        `bson:"description" json:"description"`
	Image         string        `bson:"image" json:"image"`
	Phone         string        `bson:"phone,omitempty" json:"phone,omitempty"`
	PostedAt      time.Time     `bson:"postedAt" json:"postedAt"`
	SellerID      string        `bson:"sellerId" json:"sellerId"`
	Status        ProductStatus `bson:"status" json:"status"`
	IsPromoted    bool          `bson:"isPromoted" json:"isPromoted"`

	// IsSellerVerified is computed per request from the seller's user record.
	IsSellerVerified bool `bson:"-" json:"isSellerVerified"`
}

// ProductFilter narrows product listings. Zero fields are ignored.
type ProductFilter struct {
	SellerID   string
	CategoryID string
	Status     ProductStatus
	Promoted   *bool
	Limit      int64
}
