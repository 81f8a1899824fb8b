package models

// ProductCategory groups listings, e.g. by phone brand.
type ProductCategory struct {
	ID    ID     `bson:"_id,omitempty" json:"_id"`
	Name  string `bson:"name" json:"name"`
	Label string `bson:"label,omitempty" json:"label,omitempty"`
	Image string `bson:"image,omitempty" json:"image,omitempty"`
}
