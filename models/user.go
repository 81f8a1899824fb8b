package models

import "time"

// User represents a marketplace account. Email is the authentication key.
type User struct {
	ID         ID        `bson:"_id,omitempty" json:"_id"`
	Email      string    `bson:"email" json:"email"`
	Name       string    `bson:"name" json:"name"`
	Image      string    `bson:"image,omitempty" json:"image,omitempty"`
	Phone      string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Role       Role      `bson:"role" json:"role"`
	IsVerified bool      `bson:"isVerified" json:"isVerified"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// HasRole reports whether the user currently holds role.
func (u *User) HasRole(role Role) bool {
	return u != nil && u.Role == role
}
