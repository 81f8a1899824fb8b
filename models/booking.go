package models

import (
	"encoding/json"
	"time"
)

// Booking records a buyer reserving a product. Details holds whatever extra
// fields the buyer sent (meeting location, phone, ...) and is stored inline.
type Booking struct {
	ID        ID             `bson:"_id,omitempty" json:"_id"`
	ProductID string         `bson:"productId" json:"productId"`
	Email     string         `bson:"email" json:"email"`
	BookedAt  time.Time      `bson:"bookedAt" json:"bookedAt"`
	Details   map[string]any `bson:",inline" json:"-"`
}

var bookingReservedKeys = []string{"_id", "productId", "email", "bookedAt"}

// NewBooking merges the caller payload into a booking, dropping any payload
// keys that would shadow the booking's own fields.
func NewBooking(productID, email string, payload map[string]any, now time.Time) Booking {
	details := make(map[string]any, len(payload))
	for k, v := range payload {
		details[k] = v
	}
	for _, k := range bookingReservedKeys {
		delete(details, k)
	}
	return Booking{ProductID: productID, Email: email, BookedAt: now, Details: details}
}

// MarshalJSON flattens Details next to the fixed fields.
func (b Booking) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(b.Details)+4)
	for k, v := range b.Details {
		out[k] = v
	}
	out["_id"] = b.ID
	out["productId"] = b.ProductID
	out["email"] = b.Email
	out["bookedAt"] = b.BookedAt
	return json.Marshal(out)
}
