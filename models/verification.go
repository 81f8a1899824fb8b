package models

import "time"

// VerificationStatus tracks a seller verification request.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "Pending"
	VerificationApproved VerificationStatus = "Approved"
)

// SellerVerificationRequest is a seller's application for the verified badge.
// Name, Image, Email and Phone are a snapshot of the applicant at submission.
type SellerVerificationRequest struct {
	ID          ID                 `bson:"_id,omitempty" json:"_id"`
	UserID      string             `bson:"userId" json:"userId"`
	Name        string             `bson:"name" json:"name"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Email       string             `bson:"email" json:"email"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Status      VerificationStatus `bson:"status" json:"status"`
	SubmittedAt time.Time          `bson:"submittedAt" json:"submittedAt"`
}
