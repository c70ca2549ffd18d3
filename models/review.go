package models

import "time"

// MaxReviewImages caps the photos a shopper may attach to one review.
const MaxReviewImages = 5

// Review of a catalogue item by a shopper. One active review per
// (item, shopper) pair. Warnings increments only when moderation removes
// the review, never decrements. IsActive=false is the soft-delete flag,
// set either by the author or by moderation.
type Review struct {
	ReviewID    string    `json:"reviewid" bson:"reviewid"`
	ItemID      string    `json:"itemid" bson:"itemid"`
	ShopID      string    `json:"shopid" bson:"shopid"`
	ShopperID   string    `json:"shopperid" bson:"shopperid"`
	Description string    `json:"description" bson:"description"`
	Available   bool      `json:"available" bson:"available"`
	Images      []string  `json:"images,omitempty" bson:"images,omitempty"`
	ReportCount int       `json:"report_count" bson:"report_count"`
	Warnings    int       `json:"warnings" bson:"warnings"`
	IsActive    bool      `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
