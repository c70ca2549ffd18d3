package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TargetKind discriminates what a report points at.
type TargetKind string

const (
	TargetReview TargetKind = "review"
	TargetShop   TargetKind = "shop"
)

func (k TargetKind) Valid() bool {
	return k == TargetReview || k == TargetShop
}

// TargetRef is a typed reference to a reportable entity.
type TargetRef struct {
	Kind TargetKind `json:"targetType" bson:"targetType"`
	ID   string     `json:"targetId" bson:"targetId"`
}

// Report categories
const (
	CategorySpam       = "spam"
	CategoryOffensive  = "offensive"
	CategoryMisleading = "misleading"
	CategoryFalseInfo  = "false_information"
)

func ValidCategory(c string) bool {
	switch c {
	case CategorySpam, CategoryOffensive, CategoryMisleading, CategoryFalseInfo:
		return true
	}
	return false
}

// Report statuses. resolved, dismissed and review_removed are terminal.
const (
	ReportPending       = "pending"
	ReportReviewed      = "reviewed"
	ReportResolved      = "resolved"
	ReportDismissed     = "dismissed"
	ReportReviewRemoved = "review_removed"
)

// MaxReportDescription / MaxResolution bound the free-text fields.
const (
	MaxReportDescription = 1000
	MaxResolution        = 500
)

// Report is a shopper complaint against a review or a shop, awaiting an
// admin decision. A given (reporter, targetType, targetId) triple is unique.
type Report struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Reporter    string             `json:"reporter" bson:"reporter"`
	TargetRef   `bson:",inline"`
	Category    string     `json:"category" bson:"category"`
	Description string     `json:"description" bson:"description"`
	Status      string     `json:"status" bson:"status"`
	Timestamp   time.Time  `json:"timestamp" bson:"timestamp"`
	ReviewedBy  string     `json:"reviewedBy,omitempty" bson:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time `json:"reviewedAt,omitempty" bson:"reviewedAt,omitempty"`
	Resolution  string     `json:"resolution,omitempty" bson:"resolution,omitempty"`
	Notified    bool       `json:"notified" bson:"notified"`
}

// Terminal reports are immutable except for the audit trail.
func (r *Report) Terminal() bool {
	switch r.Status {
	case ReportResolved, ReportDismissed, ReportReviewRemoved:
		return true
	}
	return false
}
