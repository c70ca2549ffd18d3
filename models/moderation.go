package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ModAction enumerates every moderation decision the audit log can record.
type ModAction string

const (
	ActionRemoveReview  ModAction = "remove_review"
	ActionApproveReview ModAction = "approve_review"
	ActionRemoveShop    ModAction = "remove_shop"
	ActionApproveShop   ModAction = "approve_shop"
	ActionWarnUser      ModAction = "warn_user"
	ActionWarnShop      ModAction = "warn_shop"
	ActionRemoveUser    ModAction = "remove_user"
)

// ModerationLog is the append-only system-of-record for moderation
// accountability. Entries are written exactly once and never mutated.
type ModerationLog struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Admin         string             `json:"admin" bson:"admin"`
	Action        ModAction          `json:"action" bson:"action"`
	TargetType    string             `json:"targetType" bson:"targetType"` // user | shop | review
	TargetID      string             `json:"targetId" bson:"targetId"`
	RelatedReport primitive.ObjectID `json:"relatedReport,omitempty" bson:"relatedReport,omitempty"`
	Reason        string             `json:"reason,omitempty" bson:"reason,omitempty"`
	Details       string             `json:"details,omitempty" bson:"details,omitempty"`
	Timestamp     time.Time          `json:"timestamp" bson:"timestamp"`

	// AdminName/AdminEmail are denormalized on read only.
	AdminName  string `json:"adminName,omitempty" bson:"-"`
	AdminEmail string `json:"adminEmail,omitempty" bson:"-"`
}
