package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleShopper = "shopper"
	RoleOwner   = "owner"
	RoleAdmin   = "admin"
)

// Warning is a permanent mark against a user's account, embedded in the
// user document. The list is append-only; nothing ever removes an entry.
type Warning struct {
	Reason        string             `json:"reason" bson:"reason"`
	IssuedBy      string             `json:"issuedBy" bson:"issuedBy"`
	IssuedAt      time.Time          `json:"issuedAt" bson:"issuedAt"`
	RelatedReport primitive.ObjectID `json:"relatedReport,omitempty" bson:"relatedReport,omitempty"`
}

type User struct {
	UserID        string    `json:"userid" bson:"userid"`
	Username      string    `json:"username" bson:"username"`
	Email         string    `json:"email" bson:"email"`
	Password      string    `json:"-" bson:"password"`
	Role          string    `json:"role" bson:"role"`
	Name          string    `json:"name,omitempty" bson:"name,omitempty"`
	Warnings      []Warning `json:"warnings" bson:"warnings"`
	IsActive      bool      `json:"is_active" bson:"is_active"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
	LastLogin     time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
	RefreshToken  string    `json:"-" bson:"refreshtoken,omitempty"`
	RefreshExpiry time.Time `json:"-" bson:"refreshexp,omitempty"`
}
