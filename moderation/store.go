package moderation

import (
	"context"

	"regiobon/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is everything the engine touches. Lookups return (nil, nil) when
// the document is absent. Lookups do NOT filter on is_active: moderating an
// already-removed target re-executes its mutations, which is the documented
// behavior, not a bug to guard against here.
type Store interface {
	ReportByID(ctx context.Context, id primitive.ObjectID) (*models.Report, error)
	// SaveDecision writes the report's status and review epilogue fields.
	SaveDecision(ctx context.Context, report *models.Report) error

	ReviewByID(ctx context.Context, id string) (*models.Review, error)
	// RemoveReview sets is_active=false and increments warnings by one.
	RemoveReview(ctx context.Context, reviewID string) error
	// ItemName resolves a catalogue item's display name, "" if unknown.
	ItemName(ctx context.Context, itemID string) (string, error)

	ShopByID(ctx context.Context, id string) (*models.Shop, error)
	// RemoveShop sets is_active=false and increments warnings by one.
	RemoveShop(ctx context.Context, shopID string) error
	IncShopWarnings(ctx context.Context, shopID string) error

	UserByID(ctx context.Context, userID string) (*models.User, error)
	AppendWarning(ctx context.Context, userID string, warning models.Warning) error
	DeactivateUser(ctx context.Context, userID string) error
	DeactivateShopsByOwner(ctx context.Context, ownerID string) (int64, error)
	// OwnerReportTotal sums report_count across all shops of an owner.
	OwnerReportTotal(ctx context.Context, ownerID string) (int, error)

	InsertLog(ctx context.Context, entry *models.ModerationLog) error
}
