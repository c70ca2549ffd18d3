package admin

import (
	"context"
	"net/http"
	"time"

	"regiobon/apperr"
	"regiobon/db"
	"regiobon/models"
	"regiobon/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const pendingReportsCap = 50

// PendingReport is a report enriched with denormalized target details for
// the admin queue. Enrichment is best-effort: a broken reference degrades
// to "Unknown" placeholders instead of failing the whole request.
type PendingReport struct {
	models.Report `bson:",inline"`
	TargetName    string   `json:"targetName"`
	TargetOwner   string   `json:"targetOwner"`
	TargetImages  []string `json:"targetImages,omitempty"`
}

// GetPendingReports handles GET /api/admin/reports with optional ?type=,
// plus the /reviews and /shops convenience routes.
func (h *Handler) GetPendingReports(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	kind := models.TargetKind(r.URL.Query().Get("type"))
	if kind != "" && !kind.Valid() {
		return apperr.BadRequest("type must be review or shop")
	}
	return h.pendingReports(w, r, kind)
}

func (h *Handler) GetPendingReviewReports(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	return h.pendingReports(w, r, models.TargetReview)
}

func (h *Handler) GetPendingShopReports(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	return h.pendingReports(w, r, models.TargetShop)
}

func (h *Handler) pendingReports(w http.ResponseWriter, r *http.Request, kind models.TargetKind) error {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{"status": models.ReportPending}
	if kind != "" {
		filter["targetType"] = kind
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(pendingReportsCap)

	cursor, err := db.ReportsCollection.Find(ctx, filter, opts)
	if err != nil {
		return apperr.Internal("Failed to fetch reports", err)
	}
	defer cursor.Close(ctx)

	var reports []models.Report
	if err := cursor.All(ctx, &reports); err != nil {
		return apperr.Internal("Error processing reports", err)
	}

	enriched := make([]PendingReport, 0, len(reports))
	for _, report := range reports {
		enriched = append(enriched, enrichReport(ctx, report))
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "reports": enriched})
	return nil
}

func enrichReport(ctx context.Context, report models.Report) PendingReport {
	out := PendingReport{Report: report, TargetName: "Unknown", TargetOwner: "Unknown"}

	switch report.Kind {
	case models.TargetReview:
		var review models.Review
		if err := db.ReviewsCollection.FindOne(ctx, bson.M{"reviewid": report.TargetRef.ID}).Decode(&review); err != nil {
			return out
		}
		out.TargetImages = review.Images
		out.TargetOwner = usernameOf(ctx, review.ShopperID)

		var item models.Item
		if err := db.ItemsCollection.FindOne(ctx, bson.M{"itemid": review.ItemID}).Decode(&item); err == nil {
			out.TargetName = item.Name
		}

	case models.TargetShop:
		var shop models.Shop
		if err := db.ShopsCollection.FindOne(ctx, bson.M{"shopid": report.TargetRef.ID}).Decode(&shop); err != nil {
			return out
		}
		out.TargetName = shop.Name
		out.TargetOwner = usernameOf(ctx, shop.OwnerID)
	}

	return out
}

func usernameOf(ctx context.Context, userID string) string {
	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err != nil {
		return "Unknown"
	}
	if user.Name != "" {
		return user.Name
	}
	return user.Username
}
