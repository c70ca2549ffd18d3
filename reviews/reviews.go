package reviews

import (
	"context"
	"net/http"
	"time"

	"regiobon/apperr"
	"regiobon/db"
	"regiobon/models"
	"regiobon/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const maxUploadBytes = 20 << 20

// AddReview creates a review of a catalogue item. Multipart form: fields
// "description" (required) and "available" ("true"/"false"), plus up to
// five "images" files stored with thumbnails.
func AddReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	shopperID := utils.GetUserIDFromRequest(r)
	shopID := ps.ByName("shopId")
	itemID := ps.ByName("itemId")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	count, err := db.ItemsCollection.CountDocuments(ctx, bson.M{"itemid": itemID, "shopid": shopID})
	if err != nil {
		return apperr.Internal("Failed to check item", err)
	}
	if count == 0 {
		return apperr.NotFound("Item not found")
	}

	// One active review per (item, shopper)
	count, err = db.ReviewsCollection.CountDocuments(ctx, bson.M{
		"itemid":    itemID,
		"shopperid": shopperID,
		"is_active": true,
	})
	if err != nil {
		return apperr.Internal("Failed to check existing reviews", err)
	}
	if count > 0 {
		return apperr.Conflict("You have already reviewed this item")
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return apperr.BadRequest("Invalid multipart form")
	}

	description := utils.Trim(r.FormValue("description"))
	if description == "" {
		return apperr.BadRequest("Description is required")
	}

	review := models.Review{
		ReviewID:    utils.GenerateID(16),
		ItemID:      itemID,
		ShopID:      shopID,
		ShopperID:   shopperID,
		Description: description,
		Available:   r.FormValue("available") == "true",
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	files := r.MultipartForm.File["images"]
	if len(files) > models.MaxReviewImages {
		return apperr.BadRequestf("At most %d images allowed", models.MaxReviewImages)
	}
	for _, file := range files {
		path, err := utils.SaveReviewImage(file)
		if err != nil {
			log.Warn().Err(err).Str("reviewid", review.ReviewID).Msg("reviews: image save failed")
			continue
		}
		review.Images = append(review.Images, path)
	}

	if _, err := db.ReviewsCollection.InsertOne(ctx, review); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("You have already reviewed this item")
		}
		return apperr.Internal("Failed to save review", err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "review": review})
	return nil
}

// GetReviews lists active reviews of an item, newest first.
func GetReviews(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	skip, limit := utils.ParsePagination(r, 10, 100)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := db.ReviewsCollection.Find(ctx, bson.M{
		"itemid":    ps.ByName("itemId"),
		"is_active": true,
	}, opts)
	if err != nil {
		return apperr.Internal("Failed to retrieve reviews", err)
	}
	defer cursor.Close(ctx)

	var list []models.Review
	if err := cursor.All(ctx, &list); err != nil {
		return apperr.Internal("Error processing reviews", err)
	}
	if len(list) == 0 {
		list = []models.Review{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "reviews": list})
	return nil
}

// DeleteReview is the author's self-delete: a soft delete, same flag
// moderation uses, but without the warning bookkeeping.
func DeleteReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	shopperID := utils.GetUserIDFromRequest(r)

	res, err := db.ReviewsCollection.UpdateOne(r.Context(),
		bson.M{"reviewid": ps.ByName("reviewId"), "shopperid": shopperID, "is_active": true},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return apperr.Internal("Failed to delete review", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("Review not found or not yours")
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Review deleted"})
	return nil
}
