package shops

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"regiobon/apperr"
	"regiobon/db"
	"regiobon/models"
	"regiobon/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type shopPayload struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Lng         float64  `json:"lng"`
	Lat         float64  `json:"lat"`
	Categories  []string `json:"categories"`
}

// CreateShop registers a new voucher-accepting shop for the logged-in owner.
func CreateShop(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	ownerID := utils.GetUserIDFromRequest(r)

	var payload shopPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return apperr.BadRequest("Invalid JSON payload")
	}
	payload.Name = utils.Trim(payload.Name)
	payload.Address = utils.Trim(payload.Address)
	if payload.Name == "" || payload.Address == "" {
		return apperr.BadRequest("Name and address are required")
	}

	shop := models.Shop{
		ShopID:      utils.GenerateID(16),
		OwnerID:     ownerID,
		Name:        payload.Name,
		Description: utils.Trim(payload.Description),
		Address:     payload.Address,
		Location:    models.NewGeoPoint(payload.Lng, payload.Lat),
		Categories:  payload.Categories,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if _, err := db.ShopsCollection.InsertOne(r.Context(), shop); err != nil {
		return apperr.Internal("Failed to create shop", err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "shop": shop})
	return nil
}

func GetShop(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	var shop models.Shop
	err := db.ShopsCollection.FindOne(r.Context(), bson.M{"shopid": ps.ByName("shopId"), "is_active": true}).Decode(&shop)
	if err == mongo.ErrNoDocuments {
		return apperr.NotFound("Shop not found")
	}
	if err != nil {
		return apperr.Internal("Failed to fetch shop", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "shop": shop})
	return nil
}

// GetShops lists active shops, newest first. With ?near=lng,lat it switches
// to a $geoNear aggregation and returns shops nearest first, annotated with
// distance_km; ?maxKm= bounds the search radius.
func GetShops(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if near := r.URL.Query().Get("near"); near != "" {
		return nearbyShops(ctx, w, r, near)
	}

	skip, limit := utils.ParsePagination(r, 20, 100)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := db.ShopsCollection.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return apperr.Internal("Failed to fetch shops", err)
	}
	defer cursor.Close(ctx)

	var shops []models.Shop
	if err := cursor.All(ctx, &shops); err != nil {
		return apperr.Internal("Error processing shops", err)
	}
	if len(shops) == 0 {
		shops = []models.Shop{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "shops": shops})
	return nil
}

func nearbyShops(ctx context.Context, w http.ResponseWriter, r *http.Request, near string) error {
	parts := strings.Split(near, ",")
	if len(parts) != 2 {
		return apperr.BadRequest("near must be lng,lat")
	}
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLng != nil || errLat != nil {
		return apperr.BadRequest("near must be lng,lat")
	}

	maxKm := 25.0
	if s := r.URL.Query().Get("maxKm"); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil && v > 0 {
			maxKm = v
		}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.M{
			"near":          models.NewGeoPoint(lng, lat),
			"distanceField": "distance_km",
			"maxDistance":   maxKm * 1000,
			"query":         bson.M{"is_active": true},
			"spherical":     true,
		}}},
		{{Key: "$limit", Value: 50}},
		// meters -> km
		{{Key: "$set", Value: bson.M{"distance_km": bson.M{"$divide": bson.A{"$distance_km", 1000}}}}},
	}

	cursor, err := db.ShopsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return apperr.Internal("Failed to search nearby shops", err)
	}
	defer cursor.Close(ctx)

	var shops []models.Shop
	if err := cursor.All(ctx, &shops); err != nil {
		return apperr.Internal("Error processing shops", err)
	}
	if len(shops) == 0 {
		shops = []models.Shop{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "shops": shops})
	return nil
}

// UpdateShop lets the owner edit shop details. Counters and flags are not
// reachable from here; moderation owns those.
func UpdateShop(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	ownerID := utils.GetUserIDFromRequest(r)
	shopID := ps.ByName("shopId")

	var payload shopPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return apperr.BadRequest("Invalid JSON payload")
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if name := utils.Trim(payload.Name); name != "" {
		set["name"] = name
	}
	if desc := utils.Trim(payload.Description); desc != "" {
		set["description"] = desc
	}
	if addr := utils.Trim(payload.Address); addr != "" {
		set["address"] = addr
	}
	if payload.Lng != 0 || payload.Lat != 0 {
		set["location"] = models.NewGeoPoint(payload.Lng, payload.Lat)
	}
	if payload.Categories != nil {
		set["categories"] = payload.Categories
	}

	res, err := db.ShopsCollection.UpdateOne(r.Context(),
		bson.M{"shopid": shopID, "ownerid": ownerID, "is_active": true},
		bson.M{"$set": set},
	)
	if err != nil {
		return apperr.Internal("Failed to update shop", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("Shop not found or not yours")
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Shop updated"})
	return nil
}

// DeleteShop soft-deletes the owner's shop.
func DeleteShop(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	ownerID := utils.GetUserIDFromRequest(r)

	res, err := db.ShopsCollection.UpdateOne(r.Context(),
		bson.M{"shopid": ps.ByName("shopId"), "ownerid": ownerID, "is_active": true},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return apperr.Internal("Failed to delete shop", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("Shop not found or not yours")
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Shop deleted"})
	return nil
}
