package cart

import (
	"context"
	"encoding/json"
	"net/http"
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

// AddToCart increments quantity if the item is already in the cart, or
// inserts a new CartItem snapshotting name/price/shop.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		ShopID   string `json:"shopId"`
		ItemID   string `json:"itemId"`
		Quantity int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return apperr.BadRequest("Invalid JSON payload")
	}
	if payload.ShopID == "" || payload.ItemID == "" || payload.Quantity <= 0 {
		return apperr.BadRequest("Missing or invalid fields")
	}

	userID := utils.GetUserIDFromRequest(r)

	var item models.Item
	err := db.ItemsCollection.FindOne(ctx, bson.M{"itemid": payload.ItemID, "shopid": payload.ShopID}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return apperr.NotFound("Item not found")
	}
	if err != nil {
		return apperr.Internal("Failed to fetch item", err)
	}

	var shop models.Shop
	err = db.ShopsCollection.FindOne(ctx, bson.M{"shopid": payload.ShopID, "is_active": true}).Decode(&shop)
	if err == mongo.ErrNoDocuments {
		return apperr.NotFound("Shop not found")
	}
	if err != nil {
		return apperr.Internal("Failed to fetch shop", err)
	}

	filter := bson.M{
		"userId": userID,
		"shopId": payload.ShopID,
		"itemId": payload.ItemID,
	}
	update := bson.M{
		"$inc": bson.M{"quantity": payload.Quantity},
		"$setOnInsert": bson.M{
			"shopName": shop.Name,
			"itemName": item.Name,
			"price":    item.Price,
			"unit":     item.Unit,
			"addedAt":  time.Now().UTC(),
		},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := db.CartCollection.UpdateOne(ctx, filter, update, opts); err != nil {
		return apperr.Internal("Failed to add to cart", err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "status": "added"})
	return nil
}

// GetCart returns the user's cart grouped by shop.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	items, err := cartItems(ctx, utils.GetUserIDFromRequest(r))
	if err != nil {
		return err
	}

	type shopGroup struct {
		ShopID   string            `json:"shopid"`
		ShopName string            `json:"shop_name"`
		Items    []models.CartItem `json:"items"`
	}

	var groups []shopGroup
	index := map[string]int{}
	for _, item := range items {
		i, ok := index[item.ShopID]
		if !ok {
			i = len(groups)
			index[item.ShopID] = i
			groups = append(groups, shopGroup{ShopID: item.ShopID, ShopName: item.ShopName})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	if groups == nil {
		groups = []shopGroup{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "cart": groups})
	return nil
}

// RemoveFromCart deletes one item line from the user's cart.
func RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	res, err := db.CartCollection.DeleteOne(r.Context(), bson.M{
		"userId": utils.GetUserIDFromRequest(r),
		"itemId": ps.ByName("itemId"),
	})
	if err != nil {
		return apperr.Internal("Failed to remove from cart", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Item not in cart")
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "status": "removed"})
	return nil
}

// ClearCart empties the user's cart.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	if _, err := db.CartCollection.DeleteMany(r.Context(), bson.M{"userId": utils.GetUserIDFromRequest(r)}); err != nil {
		return apperr.Internal("Failed to clear cart", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "status": "cleared"})
	return nil
}

func cartItems(ctx context.Context, userID string) ([]models.CartItem, error) {
	cursor, err := db.CartCollection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, apperr.Internal("Could not retrieve cart", err)
	}
	defer cursor.Close(ctx)

	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, apperr.Internal("Error reading cart data", err)
	}
	return items, nil
}
