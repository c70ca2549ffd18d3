package shops

import (
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

type itemPayload struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Unit        string  `json:"unit"`
	InStock     *bool   `json:"in_stock"`
}

// requireOwnedShop loads an active shop and checks the caller owns it.
func requireOwnedShop(r *http.Request, shopID string) (*models.Shop, error) {
	var shop models.Shop
	err := db.ShopsCollection.FindOne(r.Context(), bson.M{"shopid": shopID, "is_active": true}).Decode(&shop)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("Shop not found")
	}
	if err != nil {
		return nil, apperr.Internal("Failed to fetch shop", err)
	}
	if shop.OwnerID != utils.GetUserIDFromRequest(r) {
		return nil, apperr.Forbidden("Not your shop")
	}
	return &shop, nil
}

func CreateItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	shop, err := requireOwnedShop(r, ps.ByName("shopId"))
	if err != nil {
		return err
	}

	var payload itemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return apperr.BadRequest("Invalid JSON payload")
	}
	payload.Name = utils.Trim(payload.Name)
	if payload.Name == "" || payload.Price <= 0 {
		return apperr.BadRequest("Name and a positive price are required")
	}

	item := models.Item{
		ItemID:      utils.GenerateID(16),
		ShopID:      shop.ShopID,
		Name:        payload.Name,
		Description: utils.Trim(payload.Description),
		Price:       payload.Price,
		Unit:        utils.Trim(payload.Unit),
		InStock:     true,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if payload.InStock != nil {
		item.InStock = *payload.InStock
	}

	if _, err := db.ItemsCollection.InsertOne(r.Context(), item); err != nil {
		return apperr.Internal("Failed to create item", err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "item": item})
	return nil
}

func GetItems(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	skip, limit := utils.ParsePagination(r, 50, 200)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := db.ItemsCollection.Find(r.Context(), bson.M{"shopid": ps.ByName("shopId")}, opts)
	if err != nil {
		return apperr.Internal("Failed to fetch items", err)
	}
	defer cursor.Close(r.Context())

	var items []models.Item
	if err := cursor.All(r.Context(), &items); err != nil {
		return apperr.Internal("Error processing items", err)
	}
	if len(items) == 0 {
		items = []models.Item{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "items": items})
	return nil
}

func UpdateItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	if _, err := requireOwnedShop(r, ps.ByName("shopId")); err != nil {
		return err
	}

	var payload itemPayload
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
	if payload.Price > 0 {
		set["price"] = payload.Price
	}
	if unit := utils.Trim(payload.Unit); unit != "" {
		set["unit"] = unit
	}
	if payload.InStock != nil {
		set["in_stock"] = *payload.InStock
	}

	res, err := db.ItemsCollection.UpdateOne(r.Context(),
		bson.M{"itemid": ps.ByName("itemId"), "shopid": ps.ByName("shopId")},
		bson.M{"$set": set},
	)
	if err != nil {
		return apperr.Internal("Failed to update item", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("Item not found")
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Item updated"})
	return nil
}

func DeleteItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	if _, err := requireOwnedShop(r, ps.ByName("shopId")); err != nil {
		return err
	}

	res, err := db.ItemsCollection.DeleteOne(r.Context(),
		bson.M{"itemid": ps.ByName("itemId"), "shopid": ps.ByName("shopId")})
	if err != nil {
		return apperr.Internal("Failed to delete item", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Item not found")
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Item deleted"})
	return nil
}
