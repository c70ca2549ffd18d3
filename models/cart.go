package models

import "time"

// CartItem is one catalogue item in a shopper's cart. Item name, price and
// shop name are snapshotted at add time so the cart view survives catalogue
// edits.
type CartItem struct {
	UserID   string    `json:"userid" bson:"userId"`
	ShopID   string    `json:"shopid" bson:"shopId"`
	ShopName string    `json:"shop_name" bson:"shopName"`
	ItemID   string    `json:"itemid" bson:"itemId"`
	ItemName string    `json:"item_name" bson:"itemName"`
	Quantity int       `json:"quantity" bson:"quantity"`
	Price    float64   `json:"price" bson:"price"`
	Unit     string    `json:"unit,omitempty" bson:"unit,omitempty"`
	AddedAt  time.Time `json:"added_at" bson:"addedAt"`
}
