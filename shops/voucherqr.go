package shops

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"regiobon/apperr"
	"regiobon/db"
	"regiobon/globals"
	"regiobon/models"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GenerateVoucherPayload returns the signed payload encoded in a shop's
// voucher-redemption QR: shopID|ownerID|timestamp|signature.
func GenerateVoucherPayload(shopID, ownerID string) string {
	timestamp := time.Now().Unix()
	data := fmt.Sprintf("%s|%s|%d", shopID, ownerID, timestamp)

	h := hmac.New(sha256.New, globals.VoucherSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))

	return fmt.Sprintf("%s|%s", data, sig)
}

// VoucherQR serves the PNG QR code a shop prints as its regional-voucher
// acceptance badge. Anyone may fetch it; the payload is tamper-evident.
func VoucherQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	var shop models.Shop
	err := db.ShopsCollection.FindOne(r.Context(), bson.M{"shopid": ps.ByName("shopId"), "is_active": true}).Decode(&shop)
	if err == mongo.ErrNoDocuments {
		return apperr.NotFound("Shop not found")
	}
	if err != nil {
		return apperr.Internal("Failed to fetch shop", err)
	}

	png, err := qrcode.Encode(GenerateVoucherPayload(shop.ShopID, shop.OwnerID), qrcode.Medium, 256)
	if err != nil {
		return apperr.Internal("Failed to generate QR code", err)
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
	return nil
}
