package cart

import (
	"context"
	"math"
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
)

// Stop is a shop the planned route visits.
type Stop struct {
	ShopID  string  `json:"shopid"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lng     float64 `json:"lng"`
	Lat     float64 `json:"lat"`
}

// Leg is one segment of the planned route.
type Leg struct {
	Stop
	LegKm   float64 `json:"leg_km"`
	TotalKm float64 `json:"total_km"`
}

// PlanRoute orders stops by repeated nearest-neighbor from the start point.
// An approximation, not an optimum, which is fine for a handful of shops.
func PlanRoute(startLng, startLat float64, stops []Stop) []Leg {
	remaining := make([]Stop, len(stops))
	copy(remaining, stops)

	legs := make([]Leg, 0, len(stops))
	curLng, curLat := startLng, startLat
	total := 0.0

	for len(remaining) > 0 {
		best := 0
		bestDist := haversineKm(curLng, curLat, remaining[0].Lng, remaining[0].Lat)
		for i := 1; i < len(remaining); i++ {
			if d := haversineKm(curLng, curLat, remaining[i].Lng, remaining[i].Lat); d < bestDist {
				best, bestDist = i, d
			}
		}

		next := remaining[best]
		remaining = append(remaining[:best], remaining[best+1:]...)

		total += bestDist
		legs = append(legs, Leg{Stop: next, LegKm: roundKm(bestDist), TotalKm: roundKm(total)})
		curLng, curLat = next.Lng, next.Lat
	}

	return legs
}

const earthRadiusKm = 6371.0

func haversineKm(lng1, lat1, lng2, lat2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func roundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

// GetRoute handles GET /api/cart/route?from=lng,lat: a shopping route
// across the distinct shops currently in the cart.
func GetRoute(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	parts := strings.Split(r.URL.Query().Get("from"), ",")
	if len(parts) != 2 {
		return apperr.BadRequest("from must be lng,lat")
	}
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLng != nil || errLat != nil {
		return apperr.BadRequest("from must be lng,lat")
	}

	items, err := cartItems(ctx, utils.GetUserIDFromRequest(r))
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return apperr.BadRequest("Cart is empty")
	}

	shopIDs := make([]string, 0, len(items))
	seen := map[string]bool{}
	for _, item := range items {
		if !seen[item.ShopID] {
			seen[item.ShopID] = true
			shopIDs = append(shopIDs, item.ShopID)
		}
	}

	cursor, err := db.ShopsCollection.Find(ctx, bson.M{"shopid": bson.M{"$in": shopIDs}, "is_active": true})
	if err != nil {
		return apperr.Internal("Failed to fetch shops", err)
	}
	defer cursor.Close(ctx)

	var shops []models.Shop
	if err := cursor.All(ctx, &shops); err != nil {
		return apperr.Internal("Error processing shops", err)
	}
	if len(shops) == 0 {
		return apperr.NotFound("No active shops in cart")
	}

	stops := make([]Stop, 0, len(shops))
	for _, shop := range shops {
		stops = append(stops, Stop{
			ShopID:  shop.ShopID,
			Name:    shop.Name,
			Address: shop.Address,
			Lng:     shop.Location.Lng(),
			Lat:     shop.Location.Lat(),
		})
	}

	legs := PlanRoute(lng, lat, stops)
	totalKm := 0.0
	if len(legs) > 0 {
		totalKm = legs[len(legs)-1].TotalKm
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":  true,
		"route":    legs,
		"total_km": totalKm,
	})
	return nil
}
