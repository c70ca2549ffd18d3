package models

import "time"

// GeoPoint is a GeoJSON point, longitude first, as the 2dsphere index expects.
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"` // [lng, lat]
}

func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

func (p GeoPoint) Lng() float64 {
	if len(p.Coordinates) == 2 {
		return p.Coordinates[0]
	}
	return 0
}

func (p GeoPoint) Lat() float64 {
	if len(p.Coordinates) == 2 {
		return p.Coordinates[1]
	}
	return 0
}

// Shop is a local business accepting the regional voucher scheme.
// ReportCount only increases (one increment per accepted report submission);
// Warnings only increases via moderation.
type Shop struct {
	ShopID      string    `json:"shopid" bson:"shopid"`
	OwnerID     string    `json:"ownerid" bson:"ownerid"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Address     string    `json:"address" bson:"address"`
	Location    GeoPoint  `json:"location" bson:"location"`
	Categories  []string  `json:"categories,omitempty" bson:"categories,omitempty"`
	Image       string    `json:"banner,omitempty" bson:"banner,omitempty"`
	ReportCount int       `json:"report_count" bson:"report_count"`
	Warnings    int       `json:"warnings" bson:"warnings"`
	IsActive    bool      `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`

	// DistanceKm is populated by $geoNear queries only.
	DistanceKm float64 `json:"distance_km,omitempty" bson:"distance_km,omitempty"`
}

// Item is a catalogue entry of a shop.
type Item struct {
	ItemID      string    `json:"itemid" bson:"itemid"`
	ShopID      string    `json:"shopid" bson:"shopid"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64   `json:"price" bson:"price"`
	Unit        string    `json:"unit,omitempty" bson:"unit,omitempty"`
	InStock     bool      `json:"in_stock" bson:"in_stock"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
