package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineKm(t *testing.T) {
	// One degree of longitude on the equator is about 111.19 km.
	assert.InDelta(t, 111.19, haversineKm(0, 0, 1, 0), 0.1)
	assert.Zero(t, haversineKm(13.4, 52.5, 13.4, 52.5))

	// Berlin to Munich, roughly 504 km.
	assert.InDelta(t, 504, haversineKm(13.405, 52.52, 11.582, 48.135), 5)
}

func TestPlanRouteNearestNeighbor(t *testing.T) {
	// Start at the origin; stops placed so that greedy nearest-neighbor
	// visits them west to east.
	stops := []Stop{
		{ShopID: "far", Lng: 3, Lat: 0},
		{ShopID: "near", Lng: 1, Lat: 0},
		{ShopID: "mid", Lng: 2, Lat: 0},
	}

	legs := PlanRoute(0, 0, stops)
	require.Len(t, legs, 3)

	assert.Equal(t, "near", legs[0].ShopID)
	assert.Equal(t, "mid", legs[1].ShopID)
	assert.Equal(t, "far", legs[2].ShopID)

	// Total distance accumulates leg by leg.
	assert.Greater(t, legs[1].TotalKm, legs[0].TotalKm)
	assert.Greater(t, legs[2].TotalKm, legs[1].TotalKm)
	assert.InDelta(t, legs[0].LegKm+legs[1].LegKm+legs[2].LegKm, legs[2].TotalKm, 0.05)
}

func TestPlanRouteEmpty(t *testing.T) {
	legs := PlanRoute(13.4, 52.5, nil)
	assert.Empty(t, legs)
}

func TestPlanRouteSingleStop(t *testing.T) {
	legs := PlanRoute(0, 0, []Stop{{ShopID: "only", Name: "Corner Bakery", Lng: 1, Lat: 1}})
	require.Len(t, legs, 1)
	assert.Equal(t, "only", legs[0].ShopID)
	assert.Equal(t, legs[0].LegKm, legs[0].TotalKm)
}
