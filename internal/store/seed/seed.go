package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/airbear/airbear-backend/internal/store"
	"github.com/airbear/airbear-backend/pkg/db/models"
	"github.com/airbear/airbear-backend/pkg/enums"
	"github.com/airbear/airbear-backend/pkg/types"
)

// namespace keeps seeded ids stable across restarts and backends.
var namespace = uuid.MustParse("6f1c2a8e-3b7d-4c59-9a41-0d2e5b7f8c13")

// ID returns the deterministic id of a seeded record.
func ID(kind, key string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(kind+":"+key))
}

var epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func strPtr(s string) *string {
	return &s
}

func idPtr(id uuid.UUID) *uuid.UUID {
	return &id
}

func money(raw string) types.Decimal {
	d, err := types.ParseDecimal(raw)
	if err != nil {
		panic(err)
	}
	return d
}

func coord(raw string) types.Coordinate {
	c, err := types.ParseCoordinate(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// Spots are campus pickup and dropoff points.
func Spots() []models.Spot {
	raw := []struct {
		key, name, lat, lng string
	}{
		{"hub", "HUB-Robeson Center", "40.7982133", "-77.8599084"},
		{"library", "Pattee Library", "40.7983345", "-77.8653256"},
		{"beaver", "Beaver Stadium", "40.8121958", "-77.8561278"},
		{"downtown", "Downtown State College", "40.7933949", "-77.8600012"},
		{"east", "East Halls", "40.8044972", "-77.8561120"},
	}
	out := make([]models.Spot, 0, len(raw))
	for i, r := range raw {
		out = append(out, models.Spot{
			ID:        ID("spot", r.key),
			Name:      r.name,
			Latitude:  coord(r.lat),
			Longitude: coord(r.lng),
			IsActive:  true,
			CreatedAt: epoch.Add(time.Duration(i) * time.Minute),
		})
	}
	return out
}

// Vehicles mixes every availability/charging combination.
func Vehicles() []models.Vehicle {
	return []models.Vehicle{
		{
			ID:                ID("airbear", "1"),
			CurrentSpotID:     idPtr(ID("spot", "hub")),
			BatteryLevel:      92,
			IsAvailable:       true,
			IsCharging:        false,
			TotalDistance:     money("1204.50"),
			MaintenanceStatus: enums.MaintenanceStatusGood,
			CreatedAt:         epoch,
		},
		{
			ID:                ID("airbear", "2"),
			CurrentSpotID:     idPtr(ID("spot", "library")),
			BatteryLevel:      35,
			IsAvailable:       true,
			IsCharging:        true,
			TotalDistance:     money("860.25"),
			MaintenanceStatus: enums.MaintenanceStatusGood,
			CreatedAt:         epoch.Add(time.Minute),
		},
		{
			ID:                ID("airbear", "3"),
			CurrentSpotID:     idPtr(ID("spot", "downtown")),
			BatteryLevel:      78,
			IsAvailable:       false,
			IsCharging:        false,
			TotalDistance:     money("2301.00"),
			MaintenanceStatus: enums.MaintenanceStatusNeedsService,
			CreatedAt:         epoch.Add(2 * time.Minute),
		},
		{
			ID:                ID("airbear", "4"),
			CurrentSpotID:     idPtr(ID("spot", "east")),
			BatteryLevel:      12,
			IsAvailable:       false,
			IsCharging:        true,
			TotalDistance:     money("415.75"),
			MaintenanceStatus: enums.MaintenanceStatusGood,
			CreatedAt:         epoch.Add(3 * time.Minute),
		},
	}
}

// BodegaItems is the starter catalog.
func BodegaItems() []models.BodegaItem {
	return []models.BodegaItem{
		{
			ID:            ID("item", "ceo-tshirt"),
			Name:          "CEO T-Shirt",
			Description:   strPtr("Organic cotton tee. Includes one free ride per day."),
			Price:         money("100.00"),
			Category:      "merch",
			IsEcoFriendly: true,
			IsAvailable:   true,
			Stock:         50,
			CreatedAt:     epoch,
		},
		{
			ID:            ID("item", "water"),
			Name:          "Spring Water",
			Description:   strPtr("Refill-friendly aluminum bottle."),
			Price:         money("2.50"),
			Category:      "drinks",
			IsEcoFriendly: true,
			IsAvailable:   true,
			Stock:         120,
			CreatedAt:     epoch.Add(time.Minute),
		},
		{
			ID:            ID("item", "cold-brew"),
			Name:          "Cold Brew Coffee",
			Price:         money("4.25"),
			Category:      "drinks",
			IsEcoFriendly: false,
			IsAvailable:   true,
			Stock:         40,
			CreatedAt:     epoch.Add(2 * time.Minute),
		},
		{
			ID:            ID("item", "trail-mix"),
			Name:          "Trail Mix",
			Description:   strPtr("Locally packed, compostable bag."),
			Price:         money("3.75"),
			Category:      "snacks",
			IsEcoFriendly: true,
			IsAvailable:   true,
			Stock:         60,
			CreatedAt:     epoch.Add(3 * time.Minute),
		},
		{
			ID:            ID("item", "phone-charger"),
			Name:          "Phone Charger Rental",
			Price:         money("5.00"),
			Category:      "essentials",
			IsEcoFriendly: false,
			IsAvailable:   false,
			Stock:         0,
			CreatedAt:     epoch.Add(4 * time.Minute),
		},
	}
}

// Load writes the reference data into st. Records that already exist are
// left alone, so Load is safe to run on every boot.
func Load(ctx context.Context, st store.EntityStore) error {
	for _, spot := range Spots() {
		if _, err := st.GetSpot(ctx, spot.ID); err == nil {
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("seed spot %s: %w", spot.Name, err)
		}
		if _, err := st.CreateSpot(ctx, &spot); err != nil {
			return fmt.Errorf("seed spot %s: %w", spot.Name, err)
		}
	}
	for _, vehicle := range Vehicles() {
		if _, err := st.GetVehicle(ctx, vehicle.ID); err == nil {
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("seed vehicle %s: %w", vehicle.ID, err)
		}
		if _, err := st.CreateVehicle(ctx, &vehicle); err != nil {
			return fmt.Errorf("seed vehicle %s: %w", vehicle.ID, err)
		}
	}
	for _, item := range BodegaItems() {
		if _, err := st.GetBodegaItem(ctx, item.ID); err == nil {
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("seed bodega item %s: %w", item.Name, err)
		}
		if _, err := st.CreateBodegaItem(ctx, &item); err != nil {
			return fmt.Errorf("seed bodega item %s: %w", item.Name, err)
		}
	}
	return nil
}
