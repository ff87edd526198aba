package analytics

import (
	"time"

	"github.com/airbear/airbear-backend/pkg/types"
)

// OverviewRequest bounds ride, order and payment figures by creation time.
// Nil bounds are open.
type OverviewRequest struct {
	Start *time.Time
	End   *time.Time
}

// TimeSeriesPoint is a single day/value pair.
type TimeSeriesPoint struct {
	Date  string `json:"date"`
	Value int64  `json:"value"`
}

// Overview is the operator dashboard summary.
type Overview struct {
	TotalUsers       int               `json:"totalUsers"`
	TotalDrivers     int               `json:"totalDrivers"`
	TotalRides       int               `json:"totalRides"`
	RidesByStatus    map[string]int    `json:"ridesByStatus"`
	ActiveVehicles   int               `json:"activeVehicles"`
	ChargingVehicles int               `json:"chargingVehicles"`
	TotalOrders      int               `json:"totalOrders"`
	CompletedRevenue types.Decimal     `json:"completedRevenue"`
	TotalCO2Saved    types.Decimal     `json:"totalCo2Saved"`
	RidesPerDay      []TimeSeriesPoint `json:"ridesPerDay"`
}
