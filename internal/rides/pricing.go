package rides

import (
	"github.com/shopspring/decimal"

	"github.com/airbear/airbear-backend/pkg/geo"
	"github.com/airbear/airbear-backend/pkg/types"
)

const (
	AverageSpeedKMH = 12.0
	// EcoPointsPerRide is credited to the rider on completion.
	EcoPointsPerRide = 10
)

var (
	baseFare   = decimal.RequireFromString("4.00")
	farePerKM  = decimal.RequireFromString("2.00")
	co2KGPerKM = decimal.RequireFromString("0.21")
)

// quote prices a trip of distanceKM kilometres.
func quote(distanceKM float64) Estimate {
	km := decimal.NewFromFloat(distanceKM).Round(types.MoneyPlaces)
	return Estimate{
		DistanceKM:        types.NewDecimal(km),
		EstimatedDuration: geo.EstimateETAMinutes(distanceKM, AverageSpeedKMH),
		Fare:              types.NewDecimal(baseFare.Add(farePerKM.Mul(km))),
		CO2Saved:          co2ForDistance(types.NewDecimal(km)),
	}
}

func co2ForDistance(distance types.Decimal) types.Decimal {
	return types.NewDecimal(distance.Mul(co2KGPerKM))
}
