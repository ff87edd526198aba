package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/airbear/airbear-backend/internal/store"
	"github.com/airbear/airbear-backend/pkg/db/models"
	"github.com/airbear/airbear-backend/pkg/enums"
	pkgerrors "github.com/airbear/airbear-backend/pkg/errors"
	"github.com/airbear/airbear-backend/pkg/types"
)

const dayLayout = "2006-01-02"

// Service aggregates operational figures across the entity store.
type Service interface {
	Overview(ctx context.Context, req OverviewRequest) (*Overview, error)
}

type analyticsStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListVehicles(ctx context.Context) ([]models.Vehicle, error)
	ListRides(ctx context.Context) ([]models.Ride, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListPayments(ctx context.Context) ([]models.Payment, error)
}

type service struct {
	store analyticsStore
}

func NewService(st analyticsStore) (Service, error) {
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}
	return &service{store: st}, nil
}

func (s *service) Overview(ctx context.Context, req OverviewRequest) (*Overview, error) {
	if req.Start != nil && req.End != nil && req.End.Before(*req.Start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"end": "must not be before start"})
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, store.Translate(err, "user")
	}
	vehicles, err := s.store.ListVehicles(ctx)
	if err != nil {
		return nil, store.Translate(err, "airbear")
	}
	rides, err := s.store.ListRides(ctx)
	if err != nil {
		return nil, store.Translate(err, "ride")
	}
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, store.Translate(err, "order")
	}
	payments, err := s.store.ListPayments(ctx)
	if err != nil {
		return nil, store.Translate(err, "payment")
	}

	out := &Overview{
		TotalUsers:    len(users),
		RidesByStatus: map[string]int{},
		RidesPerDay:   []TimeSeriesPoint{},
	}
	for _, u := range users {
		if u.Role == enums.UserRoleDriver {
			out.TotalDrivers++
		}
	}
	for _, v := range vehicles {
		if v.IsAvailable {
			out.ActiveVehicles++
		}
		if v.IsCharging {
			out.ChargingVehicles++
		}
	}

	co2 := decimal.Zero
	perDay := map[string]int64{}
	for _, r := range rides {
		if !req.contains(r.RequestedAt) {
			continue
		}
		out.TotalRides++
		out.RidesByStatus[string(r.Status)]++
		perDay[r.RequestedAt.UTC().Format(dayLayout)]++
		if r.Status == enums.RideStatusCompleted && r.CO2Saved != nil {
			co2 = co2.Add(r.CO2Saved.Decimal)
		}
	}
	for day, n := range perDay {
		out.RidesPerDay = append(out.RidesPerDay, TimeSeriesPoint{Date: day, Value: n})
	}
	sort.Slice(out.RidesPerDay, func(i, j int) bool {
		return out.RidesPerDay[i].Date < out.RidesPerDay[j].Date
	})

	for _, o := range orders {
		if req.contains(o.CreatedAt) {
			out.TotalOrders++
		}
	}

	revenue := decimal.Zero
	for _, p := range payments {
		if p.Status == enums.PaymentStatusCompleted && req.contains(p.CreatedAt) {
			revenue = revenue.Add(p.Amount.Decimal)
		}
	}
	out.CompletedRevenue = types.NewDecimal(revenue)
	out.TotalCO2Saved = types.NewDecimal(co2)
	return out, nil
}

// contains treats End as inclusive of its whole UTC day.
func (r OverviewRequest) contains(ts time.Time) bool {
	ts = ts.UTC()
	if r.Start != nil && ts.Before(r.Start.UTC()) {
		return false
	}
	if r.End != nil && !ts.Before(r.End.UTC().AddDate(0, 0, 1)) {
		return false
	}
	return true
}
