package fleet

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/airbear/airbear-backend/internal/realtime"
	"github.com/airbear/airbear-backend/internal/store"
	"github.com/airbear/airbear-backend/pkg/db/models"
	"github.com/airbear/airbear-backend/pkg/logger"
)

// Service serves spots and vehicles.
type Service interface {
	ListSpots(ctx context.Context) ([]models.Spot, error)
	GetSpot(ctx context.Context, id uuid.UUID) (*models.Spot, error)
	ListVehicles(ctx context.Context) ([]models.Vehicle, error)
	ListAvailableVehicles(ctx context.Context) ([]models.Vehicle, error)
	UpdateVehicle(ctx context.Context, id uuid.UUID, req UpdateVehicleRequest) (*models.Vehicle, error)
}

type fleetStore interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetSpot(ctx context.Context, id uuid.UUID) (*models.Spot, error)
	ListSpots(ctx context.Context) ([]models.Spot, error)
	ListVehicles(ctx context.Context) ([]models.Vehicle, error)
	ListAvailableVehicles(ctx context.Context) ([]models.Vehicle, error)
	UpdateVehicle(ctx context.Context, id uuid.UUID, patch store.VehiclePatch) (*models.Vehicle, error)
}

// Publisher receives vehicle pings after a successful update.
type Publisher interface {
	PublishLocation(ctx context.Context, update realtime.LocationUpdate) int
}

type ServiceParams struct {
	Store     fleetStore
	Publisher Publisher
	Logger    *logger.Logger
}

type service struct {
	store     fleetStore
	publisher Publisher
	logg      *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	return &service{store: params.Store, publisher: params.Publisher, logg: params.Logger}, nil
}

func (s *service) ListSpots(ctx context.Context) ([]models.Spot, error) {
	spots, err := s.store.ListSpots(ctx)
	if err != nil {
		return nil, store.Translate(err, "spot")
	}
	return spots, nil
}

func (s *service) GetSpot(ctx context.Context, id uuid.UUID) (*models.Spot, error) {
	spot, err := s.store.GetSpot(ctx, id)
	if err != nil {
		return nil, store.Translate(err, "spot")
	}
	return spot, nil
}

func (s *service) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	vehicles, err := s.store.ListVehicles(ctx)
	if err != nil {
		return nil, store.Translate(err, "airbear")
	}
	return vehicles, nil
}

func (s *service) ListAvailableVehicles(ctx context.Context) ([]models.Vehicle, error) {
	vehicles, err := s.store.ListAvailableVehicles(ctx)
	if err != nil {
		return nil, store.Translate(err, "airbear")
	}
	return vehicles, nil
}

// UpdateVehicle applies a driver update and pushes the new position to
// realtime subscribers. The broadcast is best-effort and never fails the call.
func (s *service) UpdateVehicle(ctx context.Context, id uuid.UUID, req UpdateVehicleRequest) (*models.Vehicle, error) {
	if req.DriverID != nil {
		if _, err := s.store.GetUser(ctx, *req.DriverID); err != nil {
			return nil, store.Translate(err, "driver")
		}
	}
	var spot *models.Spot
	if req.CurrentSpotID != nil {
		found, err := s.store.GetSpot(ctx, *req.CurrentSpotID)
		if err != nil {
			return nil, store.Translate(err, "spot")
		}
		spot = found
	}

	vehicle, err := s.store.UpdateVehicle(ctx, id, store.VehiclePatch{
		DriverID:          req.DriverID,
		CurrentSpotID:     req.CurrentSpotID,
		BatteryLevel:      req.BatteryLevel,
		IsAvailable:       req.IsAvailable,
		IsCharging:        req.IsCharging,
		TotalDistance:     req.TotalDistance,
		MaintenanceStatus: req.MaintenanceStatus,
	})
	if err != nil {
		return nil, store.Translate(err, "airbear")
	}

	s.broadcast(ctx, vehicle, spot)
	return vehicle, nil
}

func (s *service) broadcast(ctx context.Context, vehicle *models.Vehicle, spot *models.Spot) {
	if s.publisher == nil {
		return
	}
	if spot == nil && vehicle.CurrentSpotID != nil {
		if found, err := s.store.GetSpot(ctx, *vehicle.CurrentSpotID); err == nil {
			spot = found
		}
	}
	update := realtime.LocationUpdate{
		AirbearID:     vehicle.ID,
		CurrentSpotID: vehicle.CurrentSpotID,
		BatteryLevel:  vehicle.BatteryLevel,
		IsAvailable:   vehicle.IsAvailable,
		IsCharging:    vehicle.IsCharging,
	}
	if spot != nil {
		lat, lng := spot.Latitude, spot.Longitude
		update.Latitude = &lat
		update.Longitude = &lng
	}
	delivered := s.publisher.PublishLocation(ctx, update)
	if s.logg != nil {
		s.logg.Debug(s.logg.WithFields(ctx, map[string]any{"airbear_id": vehicle.ID.String(), "delivered": delivered}), "fleet.location_published")
	}
}
