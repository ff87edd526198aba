package rides

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/airbear/airbear-backend/internal/store"
	"github.com/airbear/airbear-backend/pkg/db/models"
	"github.com/airbear/airbear-backend/pkg/enums"
	pkgerrors "github.com/airbear/airbear-backend/pkg/errors"
	"github.com/airbear/airbear-backend/pkg/geo"
	"github.com/airbear/airbear-backend/pkg/logger"
	"github.com/airbear/airbear-backend/pkg/metrics"
	"github.com/airbear/airbear-backend/pkg/types"
)

// Service books rides and drives their lifecycle.
type Service interface {
	Create(ctx context.Context, req CreateRideRequest) (*models.Ride, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Ride, error)
	// ListByUser returns the user's rides, newest first; a non-nil date keeps
	// only rides requested on that UTC day.
	ListByUser(ctx context.Context, userID uuid.UUID, date *time.Time) ([]models.Ride, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRideRequest) (*models.Ride, error)
	Estimate(ctx context.Context, pickupID, destinationID uuid.UUID) (*Estimate, error)
}

type rideStore interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, patch store.UserPatch) (*models.User, error)
	GetSpot(ctx context.Context, id uuid.UUID) (*models.Spot, error)
	GetVehicle(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	GetRide(ctx context.Context, id uuid.UUID) (*models.Ride, error)
	ListRidesByUser(ctx context.Context, userID uuid.UUID) ([]models.Ride, error)
	ListRidesByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]models.Ride, error)
	CreateRide(ctx context.Context, ride *models.Ride) (*models.Ride, error)
	UpdateRide(ctx context.Context, id uuid.UUID, patch store.RidePatch) (*models.Ride, error)
}

// ServiceParams bundles the ride service dependencies. Both flags default to
// off, which leaves status changes unrestricted and user stats untouched.
type ServiceParams struct {
	Store             rideStore
	Metrics           *metrics.DomainMetrics
	Logger            *logger.Logger
	StrictTransitions bool
	CreditCompletion  bool
	Now               func() time.Time
}

type service struct {
	store   rideStore
	metrics *metrics.DomainMetrics
	logg    *logger.Logger
	strict  bool
	credit  bool
	now     func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		store:   params.Store,
		metrics: params.Metrics,
		logg:    params.Logger,
		strict:  params.StrictTransitions,
		credit:  params.CreditCompletion,
		now:     now,
	}, nil
}

func (s *service) Create(ctx context.Context, req CreateRideRequest) (*models.Ride, error) {
	if req.Fare == nil || req.Fare.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"fare": "must be greater than or equal to 0"})
	}
	if req.PickupSpotID == req.DestinationSpotID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"destinationSpotId": "must differ from pickupSpotId"})
	}

	if _, err := s.store.GetUser(ctx, req.UserID); err != nil {
		return nil, store.Translate(err, "user")
	}
	pickup, err := s.store.GetSpot(ctx, req.PickupSpotID)
	if err != nil {
		return nil, store.Translate(err, "pickup spot")
	}
	destination, err := s.store.GetSpot(ctx, req.DestinationSpotID)
	if err != nil {
		return nil, store.Translate(err, "destination spot")
	}
	if req.DriverID != nil {
		if _, err := s.store.GetUser(ctx, *req.DriverID); err != nil {
			return nil, store.Translate(err, "driver")
		}
	}
	if req.AirbearID != nil {
		if _, err := s.store.GetVehicle(ctx, *req.AirbearID); err != nil {
			return nil, store.Translate(err, "airbear")
		}
	}

	ride := &models.Ride{
		UserID:            req.UserID,
		DriverID:          req.DriverID,
		AirbearID:         req.AirbearID,
		PickupSpotID:      req.PickupSpotID,
		DestinationSpotID: req.DestinationSpotID,
		Status:            enums.RideStatusPending,
		EstimatedDuration: req.EstimatedDuration,
		Distance:          req.Distance,
		CO2Saved:          req.CO2Saved,
		Fare:              *req.Fare,
		IsFreeTshirtRide:  req.IsFreeTshirtRide,
		RequestedAt:       s.now().UTC(),
	}
	fillTripEstimates(ride, pickup, destination)

	created, err := s.store.CreateRide(ctx, ride)
	if err != nil {
		return nil, store.Translate(err, "ride")
	}
	s.metrics.RideEvent(string(created.Status))
	if s.logg != nil {
		s.logg.Info(s.logg.WithRideID(ctx, created.ID.String()), "ride.requested")
	}
	return created, nil
}

// fillTripEstimates fills distance, duration and CO2 from the spot
// coordinates when the client did not send them.
func fillTripEstimates(ride *models.Ride, pickup, destination *models.Spot) {
	est := quote(geo.DistanceKM(
		pickup.Latitude.Degrees(), pickup.Longitude.Degrees(),
		destination.Latitude.Degrees(), destination.Longitude.Degrees(),
	))
	if ride.Distance == nil {
		d := est.DistanceKM
		ride.Distance = &d
	}
	if ride.EstimatedDuration == nil {
		m := est.EstimatedDuration
		ride.EstimatedDuration = &m
	}
	if ride.CO2Saved == nil {
		c := co2ForDistance(*ride.Distance)
		ride.CO2Saved = &c
	}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Ride, error) {
	ride, err := s.store.GetRide(ctx, id)
	if err != nil {
		return nil, store.Translate(err, "ride")
	}
	return ride, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, date *time.Time) ([]models.Ride, error) {
	var (
		rides []models.Ride
		err   error
	)
	if date != nil {
		rides, err = s.store.ListRidesByUserAndDate(ctx, userID, *date)
	} else {
		rides, err = s.store.ListRidesByUser(ctx, userID)
	}
	if err != nil {
		return nil, store.Translate(err, "ride")
	}
	return rides, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRideRequest) (*models.Ride, error) {
	current, err := s.store.GetRide(ctx, id)
	if err != nil {
		return nil, store.Translate(err, "ride")
	}

	patch := store.RidePatch{
		DriverID:          req.DriverID,
		AirbearID:         req.AirbearID,
		Status:            req.Status,
		EstimatedDuration: req.EstimatedDuration,
		ActualDuration:    req.ActualDuration,
		Distance:          req.Distance,
		CO2Saved:          req.CO2Saved,
		Fare:              req.Fare,
		IsFreeTshirtRide:  req.IsFreeTshirtRide,
		AcceptedAt:        req.AcceptedAt,
		StartedAt:         req.StartedAt,
		CompletedAt:       req.CompletedAt,
	}

	if req.Status != nil {
		next := *req.Status
		if !next.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]string{"status": "is invalid"})
		}
		if s.strict && !current.Status.CanTransitionTo(next) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot move ride from %s to %s", current.Status, next)).
				WithDetails(map[string]string{"from": string(current.Status), "to": string(next)})
		}
		s.stampTransition(current, next, &patch)
	}

	updated, err := s.store.UpdateRide(ctx, id, patch)
	if err != nil {
		return nil, store.Translate(err, "ride")
	}

	if req.Status != nil && current.Status != updated.Status {
		s.metrics.RideEvent(string(updated.Status))
		if s.logg != nil {
			ctx = s.logg.WithFields(s.logg.WithRideID(ctx, id.String()), map[string]any{"from": current.Status, "to": updated.Status})
			s.logg.Info(ctx, "ride.status_changed")
		}
		if s.credit && updated.Status == enums.RideStatusCompleted {
			if err := s.creditCompletion(ctx, updated); err != nil {
				return nil, err
			}
		}
	}
	return updated, nil
}

// stampTransition sets the timestamp belonging to next when neither the
// stored ride nor the patch carries one.
func (s *service) stampTransition(current *models.Ride, next enums.RideStatus, patch *store.RidePatch) {
	now := s.now().UTC()
	switch next {
	case enums.RideStatusAccepted:
		if current.AcceptedAt == nil && patch.AcceptedAt == nil {
			patch.AcceptedAt = &now
		}
	case enums.RideStatusInProgress:
		if current.StartedAt == nil && patch.StartedAt == nil {
			patch.StartedAt = &now
		}
	case enums.RideStatusCompleted:
		if current.CompletedAt == nil && patch.CompletedAt == nil {
			patch.CompletedAt = &now
		}
	}
}

// creditCompletion adds one ride, the per-ride eco points and the ride's CO2
// to the owner's totals.
func (s *service) creditCompletion(ctx context.Context, ride *models.Ride) error {
	user, err := s.store.GetUser(ctx, ride.UserID)
	if err != nil {
		return store.Translate(err, "user")
	}

	saved := types.DecimalFromInt(0)
	switch {
	case ride.CO2Saved != nil:
		saved = *ride.CO2Saved
	case ride.Distance != nil:
		saved = co2ForDistance(*ride.Distance)
	}

	totalRides := user.TotalRides + 1
	ecoPoints := user.EcoPoints + EcoPointsPerRide
	co2 := types.NewDecimal(user.CO2Saved.Add(saved.Decimal))
	if _, err := s.store.UpdateUser(ctx, user.ID, store.UserPatch{
		TotalRides: &totalRides,
		EcoPoints:  &ecoPoints,
		CO2Saved:   &co2,
	}); err != nil {
		return store.Translate(err, "user")
	}
	return nil
}

func (s *service) Estimate(ctx context.Context, pickupID, destinationID uuid.UUID) (*Estimate, error) {
	if pickupID == destinationID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"destinationSpotId": "must differ from pickupSpotId"})
	}
	pickup, err := s.store.GetSpot(ctx, pickupID)
	if err != nil {
		return nil, store.Translate(err, "pickup spot")
	}
	destination, err := s.store.GetSpot(ctx, destinationID)
	if err != nil {
		return nil, store.Translate(err, "destination spot")
	}
	est := quote(geo.DistanceKM(
		pickup.Latitude.Degrees(), pickup.Longitude.Degrees(),
		destination.Latitude.Degrees(), destination.Longitude.Degrees(),
	))
	return &est, nil
}
