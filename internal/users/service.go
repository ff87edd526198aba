package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/airbear/airbear-backend/internal/store"
	"github.com/airbear/airbear-backend/pkg/db/models"
)

// Service exposes profile reads, profile sync and the free-ride check.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*models.User, error)
	FreeRideStatus(ctx context.Context, id uuid.UUID) (*FreeRideStatus, error)
}

type userStore interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, patch store.UserPatch) (*models.User, error)
	ListRidesByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]models.Ride, error)
}

// ServiceParams bundles the dependencies of the users service.
type ServiceParams struct {
	Store userStore
	Now   func() time.Time
}

type service struct {
	store userStore
	now   func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{store: params.Store, now: now}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, store.Translate(err, "user")
	}
	return user, nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*models.User, error) {
	patch := store.UserPatch{AvatarURL: req.AvatarURL}
	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		patch.FullName = &name
	}
	user, err := s.store.UpdateUser(ctx, id, patch)
	if err != nil {
		return nil, store.Translate(err, "user")
	}
	return user, nil
}

// FreeRideStatus allows one free T-shirt ride per UTC calendar day.
func (s *service) FreeRideStatus(ctx context.Context, id uuid.UUID) (*FreeRideStatus, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, store.Translate(err, "user")
	}
	if !user.HasCeoTshirt {
		return &FreeRideStatus{CanRideFree: false, Reason: ReasonNoTshirt}, nil
	}

	rides, err := s.store.ListRidesByUserAndDate(ctx, id, s.now().UTC())
	if err != nil {
		return nil, store.Translate(err, "ride")
	}
	for _, ride := range rides {
		if ride.IsFreeTshirtRide {
			return &FreeRideStatus{CanRideFree: false, Reason: ReasonFreeRideClaimed}, nil
		}
	}
	return &FreeRideStatus{CanRideFree: true}, nil
}
