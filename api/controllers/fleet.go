package controllers

import (
	"net/http"

	"github.com/airbear/airbear-backend/api/responses"
	"github.com/airbear/airbear-backend/api/validators"
	"github.com/airbear/airbear-backend/internal/fleet"
	pkgerrors "github.com/airbear/airbear-backend/pkg/errors"
	"github.com/airbear/airbear-backend/pkg/logger"
)

func fleetUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "fleet service unavailable")
}

func ListSpots(svc fleet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, fleetUnavailable())
			return
		}
		spots, err := svc.ListSpots(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, spots)
	}
}

func GetSpot(svc fleet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, fleetUnavailable())
			return
		}
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		spot, err := svc.GetSpot(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, spot)
	}
}

// ListVehicles serves both the full fleet and, when availableOnly is set,
// the vehicles ready for booking.
func ListVehicles(svc fleet.Service, availableOnly bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, fleetUnavailable())
			return
		}
		list := svc.ListVehicles
		if availableOnly {
			list = svc.ListAvailableVehicles
		}
		vehicles, err := list(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vehicles)
	}
}

func UpdateVehicle(svc fleet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, fleetUnavailable())
			return
		}
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body fleet.UpdateVehicleRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		vehicle, err := svc.UpdateVehicle(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vehicle)
	}
}
