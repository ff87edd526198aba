package controllers

import (
	"net/http"
	"strings"

	"github.com/airbear/airbear-backend/api/responses"
	"github.com/airbear/airbear-backend/api/validators"
	"github.com/airbear/airbear-backend/internal/bodega"
	pkgerrors "github.com/airbear/airbear-backend/pkg/errors"
	"github.com/airbear/airbear-backend/pkg/logger"
)

const maxCategoryLength = 64

func bodegaUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "bodega service unavailable")
}

func ListBodegaItems(svc bodega.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, bodegaUnavailable())
			return
		}
		category := validators.SanitizeString(strings.ToLower(r.URL.Query().Get("category")), maxCategoryLength)
		items, err := svc.ListItems(r.Context(), category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func CreateOrder(svc bodega.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, bodegaUnavailable())
			return
		}
		var body bodega.CreateOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.CreateOrder(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func ListUserOrders(svc bodega.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, bodegaUnavailable())
			return
		}
		userID, err := pathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orders, err := svc.ListOrdersByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}
