package controllers

import (
	"net/http"

	"github.com/airbear/airbear-backend/api/responses"
	"github.com/airbear/airbear-backend/api/validators"
	"github.com/airbear/airbear-backend/internal/analytics"
	pkgerrors "github.com/airbear/airbear-backend/pkg/errors"
	"github.com/airbear/airbear-backend/pkg/logger"
)

// AnalyticsOverview reads optional ?start= and ?end= dates (YYYY-MM-DD).
func AnalyticsOverview(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}
		start, err := validators.ParseQueryDate(r, "start")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		end, err := validators.ParseQueryDate(r, "end")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		overview, err := svc.Overview(r.Context(), analytics.OverviewRequest{Start: start, End: end})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}
