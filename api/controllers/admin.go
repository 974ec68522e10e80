package controllers

import (
	"net/http"

	"github.com/rejoiceevents/decor-backend/api/responses"
	analyticssvc "github.com/rejoiceevents/decor-backend/internal/analytics"
	pkgerrors "github.com/rejoiceevents/decor-backend/pkg/errors"
	"github.com/rejoiceevents/decor-backend/pkg/logger"
)

// AdminStats returns the back-office dashboard aggregates.
func AdminStats(svc analyticssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		stats, err := svc.DashboardStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
