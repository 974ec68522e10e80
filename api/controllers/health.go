package controllers

import (
	"context"
	"net/http"

	"github.com/rejoiceevents/decor-backend/api/responses"
	"github.com/rejoiceevents/decor-backend/pkg/config"
	pkgerrors "github.com/rejoiceevents/decor-backend/pkg/errors"
	"github.com/rejoiceevents/decor-backend/pkg/logger"
)

const envHeader = "X-Rejoice-Env"

// Pinger is the dependency surface the readiness probe checks.
type Pinger interface {
	Ping(context.Context) error
}

// HealthLive reports process liveness without touching dependencies.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and redis before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
