package controllers

import (
	"net/http"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/api/responses"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/config"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db"
	pkgerrors "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/errors"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/logger"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Koyluce-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and redis before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Koyluce-Env", cfg.App.Env)

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}
		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
