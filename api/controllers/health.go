package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/Moyo-Made/social-shake-backend/api/responses"
	"github.com/Moyo-Made/social-shake-backend/pkg/config"
	"github.com/Moyo-Made/social-shake-backend/pkg/db"
	pkgerrors "github.com/Moyo-Made/social-shake-backend/pkg/errors"
	"github.com/Moyo-Made/social-shake-backend/pkg/logger"
	"github.com/Moyo-Made/social-shake-backend/pkg/redis"
)

const readinessTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SocialShake-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness only when every backing dependency answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SocialShake-Env", cfg.App.Env)
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true
		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				checks["postgres"] = "down"
				healthy = false
				if logg != nil {
					logg.Error(ctx, "readiness.postgres", err)
				}
			} else {
				checks["postgres"] = "up"
			}
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				checks["redis"] = "down"
				healthy = false
				if logg != nil {
					logg.Error(ctx, "readiness.redis", err)
				}
			} else {
				checks["redis"] = "up"
			}
		}

		if !healthy {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").
				WithDetails(map[string]interface{}{"checks": checks}))
			return
		}
		responses.WriteSuccess(w, map[string]interface{}{
			"status": "ready",
			"checks": checks,
		})
	}
}
