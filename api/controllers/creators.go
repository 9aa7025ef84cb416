package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Moyo-Made/social-shake-backend/api/responses"
	"github.com/Moyo-Made/social-shake-backend/api/validators"
	"github.com/Moyo-Made/social-shake-backend/internal/creators"
	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
	pkgerrors "github.com/Moyo-Made/social-shake-backend/pkg/errors"
	"github.com/Moyo-Made/social-shake-backend/pkg/logger"
)

type connectPaymentAccountRequest struct {
	StripeAccountID string `json:"stripe_account_id" validate:"required"`
	PayoutsEnabled  bool   `json:"payouts_enabled"`
}

type setPayoutsEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// UpsertCreatorProfile stores the caller's public profile document.
func UpsertCreatorProfile(svc creators.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "creators service unavailable"))
			return
		}

		actorID, role, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if role != enums.UserRoleCreator {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "creator account required"))
			return
		}

		var body json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
			return
		}

		profile, err := svc.UpsertProfile(r.Context(), actorID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// GetCreatorProfile returns the caller's stored profile.
func GetCreatorProfile(svc creators.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "creators service unavailable"))
			return
		}

		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.GetProfile(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// ConnectPaymentAccount links the caller's Stripe connected account.
func ConnectPaymentAccount(svc creators.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "creators service unavailable"))
			return
		}

		actorID, role, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if role != enums.UserRoleCreator {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "creator account required"))
			return
		}

		var body connectPaymentAccountRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account, err := svc.ConnectPaymentAccount(r.Context(), creators.ConnectPaymentAccountInput{
			UserID:          actorID,
			StripeAccountID: strings.TrimSpace(body.StripeAccountID),
			PayoutsEnabled:  body.PayoutsEnabled,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, account)
	}
}

// GetPaymentAccount returns the caller's linked payout destination.
func GetPaymentAccount(svc creators.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "creators service unavailable"))
			return
		}

		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account, err := svc.GetPaymentAccount(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, account)
	}
}

// SetPayoutsEnabled toggles a creator's payout eligibility; admin only,
// typically driven by Stripe account status.
func SetPayoutsEnabled(svc creators.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "creators service unavailable"))
			return
		}

		userID, err := parseUUIDParam(r, "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setPayoutsEnabledRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetPayoutsEnabled(r.Context(), userID, body.Enabled); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"payouts_enabled": body.Enabled})
	}
}
