package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Moyo-Made/social-shake-backend/api/responses"
	"github.com/Moyo-Made/social-shake-backend/api/validators"
	"github.com/Moyo-Made/social-shake-backend/internal/applications"
	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
	pkgerrors "github.com/Moyo-Made/social-shake-backend/pkg/errors"
	"github.com/Moyo-Made/social-shake-backend/pkg/logger"
)

type applyRequest struct {
	PostURL         string          `json:"post_url" validate:"required,url"`
	MetricsSnapshot json.RawMessage `json:"metrics_snapshot,omitempty"`
}

type reviewRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}

// ApplyToContest lets a creator submit their entry to an active contest.
func ApplyToContest(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable"))
			return
		}

		actorID, role, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if role != enums.UserRoleCreator {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "only creators can apply"))
			return
		}

		contestID, err := parseUUIDParam(r, "contestID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body applyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		application, err := svc.Apply(r.Context(), applications.ApplyInput{
			ContestID:       contestID,
			UserID:          actorID,
			PostURL:         strings.TrimSpace(body.PostURL),
			MetricsSnapshot: body.MetricsSnapshot,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, application)
	}
}

// ReviewApplication records a brand's approve or reject decision.
func ReviewApplication(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable"))
			return
		}

		actorID, role, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		applicationID, err := parseUUIDParam(r, "applicationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body reviewRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		application, err := svc.Review(r.Context(), applications.ReviewInput{
			ApplicationID: applicationID,
			Decision:      applications.ReviewDecision(body.Decision),
			ActorUserID:   actorID,
			ActorRole:     role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, application)
	}
}

// ListContestApplications returns a contest's applications to its brand.
func ListContestApplications(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable"))
			return
		}

		actorID, role, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		contestID, err := parseUUIDParam(r, "contestID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := applications.ListByContestInput{
			ContestID:   contestID,
			ActorUserID: actorID,
			ActorRole:   role,
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseApplicationStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			input.Status = &status
		}

		list, err := svc.ListByContest(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ListMyApplications returns the calling creator's applications.
func ListMyApplications(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable"))
			return
		}

		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListMine(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
