package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Moyo-Made/social-shake-backend/api/responses"
	"github.com/Moyo-Made/social-shake-backend/api/validators"
	"github.com/Moyo-Made/social-shake-backend/internal/contests"
	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
	pkgerrors "github.com/Moyo-Made/social-shake-backend/pkg/errors"
	"github.com/Moyo-Made/social-shake-backend/pkg/logger"
	"github.com/Moyo-Made/social-shake-backend/pkg/pagination"
	"github.com/Moyo-Made/social-shake-backend/pkg/types"
)

type createContestRequest struct {
	Title       string               `json:"title" validate:"required,min=3,max=160"`
	Description string               `json:"description" validate:"max=4000"`
	TotalBudget decimal.Decimal      `json:"total_budget" validate:"required"`
	WinnerCount int                  `json:"winner_count" validate:"required,min=1"`
	Positions   types.PrizePositions `json:"positions" validate:"required"`
	Criteria    string               `json:"criteria" validate:"omitempty,oneof=views likes comments shares"`
	StartDate   *time.Time           `json:"start_date,omitempty"`
	EndDate     *time.Time           `json:"end_date,omitempty"`
}

type updateContestRequest struct {
	Title       *string               `json:"title,omitempty" validate:"omitempty,min=3,max=160"`
	Description *string               `json:"description,omitempty" validate:"omitempty,max=4000"`
	TotalBudget *decimal.Decimal      `json:"total_budget,omitempty"`
	WinnerCount *int                  `json:"winner_count,omitempty" validate:"omitempty,min=1"`
	Positions   *types.PrizePositions `json:"positions,omitempty"`
	Criteria    *string               `json:"criteria,omitempty" validate:"omitempty,oneof=views likes comments shares"`
	StartDate   *time.Time            `json:"start_date,omitempty"`
	EndDate     *time.Time            `json:"end_date,omitempty"`
}

type transitionContestRequest struct {
	Target string `json:"target" validate:"required"`
}

// CreateContest lets a brand draft a new contest.
func CreateContest(svc contests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contests service unavailable"))
			return
		}

		actorID, role, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if role != enums.UserRoleBrand {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "only brands can create contests"))
			return
		}

		var body createContestRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := contests.CreateContestInput{
			BrandUserID: actorID,
			Title:       validators.SanitizeString(body.Title, 160),
			Description: validators.SanitizeString(body.Description, 4000),
			TotalBudget: body.TotalBudget,
			WinnerCount: body.WinnerCount,
			Positions:   body.Positions,
			Criteria:    enums.RankingCriterion(body.Criteria),
			StartDate:   body.StartDate,
			EndDate:     body.EndDate,
		}

		contest, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, contest)
	}
}

// GetContest returns a contest with its persisted winner summary.
func GetContest(svc contests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contests service unavailable"))
			return
		}

		contestID, err := parseUUIDParam(r, "contestID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetByID(r.Context(), contestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// UpdateContest applies a partial edit while the contest is still editable.
func UpdateContest(svc contests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contests service unavailable"))
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

		var body updateContestRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := contests.UpdateContestInput{
			ContestID:   contestID,
			ActorUserID: actorID,
			ActorRole:   role,
			Title:       body.Title,
			Description: body.Description,
			TotalBudget: body.TotalBudget,
			WinnerCount: body.WinnerCount,
			Positions:   body.Positions,
			StartDate:   body.StartDate,
			EndDate:     body.EndDate,
		}
		if body.Criteria != nil {
			criteria := enums.RankingCriterion(*body.Criteria)
			input.Criteria = &criteria
		}

		contest, err := svc.Update(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, contest)
	}
}

// TransitionContest moves a contest through its lifecycle.
func TransitionContest(svc contests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contests service unavailable"))
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

		var body transitionContestRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target, err := enums.ParseContestStatus(strings.TrimSpace(body.Target))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid target status"))
			return
		}

		contest, err := svc.Transition(r.Context(), contests.TransitionInput{
			ContestID:   contestID,
			ActorUserID: actorID,
			ActorRole:   role,
			Target:      target,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, contest)
	}
}

// ListContests returns a cursor page of contests, optionally filtered by
// status or restricted to the caller's own contests.
func ListContests(svc contests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contests service unavailable"))
			return
		}

		actorID, role, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := contests.ListParams{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseContestStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			params.Status = &status
		}

		// Brands see their own contests; creators and admins browse all.
		if role == enums.UserRoleBrand {
			id := actorID
			params.BrandUserID = &id
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
