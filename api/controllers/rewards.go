package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/popspothq/popspot-backend/api/middleware"
	"github.com/popspothq/popspot-backend/api/responses"
	"github.com/popspothq/popspot-backend/api/validators"
	"github.com/popspothq/popspot-backend/internal/rewards"
	"github.com/popspothq/popspot-backend/pkg/enums"
	pkgerrors "github.com/popspothq/popspot-backend/pkg/errors"
	"github.com/popspothq/popspot-backend/pkg/logger"
	"github.com/popspothq/popspot-backend/pkg/pagination"
)

type claimRewardRequest struct {
	MissionSetID   string `json:"mission_set_id" validate:"required,uuid4"`
	RewardOptionID string `json:"reward_option_id" validate:"required,uuid4"`
}

// ClaimReward issues a reward to the authenticated user for a mission set.
func ClaimReward(svc rewards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req claimRewardRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setID, _ := uuid.Parse(req.MissionSetID)
		optionID, _ := uuid.Parse(req.RewardOptionID)

		reward, err := svc.Claim(r.Context(), rewards.ClaimInput{
			UserID:         userID,
			MissionSetID:   setID,
			RewardOptionID: optionID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newUserRewardResponse(*reward))
	}
}

type redeemRewardRequest struct {
	MissionSetID string `json:"mission_set_id" validate:"required,uuid4"`
	Code         string `json:"code" validate:"required,min=4,max=32"`
}

// RedeemReward marks a presented code as redeemed. Staff only.
func RedeemReward(svc rewards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		role, err := enums.ParseMemberRole(middleware.RoleFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "unknown actor role"))
			return
		}

		var req redeemRewardRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setID, err := uuid.Parse(req.MissionSetID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid mission set id"))
			return
		}

		reward, err := svc.Redeem(r.Context(), rewards.RedeemInput{
			MissionSetID: setID,
			Code:         strings.TrimSpace(req.Code),
			ActorUserID:  actorID,
			ActorRole:    role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newUserRewardResponse(*reward))
	}
}

// ListMyRewards returns the authenticated user's rewards, newest first.
func ListMyRewards(svc rewards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.Params{Cursor: r.URL.Query().Get("cursor")}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, convErr := strconv.Atoi(raw)
			if convErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be an integer"))
				return
			}
			params.Limit = limit
		}

		items, nextCursor, err := svc.ListUserRewards(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]userRewardResponse, 0, len(items))
		for _, item := range items {
			out = append(out, newUserRewardResponse(item))
		}

		payload := map[string]any{"rewards": out}
		if nextCursor != "" {
			payload["next_cursor"] = nextCursor
		}
		responses.WriteSuccess(w, payload)
	}
}

// MyRewardForSet returns the single reward the user holds for a mission set.
func MyRewardForSet(svc rewards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setID, err := uuid.Parse(chi.URLParam(r, "setId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid mission set id"))
			return
		}

		reward, err := svc.GetUserRewardForSet(r.Context(), userID, setID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newUserRewardResponse(*reward))
	}
}

// ListRewardOptions returns every prize tier of a mission set with remaining stock.
func ListRewardOptions(svc rewards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setID, err := uuid.Parse(chi.URLParam(r, "setId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid mission set id"))
			return
		}

		summaries, err := svc.ListOptions(r.Context(), setID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"options": newRewardOptionResponses(summaries)})
	}
}

func actorUserID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context")
	}
	return id, nil
}
