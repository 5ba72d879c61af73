package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/popspothq/popspot-backend/api/responses"
	"github.com/popspothq/popspot-backend/api/validators"
	"github.com/popspothq/popspot-backend/internal/rewards"
	pkgerrors "github.com/popspothq/popspot-backend/pkg/errors"
	"github.com/popspothq/popspot-backend/pkg/logger"
)

type createRewardOptionRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=120"`
	Total int    `json:"total" validate:"required,min=1"`
}

// CreateRewardOption registers a new prize tier with a bounded stock.
func CreateRewardOption(svc rewards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setID, err := uuid.Parse(chi.URLParam(r, "setId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid mission set id"))
			return
		}

		var req createRewardOptionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		option, err := svc.CreateOption(r.Context(), rewards.CreateOptionInput{
			MissionSetID: setID,
			Name:         req.Name,
			Total:        req.Total,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newRewardOptionResponse(*option))
	}
}

type cancelRewardRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// CancelReward voids an issued reward and returns its stock unit.
// Cancelling an already canceled reward is a no-op.
func CancelReward(svc rewards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rewardID, err := uuid.Parse(chi.URLParam(r, "rewardId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid reward id"))
			return
		}

		var req cancelRewardRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		reward, err := svc.Cancel(r.Context(), rewards.CancelInput{
			UserRewardID: rewardID,
			ActorUserID:  actorID,
			Reason:       req.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newUserRewardResponse(*reward))
	}
}
