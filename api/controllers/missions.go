package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/popspothq/popspot-backend/api/responses"
	"github.com/popspothq/popspot-backend/internal/missions"
	pkgerrors "github.com/popspothq/popspot-backend/pkg/errors"
	"github.com/popspothq/popspot-backend/pkg/logger"
)

// CompleteMission records the authenticated user finishing one mission.
// Repeating the call for the same mission is a no-op.
func CompleteMission(svc missions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		missionID, err := uuid.Parse(chi.URLParam(r, "missionId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid mission id"))
			return
		}

		completion, err := svc.CompleteMission(r.Context(), userID, missionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCompletionResponse(*completion))
	}
}

// MissionProgress returns the user's standing inside one mission set.
func MissionProgress(svc missions.Service, logg *logger.Logger) http.HandlerFunc {
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

		result, err := svc.Progress(r.Context(), userID, setID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProgressResponse(result))
	}
}
