package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/popspothq/popspot-backend/api/middleware"
	"github.com/popspothq/popspot-backend/internal/missions"
	"github.com/popspothq/popspot-backend/pkg/db/models"
)

type testMissionsService struct {
	isEligibleFn func(ctx context.Context, userID, setID uuid.UUID) (bool, error)
	completeFn   func(ctx context.Context, userID, missionID uuid.UUID) (*models.MissionCompletion, error)
	progressFn   func(ctx context.Context, userID, setID uuid.UUID) (*missions.ProgressResult, error)
}

func (s *testMissionsService) IsEligible(ctx context.Context, userID, setID uuid.UUID) (bool, error) {
	if s.isEligibleFn != nil {
		return s.isEligibleFn(ctx, userID, setID)
	}
	return false, nil
}

func (s *testMissionsService) CompleteMission(ctx context.Context, userID, missionID uuid.UUID) (*models.MissionCompletion, error) {
	if s.completeFn != nil {
		return s.completeFn(ctx, userID, missionID)
	}
	return nil, nil
}

func (s *testMissionsService) Progress(ctx context.Context, userID, setID uuid.UUID) (*missions.ProgressResult, error) {
	if s.progressFn != nil {
		return s.progressFn(ctx, userID, setID)
	}
	return nil, nil
}

func TestCompleteMissionSuccess(t *testing.T) {
	userID := uuid.New()
	missionID := uuid.New()
	svc := &testMissionsService{
		completeFn: func(ctx context.Context, uid, mid uuid.UUID) (*models.MissionCompletion, error) {
			if uid != userID || mid != missionID {
				t.Fatal("completion input mismatch")
			}
			return &models.MissionCompletion{
				ID:          uuid.New(),
				UserID:      userID,
				MissionID:   missionID,
				CompletedAt: time.Now().UTC(),
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/missions/"+missionID.String()+"/complete", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	req = addRouteParam(req, "missionId", missionID.String())

	resp := httptest.NewRecorder()
	CompleteMission(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data completionResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.MissionID != missionID.String() {
		t.Fatalf("unexpected mission id %q", envelope.Data.MissionID)
	}
}

func TestCompleteMissionInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/missions/bad/complete", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	req = addRouteParam(req, "missionId", "bad")
	resp := httptest.NewRecorder()
	CompleteMission(&testMissionsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestMissionProgressReportsEligibility(t *testing.T) {
	userID := uuid.New()
	setID := uuid.New()
	first := models.Mission{ID: uuid.New(), MissionSetID: setID, Title: "Scan the entrance QR", SortOrder: 1}
	second := models.Mission{ID: uuid.New(), MissionSetID: setID, Title: "Visit the photo booth", SortOrder: 2}
	svc := &testMissionsService{
		progressFn: func(ctx context.Context, uid, sid uuid.UUID) (*missions.ProgressResult, error) {
			return &missions.ProgressResult{
				MissionSet: &models.MissionSet{ID: setID, Name: "Opening Week"},
				Missions:   []models.Mission{first, second},
				Completed:  map[uuid.UUID]bool{first.ID: true, second.ID: true},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/mission-sets/"+setID.String()+"/progress", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	req = addRouteParam(req, "setId", setID.String())

	resp := httptest.NewRecorder()
	MissionProgress(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data progressResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.CompletedCount != 2 || envelope.Data.TotalCount != 2 {
		t.Fatalf("unexpected counts %+v", envelope.Data)
	}
	if !envelope.Data.Eligible {
		t.Fatal("expected eligible")
	}
}
