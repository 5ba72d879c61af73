package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/popspothq/popspot-backend/api/middleware"
	"github.com/popspothq/popspot-backend/internal/rewards"
	"github.com/popspothq/popspot-backend/pkg/db/models"
	"github.com/popspothq/popspot-backend/pkg/enums"
	pkgerrors "github.com/popspothq/popspot-backend/pkg/errors"
	"github.com/popspothq/popspot-backend/pkg/logger"
	"github.com/popspothq/popspot-backend/pkg/pagination"
)

type testRewardsService struct {
	claimFn        func(ctx context.Context, input rewards.ClaimInput) (*models.UserReward, error)
	redeemFn       func(ctx context.Context, input rewards.RedeemInput) (*models.UserReward, error)
	cancelFn       func(ctx context.Context, input rewards.CancelInput) (*models.UserReward, error)
	createOptionFn func(ctx context.Context, input rewards.CreateOptionInput) (*models.RewardOption, error)
	listOptionsFn  func(ctx context.Context, setID uuid.UUID) ([]rewards.OptionSummary, error)
	listRewardsFn  func(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.UserReward, string, error)
	getForSetFn    func(ctx context.Context, userID, setID uuid.UUID) (*models.UserReward, error)
}

func (s *testRewardsService) Claim(ctx context.Context, input rewards.ClaimInput) (*models.UserReward, error) {
	if s.claimFn != nil {
		return s.claimFn(ctx, input)
	}
	return nil, nil
}

func (s *testRewardsService) Redeem(ctx context.Context, input rewards.RedeemInput) (*models.UserReward, error) {
	if s.redeemFn != nil {
		return s.redeemFn(ctx, input)
	}
	return nil, nil
}

func (s *testRewardsService) Cancel(ctx context.Context, input rewards.CancelInput) (*models.UserReward, error) {
	if s.cancelFn != nil {
		return s.cancelFn(ctx, input)
	}
	return nil, nil
}

func (s *testRewardsService) CreateOption(ctx context.Context, input rewards.CreateOptionInput) (*models.RewardOption, error) {
	if s.createOptionFn != nil {
		return s.createOptionFn(ctx, input)
	}
	return nil, nil
}

func (s *testRewardsService) ListOptions(ctx context.Context, setID uuid.UUID) ([]rewards.OptionSummary, error) {
	if s.listOptionsFn != nil {
		return s.listOptionsFn(ctx, setID)
	}
	return nil, nil
}

func (s *testRewardsService) ListUserRewards(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.UserReward, string, error) {
	if s.listRewardsFn != nil {
		return s.listRewardsFn(ctx, userID, params)
	}
	return nil, "", nil
}

func (s *testRewardsService) GetUserRewardForSet(ctx context.Context, userID, setID uuid.UUID) (*models.UserReward, error) {
	if s.getForSetFn != nil {
		return s.getForSetFn(ctx, userID, setID)
	}
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func addRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.RouteContext(req.Context())
	if routeCtx == nil {
		routeCtx = chi.NewRouteContext()
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	}
	routeCtx.URLParams.Add(key, value)
	return req
}

func sampleReward(userID, setID uuid.UUID) *models.UserReward {
	return &models.UserReward{
		ID:             uuid.New(),
		UserID:         userID,
		MissionSetID:   setID,
		RewardOptionID: uuid.New(),
		Code:           "ABCD234567",
		Status:         enums.UserRewardStatusIssued,
		IssuedAt:       time.Now().UTC(),
	}
}

func TestClaimRewardSuccess(t *testing.T) {
	userID := uuid.New()
	setID := uuid.New()
	optionID := uuid.New()
	svc := &testRewardsService{
		claimFn: func(ctx context.Context, input rewards.ClaimInput) (*models.UserReward, error) {
			if input.UserID != userID {
				t.Fatalf("unexpected user %s", input.UserID)
			}
			if input.MissionSetID != setID || input.RewardOptionID != optionID {
				t.Fatal("claim input mismatch")
			}
			return sampleReward(userID, setID), nil
		},
	}

	body := `{"mission_set_id":"` + setID.String() + `","reward_option_id":"` + optionID.String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rewards/claim", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))

	resp := httptest.NewRecorder()
	ClaimReward(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data userRewardResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Code != "ABCD234567" {
		t.Fatalf("unexpected code %q", envelope.Data.Code)
	}
	if envelope.Data.Status != "issued" {
		t.Fatalf("unexpected status %q", envelope.Data.Status)
	}
}

func TestClaimRewardMissingUserContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rewards/claim", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	ClaimReward(&testRewardsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestClaimRewardRejectsBadBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rewards/claim", strings.NewReader(`{"mission_set_id":"nope"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	ClaimReward(&testRewardsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestClaimRewardMapsOutOfStock(t *testing.T) {
	setID := uuid.New()
	optionID := uuid.New()
	svc := &testRewardsService{
		claimFn: func(ctx context.Context, input rewards.ClaimInput) (*models.UserReward, error) {
			return nil, pkgerrors.New(pkgerrors.CodeOutOfStock, "reward option is out of stock")
		},
	}
	body := `{"mission_set_id":"` + setID.String() + `","reward_option_id":"` + optionID.String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rewards/claim", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	ClaimReward(svc, testLogger())(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Error.Code != "OUT_OF_STOCK" {
		t.Fatalf("unexpected error code %q", envelope.Error.Code)
	}
	if envelope.Error.Message != "reward option is out of stock" {
		t.Fatalf("expected specific message, got %q", envelope.Error.Message)
	}
}

func TestRedeemRewardSuccess(t *testing.T) {
	staffID := uuid.New()
	setID := uuid.New()
	svc := &testRewardsService{
		redeemFn: func(ctx context.Context, input rewards.RedeemInput) (*models.UserReward, error) {
			if input.MissionSetID != setID {
				t.Fatalf("unexpected mission set %s", input.MissionSetID)
			}
			if input.Code != "ABCD234567" {
				t.Fatalf("unexpected code %q", input.Code)
			}
			if input.ActorUserID != staffID {
				t.Fatalf("unexpected actor %s", input.ActorUserID)
			}
			if input.ActorRole != enums.MemberRoleStaff {
				t.Fatalf("unexpected role %s", input.ActorRole)
			}
			reward := sampleReward(uuid.New(), uuid.New())
			reward.Status = enums.UserRewardStatusRedeemed
			now := time.Now().UTC()
			reward.RedeemedAt = &now
			return reward, nil
		},
	}

	body := `{"mission_set_id":"` + setID.String() + `","code":" ABCD234567 "}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/staff/rewards/redeem", strings.NewReader(body))
	ctx := middleware.WithUserID(req.Context(), staffID.String())
	ctx = middleware.WithRole(ctx, string(enums.MemberRoleStaff))
	req = req.WithContext(ctx)

	resp := httptest.NewRecorder()
	RedeemReward(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data userRewardResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Status != "redeemed" {
		t.Fatalf("unexpected status %q", envelope.Data.Status)
	}
	if envelope.Data.RedeemedAt == nil {
		t.Fatal("expected redeemed_at")
	}
}

func TestRedeemRewardUnknownRole(t *testing.T) {
	body := `{"mission_set_id":"` + uuid.NewString() + `","code":"ABCD234567"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/staff/rewards/redeem", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	RedeemReward(&testRewardsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestListMyRewardsPassesPagination(t *testing.T) {
	userID := uuid.New()
	svc := &testRewardsService{
		listRewardsFn: func(ctx context.Context, uid uuid.UUID, params pagination.Params) ([]models.UserReward, string, error) {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			if params.Limit != 2 || params.Cursor != "abc" {
				t.Fatalf("unexpected params %+v", params)
			}
			return []models.UserReward{*sampleReward(userID, uuid.New())}, "next", nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rewards?limit=2&cursor=abc", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	resp := httptest.NewRecorder()
	ListMyRewards(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data struct {
			Rewards    []userRewardResponse `json:"rewards"`
			NextCursor string               `json:"next_cursor"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(envelope.Data.Rewards) != 1 {
		t.Fatalf("expected 1 reward, got %d", len(envelope.Data.Rewards))
	}
	if envelope.Data.NextCursor != "next" {
		t.Fatalf("unexpected cursor %q", envelope.Data.NextCursor)
	}
}

func TestListMyRewardsRejectsBadLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rewards?limit=abc", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	ListMyRewards(&testRewardsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestMyRewardForSetNotFound(t *testing.T) {
	svc := &testRewardsService{
		getForSetFn: func(ctx context.Context, userID, setID uuid.UUID) (*models.UserReward, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no reward for mission set")
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/mission-sets/"+uuid.NewString()+"/reward", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	req = addRouteParam(req, "setId", uuid.NewString())
	resp := httptest.NewRecorder()
	MyRewardForSet(svc, testLogger())(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestListRewardOptionsIncludesRemaining(t *testing.T) {
	setID := uuid.New()
	svc := &testRewardsService{
		listOptionsFn: func(ctx context.Context, sid uuid.UUID) ([]rewards.OptionSummary, error) {
			if sid != setID {
				t.Fatalf("unexpected set %s", sid)
			}
			option := models.RewardOption{
				ID:           uuid.New(),
				MissionSetID: setID,
				Name:         "Tote Bag",
				Total:        50,
				Issued:       50,
			}
			return []rewards.OptionSummary{{Option: option, Remaining: option.Remaining()}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/mission-sets/"+setID.String()+"/options", nil)
	req = addRouteParam(req, "setId", setID.String())
	resp := httptest.NewRecorder()
	ListRewardOptions(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data struct {
			Options []rewardOptionResponse `json:"options"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(envelope.Data.Options) != 1 {
		t.Fatalf("expected 1 option, got %d", len(envelope.Data.Options))
	}
	if envelope.Data.Options[0].Remaining != 0 || !envelope.Data.Options[0].SoldOut {
		t.Fatalf("expected sold out option, got %+v", envelope.Data.Options[0])
	}
}
