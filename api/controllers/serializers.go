package controllers

import (
	"time"

	"github.com/popspothq/popspot-backend/internal/missions"
	"github.com/popspothq/popspot-backend/internal/rewards"
	"github.com/popspothq/popspot-backend/pkg/db/models"
)

type userRewardResponse struct {
	ID             string     `json:"id"`
	MissionSetID   string     `json:"mission_set_id"`
	RewardOptionID string     `json:"reward_option_id"`
	Code           string     `json:"code"`
	Status         string     `json:"status"`
	IssuedAt       time.Time  `json:"issued_at"`
	RedeemedAt     *time.Time `json:"redeemed_at,omitempty"`
}

func newUserRewardResponse(reward models.UserReward) userRewardResponse {
	return userRewardResponse{
		ID:             reward.ID.String(),
		MissionSetID:   reward.MissionSetID.String(),
		RewardOptionID: reward.RewardOptionID.String(),
		Code:           reward.Code,
		Status:         reward.Status.String(),
		IssuedAt:       reward.IssuedAt,
		RedeemedAt:     reward.RedeemedAt,
	}
}

type rewardOptionResponse struct {
	ID           string    `json:"id"`
	MissionSetID string    `json:"mission_set_id"`
	Name         string    `json:"name"`
	Total        int       `json:"total"`
	Issued       int       `json:"issued"`
	Remaining    int       `json:"remaining"`
	SoldOut      bool      `json:"sold_out"`
	CreatedAt    time.Time `json:"created_at"`
}

func newRewardOptionResponse(option models.RewardOption) rewardOptionResponse {
	return rewardOptionResponse{
		ID:           option.ID.String(),
		MissionSetID: option.MissionSetID.String(),
		Name:         option.Name,
		Total:        option.Total,
		Issued:       option.Issued,
		Remaining:    option.Remaining(),
		SoldOut:      option.SoldOut(),
		CreatedAt:    option.CreatedAt,
	}
}

func newRewardOptionResponses(summaries []rewards.OptionSummary) []rewardOptionResponse {
	out := make([]rewardOptionResponse, 0, len(summaries))
	for _, summary := range summaries {
		out = append(out, newRewardOptionResponse(summary.Option))
	}
	return out
}

type completionResponse struct {
	ID          string    `json:"id"`
	MissionID   string    `json:"mission_id"`
	CompletedAt time.Time `json:"completed_at"`
}

func newCompletionResponse(completion models.MissionCompletion) completionResponse {
	return completionResponse{
		ID:          completion.ID.String(),
		MissionID:   completion.MissionID.String(),
		CompletedAt: completion.CompletedAt,
	}
}

type missionProgressEntry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	SortOrder int    `json:"sort_order"`
	Completed bool   `json:"completed"`
}

type progressResponse struct {
	MissionSetID   string                 `json:"mission_set_id"`
	MissionSetName string                 `json:"mission_set_name"`
	Missions       []missionProgressEntry `json:"missions"`
	CompletedCount int                    `json:"completed_count"`
	TotalCount     int                    `json:"total_count"`
	Eligible       bool                   `json:"eligible"`
}

func newProgressResponse(result *missions.ProgressResult) progressResponse {
	entries := make([]missionProgressEntry, 0, len(result.Missions))
	completed := 0
	for _, mission := range result.Missions {
		done := result.Completed[mission.ID]
		if done {
			completed++
		}
		entries = append(entries, missionProgressEntry{
			ID:        mission.ID.String(),
			Title:     mission.Title,
			SortOrder: mission.SortOrder,
			Completed: done,
		})
	}
	return progressResponse{
		MissionSetID:   result.MissionSet.ID.String(),
		MissionSetName: result.MissionSet.Name,
		Missions:       entries,
		CompletedCount: completed,
		TotalCount:     len(result.Missions),
		Eligible:       len(result.Missions) > 0 && completed == len(result.Missions),
	}
}
