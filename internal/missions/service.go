package missions

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/popspothq/popspot-backend/pkg/db"
	"github.com/popspothq/popspot-backend/pkg/db/models"
	"github.com/popspothq/popspot-backend/pkg/errors"
)

// Service exposes mission progress operations.
type Service interface {
	// IsEligible reports whether the user completed every mission in the set.
	IsEligible(ctx context.Context, userID, setID uuid.UUID) (bool, error)
	CompleteMission(ctx context.Context, userID, missionID uuid.UUID) (*models.MissionCompletion, error)
	Progress(ctx context.Context, userID, setID uuid.UUID) (*ProgressResult, error)
}

// ProgressResult summarizes a user's standing inside one mission set.
type ProgressResult struct {
	MissionSet *models.MissionSet
	Missions   []models.Mission
	Completed  map[uuid.UUID]bool
}

type service struct {
	repo Repository
}

// NewService wires a missions service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("missions repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) IsEligible(ctx context.Context, userID, setID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, fmt.Errorf("user id is required")
	}
	if setID == uuid.Nil {
		return false, fmt.Errorf("mission set id is required")
	}

	missions, err := s.repo.ListMissionsBySetID(ctx, setID)
	if err != nil {
		return false, err
	}
	// An empty set can never be completed, so it gates nothing.
	if len(missions) == 0 {
		return false, nil
	}

	completed, err := s.repo.CountCompletedInSet(ctx, userID, setID)
	if err != nil {
		return false, err
	}
	return completed >= int64(len(missions)), nil
}

func (s *service) CompleteMission(ctx context.Context, userID, missionID uuid.UUID) (*models.MissionCompletion, error) {
	if userID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "user id is required")
	}
	if missionID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "mission id is required")
	}

	if _, err := s.repo.FindMissionByID(ctx, missionID); err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "mission not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading mission")
	}

	completion := &models.MissionCompletion{
		ID:        uuid.New(),
		UserID:    userID,
		MissionID: missionID,
	}
	if err := s.repo.CreateCompletion(ctx, completion); err != nil {
		// Completing the same mission twice is a no-op, not an error.
		if dbpkg.IsUniqueViolation(err, "ux_mission_completions_user_mission") {
			return completion, nil
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "recording completion")
	}
	return completion, nil
}

func (s *service) Progress(ctx context.Context, userID, setID uuid.UUID) (*ProgressResult, error) {
	if userID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "user id is required")
	}
	if setID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "mission set id is required")
	}

	set, err := s.repo.FindSetByID(ctx, setID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "mission set not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading mission set")
	}

	missions, err := s.repo.ListMissionsBySetID(ctx, setID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing missions")
	}

	completions, err := s.repo.ListCompletionsBySet(ctx, userID, setID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing completions")
	}

	completed := make(map[uuid.UUID]bool, len(completions))
	for _, c := range completions {
		completed[c.MissionID] = true
	}

	return &ProgressResult{
		MissionSet: set,
		Missions:   missions,
		Completed:  completed,
	}, nil
}
