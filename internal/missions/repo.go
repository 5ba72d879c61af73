package missions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/popspothq/popspot-backend/pkg/db/models"
)

// Repository manages persistence for mission sets, missions, and completions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindSetByID(ctx context.Context, setID uuid.UUID) (*models.MissionSet, error)
	ListMissionsBySetID(ctx context.Context, setID uuid.UUID) ([]models.Mission, error)
	FindMissionByID(ctx context.Context, missionID uuid.UUID) (*models.Mission, error)
	CountCompletedInSet(ctx context.Context, userID, setID uuid.UUID) (int64, error)
	CreateCompletion(ctx context.Context, completion *models.MissionCompletion) error
	ListCompletionsBySet(ctx context.Context, userID, setID uuid.UUID) ([]models.MissionCompletion, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a missions repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindSetByID(ctx context.Context, setID uuid.UUID) (*models.MissionSet, error) {
	var set models.MissionSet
	if err := r.db.WithContext(ctx).
		Where("id = ?", setID).
		First(&set).Error; err != nil {
		return nil, err
	}
	return &set, nil
}

func (r *repository) ListMissionsBySetID(ctx context.Context, setID uuid.UUID) ([]models.Mission, error) {
	var rows []models.Mission
	if err := r.db.WithContext(ctx).
		Where("mission_set_id = ?", setID).
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindMissionByID(ctx context.Context, missionID uuid.UUID) (*models.Mission, error) {
	var mission models.Mission
	if err := r.db.WithContext(ctx).
		Where("id = ?", missionID).
		First(&mission).Error; err != nil {
		return nil, err
	}
	return &mission, nil
}

func (r *repository) CountCompletedInSet(ctx context.Context, userID, setID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MissionCompletion{}).
		Joins("JOIN missions ON missions.id = mission_completions.mission_id").
		Where("mission_completions.user_id = ?", userID).
		Where("missions.mission_set_id = ?", setID).
		Count(&count).Error
	return count, err
}

func (r *repository) CreateCompletion(ctx context.Context, completion *models.MissionCompletion) error {
	return r.db.WithContext(ctx).Create(completion).Error
}

func (r *repository) ListCompletionsBySet(ctx context.Context, userID, setID uuid.UUID) ([]models.MissionCompletion, error) {
	var rows []models.MissionCompletion
	if err := r.db.WithContext(ctx).
		Joins("JOIN missions ON missions.id = mission_completions.mission_id").
		Where("mission_completions.user_id = ?", userID).
		Where("missions.mission_set_id = ?", setID).
		Order("mission_completions.completed_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
