package rewards

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/popspothq/popspot-backend/pkg/db/models"
	"github.com/popspothq/popspot-backend/pkg/pagination"
)

// Repository manages persistence for reward options and issued rewards.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateOption(ctx context.Context, option *models.RewardOption) error
	FindOptionByID(ctx context.Context, optionID uuid.UUID) (*models.RewardOption, error)
	// FindOptionForUpdate loads the option row under SELECT ... FOR UPDATE.
	// Only meaningful inside a transaction.
	FindOptionForUpdate(ctx context.Context, optionID uuid.UUID) (*models.RewardOption, error)
	SaveOption(ctx context.Context, option *models.RewardOption) error
	ListOptionsBySetID(ctx context.Context, setID uuid.UUID) ([]models.RewardOption, error)

	CreateUserReward(ctx context.Context, reward *models.UserReward) error
	FindUserRewardByID(ctx context.Context, rewardID uuid.UUID) (*models.UserReward, error)
	FindUserRewardByIDForUpdate(ctx context.Context, rewardID uuid.UUID) (*models.UserReward, error)
	FindUserRewardByCode(ctx context.Context, code string) (*models.UserReward, error)
	FindUserRewardByCodeForUpdate(ctx context.Context, code string) (*models.UserReward, error)
	FindUserRewardByUserAndSet(ctx context.Context, userID, setID uuid.UUID) (*models.UserReward, error)
	SaveUserReward(ctx context.Context, reward *models.UserReward) error
	ListUserRewards(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.UserReward, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a rewards repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOption(ctx context.Context, option *models.RewardOption) error {
	return r.db.WithContext(ctx).Create(option).Error
}

func (r *repository) FindOptionByID(ctx context.Context, optionID uuid.UUID) (*models.RewardOption, error) {
	var option models.RewardOption
	if err := r.db.WithContext(ctx).
		Where("id = ?", optionID).
		First(&option).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *repository) FindOptionForUpdate(ctx context.Context, optionID uuid.UUID) (*models.RewardOption, error) {
	var option models.RewardOption
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", optionID).
		First(&option).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *repository) SaveOption(ctx context.Context, option *models.RewardOption) error {
	return r.db.WithContext(ctx).Save(option).Error
}

func (r *repository) ListOptionsBySetID(ctx context.Context, setID uuid.UUID) ([]models.RewardOption, error) {
	var rows []models.RewardOption
	if err := r.db.WithContext(ctx).
		Where("mission_set_id = ?", setID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CreateUserReward(ctx context.Context, reward *models.UserReward) error {
	return r.db.WithContext(ctx).Create(reward).Error
}

func (r *repository) FindUserRewardByID(ctx context.Context, rewardID uuid.UUID) (*models.UserReward, error) {
	var reward models.UserReward
	if err := r.db.WithContext(ctx).
		Where("id = ?", rewardID).
		First(&reward).Error; err != nil {
		return nil, err
	}
	return &reward, nil
}

func (r *repository) FindUserRewardByIDForUpdate(ctx context.Context, rewardID uuid.UUID) (*models.UserReward, error) {
	var reward models.UserReward
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", rewardID).
		First(&reward).Error; err != nil {
		return nil, err
	}
	return &reward, nil
}

func (r *repository) FindUserRewardByCode(ctx context.Context, code string) (*models.UserReward, error) {
	var reward models.UserReward
	if err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&reward).Error; err != nil {
		return nil, err
	}
	return &reward, nil
}

func (r *repository) FindUserRewardByCodeForUpdate(ctx context.Context, code string) (*models.UserReward, error) {
	var reward models.UserReward
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ?", code).
		First(&reward).Error; err != nil {
		return nil, err
	}
	return &reward, nil
}

func (r *repository) FindUserRewardByUserAndSet(ctx context.Context, userID, setID uuid.UUID) (*models.UserReward, error) {
	var reward models.UserReward
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("mission_set_id = ?", setID).
		First(&reward).Error; err != nil {
		return nil, err
	}
	return &reward, nil
}

func (r *repository) SaveUserReward(ctx context.Context, reward *models.UserReward) error {
	return r.db.WithContext(ctx).Save(reward).Error
}

func (r *repository) ListUserRewards(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.UserReward, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Order("id DESC").
		Limit(limit)

	if cursor != nil {
		q = q.Where("(issued_at, id) < (?, ?)", cursor.IssuedAt, cursor.ID)
	}

	var rows []models.UserReward
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
