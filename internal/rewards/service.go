package rewards

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/popspothq/popspot-backend/pkg/db"
	"github.com/popspothq/popspot-backend/pkg/db/models"
	"github.com/popspothq/popspot-backend/pkg/enums"
	"github.com/popspothq/popspot-backend/pkg/errors"
	"github.com/popspothq/popspot-backend/pkg/logger"
	"github.com/popspothq/popspot-backend/pkg/metrics"
	"github.com/popspothq/popspot-backend/pkg/outbox"
	"github.com/popspothq/popspot-backend/pkg/pagination"
	"github.com/popspothq/popspot-backend/pkg/security"
)

const (
	uxUserMissionSet = "ux_user_rewards_user_mission_set"
	uxRewardCode     = "ux_user_rewards_code"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eligibilityChecker interface {
	IsEligible(ctx context.Context, userID, setID uuid.UUID) (bool, error)
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service executes reward issuance and redemption.
type Service interface {
	Claim(ctx context.Context, input ClaimInput) (*models.UserReward, error)
	Redeem(ctx context.Context, input RedeemInput) (*models.UserReward, error)
	Cancel(ctx context.Context, input CancelInput) (*models.UserReward, error)
	CreateOption(ctx context.Context, input CreateOptionInput) (*models.RewardOption, error)
	ListOptions(ctx context.Context, setID uuid.UUID) ([]OptionSummary, error)
	ListUserRewards(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.UserReward, string, error)
	GetUserRewardForSet(ctx context.Context, userID, setID uuid.UUID) (*models.UserReward, error)
}

// ClaimInput captures one claim attempt.
type ClaimInput struct {
	UserID         uuid.UUID
	MissionSetID   uuid.UUID
	RewardOptionID uuid.UUID
}

// RedeemInput captures one redemption attempt at the counter. MissionSetID
// scopes the lookup so a code presented at the wrong popup does not redeem.
type RedeemInput struct {
	MissionSetID uuid.UUID
	Code         string
	ActorUserID  uuid.UUID
	ActorRole    enums.MemberRole
}

// CancelInput captures an operator voiding an issued reward.
type CancelInput struct {
	UserRewardID uuid.UUID
	ActorUserID  uuid.UUID
	Reason       string
}

// CreateOptionInput captures a new prize tier for a mission set.
type CreateOptionInput struct {
	MissionSetID uuid.UUID
	Name         string
	Total        int
}

// OptionSummary is the read model for reward option listings.
type OptionSummary struct {
	Option    models.RewardOption
	Remaining int
}

// CodeSettings bounds code generation. Length is the code size in characters
// and MaxAttempts caps regeneration after unique collisions.
type CodeSettings struct {
	Length      int
	MaxAttempts int
}

type service struct {
	tx          txRunner
	repo        Repository
	eligibility eligibilityChecker
	outbox      outboxPublisher
	metrics     *metrics.RewardMetrics
	codes       CodeSettings
	logg        *logger.Logger

	generateCode func(length int) (string, error)
	now          func() time.Time
}

// NewService builds the rewards service.
func NewService(
	tx txRunner,
	repo Repository,
	eligibility eligibilityChecker,
	publisher outboxPublisher,
	rewardMetrics *metrics.RewardMetrics,
	codes CodeSettings,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("rewards repository required")
	}
	if eligibility == nil {
		return nil, fmt.Errorf("eligibility checker required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if codes.Length <= 0 {
		codes.Length = 10
	}
	if codes.MaxAttempts <= 0 {
		codes.MaxAttempts = 5
	}
	return &service{
		tx:           tx,
		repo:         repo,
		eligibility:  eligibility,
		outbox:       publisher,
		metrics:      rewardMetrics,
		codes:        codes,
		logg:         logg,
		generateCode: security.GenerateRewardCode,
		now:          time.Now,
	}, nil
}

func (s *service) Claim(ctx context.Context, input ClaimInput) (*models.UserReward, error) {
	reward, err := s.claim(ctx, input)
	s.metrics.ObserveClaim(resultLabel(err, "issued"))
	return reward, err
}

func (s *service) claim(ctx context.Context, input ClaimInput) (*models.UserReward, error) {
	if input.UserID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "user id required")
	}
	if input.MissionSetID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "mission set id required")
	}
	if input.RewardOptionID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "reward option id required")
	}

	eligible, err := s.eligibility.IsEligible(ctx, input.UserID, input.MissionSetID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "checking eligibility")
	}
	if !eligible {
		return nil, errors.New(errors.CodeNotEligible, "mission set not completed")
	}

	// Checked before taking the option lock so duplicate claimers fail fast
	// without touching stock. The unique constraint remains the race backstop.
	if _, err := s.repo.FindUserRewardByUserAndSet(ctx, input.UserID, input.MissionSetID); err == nil {
		return nil, errors.New(errors.CodeAlreadyClaimed, "reward already claimed for this mission set")
	} else if !stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(errors.CodeInternal, err, "checking existing reward")
	}

	var reward *models.UserReward
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		option, err := repo.FindOptionForUpdate(ctx, input.RewardOptionID)
		if err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New(errors.CodeNotFound, "reward option not found")
			}
			if dbpkg.IsLockNotAvailable(err) {
				return errors.Wrap(errors.CodeLockConflict, err, "locking reward option")
			}
			return errors.Wrap(errors.CodeInternal, err, "loading reward option")
		}
		if option.MissionSetID != input.MissionSetID {
			return errors.New(errors.CodeValidation, "reward option does not belong to mission set")
		}

		if err := ConsumeOne(option); err != nil {
			return err
		}
		if err := repo.SaveOption(ctx, option); err != nil {
			return errors.Wrap(errors.CodeInternal, err, "updating stock")
		}

		reward, err = s.insertWithFreshCode(ctx, repo, input, option)
		if err != nil {
			return err
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.OutboxEventTypeRewardIssued,
			AggregateType: enums.OutboxAggregateTypeUserReward,
			AggregateID:   reward.ID,
			Actor:         &outbox.ActorRef{UserID: input.UserID},
			Version:       1,
			Data: outbox.RewardIssuedPayload{
				UserRewardID:   reward.ID,
				UserID:         reward.UserID,
				MissionSetID:   reward.MissionSetID,
				RewardOptionID: reward.RewardOptionID,
				Code:           reward.Code,
				IssuedAt:       reward.IssuedAt,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"user_reward_id":   reward.ID.String(),
			"reward_option_id": reward.RewardOptionID.String(),
		})
		s.logg.Info(logCtx, "reward issued")
	}
	return reward, nil
}

// insertWithFreshCode creates the user reward row, regenerating the code when
// the unique code index rejects it. A duplicate on (user, mission set) is a
// concurrent claim by the same user and ends the attempt.
func (s *service) insertWithFreshCode(ctx context.Context, repo Repository, input ClaimInput, option *models.RewardOption) (*models.UserReward, error) {
	for attempt := 0; attempt < s.codes.MaxAttempts; attempt++ {
		code, err := s.generateCode(s.codes.Length)
		if err != nil {
			return nil, errors.Wrap(errors.CodeInternal, err, "generating code")
		}

		reward := &models.UserReward{
			ID:             uuid.New(),
			UserID:         input.UserID,
			MissionSetID:   input.MissionSetID,
			RewardOptionID: option.ID,
			Code:           code,
			Status:         enums.UserRewardStatusIssued,
			IssuedAt:       s.now(),
		}

		err = repo.CreateUserReward(ctx, reward)
		if err == nil {
			return reward, nil
		}
		if dbpkg.IsUniqueViolation(err, uxUserMissionSet) {
			return nil, errors.New(errors.CodeAlreadyClaimed, "reward already claimed for this mission set")
		}
		if dbpkg.IsUniqueViolation(err, uxRewardCode) {
			s.metrics.IncCodeRetry()
			continue
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "creating user reward")
	}
	return nil, errors.New(errors.CodeInternal, "exhausted code generation attempts")
}

func (s *service) Redeem(ctx context.Context, input RedeemInput) (*models.UserReward, error) {
	reward, err := s.redeem(ctx, input)
	s.metrics.ObserveRedemption(resultLabel(err, "redeemed"))
	return reward, err
}

func (s *service) redeem(ctx context.Context, input RedeemInput) (*models.UserReward, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, errors.New(errors.CodeValidation, "code required")
	}
	if input.MissionSetID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "mission set id required")
	}

	var reward *models.UserReward
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		found, err := repo.FindUserRewardByCodeForUpdate(ctx, code)
		if err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New(errors.CodeInvalidCode, "redemption code not recognized")
			}
			if dbpkg.IsLockNotAvailable(err) {
				return errors.Wrap(errors.CodeLockConflict, err, "locking user reward")
			}
			return errors.Wrap(errors.CodeInternal, err, "loading user reward")
		}

		// A valid code for another mission set is indistinguishable from an
		// unknown code to the caller.
		if found.MissionSetID != input.MissionSetID {
			return errors.New(errors.CodeInvalidCode, "redemption code not recognized")
		}

		switch found.Status {
		case enums.UserRewardStatusRedeemed:
			return errors.New(errors.CodeAlreadyRedeemed, "reward already redeemed")
		case enums.UserRewardStatusCanceled:
			return errors.New(errors.CodeRewardCanceled, "reward was canceled")
		}

		redeemedAt := s.now()
		found.Status = enums.UserRewardStatusRedeemed
		found.RedeemedAt = &redeemedAt
		if err := repo.SaveUserReward(ctx, found); err != nil {
			return errors.Wrap(errors.CodeInternal, err, "updating user reward")
		}
		reward = found

		actor := &outbox.ActorRef{UserID: input.ActorUserID, Role: input.ActorRole.String()}
		if input.ActorUserID == uuid.Nil {
			actor = nil
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.OutboxEventTypeRewardRedeemed,
			AggregateType: enums.OutboxAggregateTypeUserReward,
			AggregateID:   reward.ID,
			Actor:         actor,
			Version:       1,
			Data: outbox.RewardRedeemedPayload{
				UserRewardID: reward.ID,
				UserID:       reward.UserID,
				Code:         reward.Code,
				RedeemedAt:   redeemedAt,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{"user_reward_id": reward.ID.String()})
		s.logg.Info(logCtx, "reward redeemed")
	}
	return reward, nil
}

func (s *service) Cancel(ctx context.Context, input CancelInput) (*models.UserReward, error) {
	if input.UserRewardID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "user reward id required")
	}

	var reward *models.UserReward
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		found, err := repo.FindUserRewardByIDForUpdate(ctx, input.UserRewardID)
		if err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New(errors.CodeNotFound, "user reward not found")
			}
			if dbpkg.IsLockNotAvailable(err) {
				return errors.Wrap(errors.CodeLockConflict, err, "locking user reward")
			}
			return errors.Wrap(errors.CodeInternal, err, "loading user reward")
		}

		switch found.Status {
		case enums.UserRewardStatusRedeemed:
			return errors.New(errors.CodeAlreadyRedeemed, "redeemed rewards cannot be canceled")
		case enums.UserRewardStatusCanceled:
			// Cancel is idempotent.
			reward = found
			return nil
		}

		option, err := repo.FindOptionForUpdate(ctx, found.RewardOptionID)
		if err != nil {
			if dbpkg.IsLockNotAvailable(err) {
				return errors.Wrap(errors.CodeLockConflict, err, "locking reward option")
			}
			return errors.Wrap(errors.CodeInternal, err, "loading reward option")
		}
		if err := ReleaseOne(option); err != nil {
			return err
		}
		if err := repo.SaveOption(ctx, option); err != nil {
			return errors.Wrap(errors.CodeInternal, err, "updating stock")
		}

		found.Status = enums.UserRewardStatusCanceled
		if err := repo.SaveUserReward(ctx, found); err != nil {
			return errors.Wrap(errors.CodeInternal, err, "updating user reward")
		}
		reward = found

		var actor *outbox.ActorRef
		if input.ActorUserID != uuid.Nil {
			actor = &outbox.ActorRef{UserID: input.ActorUserID, Role: enums.MemberRoleAdmin.String()}
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.OutboxEventTypeRewardCanceled,
			AggregateType: enums.OutboxAggregateTypeUserReward,
			AggregateID:   reward.ID,
			Actor:         actor,
			Version:       1,
			Data: outbox.RewardCanceledPayload{
				UserRewardID: reward.ID,
				UserID:       reward.UserID,
				Reason:       input.Reason,
				CanceledAt:   s.now(),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return reward, nil
}

func (s *service) CreateOption(ctx context.Context, input CreateOptionInput) (*models.RewardOption, error) {
	if input.MissionSetID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "mission set id required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.New(errors.CodeValidation, "name required")
	}
	if input.Total <= 0 {
		return nil, errors.New(errors.CodeValidation, "total must be positive")
	}

	option := &models.RewardOption{
		ID:           uuid.New(),
		MissionSetID: input.MissionSetID,
		Name:         strings.TrimSpace(input.Name),
		Total:        input.Total,
	}
	if err := s.repo.CreateOption(ctx, option); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "creating reward option")
	}
	return option, nil
}

func (s *service) ListOptions(ctx context.Context, setID uuid.UUID) ([]OptionSummary, error) {
	if setID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "mission set id required")
	}

	options, err := s.repo.ListOptionsBySetID(ctx, setID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing reward options")
	}

	out := make([]OptionSummary, 0, len(options))
	for _, option := range options {
		out = append(out, OptionSummary{Option: option, Remaining: option.Remaining()})
	}
	return out, nil
}

func (s *service) ListUserRewards(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.UserReward, string, error) {
	if userID == uuid.Nil {
		return nil, "", errors.New(errors.CodeValidation, "user id required")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", errors.Wrap(errors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListUserRewards(ctx, userID, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, "", errors.Wrap(errors.CodeInternal, err, "listing user rewards")
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{IssuedAt: last.IssuedAt, ID: last.ID})
	}
	return rows, next, nil
}

func (s *service) GetUserRewardForSet(ctx context.Context, userID, setID uuid.UUID) (*models.UserReward, error) {
	if userID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "user id required")
	}
	if setID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "mission set id required")
	}

	reward, err := s.repo.FindUserRewardByUserAndSet(ctx, userID, setID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "no reward for this mission set")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading user reward")
	}
	return reward, nil
}

// resultLabel converts an operation outcome into a metrics label.
func resultLabel(err error, success string) string {
	if err == nil {
		return success
	}
	if typed := errors.As(err); typed != nil {
		return strings.ToLower(string(typed.Code()))
	}
	return "error"
}
