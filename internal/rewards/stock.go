package rewards

import (
	"github.com/popspothq/popspot-backend/pkg/db/models"
	"github.com/popspothq/popspot-backend/pkg/errors"
)

// ConsumeOne takes a single unit from the option's stock. The caller must hold
// the option row under SELECT ... FOR UPDATE so the check and the increment
// commit as one step.
func ConsumeOne(option *models.RewardOption) error {
	if option == nil {
		return errors.New(errors.CodeInternal, "reward option required")
	}
	if option.Issued >= option.Total {
		return errors.New(errors.CodeOutOfStock, "reward option out of stock")
	}
	option.Issued++
	return nil
}

// ReleaseOne returns a single unit to the option's stock after a cancellation.
// Same locking contract as ConsumeOne.
func ReleaseOne(option *models.RewardOption) error {
	if option == nil {
		return errors.New(errors.CodeInternal, "reward option required")
	}
	if option.Issued <= 0 {
		return errors.New(errors.CodeInternal, "reward option has no issued units")
	}
	option.Issued--
	return nil
}
