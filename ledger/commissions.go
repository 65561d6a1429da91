package ledger

import (
	"context"

	"gorm.io/gorm"

	"github.com/tito24dxb/bk/models"
)

// CommissionSummary reports the state of the commission pool.
// Available is Earned minus everything already requested or paid out;
// rejected payout requests release their funds back to the pool.
type CommissionSummary struct {
	TotalEarned    float64 `json:"total_earned"`
	TotalWithdrawn float64 `json:"total_withdrawn"`
	Available      float64 `json:"available"`
}

func commissionSummaryTx(tx *gorm.DB) (CommissionSummary, error) {
	var summary CommissionSummary

	var earned float64
	if err := tx.Model(&models.Commission{}).
		Where("status = ?", "Earned").
		Select("COALESCE(SUM(commission_amount), 0)").
		Scan(&earned).Error; err != nil {
		return summary, err
	}

	var withdrawn float64
	if err := tx.Model(&models.CommissionWithdrawal{}).
		Where("status IN ?", []string{models.WithdrawalPending, models.WithdrawalApproved}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&withdrawn).Error; err != nil {
		return summary, err
	}

	summary.TotalEarned = round2(earned)
	summary.TotalWithdrawn = round2(withdrawn)
	summary.Available = round2(earned - withdrawn)
	return summary, nil
}

// CommissionPool returns the current pool totals.
func (e *Engine) CommissionPool(ctx context.Context) (CommissionSummary, error) {
	ctx, cancel := e.opContext(ctx)
	defer cancel()

	summary, err := commissionSummaryTx(e.db.WithContext(ctx))
	return summary, storageErr(err)
}

// WithdrawCommissionEarnings creates a pending payout request against
// the commission pool. The transaction first takes a write lock on the
// settings row, so concurrent payout requests serialize and the
// availability sums always include every committed payout; two requests
// cannot jointly over-withdraw the pool.
func (e *Engine) WithdrawCommissionEarnings(ctx context.Context, admin *models.Admin, amount float64, destinationAccount string) (uint, error) {
	ctx, cancel := e.opContext(ctx)
	defer cancel()

	if destinationAccount == "" {
		return 0, validationErr("destination_account", "destination account is required")
	}

	setting, err := e.policy(ctx)
	if err != nil {
		return 0, err
	}
	if amount < setting.MinCommissionWithdraw {
		return 0, validationErr("amount", "amount is below the minimum commission withdrawal")
	}

	amount = round2(amount)
	var requestID uint
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The settings row acts as the pool mutex. A no-op update takes
		// its write lock, and because it is the first statement in the
		// transaction, the sums below read a snapshot taken after any
		// earlier payout transaction committed. A SELECT FOR UPDATE
		// would do the same on MySQL but is not portable to the sqlite
		// driver.
		if err := tx.Exec("UPDATE settings SET maintenance = maintenance WHERE id = ?", setting.ID).Error; err != nil {
			return err
		}

		summary, err := commissionSummaryTx(tx)
		if err != nil {
			return err
		}
		if amount > summary.Available {
			return ErrInsufficientBalance
		}

		request := models.CommissionWithdrawal{
			AdminID:            admin.ID,
			AdminName:          admin.Name,
			Amount:             amount,
			DestinationAccount: destinationAccount,
			Date:               e.dateString(),
			Status:             models.WithdrawalPending,
		}
		if err := tx.Create(&request).Error; err != nil {
			return err
		}
		requestID = request.ID
		return nil
	})
	if err != nil {
		return 0, storageErr(err)
	}
	return requestID, nil
}
