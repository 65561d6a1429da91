package ledger

import (
	"context"

	"gorm.io/gorm"

	"github.com/tito24dxb/bk/models"
)

// Decision values accepted by DecideWithdrawal.
const (
	Approve = "Approve"
	Reject  = "Reject"
)

// RequestWithdrawal records a pending withdrawal request. The balance
// is not reserved here; funds are only debited when the request is
// approved. Requests against flagged or restricted accounts are
// refused with PolicyBlockedError.
func (e *Engine) RequestWithdrawal(ctx context.Context, investorID uint, amount float64) (uint, error) {
	ctx, cancel := e.opContext(ctx)
	defer cancel()

	if amount <= 0 {
		return 0, validationErr("amount", "amount must be greater than zero")
	}

	var investor models.Investor
	if err := e.db.WithContext(ctx).First(&investor, investorID).Error; err != nil {
		return 0, storageErr(err)
	}
	if blocked, msg := investor.WithdrawalBlocked(); blocked {
		return 0, &PolicyBlockedError{Message: msg}
	}

	request := models.WithdrawalRequest{
		InvestorID:   investor.ID,
		InvestorName: investor.Name,
		Amount:       round2(amount),
		Date:         e.dateString(),
		Status:       models.WithdrawalPending,
	}
	if err := e.db.WithContext(ctx).Create(&request).Error; err != nil {
		return 0, storageErr(err)
	}
	return request.ID, nil
}

// DecideWithdrawal applies an admin decision to a pending request.
//
// Approve debits the balance, appends the Withdrawal transaction and
// the commission record in the same database transaction as the status
// change; either all four writes land or none do. The status update is
// conditional on the request still being Pending, so the loser of a
// concurrent decision observes ErrInvalidState. The balance debit is
// conditional on current_balance >= amount, so an approval that would
// overdraw fails with ErrInsufficientBalance and rolls back the status
// change.
func (e *Engine) DecideWithdrawal(ctx context.Context, requestID uint, decision string, processedBy string, reason string) error {
	ctx, cancel := e.opContext(ctx)
	defer cancel()

	if decision != Approve && decision != Reject {
		return validationErr("decision", "decision must be Approve or Reject")
	}
	if processedBy == "" {
		return validationErr("processed_by", "processed_by is required")
	}

	setting, err := e.policy(ctx)
	if err != nil {
		return err
	}

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var request models.WithdrawalRequest
		if err := tx.First(&request, requestID).Error; err != nil {
			return err
		}
		if request.Status != models.WithdrawalPending {
			return ErrInvalidState
		}

		status := models.WithdrawalRejected
		if decision == Approve {
			status = models.WithdrawalApproved
		}

		updates := map[string]interface{}{
			"status":       status,
			"processed_at": e.now(),
			"processed_by": processedBy,
		}
		if reason != "" {
			updates["reason"] = reason
		}
		res := tx.Model(&models.WithdrawalRequest{}).
			Where("id = ? AND status = ?", request.ID, models.WithdrawalPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race to another decision.
			return ErrInvalidState
		}

		if decision == Reject {
			return nil
		}

		res = tx.Model(&models.Investor{}).
			Where("id = ? AND current_balance >= ?", request.InvestorID, request.Amount).
			Update("current_balance", gorm.Expr("current_balance - ?", request.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var investor models.Investor
			if err := tx.First(&investor, request.InvestorID).Error; err != nil {
				return err
			}
			return ErrInsufficientBalance
		}

		trx := models.Transaction{
			InvestorID: request.InvestorID,
			Type:       models.TxWithdrawal,
			Amount:     -request.Amount,
			Date:       e.dateString(),
			Status:     models.TxCompleted,
		}
		if err := tx.Create(&trx).Error; err != nil {
			return err
		}

		requestIDRef := request.ID
		commission := models.Commission{
			InvestorID:       request.InvestorID,
			InvestorName:     request.InvestorName,
			WithdrawalAmount: request.Amount,
			CommissionRate:   setting.CommissionRate,
			CommissionAmount: commissionFor(request.Amount, setting.CommissionRate),
			Date:             e.dateString(),
			Status:           "Earned",
			WithdrawalID:     &requestIDRef,
		}
		return tx.Create(&commission).Error
	})
	return storageErr(err)
}
