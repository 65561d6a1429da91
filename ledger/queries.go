package ledger

import (
	"context"

	"github.com/tito24dxb/bk/models"
)

// Read-only queries consumed by the presentation layer. All lists are
// ordered most recent first.

func (e *Engine) GetInvestor(ctx context.Context, investorID uint) (*models.Investor, error) {
	ctx, cancel := e.opContext(ctx)
	defer cancel()

	var investor models.Investor
	if err := e.db.WithContext(ctx).First(&investor, investorID).Error; err != nil {
		return nil, storageErr(err)
	}
	return &investor, nil
}

func (e *Engine) ListInvestors(ctx context.Context) ([]models.Investor, error) {
	ctx, cancel := e.opContext(ctx)
	defer cancel()

	var investors []models.Investor
	if err := e.db.WithContext(ctx).Order("created_at DESC").Find(&investors).Error; err != nil {
		return nil, storageErr(err)
	}
	return investors, nil
}

// ListTransactions returns all transactions, or only one investor's
// when investorID is non-nil.
func (e *Engine) ListTransactions(ctx context.Context, investorID *uint) ([]models.Transaction, error) {
	ctx, cancel := e.opContext(ctx)
	defer cancel()

	query := e.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if investorID != nil {
		query = query.Where("investor_id = ?", *investorID)
	}
	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, storageErr(err)
	}
	return transactions, nil
}

// ListWithdrawalRequests returns withdrawal requests, optionally
// filtered by status.
func (e *Engine) ListWithdrawalRequests(ctx context.Context, status string) ([]models.WithdrawalRequest, error) {
	ctx, cancel := e.opContext(ctx)
	defer cancel()

	query := e.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var requests []models.WithdrawalRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, storageErr(err)
	}
	return requests, nil
}

func (e *Engine) ListCommissions(ctx context.Context) ([]models.Commission, error) {
	ctx, cancel := e.opContext(ctx)
	defer cancel()

	var commissions []models.Commission
	if err := e.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&commissions).Error; err != nil {
		return nil, storageErr(err)
	}
	return commissions, nil
}

func (e *Engine) ListCommissionWithdrawals(ctx context.Context) ([]models.CommissionWithdrawal, error) {
	ctx, cancel := e.opContext(ctx)
	defer cancel()

	var requests []models.CommissionWithdrawal
	if err := e.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&requests).Error; err != nil {
		return nil, storageErr(err)
	}
	return requests, nil
}
