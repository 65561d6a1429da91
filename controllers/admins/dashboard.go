package admins

import (
	"net/http"

	"github.com/tito24dxb/bk/database"
	"github.com/tito24dxb/bk/ledger"
	"github.com/tito24dxb/bk/models"
	"github.com/tito24dxb/bk/utils"
)

type DashboardStats struct {
	TotalInvestors      int64                    `json:"total_investors"`
	ActiveInvestors     int64                    `json:"active_investors"`
	TotalBalance        float64                  `json:"total_balance"`
	PendingWithdrawals  int64                    `json:"pending_withdrawals"`
	TotalCommissions    float64                  `json:"total_commissions"`
	CommissionAvailable float64                  `json:"commission_available"`
	LastTransactions    []models.Transaction     `json:"last_transactions"`
}

// GetDashboardStats returns the headline numbers for the admin
// dashboard in one call.
func GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	db := database.DB
	var stats DashboardStats
	stats.LastTransactions = make([]models.Transaction, 0)

	db.Model(&models.Investor{}).Count(&stats.TotalInvestors)
	db.Model(&models.Investor{}).
		Where("account_status = ?", models.AccountActive).
		Count(&stats.ActiveInvestors)
	db.Model(&models.Investor{}).
		Select("COALESCE(SUM(current_balance), 0)").
		Scan(&stats.TotalBalance)
	db.Model(&models.WithdrawalRequest{}).
		Where("status = ?", models.WithdrawalPending).
		Count(&stats.PendingWithdrawals)

	engine := ledger.New(db)
	pool, err := engine.CommissionPool(r.Context())
	if err != nil {
		utils.WriteEngineError(w, err)
		return
	}
	stats.TotalCommissions = pool.TotalEarned
	stats.CommissionAvailable = pool.Available

	db.Order("created_at DESC, id DESC").Limit(10).Find(&stats.LastTransactions)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    stats,
	})
}
