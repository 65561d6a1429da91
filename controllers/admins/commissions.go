package admins

import (
	"encoding/json"
	"net/http"

	"github.com/tito24dxb/bk/database"
	"github.com/tito24dxb/bk/ledger"
	"github.com/tito24dxb/bk/utils"
)

// GetCommissions lists commission records with the pool summary.
func GetCommissions(w http.ResponseWriter, r *http.Request) {
	engine := ledger.New(database.DB)

	commissions, err := engine.ListCommissions(r.Context())
	if err != nil {
		utils.WriteEngineError(w, err)
		return
	}
	pool, err := engine.CommissionPool(r.Context())
	if err != nil {
		utils.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"commissions": commissions,
			"summary":     pool,
		},
	})
}

// GetCommissionWithdrawals lists payout requests against the pool.
func GetCommissionWithdrawals(w http.ResponseWriter, r *http.Request) {
	engine := ledger.New(database.DB)
	requests, err := engine.ListCommissionWithdrawals(r.Context())
	if err != nil {
		utils.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    requests,
	})
}

type CommissionWithdrawRequest struct {
	Amount             float64 `json:"amount"`
	DestinationAccount string  `json:"destination_account"`
}

// WithdrawCommission requests a payout of earned commission to an
// external account.
func WithdrawCommission(w http.ResponseWriter, r *http.Request) {
	var req CommissionWithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}

	admin, ok := currentAdmin(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	engine := ledger.New(database.DB)
	requestID, err := engine.WithdrawCommissionEarnings(r.Context(), admin, req.Amount, req.DestinationAccount)
	if err != nil {
		utils.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Commission withdrawal requested",
		Data:    map[string]interface{}{"id": requestID},
	})
}
