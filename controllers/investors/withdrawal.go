package investors

import (
	"encoding/json"
	"net/http"

	"github.com/tito24dxb/bk/database"
	"github.com/tito24dxb/bk/ledger"
	"github.com/tito24dxb/bk/models"
	"github.com/tito24dxb/bk/utils"
)

type WithdrawalRequest struct {
	Amount float64 `json:"amount"`
}

// RequestWithdrawal submits a pending withdrawal request. The policy
// checks (disabled flag, restricted/closed status) run in the engine,
// not just in the UI.
func RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req WithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}

	uid, ok := utils.GetInvestorID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	engine := ledger.New(database.DB)
	requestID, err := engine.RequestWithdrawal(r.Context(), uid, req.Amount)
	if err != nil {
		utils.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Withdrawal request submitted",
		Data:    map[string]interface{}{"id": requestID, "status": models.WithdrawalPending},
	})
}

// ListWithdrawals returns the investor's own withdrawal requests.
func ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetInvestorID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var requests []models.WithdrawalRequest
	if err := database.DB.
		Where("investor_id = ?", uid).
		Order("created_at DESC, id DESC").
		Find(&requests).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve withdrawal requests"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    requests,
	})
}
