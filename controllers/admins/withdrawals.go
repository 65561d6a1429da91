package admins

import (
	"encoding/json"
	"net/http"

	"github.com/tito24dxb/bk/database"
	"github.com/tito24dxb/bk/ledger"
	"github.com/tito24dxb/bk/utils"
)

// GetWithdrawals lists withdrawal requests, optionally filtered by status.
func GetWithdrawals(w http.ResponseWriter, r *http.Request) {
	engine := ledger.New(database.DB)
	requests, err := engine.ListWithdrawalRequests(r.Context(), r.URL.Query().Get("status"))
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

type decideRequest struct {
	Reason string `json:"reason"`
}

func decideWithdrawal(w http.ResponseWriter, r *http.Request, decision string) {
	id, err := parseID(r)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid withdrawal ID"})
		return
	}

	var req decideRequest
	if r.Body != nil {
		// Body is optional; an empty reason is allowed.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	admin, ok := currentAdmin(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	engine := ledger.New(database.DB)
	if err := engine.DecideWithdrawal(r.Context(), id, decision, admin.Username, req.Reason); err != nil {
		utils.WriteEngineError(w, err)
		return
	}

	message := "Withdrawal approved"
	if decision == ledger.Reject {
		message = "Withdrawal rejected"
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: message,
		Data:    map[string]interface{}{"id": id},
	})
}

// ApproveWithdrawal debits the investor balance, records the ledger
// entry and accrues the platform commission in one unit.
func ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	decideWithdrawal(w, r, ledger.Approve)
}

// RejectWithdrawal marks the request rejected; no balance or
// commission changes.
func RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	decideWithdrawal(w, r, ledger.Reject)
}
