package investors

import (
	"net/http"

	"github.com/tito24dxb/bk/database"
	"github.com/tito24dxb/bk/ledger"
	"github.com/tito24dxb/bk/utils"
)

// ListTransactions returns the authenticated investor's ledger history,
// most recent first.
func ListTransactions(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetInvestorID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	engine := ledger.New(database.DB)
	transactions, err := engine.ListTransactions(r.Context(), &uid)
	if err != nil {
		utils.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    transactions,
	})
}
