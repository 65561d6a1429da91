package admins

import (
	"net/http"
	"strconv"

	"github.com/tito24dxb/bk/database"
	"github.com/tito24dxb/bk/ledger"
	"github.com/tito24dxb/bk/utils"
)

// GetTransactions lists ledger transactions, optionally filtered by
// investor_id.
func GetTransactions(w http.ResponseWriter, r *http.Request) {
	var investorID *uint
	if raw := r.URL.Query().Get("investor_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid investor_id"})
			return
		}
		id := uint(parsed)
		investorID = &id
	}

	engine := ledger.New(database.DB)
	transactions, err := engine.ListTransactions(r.Context(), investorID)
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
