package admins

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"os"

	"github.com/tito24dxb/bk/database"
	"github.com/tito24dxb/bk/models"
	"github.com/tito24dxb/bk/utils"
)

type SeedRequest struct {
	Key    string `json:"key"`
	DryRun bool   `json:"dry_run"`
}

// SeedDemoData inserts the demo dataset. It is an explicit command
// behind admin auth plus a deploy-specific key, runs idempotently, and
// supports dry-run. Nothing here ever executes on startup.
func SeedDemoData(w http.ResponseWriter, r *http.Request) {
	var req SeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}

	seedKey := os.Getenv("SEED_KEY")
	if seedKey == "" || subtle.ConstantTimeCompare([]byte(seedKey), []byte(req.Key)) != 1 {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Invalid seed key"})
		return
	}

	setting, err := models.GetSetting(database.DB)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve settings"})
		return
	}

	report, err := database.SeedDemoData(database.DB, setting.CommissionRate, req.DryRun)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Seeding failed"})
		return
	}

	message := "Seed completed"
	if report.DryRun {
		message = "Dry run - no changes applied"
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: message,
		Data:    report,
	})
}
