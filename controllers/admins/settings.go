package admins

import (
	"encoding/json"
	"net/http"

	"github.com/tito24dxb/bk/database"
	"github.com/tito24dxb/bk/models"
	"github.com/tito24dxb/bk/utils"
)

// GetSettings returns the platform policy row.
func GetSettings(w http.ResponseWriter, r *http.Request) {
	setting, err := models.GetSetting(database.DB)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve settings"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    setting,
	})
}

type UpdateSettingsRequest struct {
	PlatformName          *string  `json:"platform_name"`
	MinInitialDeposit     *float64 `json:"min_initial_deposit"`
	CommissionRate        *float64 `json:"commission_rate"`
	MinCommissionWithdraw *float64 `json:"min_commission_withdraw"`
	Maintenance           *bool    `json:"maintenance"`
}

// UpdateSettings edits policy values. Rate changes only affect future
// approvals; existing commission records keep the rate they accrued at.
func UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}

	setting, err := models.GetSetting(database.DB)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve settings"})
		return
	}

	updates := map[string]interface{}{}
	if req.PlatformName != nil && *req.PlatformName != "" {
		updates["platform_name"] = *req.PlatformName
	}
	if req.MinInitialDeposit != nil {
		if *req.MinInitialDeposit < 0 {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "min_initial_deposit cannot be negative"})
			return
		}
		updates["min_initial_deposit"] = *req.MinInitialDeposit
	}
	if req.CommissionRate != nil {
		if *req.CommissionRate < 0 || *req.CommissionRate > 100 {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "commission_rate must be between 0 and 100"})
			return
		}
		updates["commission_rate"] = *req.CommissionRate
	}
	if req.MinCommissionWithdraw != nil {
		if *req.MinCommissionWithdraw < 0 {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "min_commission_withdraw cannot be negative"})
			return
		}
		updates["min_commission_withdraw"] = *req.MinCommissionWithdraw
	}
	if req.Maintenance != nil {
		updates["maintenance"] = *req.Maintenance
	}
	if len(updates) == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Nothing to update"})
		return
	}

	if err := database.DB.Model(setting).Updates(updates).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update settings"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Settings updated"})
}
