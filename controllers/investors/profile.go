package investors

import (
	"net/http"
	"time"

	"github.com/tito24dxb/bk/database"
	"github.com/tito24dxb/bk/ledger"
	"github.com/tito24dxb/bk/utils"
)

// GetProfile returns the authenticated investor's record, including
// the account status and flag messages the dashboard shows as alert
// banners.
func GetProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetInvestorID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	engine := ledger.New(database.DB)
	investor, err := engine.GetInvestor(r.Context(), uid)
	if err != nil {
		utils.WriteEngineError(w, err)
		return
	}

	var profileURL string
	if investor.ProfilePic != nil && *investor.ProfilePic != "" {
		if url, err := utils.SignedObjectURL(r.Context(), *investor.ProfilePic, 24*time.Hour); err == nil {
			profileURL = url
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"investor":    investor,
			"profile_url": profileURL,
		},
	})
}
