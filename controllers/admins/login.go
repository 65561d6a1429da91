package admins

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/tito24dxb/bk/database"
	"github.com/tito24dxb/bk/models"
	"github.com/tito24dxb/bk/utils"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Invalid JSON body",
		})
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	admin, err := models.GetAdminByUsername(database.DB, req.Username)
	if err != nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
			Success: false,
			Message: "Invalid username or password",
		})
		return
	}

	if !admin.ValidatePassword(req.Password) {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
			Success: false,
			Message: "Invalid username or password",
		})
		return
	}

	token, err := utils.GenerateJWT(admin.ID, admin.Username, "admin")
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Message: "Failed to create token",
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Login successful",
		Data: map[string]interface{}{
			"token": token,
			"admin": admin,
		},
	})
}

// Logout revokes the presented access token until its natural expiry.
func Logout(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

	_, claims, err := utils.ValidateAccessToken(tokenStr)
	if err != nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
			Success: false,
			Message: "Invalid token",
		})
		return
	}

	jti, _ := claims["jti"].(string)
	ttl := time.Hour
	if exp, ok := claims["exp"].(float64); ok {
		if until := time.Until(time.Unix(int64(exp), 0)); until > 0 {
			ttl = until
		}
	}
	if err := utils.RevokeToken(r.Context(), jti, ttl); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Message: "Failed to revoke token",
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Logged out",
	})
}

// currentAdmin loads the authenticated admin from the request context.
func currentAdmin(r *http.Request) (*models.Admin, bool) {
	adminID, ok := utils.GetAdminID(r)
	if !ok {
		return nil, false
	}
	var admin models.Admin
	if err := database.DB.First(&admin, adminID).Error; err != nil {
		return nil, false
	}
	return &admin, true
}
