package investors

import (
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/tito24dxb/bk/database"
	"github.com/tito24dxb/bk/models"
	"github.com/tito24dxb/bk/utils"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
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

	var investor models.Investor
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := database.DB.Where("email = ?", email).First(&investor).Error; err != nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
			Success: false,
			Message: "Invalid email or password",
		})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(investor.Password), []byte(req.Password)) != nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
			Success: false,
			Message: "Invalid email or password",
		})
		return
	}

	if investor.AccountStatus == models.AccountClosed {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{
			Success: false,
			Message: "This account has been closed, please contact support",
		})
		return
	}

	token, err := utils.GenerateJWT(int64(investor.ID), investor.Email, "investor")
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
			"token":    token,
			"investor": investor,
		},
	})
}
