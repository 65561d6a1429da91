package admins

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tito24dxb/bk/database"
	"github.com/tito24dxb/bk/ledger"
	"github.com/tito24dxb/bk/models"
	"github.com/tito24dxb/bk/utils"
)

// GetInvestors lists investors with pagination and name/email search.
func GetInvestors(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	status := r.URL.Query().Get("status")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.DB
	query := db.Model(&models.Investor{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", like, like)
	}
	if status != "" {
		query = query.Where("account_status = ?", status)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve investors"})
		return
	}

	var investors []models.Investor
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&investors).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve investors"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data": investors,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": int(math.Ceil(float64(totalRows) / float64(limit))),
			},
		},
	})
}

// GetInvestorDetail returns one investor with recent history.
func GetInvestorDetail(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid investor ID"})
		return
	}

	engine := ledger.New(database.DB)
	investor, err := engine.GetInvestor(r.Context(), id)
	if err != nil {
		utils.WriteEngineError(w, err)
		return
	}

	transactions, err := engine.ListTransactions(r.Context(), &id)
	if err != nil {
		utils.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"investor":     investor,
			"transactions": transactions,
		},
	})
}

type CreateInvestorRequest struct {
	Name           string  `json:"name" validate:"required,nameok"`
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,pwdmin"`
	Country        string  `json:"country"`
	InitialDeposit float64 `json:"initial_deposit"`
}

// CreateInvestor registers a new investor account with its opening deposit.
func CreateInvestor(w http.ResponseWriter, r *http.Request) {
	var req CreateInvestorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to process password"})
		return
	}

	engine := ledger.New(database.DB)
	investorID, err := engine.CreateInvestor(r.Context(), ledger.NewInvestor{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Country:  req.Country,
	}, req.InitialDeposit)
	if err != nil {
		utils.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Investor created",
		Data:    map[string]interface{}{"id": investorID},
	})
}

type UpdateInvestorRequest struct {
	Name    *string `json:"name"`
	Country *string `json:"country"`
}

// UpdateInvestor edits profile fields. Balances and the initial deposit
// are never editable here; they belong to the ledger.
func UpdateInvestor(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid investor ID"})
		return
	}

	var req UpdateInvestorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if len(updates) == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Nothing to update"})
		return
	}

	res := database.DB.Model(&models.Investor{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update investor"})
		return
	}
	if res.RowsAffected == 0 {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Investor not found"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Investor updated"})
}

type UpdateAccountStatusRequest struct {
	AccountStatus          *string `json:"account_status"`
	StatusMessage          *string `json:"status_message"`
	PolicyViolation        *bool   `json:"policy_violation"`
	PolicyViolationMessage *string `json:"policy_violation_message"`
	PendingKyc             *bool   `json:"pending_kyc"`
	KycMessage             *string `json:"kyc_message"`
	WithdrawalDisabled     *bool   `json:"withdrawal_disabled"`
	WithdrawalMessage      *string `json:"withdrawal_message"`
}

// UpdateAccountStatus edits the account status variant and flags that
// gate withdrawals.
func UpdateAccountStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid investor ID"})
		return
	}

	var req UpdateAccountStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}

	updates := map[string]interface{}{}
	if req.AccountStatus != nil {
		switch *req.AccountStatus {
		case models.AccountActive, models.AccountRestricted, models.AccountClosed:
			updates["account_status"] = *req.AccountStatus
		default:
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "account_status must be Active, Restricted or Closed"})
			return
		}
	}
	if req.StatusMessage != nil {
		updates["status_message"] = *req.StatusMessage
	}
	if req.PolicyViolation != nil {
		updates["policy_violation"] = *req.PolicyViolation
	}
	if req.PolicyViolationMessage != nil {
		updates["policy_violation_message"] = *req.PolicyViolationMessage
	}
	if req.PendingKyc != nil {
		updates["pending_kyc"] = *req.PendingKyc
	}
	if req.KycMessage != nil {
		updates["kyc_message"] = *req.KycMessage
	}
	if req.WithdrawalDisabled != nil {
		updates["withdrawal_disabled"] = *req.WithdrawalDisabled
	}
	if req.WithdrawalMessage != nil {
		updates["withdrawal_message"] = *req.WithdrawalMessage
	}
	if len(updates) == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Nothing to update"})
		return
	}

	res := database.DB.Model(&models.Investor{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update account status"})
		return
	}
	if res.RowsAffected == 0 {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Investor not found"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Account status updated"})
}

type AddCreditRequest struct {
	Amount      float64 `json:"amount"`
	CreditType  string  `json:"credit_type"`
	Description string  `json:"description"`
}

// AddCredit manually credits an investor balance (Deposit or Earnings).
func AddCredit(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid investor ID"})
		return
	}

	var req AddCreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}

	description := req.Description
	if description == "" {
		if admin, ok := currentAdmin(r); ok {
			description = fmt.Sprintf("Credit added by admin (%s)", admin.Username)
		}
	}

	engine := ledger.New(database.DB)
	transactionID, err := engine.AddManualCredit(r.Context(), id, req.Amount, req.CreditType, description)
	if err != nil {
		utils.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Credit applied",
		Data:    map[string]interface{}{"transaction_id": transactionID},
	})
}

// UploadProfilePicture stores the picture in object storage and saves
// the object key on the investor.
func UploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid investor ID"})
		return
	}

	var investor models.Investor
	if err := database.DB.First(&investor, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Investor not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve investor"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Missing file upload"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(path.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Unsupported image type"})
		return
	}

	objectName := fmt.Sprintf("profiles/%d_%d%s", investor.ID, time.Now().Unix(), ext)
	if err := utils.UploadObject(r.Context(), objectName, file); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Upload failed"})
		return
	}

	if err := database.DB.Model(&investor).Update("profile_pic", objectName).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to save profile picture"})
		return
	}

	url, err := utils.SignedObjectURL(r.Context(), objectName, 24*time.Hour)
	if err != nil {
		// Upload succeeded; the key is stored even if signing failed.
		url = ""
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Profile picture updated",
		Data:    map[string]interface{}{"object": objectName, "url": url},
	})
}

func parseID(r *http.Request) (uint, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
