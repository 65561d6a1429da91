package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/tito24dxb/bk/controllers/admins"
	"github.com/tito24dxb/bk/middleware"
)

func SetAdminRoutes(api *mux.Router) {
	// Brute-force protection on the login endpoint
	loginLimiter := middleware.NewIPRateLimiter(5, time.Minute)
	api.Handle("/admin/login", loginLimiter.Middleware(http.HandlerFunc(admins.Login))).Methods(http.MethodPost)

	adminRouter := api.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.AdminAuthMiddleware)

	adminRouter.HandleFunc("/logout", admins.Logout).Methods(http.MethodPost)

	// Dashboard
	adminRouter.HandleFunc("/dashboard", admins.GetDashboardStats).Methods(http.MethodGet)

	// Investors
	adminRouter.HandleFunc("/investors", admins.GetInvestors).Methods(http.MethodGet)
	adminRouter.HandleFunc("/investors", admins.CreateInvestor).Methods(http.MethodPost)
	adminRouter.HandleFunc("/investors/{id:[0-9]+}", admins.GetInvestorDetail).Methods(http.MethodGet)
	adminRouter.HandleFunc("/investors/{id:[0-9]+}", admins.UpdateInvestor).Methods(http.MethodPut)
	adminRouter.HandleFunc("/investors/{id:[0-9]+}/status", admins.UpdateAccountStatus).Methods(http.MethodPut)
	adminRouter.HandleFunc("/investors/{id:[0-9]+}/credit", admins.AddCredit).Methods(http.MethodPost)
	adminRouter.HandleFunc("/investors/{id:[0-9]+}/profile-picture", admins.UploadProfilePicture).Methods(http.MethodPost)

	// Withdrawal requests
	adminRouter.HandleFunc("/withdrawals", admins.GetWithdrawals).Methods(http.MethodGet)
	adminRouter.HandleFunc("/withdrawals/{id:[0-9]+}/approve", admins.ApproveWithdrawal).Methods(http.MethodPost)
	adminRouter.HandleFunc("/withdrawals/{id:[0-9]+}/reject", admins.RejectWithdrawal).Methods(http.MethodPost)

	// Transactions
	adminRouter.HandleFunc("/transactions", admins.GetTransactions).Methods(http.MethodGet)

	// Commissions
	adminRouter.HandleFunc("/commissions", admins.GetCommissions).Methods(http.MethodGet)
	adminRouter.HandleFunc("/commissions/withdrawals", admins.GetCommissionWithdrawals).Methods(http.MethodGet)
	adminRouter.HandleFunc("/commissions/withdraw", admins.WithdrawCommission).Methods(http.MethodPost)

	// Settings
	adminRouter.HandleFunc("/settings", admins.GetSettings).Methods(http.MethodGet)
	adminRouter.HandleFunc("/settings", admins.UpdateSettings).Methods(http.MethodPut)

	// Demo data seeding (guarded by SEED_KEY)
	adminRouter.HandleFunc("/seed", admins.SeedDemoData).Methods(http.MethodPost)
}
