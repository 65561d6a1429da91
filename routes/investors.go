package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/tito24dxb/bk/controllers/investors"
	"github.com/tito24dxb/bk/middleware"
)

func SetInvestorRoutes(api *mux.Router) {
	loginLimiter := middleware.NewIPRateLimiter(5, time.Minute)
	api.Handle("/login", loginLimiter.Middleware(http.HandlerFunc(investors.Login))).Methods(http.MethodPost)

	investorRouter := api.PathPrefix("/me").Subrouter()
	investorRouter.Use(middleware.AuthMiddleware)

	investorRouter.HandleFunc("/profile", investors.GetProfile).Methods(http.MethodGet)
	investorRouter.HandleFunc("/transactions", investors.ListTransactions).Methods(http.MethodGet)
	investorRouter.HandleFunc("/withdrawals", investors.ListWithdrawals).Methods(http.MethodGet)
	investorRouter.HandleFunc("/withdrawals", investors.RequestWithdrawal).Methods(http.MethodPost)
}
