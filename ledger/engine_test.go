package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tito24dxb/bk/models"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	// A single connection keeps every session on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Admin{},
		&models.Investor{},
		&models.Transaction{},
		&models.WithdrawalRequest{},
		&models.Commission{},
		&models.CommissionWithdrawal{},
		&models.Setting{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Create(&models.Setting{
		PlatformName:          "Test Platform",
		MinInitialDeposit:     100,
		CommissionRate:        15,
		MinCommissionWithdraw: 100,
	}).Error; err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	return New(db)
}

func createTestInvestor(t *testing.T, e *Engine, deposit float64) uint {
	t.Helper()
	id, err := e.CreateInvestor(context.Background(), NewInvestor{
		Name:  "Jordan Vale",
		Email: "jordan@example.com",
	}, deposit)
	if err != nil {
		t.Fatalf("create investor: %v", err)
	}
	return id
}

func investorBalance(t *testing.T, e *Engine, id uint) float64 {
	t.Helper()
	inv, err := e.GetInvestor(context.Background(), id)
	if err != nil {
		t.Fatalf("get investor: %v", err)
	}
	return inv.CurrentBalance
}

func TestCreateInvestorSetsBalanceAndOpeningDeposit(t *testing.T) {
	e := newTestEngine(t)
	id := createTestInvestor(t, e, 1000)

	if got := investorBalance(t, e, id); got != 1000 {
		t.Fatalf("expected balance 1000, got %v", got)
	}

	txs, err := e.ListTransactions(context.Background(), &id)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	if txs[0].Type != models.TxDeposit || txs[0].Status != models.TxPending || txs[0].Amount != 1000 {
		t.Fatalf("unexpected opening transaction: %+v", txs[0])
	}
}

func TestCreateInvestorValidation(t *testing.T) {
	e := newTestEngine(t)

	var verr *ValidationError
	if _, err := e.CreateInvestor(context.Background(), NewInvestor{Email: "a@b.c"}, 500); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for missing name, got %v", err)
	}
	if _, err := e.CreateInvestor(context.Background(), NewInvestor{Name: "A", Email: "a@b.c"}, 50); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for deposit below minimum, got %v", err)
	}

	createTestInvestor(t, e, 1000)
	_, err := e.CreateInvestor(context.Background(), NewInvestor{Name: "Dup", Email: "jordan@example.com"}, 500)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestAddManualCredit(t *testing.T) {
	e := newTestEngine(t)
	id := createTestInvestor(t, e, 1000)

	if _, err := e.AddManualCredit(context.Background(), id, 500, models.TxEarnings, "monthly earnings"); err != nil {
		t.Fatalf("add credit: %v", err)
	}
	if got := investorBalance(t, e, id); got != 1500 {
		t.Fatalf("expected balance 1500, got %v", got)
	}

	txs, _ := e.ListTransactions(context.Background(), &id)
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}

	var verr *ValidationError
	if _, err := e.AddManualCredit(context.Background(), id, 0, models.TxDeposit, ""); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for zero amount, got %v", err)
	}
	if _, err := e.AddManualCredit(context.Background(), id, 100, models.TxWithdrawal, ""); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for bad credit type, got %v", err)
	}
	if _, err := e.AddManualCredit(context.Background(), 9999, 100, models.TxDeposit, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRequestWithdrawalPolicyBlocked(t *testing.T) {
	e := newTestEngine(t)
	id := createTestInvestor(t, e, 1000)

	msg := "Withdrawals disabled pending KYC review"
	if err := e.db.Model(&models.Investor{}).Where("id = ?", id).Updates(map[string]interface{}{
		"withdrawal_disabled": true,
		"withdrawal_message":  msg,
	}).Error; err != nil {
		t.Fatalf("flag investor: %v", err)
	}

	_, err := e.RequestWithdrawal(context.Background(), id, 100)
	var blocked *PolicyBlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected PolicyBlockedError, got %v", err)
	}
	if blocked.Message != msg {
		t.Fatalf("expected flag message to surface, got %q", blocked.Message)
	}

	requests, _ := e.ListWithdrawalRequests(context.Background(), "")
	if len(requests) != 0 {
		t.Fatalf("expected no withdrawal request, got %d", len(requests))
	}
}

func TestRequestWithdrawalRestrictedStatus(t *testing.T) {
	e := newTestEngine(t)
	id := createTestInvestor(t, e, 1000)

	if err := e.db.Model(&models.Investor{}).Where("id = ?", id).
		Update("account_status", models.AccountRestricted).Error; err != nil {
		t.Fatalf("restrict investor: %v", err)
	}

	var blocked *PolicyBlockedError
	if _, err := e.RequestWithdrawal(context.Background(), id, 100); !errors.As(err, &blocked) {
		t.Fatalf("expected PolicyBlockedError for restricted account, got %v", err)
	}
}

func TestApproveWithdrawal(t *testing.T) {
	e := newTestEngine(t)
	id := createTestInvestor(t, e, 1000)
	if _, err := e.AddManualCredit(context.Background(), id, 500, models.TxEarnings, ""); err != nil {
		t.Fatalf("credit: %v", err)
	}

	reqID, err := e.RequestWithdrawal(context.Background(), id, 400)
	if err != nil {
		t.Fatalf("request withdrawal: %v", err)
	}
	// Request alone must not touch the balance.
	if got := investorBalance(t, e, id); got != 1500 {
		t.Fatalf("expected balance 1500 after request, got %v", got)
	}

	if err := e.DecideWithdrawal(context.Background(), reqID, Approve, "admin-1", ""); err != nil {
		t.Fatalf("approve: %v", err)
	}

	if got := investorBalance(t, e, id); got != 1100 {
		t.Fatalf("expected balance 1100 after approval, got %v", got)
	}

	txs, _ := e.ListTransactions(context.Background(), &id)
	var withdrawals []models.Transaction
	for _, tr := range txs {
		if tr.Type == models.TxWithdrawal {
			withdrawals = append(withdrawals, tr)
		}
	}
	if len(withdrawals) != 1 {
		t.Fatalf("expected 1 withdrawal transaction, got %d", len(withdrawals))
	}
	if withdrawals[0].Amount != -400 || withdrawals[0].Status != models.TxCompleted {
		t.Fatalf("unexpected withdrawal transaction: %+v", withdrawals[0])
	}

	commissions, _ := e.ListCommissions(context.Background())
	if len(commissions) != 1 {
		t.Fatalf("expected 1 commission record, got %d", len(commissions))
	}
	c := commissions[0]
	if c.CommissionAmount != 60 || c.CommissionRate != 15 || c.WithdrawalAmount != 400 {
		t.Fatalf("unexpected commission: %+v", c)
	}
	if c.WithdrawalID == nil || *c.WithdrawalID != reqID {
		t.Fatalf("commission should reference the approved request")
	}
	if c.InvestorName != "Jordan Vale" {
		t.Fatalf("commission should snapshot the investor name, got %q", c.InvestorName)
	}
}

func TestDecideWithdrawalIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	id := createTestInvestor(t, e, 1000)
	reqID, _ := e.RequestWithdrawal(context.Background(), id, 400)

	if err := e.DecideWithdrawal(context.Background(), reqID, Approve, "admin-1", ""); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	err := e.DecideWithdrawal(context.Background(), reqID, Approve, "admin-2", "")
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on second decision, got %v", err)
	}

	// Effects applied exactly once.
	if got := investorBalance(t, e, id); got != 600 {
		t.Fatalf("expected balance 600, got %v", got)
	}
	commissions, _ := e.ListCommissions(context.Background())
	if len(commissions) != 1 {
		t.Fatalf("expected exactly 1 commission, got %d", len(commissions))
	}
}

func TestRejectWithdrawalLeavesBalanceAlone(t *testing.T) {
	e := newTestEngine(t)
	id := createTestInvestor(t, e, 1000)
	reqID, _ := e.RequestWithdrawal(context.Background(), id, 400)

	if err := e.DecideWithdrawal(context.Background(), reqID, Reject, "admin-1", "Pending KYC documents"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	if got := investorBalance(t, e, id); got != 1000 {
		t.Fatalf("expected balance unchanged at 1000, got %v", got)
	}
	commissions, _ := e.ListCommissions(context.Background())
	if len(commissions) != 0 {
		t.Fatalf("rejection must not create a commission, got %d", len(commissions))
	}

	requests, _ := e.ListWithdrawalRequests(context.Background(), models.WithdrawalRejected)
	if len(requests) != 1 {
		t.Fatalf("expected 1 rejected request, got %d", len(requests))
	}
	r := requests[0]
	if r.ProcessedBy == nil || *r.ProcessedBy != "admin-1" {
		t.Fatalf("rejected request should record processed_by")
	}
	if r.Reason == nil || *r.Reason != "Pending KYC documents" {
		t.Fatalf("rejected request should record the reason")
	}
}

func TestApproveOverdraftFailsWithoutSideEffects(t *testing.T) {
	e := newTestEngine(t)
	id := createTestInvestor(t, e, 1000)
	if _, err := e.AddManualCredit(context.Background(), id, 100, models.TxEarnings, ""); err != nil {
		t.Fatalf("credit: %v", err)
	}

	reqID, err := e.RequestWithdrawal(context.Background(), id, 2000)
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	err = e.DecideWithdrawal(context.Background(), reqID, Approve, "admin-1", "")
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	// The failed approval must leave nothing behind: balance unchanged,
	// request still pending, no ledger entries, no commission.
	if got := investorBalance(t, e, id); got != 1100 {
		t.Fatalf("expected balance 1100, got %v", got)
	}
	pending, _ := e.ListWithdrawalRequests(context.Background(), models.WithdrawalPending)
	if len(pending) != 1 || pending[0].ID != reqID {
		t.Fatalf("request should remain pending after failed approval")
	}
	txs, _ := e.ListTransactions(context.Background(), &id)
	for _, tr := range txs {
		if tr.Type == models.TxWithdrawal {
			t.Fatalf("no withdrawal transaction should exist, found %+v", tr)
		}
	}
	commissions, _ := e.ListCommissions(context.Background())
	if len(commissions) != 0 {
		t.Fatalf("no commission should exist, got %d", len(commissions))
	}
}

func TestDecideUnknownRequest(t *testing.T) {
	e := newTestEngine(t)
	if err := e.DecideWithdrawal(context.Background(), 42, Approve, "admin-1", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBalanceConservation(t *testing.T) {
	e := newTestEngine(t)
	id := createTestInvestor(t, e, 1000)

	e.AddManualCredit(context.Background(), id, 250.50, models.TxEarnings, "")
	e.AddManualCredit(context.Background(), id, 99.25, models.TxDeposit, "")

	r1, _ := e.RequestWithdrawal(context.Background(), id, 300)
	e.DecideWithdrawal(context.Background(), r1, Approve, "admin-1", "")
	r2, _ := e.RequestWithdrawal(context.Background(), id, 100)
	e.DecideWithdrawal(context.Background(), r2, Reject, "admin-1", "verification")

	// balance = initialDeposit + completed credits - completed withdrawals
	txs, _ := e.ListTransactions(context.Background(), &id)
	var fromLedger float64
	for _, tr := range txs {
		if tr.Status == models.TxCompleted {
			fromLedger += tr.Amount
		}
	}
	fromLedger += 1000 // opening deposit stays Pending until funds clear

	if got := investorBalance(t, e, id); got != round2(fromLedger) {
		t.Fatalf("balance %v diverged from ledger sum %v", got, round2(fromLedger))
	}
	if got := investorBalance(t, e, id); got != 1049.75 {
		t.Fatalf("expected balance 1049.75, got %v", got)
	}
}

func TestWithdrawCommissionEarnings(t *testing.T) {
	e := newTestEngine(t)
	id := createTestInvestor(t, e, 10000)

	r1, _ := e.RequestWithdrawal(context.Background(), id, 4000)
	if err := e.DecideWithdrawal(context.Background(), r1, Approve, "admin-1", ""); err != nil {
		t.Fatalf("approve: %v", err)
	}

	pool, err := e.CommissionPool(context.Background())
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	if pool.TotalEarned != 600 || pool.Available != 600 {
		t.Fatalf("expected pool of 600, got %+v", pool)
	}

	admin := &models.Admin{ID: 1, Name: "Root Admin"}

	var verr *ValidationError
	if _, err := e.WithdrawCommissionEarnings(context.Background(), admin, 50, "IBAN DE00"); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError below minimum, got %v", err)
	}
	if _, err := e.WithdrawCommissionEarnings(context.Background(), admin, 700, "IBAN DE00"); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance above pool, got %v", err)
	}

	if _, err := e.WithdrawCommissionEarnings(context.Background(), admin, 500, "IBAN DE00"); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	// The pending request reserves the funds, so a second request for
	// more than the remainder must fail.
	pool, _ = e.CommissionPool(context.Background())
	if pool.Available != 100 {
		t.Fatalf("expected 100 available after payout request, got %v", pool.Available)
	}
	if _, err := e.WithdrawCommissionEarnings(context.Background(), admin, 200, "IBAN DE00"); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("repeated requests must not over-withdraw the pool, got %v", err)
	}
}

func TestCreateInvestorDuplicateUniqueIndex(t *testing.T) {
	e := newTestEngine(t)
	createTestInvestor(t, e, 1000)

	// A write that reaches the unique index directly (racing past the
	// pre-check) must still normalize to ErrDuplicate, not a raw driver
	// error.
	err := storageErr(e.db.Create(&models.Investor{
		Name:           "Second Jordan",
		Email:          "jordan@example.com",
		Password:       "x",
		InitialDeposit: 500,
		CurrentBalance: 500,
		AccountStatus:  models.AccountActive,
	}).Error)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate from unique index, got %v", err)
	}
}

func TestConcurrentCommissionPayoutsCannotOverdrawPool(t *testing.T) {
	e := newTestEngine(t)
	id := createTestInvestor(t, e, 10000)

	r1, _ := e.RequestWithdrawal(context.Background(), id, 4000)
	if err := e.DecideWithdrawal(context.Background(), r1, Approve, "admin-1", ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	// Pool is 600. Two simultaneous 400 requests each fit on their own
	// but only one may win.
	admin := &models.Admin{ID: 1, Name: "Root Admin"}
	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.WithdrawCommissionEarnings(context.Background(), admin, 400, "IBAN DE00")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInsufficientBalance):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || rejected != 1 {
		t.Fatalf("expected exactly one payout to win, got %d wins / %d rejections", succeeded, rejected)
	}

	pool, err := e.CommissionPool(context.Background())
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	if pool.Available != 200 {
		t.Fatalf("expected 200 available, got %v", pool.Available)
	}
}

func TestCommissionRounding(t *testing.T) {
	e := newTestEngine(t)
	id := createTestInvestor(t, e, 1000)

	reqID, _ := e.RequestWithdrawal(context.Background(), id, 333.33)
	if err := e.DecideWithdrawal(context.Background(), reqID, Approve, "admin-1", ""); err != nil {
		t.Fatalf("approve: %v", err)
	}

	commissions, _ := e.ListCommissions(context.Background())
	if len(commissions) != 1 {
		t.Fatalf("expected 1 commission, got %d", len(commissions))
	}
	// 15% of 333.33 is 49.9995, which must round to the cent.
	if commissions[0].CommissionAmount != 50 {
		t.Fatalf("expected commission 50, got %v", commissions[0].CommissionAmount)
	}
}
