package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tito24dxb/bk/models"
)

// Engine is the sole writer of investor balances and ledger history.
// Every multi-write operation runs inside a single database
// transaction; balance mutations and status transitions use
// conditional updates so concurrent admins cannot double-apply.
type Engine struct {
	db      *gorm.DB
	timeout time.Duration
	now     func() time.Time
}

const defaultTimeout = 10 * time.Second

func New(db *gorm.DB) *Engine {
	return &Engine{db: db, timeout: defaultTimeout, now: time.Now}
}

func (e *Engine) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.timeout)
}

func (e *Engine) policy(ctx context.Context) (*models.Setting, error) {
	setting, err := models.GetSetting(e.db.WithContext(ctx))
	if err != nil {
		return nil, storageErr(err)
	}
	return setting, nil
}

func (e *Engine) dateString() string {
	return e.now().Format("2006-01-02")
}

// round2 rounds a monetary amount to cents.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// commissionFor computes rate% of amount, rounded to cents.
func commissionFor(amount, rate float64) float64 {
	return decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(rate)).
		Div(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}

// NewInvestor carries the identity fields for CreateInvestor.
type NewInvestor struct {
	Name     string
	Email    string
	Password string
	Country  string
}

// CreateInvestor creates the investor record with
// currentBalance = initialDeposit and appends the opening Deposit
// transaction (Pending until the funds clear).
func (e *Engine) CreateInvestor(ctx context.Context, profile NewInvestor, initialDeposit float64) (uint, error) {
	ctx, cancel := e.opContext(ctx)
	defer cancel()

	profile.Name = strings.TrimSpace(profile.Name)
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	if profile.Name == "" {
		return 0, validationErr("name", "name is required")
	}
	if profile.Email == "" {
		return 0, validationErr("email", "email is required")
	}

	setting, err := e.policy(ctx)
	if err != nil {
		return 0, err
	}
	if initialDeposit < setting.MinInitialDeposit {
		return 0, validationErr("initial_deposit", "initial deposit is below the platform minimum")
	}

	var investorID uint
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Investor
		if err := tx.Where("email = ?", profile.Email).First(&existing).Error; err == nil {
			return ErrDuplicate
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		investor := models.Investor{
			Name:           profile.Name,
			Email:          profile.Email,
			Password:       profile.Password,
			Country:        profile.Country,
			JoinDate:       e.dateString(),
			InitialDeposit: round2(initialDeposit),
			CurrentBalance: round2(initialDeposit),
			AccountStatus:  models.AccountActive,
		}
		if err := tx.Create(&investor).Error; err != nil {
			return err
		}

		desc := "Initial deposit"
		trx := models.Transaction{
			InvestorID:  investor.ID,
			Type:        models.TxDeposit,
			Amount:      round2(initialDeposit),
			Date:        e.dateString(),
			Status:      models.TxPending,
			Description: &desc,
		}
		if err := tx.Create(&trx).Error; err != nil {
			return err
		}

		investorID = investor.ID
		return nil
	})
	if err != nil {
		return 0, storageErr(err)
	}
	return investorID, nil
}

// AddManualCredit credits an investor balance and appends the matching
// Completed transaction in one unit. creditType must be Deposit or
// Earnings.
func (e *Engine) AddManualCredit(ctx context.Context, investorID uint, amount float64, creditType string, description string) (uint, error) {
	ctx, cancel := e.opContext(ctx)
	defer cancel()

	if amount <= 0 {
		return 0, validationErr("amount", "amount must be greater than zero")
	}
	if creditType != models.TxDeposit && creditType != models.TxEarnings {
		return 0, validationErr("credit_type", "credit type must be Deposit or Earnings")
	}

	amount = round2(amount)
	var transactionID uint
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Investor{}).
			Where("id = ?", investorID).
			Update("current_balance", gorm.Expr("current_balance + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		trx := models.Transaction{
			InvestorID: investorID,
			Type:       creditType,
			Amount:     amount,
			Date:       e.dateString(),
			Status:     models.TxCompleted,
		}
		if description != "" {
			trx.Description = &description
		}
		if err := tx.Create(&trx).Error; err != nil {
			return err
		}
		transactionID = trx.ID
		return nil
	})
	if err != nil {
		return 0, storageErr(err)
	}
	return transactionID, nil
}
