package database

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tito24dxb/bk/models"
)

// Demo data seeding is an explicit administrative command, never a
// side effect of startup. The investor email is the idempotency key:
// re-running the seed skips investors that already exist.

type demoWithdrawal struct {
	Amount float64
	Date   string
}

type demoInvestor struct {
	Name        string
	Email       string
	Country     string
	JoinDate    string
	Deposit     float64
	Earnings    float64
	Withdrawals []demoWithdrawal
}

var demoInvestors = []demoInvestor{
	{
		Name:     "Marcus Webb",
		Email:    "marcus.webb@example.com",
		Country:  "United Kingdom",
		JoinDate: "2024-06-18",
		Deposit:  10000,
		Earnings: 24198.10,
		Withdrawals: []demoWithdrawal{
			{Amount: 1000, Date: "2024-07-25"},
			{Amount: 1000, Date: "2024-09-23"},
		},
	},
	{
		Name:     "Elena Petrova",
		Email:    "elena.petrova@example.com",
		Country:  "Cyprus",
		JoinDate: "2024-07-02",
		Deposit:  1000,
		Earnings: 20098.21,
		Withdrawals: []demoWithdrawal{
			{Amount: 500, Date: "2024-11-15"},
		},
	},
	{
		Name:     "David Okafor",
		Email:    "david.okafor@example.com",
		Country:  "Nigeria",
		JoinDate: "2024-08-11",
		Deposit:  5000,
		Earnings: 3122.49,
	},
}

// SeedReport describes what the seed command did (or would do when
// dry-run).
type SeedReport struct {
	DryRun  bool     `json:"dry_run"`
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}

// SeedDemoData inserts the demo investors with their transaction,
// withdrawal and commission history. With dryRun set it only reports
// what would change.
func SeedDemoData(db *gorm.DB, commissionRate float64, dryRun bool) (*SeedReport, error) {
	report := &SeedReport{DryRun: dryRun, Created: []string{}, Skipped: []string{}}

	for _, demo := range demoInvestors {
		var existing models.Investor
		err := db.Where("email = ?", demo.Email).First(&existing).Error
		if err == nil {
			report.Skipped = append(report.Skipped, demo.Email)
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}

		report.Created = append(report.Created, demo.Email)
		if dryRun {
			continue
		}

		if err := seedInvestor(db, demo, commissionRate); err != nil {
			return nil, fmt.Errorf("seed %s: %w", demo.Email, err)
		}
	}
	return report, nil
}

func seedInvestor(db *gorm.DB, demo demoInvestor, commissionRate float64) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		balance := demo.Deposit + demo.Earnings
		for _, wd := range demo.Withdrawals {
			balance -= wd.Amount
		}

		investor := models.Investor{
			Name:           demo.Name,
			Email:          demo.Email,
			Password:       string(hashed),
			Country:        demo.Country,
			JoinDate:       demo.JoinDate,
			InitialDeposit: demo.Deposit,
			CurrentBalance: balance,
			AccountStatus:  models.AccountActive,
		}
		if err := tx.Create(&investor).Error; err != nil {
			return err
		}

		desc := "Initial deposit"
		if err := tx.Create(&models.Transaction{
			InvestorID:  investor.ID,
			Type:        models.TxDeposit,
			Amount:      demo.Deposit,
			Date:        demo.JoinDate,
			Status:      models.TxCompleted,
			Description: &desc,
		}).Error; err != nil {
			return err
		}

		if demo.Earnings > 0 {
			desc := "Backfilled trading earnings"
			if err := tx.Create(&models.Transaction{
				InvestorID:  investor.ID,
				Type:        models.TxEarnings,
				Amount:      demo.Earnings,
				Date:        demo.JoinDate,
				Status:      models.TxCompleted,
				Description: &desc,
			}).Error; err != nil {
				return err
			}
		}

		for _, wd := range demo.Withdrawals {
			processedBy := "seed"
			request := models.WithdrawalRequest{
				InvestorID:   investor.ID,
				InvestorName: investor.Name,
				Amount:       wd.Amount,
				Date:         wd.Date,
				Status:       models.WithdrawalApproved,
				ProcessedBy:  &processedBy,
			}
			if err := tx.Create(&request).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.Transaction{
				InvestorID: investor.ID,
				Type:       models.TxWithdrawal,
				Amount:     -wd.Amount,
				Date:       wd.Date,
				Status:     models.TxCompleted,
			}).Error; err != nil {
				return err
			}
			requestID := request.ID
			if err := tx.Create(&models.Commission{
				InvestorID:       investor.ID,
				InvestorName:     investor.Name,
				WithdrawalAmount: wd.Amount,
				CommissionRate:   commissionRate,
				CommissionAmount: wd.Amount * commissionRate / 100,
				Date:             wd.Date,
				Status:           "Earned",
				WithdrawalID:     &requestID,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
