package database

import (
	"gorm.io/gorm"

	"github.com/tito24dxb/bk/models"
)

// Migrate runs AutoMigrate for every persistent model. Only called in
// development; production schema changes are reviewed migrations.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Admin{},
		&models.Investor{},
		&models.Transaction{},
		&models.WithdrawalRequest{},
		&models.Commission{},
		&models.CommissionWithdrawal{},
		&models.Setting{},
	)
}
