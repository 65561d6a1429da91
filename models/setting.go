package models

import "gorm.io/gorm"

// Setting is the single-row policy table. The values here are business
// policy, not code: the $100 minimums and the 15% commission rate are
// seeded defaults an admin can change.
type Setting struct {
	ID                    int     `json:"id" gorm:"primaryKey"`
	PlatformName          string  `json:"platform_name" gorm:"size:100;default:'Affiliate Platform'"`
	MinInitialDeposit     float64 `json:"min_initial_deposit" gorm:"type:decimal(15,2);default:100"`
	CommissionRate        float64 `json:"commission_rate" gorm:"type:decimal(5,2);default:15"`
	MinCommissionWithdraw float64 `json:"min_commission_withdraw" gorm:"type:decimal(15,2);default:100"`
	Maintenance           bool    `json:"maintenance" gorm:"default:false"`
}

func (Setting) TableName() string {
	return "settings"
}

// GetSetting returns the policy row, creating it with defaults when the
// table is empty.
func GetSetting(db *gorm.DB) (*Setting, error) {
	var setting Setting
	err := db.First(&setting).Error
	if err == gorm.ErrRecordNotFound {
		setting = Setting{
			PlatformName:          "Affiliate Platform",
			MinInitialDeposit:     100,
			CommissionRate:        15,
			MinCommissionWithdraw: 100,
		}
		if err := db.Create(&setting).Error; err != nil {
			return nil, err
		}
		return &setting, nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}
