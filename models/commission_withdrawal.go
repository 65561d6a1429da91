package models

import "time"

// CommissionWithdrawal is an administrative request to pay out earned
// commission to an external account. Pending and Approved requests both
// reserve funds against the commission pool; a Rejected request
// releases them.
type CommissionWithdrawal struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	AdminID            int64      `gorm:"not null;index" json:"admin_id"`
	AdminName          string     `gorm:"size:100;not null" json:"admin_name"`
	Amount             float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	DestinationAccount string     `gorm:"type:text;not null" json:"destination_account"`
	Date               string     `gorm:"size:10;not null" json:"date"`
	Status             string     `gorm:"size:20;not null;default:'Pending'" json:"status"`
	ProcessedAt        *time.Time `json:"processed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (CommissionWithdrawal) TableName() string {
	return "commission_withdrawals"
}
