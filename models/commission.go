package models

import "time"

// Commission is an append-only record created once per approved
// withdrawal. WithdrawalID is nullable for backfilled legacy rows.
type Commission struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	InvestorID       uint      `gorm:"not null;index" json:"investor_id"`
	InvestorName     string    `gorm:"size:100;not null" json:"investor_name"`
	WithdrawalAmount float64   `gorm:"type:decimal(15,2);not null" json:"withdrawal_amount"`
	CommissionRate   float64   `gorm:"type:decimal(5,2);not null" json:"commission_rate"`
	CommissionAmount float64   `gorm:"type:decimal(15,2);not null" json:"commission_amount"`
	Date             string    `gorm:"size:10;not null" json:"date"`
	Status           string    `gorm:"size:20;not null;default:'Earned'" json:"status"`
	WithdrawalID     *uint     `gorm:"index" json:"withdrawal_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func (Commission) TableName() string {
	return "commissions"
}
