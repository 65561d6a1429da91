package models

import "time"

const (
	WithdrawalPending  = "Pending"
	WithdrawalApproved = "Approved"
	WithdrawalRejected = "Rejected"
)

// WithdrawalRequest is mutable until it reaches a terminal status
// (Approved or Rejected). InvestorName is a snapshot of the display
// name at request time and is intentionally not kept in sync with the
// investor record.
type WithdrawalRequest struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	InvestorID   uint       `gorm:"not null;index" json:"investor_id"`
	InvestorName string     `gorm:"size:100;not null" json:"investor_name"`
	Amount       float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	Date         string     `gorm:"size:10;not null" json:"date"`
	Status       string     `gorm:"size:20;not null;default:'Pending'" json:"status"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
	ProcessedBy  *string    `gorm:"size:100" json:"processed_by,omitempty"`
	Reason       *string    `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (WithdrawalRequest) TableName() string {
	return "withdrawal_requests"
}
