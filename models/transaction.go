package models

import "time"

const (
	TxDeposit    = "Deposit"
	TxEarnings   = "Earnings"
	TxWithdrawal = "Withdrawal"

	TxPending   = "Pending"
	TxCompleted = "Completed"
	TxRejected  = "Rejected"
)

// Transaction is an append-only ledger entry. Withdrawal amounts are
// stored as negative magnitudes; deposits and earnings are positive.
// A Completed record is never mutated.
type Transaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	InvestorID  uint      `gorm:"not null;index" json:"investor_id"`
	Type        string    `gorm:"size:20;not null" json:"type"`
	Amount      float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Date        string    `gorm:"size:10;not null" json:"date"`
	Status      string    `gorm:"size:20;not null;default:'Pending'" json:"status"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
