package models

import "time"

// Account status values. StatusMessage carries the human-readable
// explanation shown to the investor ("Restricted for withdrawals (...)").
const (
	AccountActive     = "Active"
	AccountRestricted = "Restricted"
	AccountClosed     = "Closed"
)

type Investor struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Email          string    `gorm:"size:191;uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"size:255;not null" json:"-"`
	Country        string    `gorm:"size:100" json:"country"`
	JoinDate       string    `gorm:"size:10" json:"join_date"`
	InitialDeposit float64   `gorm:"type:decimal(15,2);not null" json:"initial_deposit"`
	CurrentBalance float64   `gorm:"type:decimal(15,2);not null;default:0" json:"current_balance"`
	AccountStatus  string    `gorm:"size:20;not null;default:'Active'" json:"account_status"`
	StatusMessage  *string   `gorm:"type:text" json:"status_message,omitempty"`

	// Account flags gate whether withdrawal requests are accepted.
	PolicyViolation        bool    `gorm:"default:false" json:"policy_violation"`
	PolicyViolationMessage *string `gorm:"type:text" json:"policy_violation_message,omitempty"`
	PendingKyc             bool    `gorm:"default:false" json:"pending_kyc"`
	KycMessage             *string `gorm:"type:text" json:"kyc_message,omitempty"`
	WithdrawalDisabled     bool    `gorm:"default:false" json:"withdrawal_disabled"`
	WithdrawalMessage      *string `gorm:"type:text" json:"withdrawal_message,omitempty"`

	ProfilePic *string   `gorm:"type:varchar(255)" json:"profile_pic,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Investor) TableName() string {
	return "users"
}

// WithdrawalBlocked reports whether withdrawal requests must be refused
// for this account, along with the message to surface to the investor.
func (i *Investor) WithdrawalBlocked() (bool, string) {
	if i.WithdrawalDisabled {
		if i.WithdrawalMessage != nil && *i.WithdrawalMessage != "" {
			return true, *i.WithdrawalMessage
		}
		return true, "Withdrawals are disabled for this account"
	}
	switch i.AccountStatus {
	case AccountRestricted:
		if i.StatusMessage != nil && *i.StatusMessage != "" {
			return true, *i.StatusMessage
		}
		return true, "Account is restricted for withdrawals"
	case AccountClosed:
		return true, "Account is closed"
	}
	return false, ""
}
