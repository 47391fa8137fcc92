package models

import "time"

// FinancialTransaction is one ledger entry attributed to a persona.
// TransactionType is "Debit" or "Credit"; AccountType is "Savings",
// "Checking" or "Credit". Amounts are stored as numeric(14,2).
type FinancialTransaction struct {
	ID                      uint      `gorm:"primaryKey" json:"id"`
	PersonaID               string    `gorm:"size:50;index" json:"persona_id"`
	TransactionID           string    `gorm:"size:100;not null;uniqueIndex" json:"transaction_id" binding:"required"`
	Timestamp               time.Time `gorm:"not null;index" json:"timestamp"`
	TransactionType         string    `gorm:"size:20" json:"transaction_type"`
	Amount                  float64   `gorm:"type:numeric(14,2)" json:"amount"`
	Category                string    `gorm:"size:50" json:"category"`
	Merchant                string    `gorm:"size:100" json:"merchant,omitempty"`
	PaymentMethod           string    `gorm:"size:50" json:"payment_method"`
	AccountType             string    `gorm:"size:50" json:"account_type"`
	Channel                 string    `gorm:"size:255" json:"channel"`
	BalanceAfterTransaction float64   `gorm:"type:numeric(14,2)" json:"balance_after_transaction"`
	Notes                   string    `gorm:"type:text" json:"notes,omitempty"`
}

func (FinancialTransaction) TableName() string { return "financial_transactions" }
