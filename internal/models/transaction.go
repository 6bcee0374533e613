package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TxIncome   = "income"
	TxExpense  = "expense"
	TxTransfer = "transfer"
)

// CreditCardPayment is the transfer category that settles card debt.
const CreditCardPayment = "Credit Card Payment"

// Transaction is one ledger line. Amount is always positive; its signed
// effect on balances is derived from Type.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"index:idx_tx_owner_date;not null" json:"-"`
	Type        string          `gorm:"size:16;index;not null" json:"type"`
	Date        string          `gorm:"size:10;index:idx_tx_owner_date;not null" json:"date"` // YYYY-MM-DD
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Description string          `gorm:"size:255" json:"description"`
	Category    string          `gorm:"size:64;index" json:"category"`

	// income / expense
	Account string `gorm:"size:64" json:"account,omitempty"`
	// transfer
	FromAccount string `gorm:"size:64" json:"from_account,omitempty"`
	ToAccount   string `gorm:"size:64" json:"to_account,omitempty"`

	CreatedAt time.Time `json:"added_date"`
	UpdatedAt time.Time `json:"-"`
}

// IsCreditCardPayment reports whether the transfer pays down the credit card.
func (t *Transaction) IsCreditCardPayment() bool {
	return t.Type == TxTransfer && t.Category == CreditCardPayment && t.ToAccount == CreditCardAccount
}
