package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditCardAccount is the account type whose balance is a liability.
const CreditCardAccount = "Credit Card"

// Account is a money container owned by one user. AccountType is the
// natural key and is unique per user only.
type Account struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"uniqueIndex:idx_account_owner_type;not null" json:"-"`
	AccountType   string          `gorm:"size:64;uniqueIndex:idx_account_owner_type;not null" json:"account_type"`
	InitialAmount decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"initial_amount"`
	LastDigits    string          `gorm:"size:4" json:"last_digits"`
	CreatedAt     time.Time       `json:"created_date"`
	UpdatedAt     time.Time       `json:"-"`
}

// IsCreditCard reports whether the account follows the liability convention.
func (a *Account) IsCreditCard() bool {
	return a.AccountType == CreditCardAccount
}

// NormalizeInitialAmount stores credit-card balances as non-positive numbers.
func (a *Account) NormalizeInitialAmount() {
	if a.IsCreditCard() {
		a.InitialAmount = a.InitialAmount.Abs().Neg()
	}
}
