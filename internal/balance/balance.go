// Package balance derives account balances and net worth from the
// transaction ledger. Nothing here is stored; every call recomputes.
package balance

import (
	"github.com/Divyaraj25/PaisaTrack/internal/models"

	"github.com/shopspring/decimal"
)

// Summary is the result of Compute.
type Summary struct {
	Balances         map[string]decimal.Decimal `json:"balances"`
	TotalAssets      decimal.Decimal            `json:"total_assets"`
	TotalLiabilities decimal.Decimal            `json:"total_liabilities"`
	NetWorth         decimal.Decimal            `json:"net_worth"`
}

// Balances seeds every account with its initial amount and folds the
// transactions over it. Transactions naming an unknown account leave the
// balances untouched for that side.
func Balances(accounts []models.Account, transactions []models.Transaction) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal, len(accounts))
	for _, a := range accounts {
		balances[a.AccountType] = a.InitialAmount
	}

	adjust := func(account string, delta decimal.Decimal) {
		if cur, ok := balances[account]; ok {
			balances[account] = cur.Add(delta)
		}
	}

	for i := range transactions {
		tx := &transactions[i]
		switch tx.Type {
		case models.TxIncome:
			adjust(tx.Account, tx.Amount)
		case models.TxExpense:
			adjust(tx.Account, tx.Amount.Neg())
		case models.TxTransfer:
			if tx.IsCreditCardPayment() {
				// Card balances are negative debt; a payment moves the
				// balance toward zero, so the card side is added.
				adjust(tx.FromAccount, tx.Amount.Neg())
				adjust(models.CreditCardAccount, tx.Amount)
				continue
			}
			adjust(tx.FromAccount, tx.Amount.Neg())
			adjust(tx.ToAccount, tx.Amount)
		}
	}
	return balances
}

// Aggregate splits balances into assets and liabilities.
//
// A credit card with a positive balance (overpaid) reduces liabilities by
// that amount instead of counting as an asset.
func Aggregate(balances map[string]decimal.Decimal) Summary {
	s := Summary{
		Balances:         balances,
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
	}
	for accountType, bal := range balances {
		if accountType == models.CreditCardAccount {
			if bal.IsNegative() {
				s.TotalLiabilities = s.TotalLiabilities.Add(bal.Abs())
			} else {
				s.TotalLiabilities = s.TotalLiabilities.Sub(bal)
			}
			continue
		}
		if bal.IsNegative() {
			s.TotalLiabilities = s.TotalLiabilities.Add(bal.Abs())
		} else {
			s.TotalAssets = s.TotalAssets.Add(bal)
		}
	}
	s.NetWorth = s.TotalAssets.Sub(s.TotalLiabilities)
	return s
}

// Compute runs Balances then Aggregate.
func Compute(accounts []models.Account, transactions []models.Transaction) Summary {
	return Aggregate(Balances(accounts, transactions))
}
