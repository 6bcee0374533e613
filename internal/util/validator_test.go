package util

import (
	"testing"

	"github.com/Divyaraj25/PaisaTrack/internal/models"

	"github.com/shopspring/decimal"
)

func TestValidateAmount(t *testing.T) {
	for _, s := range []string{"0.01", "1", "100.5", "25000"} {
		if err := ValidateAmount(decimal.RequireFromString(s)); err != nil {
			t.Errorf("ValidateAmount(%s) error = %v, want nil", s, err)
		}
	}
	for _, s := range []string{"0", "-0.01", "-100", "1000000000"} {
		if err := ValidateAmount(decimal.RequireFromString(s)); err == nil {
			t.Errorf("ValidateAmount(%s) error = nil, want error", s)
		}
	}
}

func TestValidateDate(t *testing.T) {
	for _, date := range []string{"2024-01-01", "2024-02-29", "2025-06-15"} {
		if err := ValidateDate(date); err != nil {
			t.Errorf("ValidateDate(%q) error = %v, want nil", date, err)
		}
	}
	invalid := []string{
		"",
		"2024/01/01",
		"01-01-2024",
		"2024-1-1",
		"not-a-date",
		"2024-13-01", // 月份错误
		"2023-02-29", // 非闰年
	}
	for _, date := range invalid {
		if err := ValidateDate(date); err == nil {
			t.Errorf("ValidateDate(%q) error = nil, want error", date)
		}
	}
}

func TestValidateDateRange(t *testing.T) {
	if err := ValidateDateRange("2023-11-01", "2023-11-30"); err != nil {
		t.Errorf("valid range error = %v", err)
	}
	if err := ValidateDateRange("2023-11-01", "2023-11-01"); err != nil {
		t.Errorf("single day range error = %v", err)
	}
	if err := ValidateDateRange("2023-12-01", "2023-11-30"); err == nil {
		t.Error("reversed range error = nil, want error")
	}
}

func TestValidateCategory(t *testing.T) {
	if err := ValidateCategory("Food"); err != nil {
		t.Errorf("ValidateCategory(Food) error = %v", err)
	}
	if err := ValidateCategory(""); err == nil {
		t.Error("ValidateCategory(\"\") error = nil, want error")
	}
}

func TestValidateCredentials(t *testing.T) {
	if err := ValidateUsername("ravi_k"); err != nil {
		t.Errorf("ValidateUsername error = %v", err)
	}
	for _, u := range []string{"ab", "has space", "way_too_long_username_here"} {
		if err := ValidateUsername(u); err == nil {
			t.Errorf("ValidateUsername(%q) error = nil, want error", u)
		}
	}

	if err := ValidateEmail("ravi@example.com"); err != nil {
		t.Errorf("ValidateEmail error = %v", err)
	}
	if err := ValidateEmail("Ravi <ravi@example.com>"); err == nil {
		t.Error("display-name form should be rejected")
	}

	if err := ValidatePassword("Secret123"); err != nil {
		t.Errorf("ValidatePassword error = %v", err)
	}
	for _, p := range []string{"short1A", "alllowercase1", "ALLUPPER123", "NoDigitsHere"} {
		if err := ValidatePassword(p); err == nil {
			t.Errorf("ValidatePassword(%q) error = nil, want error", p)
		}
	}
}

func TestValidateTransaction(t *testing.T) {
	amount := decimal.NewFromInt(1500)
	valid := []models.Transaction{
		{Type: models.TxExpense, Account: "Cash", Category: "Food", Date: "2023-11-05", Amount: amount},
		{Type: models.TxIncome, Account: "Bank Account", Category: "Salary", Date: "2023-11-01", Amount: amount},
		{Type: models.TxTransfer, FromAccount: "Bank Account", ToAccount: "Credit Card", Category: models.CreditCardPayment, Date: "2023-11-10", Amount: amount},
	}
	for i := range valid {
		if err := ValidateTransaction(&valid[i]); err != nil {
			t.Errorf("case %d: error = %v, want nil", i, err)
		}
	}

	invalid := []models.Transaction{
		{Account: "Cash", Category: "Food", Date: "2023-11-05", Amount: amount},
		{Type: "refund", Account: "Cash", Category: "Food", Date: "2023-11-05", Amount: amount},
		{Type: models.TxExpense, Category: "Food", Date: "2023-11-05", Amount: amount},
		{Type: models.TxTransfer, ToAccount: "Cash", Category: "Between Accounts", Date: "2023-11-05", Amount: amount},
		{Type: models.TxExpense, Account: "Cash", Date: "2023-11-05", Amount: amount},
		{Type: models.TxExpense, Account: "Cash", Category: "Food", Amount: amount},
		{Type: models.TxExpense, Account: "Cash", Category: "Food", Date: "2023-11-05", Amount: decimal.Zero},
	}
	for i := range invalid {
		if err := ValidateTransaction(&invalid[i]); err == nil {
			t.Errorf("case %d: error = nil, want error", i)
		}
	}
}

func TestValidateBudget(t *testing.T) {
	b := models.Budget{
		Category:  "Food",
		Amount:    decimal.NewFromInt(10000),
		Period:    models.PeriodMonthly,
		StartDate: "2023-11-01",
		EndDate:   "2023-11-30",
	}
	if err := ValidateBudget(&b); err != nil {
		t.Errorf("ValidateBudget error = %v", err)
	}

	b.Period = "fortnightly"
	if err := ValidateBudget(&b); err == nil {
		t.Error("unknown period should fail")
	}
}
