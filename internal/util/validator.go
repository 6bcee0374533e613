package util

import (
	"fmt"
	"net/mail"
	"regexp"
	"time"

	"github.com/Divyaraj25/PaisaTrack/internal/models"

	"github.com/shopspring/decimal"
)

// DateLayout is the string-comparable calendar date form used everywhere.
const DateLayout = "2006-01-02"

var (
	maxAmount  = decimal.NewFromInt(1_000_000_000)
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
)

// ValidateAmount 验证金额（必须为正数且不超过上限）
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", amount)
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("amount too large, got %s", amount)
	}
	return nil
}

// ValidateDate 验证日期格式（必须为 YYYY-MM-DD）
func ValidateDate(dateStr string) error {
	if dateStr == "" {
		return fmt.Errorf("date is empty")
	}
	_, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}
	return nil
}

// ValidateDateRange checks both dates and that start is not after end.
func ValidateDateRange(start, end string) error {
	if err := ValidateDate(start); err != nil {
		return fmt.Errorf("start date: %w", err)
	}
	if err := ValidateDate(end); err != nil {
		return fmt.Errorf("end date: %w", err)
	}
	if start > end {
		return fmt.Errorf("start date %s is after end date %s", start, end)
	}
	return nil
}

// ValidateCategory 验证分类（不能为空且长度合理）
func ValidateCategory(category string) error {
	if category == "" {
		return fmt.Errorf("category is empty")
	}
	if len(category) > 64 {
		return fmt.Errorf("category too long, max 64 characters")
	}
	return nil
}

// ValidateUsername allows 3-20 letters, digits or underscores.
func ValidateUsername(username string) error {
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("username must be 3-20 letters, digits or underscores")
	}
	return nil
}

// ValidateEmail 验证邮箱格式
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidatePassword 检查密码强度：8-64 位，包含大小写字母和数字
func ValidatePassword(pwd string) error {
	if len(pwd) < 8 || len(pwd) > 64 {
		return fmt.Errorf("password must be 8-64 characters")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, ch := range pwd {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return fmt.Errorf("password needs upper and lower case letters and a digit")
	}
	return nil
}

// ValidateTransaction checks the fields required by the transaction type.
func ValidateTransaction(tx *models.Transaction) error {
	switch tx.Type {
	case models.TxIncome, models.TxExpense:
		if tx.Account == "" {
			return fmt.Errorf("account is required for %s transactions", tx.Type)
		}
	case models.TxTransfer:
		if tx.FromAccount == "" {
			return fmt.Errorf("from account is required for transfer transactions")
		}
		if tx.ToAccount == "" {
			return fmt.Errorf("to account is required for transfer transactions")
		}
	case "":
		return fmt.Errorf("transaction type is required")
	default:
		return fmt.Errorf("unknown transaction type %q", tx.Type)
	}
	if err := ValidateCategory(tx.Category); err != nil {
		return err
	}
	if err := ValidateDate(tx.Date); err != nil {
		return err
	}
	return ValidateAmount(tx.Amount)
}

// ValidateBudget checks a budget after its date range has been derived.
func ValidateBudget(b *models.Budget) error {
	if err := ValidateCategory(b.Category); err != nil {
		return err
	}
	if !b.Period.Valid() {
		return fmt.Errorf("unknown budget period %q", b.Period)
	}
	if err := ValidateAmount(b.Amount); err != nil {
		return err
	}
	return ValidateDateRange(b.StartDate, b.EndDate)
}
