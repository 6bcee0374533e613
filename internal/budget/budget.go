// Package budget evaluates budgets against expense transactions and
// derives budget date ranges from their period kind.
package budget

import (
	"fmt"
	"time"

	"github.com/Divyaraj25/PaisaTrack/internal/models"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

var hundred = decimal.NewFromInt(100)

// Utilization is a budget enriched with its spending figures.
type Utilization struct {
	models.Budget
	Status     string          `json:"status"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Evaluate enriches every budget. today must be a YYYY-MM-DD string.
func Evaluate(budgets []models.Budget, transactions []models.Transaction, today string) []Utilization {
	out := make([]Utilization, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, evaluateOne(b, transactions, today))
	}
	return out
}

func evaluateOne(b models.Budget, transactions []models.Transaction, today string) Utilization {
	u := Utilization{Budget: b, Status: StatusInactive, Spent: decimal.Zero}
	if b.StartDate <= today && today <= b.EndDate {
		u.Status = StatusActive
	}

	for i := range transactions {
		tx := &transactions[i]
		if tx.Type != models.TxExpense || tx.Category != b.Category {
			continue
		}
		if b.StartDate <= tx.Date && tx.Date <= b.EndDate {
			u.Spent = u.Spent.Add(tx.Amount)
		}
	}

	u.Remaining = b.Amount.Sub(u.Spent)
	u.Percentage = decimal.Zero
	if b.Amount.IsPositive() {
		u.Percentage = u.Spent.Div(b.Amount).Mul(hundred).Round(2)
	}
	return u
}

// PeriodRange returns the inclusive start and end dates for a budget of
// the given period created on today. Custom periods echo the supplied
// dates unchanged; validating them is the caller's job.
func PeriodRange(period models.BudgetPeriod, today time.Time, customStart, customEnd string) (string, string, error) {
	y, m, d := today.Date()
	loc := today.Location()
	switch period {
	case models.PeriodCustom:
		return customStart, customEnd, nil
	case models.PeriodWeekly:
		// Monday..Sunday of the ISO week containing today
		offset := (int(today.Weekday()) + 6) % 7
		monday := time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
		return monday.Format(dateLayout), monday.AddDate(0, 0, 6).Format(dateLayout), nil
	case models.PeriodMonthly:
		first := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		last := time.Date(y, m+1, 0, 0, 0, 0, 0, loc)
		return first.Format(dateLayout), last.Format(dateLayout), nil
	case models.PeriodYearly:
		return fmt.Sprintf("%04d-01-01", y), fmt.Sprintf("%04d-12-31", y), nil
	}
	return "", "", fmt.Errorf("unknown budget period %q", period)
}
