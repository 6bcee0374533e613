package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod selects how a budget's date range is derived.
type BudgetPeriod string

const (
	PeriodCustom  BudgetPeriod = "custom"
	PeriodWeekly  BudgetPeriod = "weekly"
	PeriodMonthly BudgetPeriod = "monthly"
	PeriodYearly  BudgetPeriod = "yearly"
)

// Valid reports whether p is a known period kind.
func (p BudgetPeriod) Valid() bool {
	switch p {
	case PeriodCustom, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// Budget caps spending on one expense category between StartDate and
// EndDate, both inclusive and in YYYY-MM-DD form.
type Budget struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"index;not null" json:"-"`
	Category  string          `gorm:"size:64;not null" json:"category"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Period    BudgetPeriod    `gorm:"size:16;not null" json:"period"`
	StartDate string          `gorm:"size:10;not null" json:"start_date"`
	EndDate   string          `gorm:"size:10;not null" json:"end_date"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"-"`
}
