package models

import (
	"slices"
	"time"
)

const (
	CategoryIncome   = "income"
	CategoryExpense  = "expense"
	CategoryTransfer = "transfer"
)

// CategoryLists is the user-facing categories document.
type CategoryLists struct {
	Income   []string `json:"income"`
	Expense  []string `json:"expense"`
	Transfer []string `json:"transfer"`
}

// Clone returns a deep copy.
func (c CategoryLists) Clone() CategoryLists {
	return CategoryLists{
		Income:   slices.Clone(c.Income),
		Expense:  slices.Clone(c.Expense),
		Transfer: slices.Clone(c.Transfer),
	}
}

// IsEmpty reports whether all three lists are empty.
func (c CategoryLists) IsEmpty() bool {
	return len(c.Income) == 0 && len(c.Expense) == 0 && len(c.Transfer) == 0
}

// Equal compares the three lists element by element.
func (c CategoryLists) Equal(o CategoryLists) bool {
	return slices.Equal(c.Income, o.Income) &&
		slices.Equal(c.Expense, o.Expense) &&
		slices.Equal(c.Transfer, o.Transfer)
}

func (c *CategoryLists) list(kind string) *[]string {
	switch kind {
	case CategoryIncome:
		return &c.Income
	case CategoryExpense:
		return &c.Expense
	case CategoryTransfer:
		return &c.Transfer
	}
	return nil
}

// Add appends name to the kind list unless already present.
func (c *CategoryLists) Add(kind, name string) bool {
	l := c.list(kind)
	if l == nil || name == "" || slices.Contains(*l, name) {
		return false
	}
	*l = append(*l, name)
	return true
}

// Remove drops name from the kind list; absent names are a no-op.
func (c *CategoryLists) Remove(kind, name string) bool {
	l := c.list(kind)
	if l == nil {
		return false
	}
	i := slices.Index(*l, name)
	if i < 0 {
		return false
	}
	*l = slices.Delete(*l, i, i+1)
	return true
}

// CategorySet is the stored categories document, one per user.
type CategorySet struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"uniqueIndex;not null"`
	Income    []string  `gorm:"type:text;serializer:json"`
	Expense   []string  `gorm:"type:text;serializer:json"`
	Transfer  []string  `gorm:"type:text;serializer:json"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Lists strips storage identifiers.
func (s *CategorySet) Lists() CategoryLists {
	return CategoryLists{Income: s.Income, Expense: s.Expense, Transfer: s.Transfer}.Clone()
}
