// Package defaults holds the content shipped with the binary: the default
// category lists seeded for new users and the shared info document.
package defaults

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/Divyaraj25/PaisaTrack/internal/models"
)

var (
	//go:embed categories.json
	categoriesJSON []byte
	//go:embed info.json
	infoJSON []byte
)

// Content is loaded once at startup and shared read-only.
type Content struct {
	categories *models.CategoryLists
	info       *models.Info
}

// Load parses the embedded documents.
func Load() (*Content, error) {
	return parse(categoriesJSON, infoJSON)
}

func parse(categoriesRaw, infoRaw []byte) (*Content, error) {
	var cats models.CategoryLists
	if err := json.Unmarshal(categoriesRaw, &cats); err != nil {
		return nil, fmt.Errorf("parse default categories: %w", err)
	}
	var info models.Info
	if err := json.Unmarshal(infoRaw, &info); err != nil {
		return nil, fmt.Errorf("parse default info: %w", err)
	}
	return &Content{categories: &cats, info: &info}, nil
}

// Categories returns a copy of the bundled category lists, falling back to
// the hardcoded set when nothing usable was bundled. Safe on a nil receiver.
func (c *Content) Categories() models.CategoryLists {
	if c == nil || c.categories == nil || c.categories.IsEmpty() {
		return Hardcoded()
	}
	return c.categories.Clone()
}

// Info returns a copy of the bundled info document, or nil.
func (c *Content) Info() *models.Info {
	if c == nil {
		return nil
	}
	return c.info.Clone()
}

// Hardcoded is the last-resort category set.
func Hardcoded() models.CategoryLists {
	return models.CategoryLists{
		Income: []string{"Salary", "Freelance", "Investment", "Gift", "Business", "Other"},
		Expense: []string{"Food", "Transport", "Entertainment", "Utilities", "Rent", "Healthcare",
			"Education", "Shopping", "Travel", "Personal Care", "Other"},
		Transfer: []string{"Cash to Bank", "Bank to Card", "Card to Cash", "Between Accounts", models.CreditCardPayment},
	}
}
