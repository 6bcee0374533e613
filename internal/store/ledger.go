package store

import (
	"errors"
	"log"

	"github.com/Divyaraj25/PaisaTrack/internal/defaults"
	"github.com/Divyaraj25/PaisaTrack/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger is the data access layer for one identity. Build one per request
// with NewLedger; it holds no state beyond the store handle and identity.
//
// Every read and write is filtered by the owning user. A zero identity
// matches nothing. Storage faults are logged and reported as an empty
// result, nil or false, so callers cannot tell "no data" from "store down".
type Ledger struct {
	db       *gorm.DB
	userID   uint
	defaults *defaults.Content
}

// NewLedger binds a store handle to an identity.
func NewLedger(db *gorm.DB, userID uint, content *defaults.Content) *Ledger {
	return &Ledger{db: db, userID: userID, defaults: content}
}

// UserID returns the bound identity.
func (l *Ledger) UserID() uint {
	return l.userID
}

func (l *Ledger) ok() bool {
	return l.userID != 0
}

func (l *Ledger) owned(model interface{}) *gorm.DB {
	return l.db.Model(model).Where("user_id = ?", l.userID)
}

func (l *Ledger) fail(op string, err error) {
	log.Printf("ledger: %s user=%d: %v", op, l.userID, err)
}

// first loads one owned record into dest. Missing records are not logged.
func (l *Ledger) first(op string, dest interface{}, query string, args ...interface{}) bool {
	err := l.owned(dest).Where(query, args...).First(dest).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			l.fail(op, err)
		}
		return false
	}
	return true
}

func (l *Ledger) updateOwned(op string, model interface{}, id uint, changes map[string]interface{}) bool {
	if len(changes) == 0 {
		return false
	}
	res := l.owned(model).Where("id = ?", id).Updates(changes)
	if res.Error != nil {
		l.fail(op, res.Error)
		return false
	}
	return res.RowsAffected > 0
}

func (l *Ledger) deleteOwned(op string, model interface{}, query string, args ...interface{}) bool {
	if !l.ok() {
		return false
	}
	res := l.db.Where("user_id = ?", l.userID).Where(query, args...).Delete(model)
	if res.Error != nil {
		l.fail(op, res.Error)
		return false
	}
	return res.RowsAffected > 0
}

// ---------- accounts ----------

// AccountPatch lists the account fields to change; nil means keep.
type AccountPatch struct {
	AccountType   *string
	InitialAmount *decimal.Decimal
	LastDigits    *string
}

// Apply returns a copy of a with the patch applied and the credit-card
// sign convention enforced.
func (p AccountPatch) Apply(a models.Account) models.Account {
	if p.AccountType != nil {
		a.AccountType = *p.AccountType
	}
	if p.InitialAmount != nil {
		a.InitialAmount = *p.InitialAmount
	}
	if p.LastDigits != nil {
		a.LastDigits = *p.LastDigits
	}
	a.NormalizeInitialAmount()
	return a
}

func (p AccountPatch) changes(cur *models.Account) map[string]interface{} {
	next := p.Apply(*cur)
	out := map[string]interface{}{}
	if next.AccountType != cur.AccountType {
		out["account_type"] = next.AccountType
	}
	if !next.InitialAmount.Equal(cur.InitialAmount) {
		out["initial_amount"] = next.InitialAmount
	}
	if next.LastDigits != cur.LastDigits {
		out["last_digits"] = next.LastDigits
	}
	return out
}

// ListAccounts returns every account of the identity.
func (l *Ledger) ListAccounts() []models.Account {
	accounts := []models.Account{}
	if !l.ok() {
		return accounts
	}
	if err := l.owned(&models.Account{}).Order("id ASC").Find(&accounts).Error; err != nil {
		l.fail("list accounts", err)
		return []models.Account{}
	}
	return accounts
}

// GetAccount finds an account by its type.
func (l *Ledger) GetAccount(accountType string) *models.Account {
	if !l.ok() {
		return nil
	}
	var a models.Account
	if !l.first("get account", &a, "account_type = ?", accountType) {
		return nil
	}
	return &a
}

// CreateAccount stamps the identity on a and inserts it.
func (l *Ledger) CreateAccount(a *models.Account) uint {
	if !l.ok() {
		return 0
	}
	a.ID = 0
	a.UserID = l.userID
	a.NormalizeInitialAmount()
	if err := l.db.Create(a).Error; err != nil {
		l.fail("create account", err)
		return 0
	}
	return a.ID
}

// UpdateAccount reports whether a stored field actually changed. A new
// account type is also written to the identity's transactions in the same
// db transaction.
func (l *Ledger) UpdateAccount(accountType string, patch AccountPatch) bool {
	cur := l.GetAccount(accountType)
	if cur == nil {
		return false
	}
	changes := patch.changes(cur)
	newType, renamed := changes["account_type"].(string)
	if !renamed {
		return l.updateOwned("update account", &models.Account{}, cur.ID, changes)
	}

	updated := false
	err := l.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Account{}).Where("id = ? AND user_id = ?", cur.ID, l.userID).Updates(changes)
		if res.Error != nil {
			return res.Error
		}
		updated = res.RowsAffected > 0
		for _, col := range []string{"account", "from_account", "to_account"} {
			if err := tx.Model(&models.Transaction{}).
				Where("user_id = ? AND "+col+" = ?", l.userID, accountType).
				Update(col, newType).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		l.fail("rename account", err)
		return false
	}
	return updated
}

// DeleteAccount removes an account by type.
func (l *Ledger) DeleteAccount(accountType string) bool {
	return l.deleteOwned("delete account", &models.Account{}, "account_type = ?", accountType)
}

// ---------- transactions ----------

// TransactionFilter narrows ListTransactions. Zero values mean no filter.
type TransactionFilter struct {
	Type     string
	Category string
	// Account matches account for income and expense and either side of a
	// transfer.
	Account string
	// From and To bound the date, both inclusive, YYYY-MM-DD.
	From   string
	To     string
	Limit  int
	Offset int
}

func (l *Ledger) filtered(f TransactionFilter) *gorm.DB {
	q := l.owned(&models.Transaction{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.From != "" {
		q = q.Where("date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("date <= ?", f.To)
	}
	if f.Account != "" {
		switch f.Type {
		case models.TxTransfer:
			q = q.Where("(from_account = ? OR to_account = ?)", f.Account, f.Account)
		case "":
			q = q.Where("(account = ? OR from_account = ? OR to_account = ?)", f.Account, f.Account, f.Account)
		default:
			q = q.Where("account = ?", f.Account)
		}
	}
	return q
}

// ListTransactions returns the identity's transactions, newest first.
func (l *Ledger) ListTransactions(f TransactionFilter) []models.Transaction {
	txs := []models.Transaction{}
	if !l.ok() {
		return txs
	}
	q := l.filtered(f).Order("date DESC, id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Find(&txs).Error; err != nil {
		l.fail("list transactions", err)
		return []models.Transaction{}
	}
	return txs
}

// CountTransactions counts matches ignoring Limit and Offset.
func (l *Ledger) CountTransactions(f TransactionFilter) int64 {
	if !l.ok() {
		return 0
	}
	var n int64
	if err := l.filtered(f).Count(&n).Error; err != nil {
		l.fail("count transactions", err)
		return 0
	}
	return n
}

// GetTransaction finds a transaction by id.
func (l *Ledger) GetTransaction(id uint) *models.Transaction {
	if !l.ok() {
		return nil
	}
	var tx models.Transaction
	if !l.first("get transaction", &tx, "id = ?", id) {
		return nil
	}
	return &tx
}

// CreateTransaction stamps the identity on tx and inserts it.
func (l *Ledger) CreateTransaction(tx *models.Transaction) uint {
	if !l.ok() {
		return 0
	}
	tx.ID = 0
	tx.UserID = l.userID
	if err := l.db.Create(tx).Error; err != nil {
		l.fail("create transaction", err)
		return 0
	}
	return tx.ID
}

// TransactionPatch lists the transaction fields to change; nil means keep.
type TransactionPatch struct {
	Type        *string
	Date        *string
	Amount      *decimal.Decimal
	Description *string
	Category    *string
	Account     *string
	FromAccount *string
	ToAccount   *string
}

// Apply returns a copy of tx with the patch applied.
func (p TransactionPatch) Apply(tx models.Transaction) models.Transaction {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&tx.Type, p.Type)
	set(&tx.Date, p.Date)
	set(&tx.Description, p.Description)
	set(&tx.Category, p.Category)
	set(&tx.Account, p.Account)
	set(&tx.FromAccount, p.FromAccount)
	set(&tx.ToAccount, p.ToAccount)
	if p.Amount != nil {
		tx.Amount = *p.Amount
	}
	return tx
}

func (p TransactionPatch) changes(cur *models.Transaction) map[string]interface{} {
	next := p.Apply(*cur)
	out := map[string]interface{}{}
	str := func(col, a, b string) {
		if a != b {
			out[col] = a
		}
	}
	str("type", next.Type, cur.Type)
	str("date", next.Date, cur.Date)
	str("description", next.Description, cur.Description)
	str("category", next.Category, cur.Category)
	str("account", next.Account, cur.Account)
	str("from_account", next.FromAccount, cur.FromAccount)
	str("to_account", next.ToAccount, cur.ToAccount)
	if !next.Amount.Equal(cur.Amount) {
		out["amount"] = next.Amount
	}
	return out
}

// UpdateTransaction reports whether a stored field actually changed.
func (l *Ledger) UpdateTransaction(id uint, patch TransactionPatch) bool {
	cur := l.GetTransaction(id)
	if cur == nil {
		return false
	}
	return l.updateOwned("update transaction", &models.Transaction{}, cur.ID, patch.changes(cur))
}

// DeleteTransaction removes a transaction by id.
func (l *Ledger) DeleteTransaction(id uint) bool {
	return l.deleteOwned("delete transaction", &models.Transaction{}, "id = ?", id)
}

// ---------- budgets ----------

// BudgetPatch lists the budget fields to change; nil means keep.
type BudgetPatch struct {
	Category  *string
	Amount    *decimal.Decimal
	Period    *models.BudgetPeriod
	StartDate *string
	EndDate   *string
}

// Apply returns a copy of b with the patch applied.
func (p BudgetPatch) Apply(b models.Budget) models.Budget {
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.Amount != nil {
		b.Amount = *p.Amount
	}
	if p.Period != nil {
		b.Period = *p.Period
	}
	if p.StartDate != nil {
		b.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		b.EndDate = *p.EndDate
	}
	return b
}

func (p BudgetPatch) changes(cur *models.Budget) map[string]interface{} {
	next := p.Apply(*cur)
	out := map[string]interface{}{}
	if next.Category != cur.Category {
		out["category"] = next.Category
	}
	if !next.Amount.Equal(cur.Amount) {
		out["amount"] = next.Amount
	}
	if next.Period != cur.Period {
		out["period"] = next.Period
	}
	if next.StartDate != cur.StartDate {
		out["start_date"] = next.StartDate
	}
	if next.EndDate != cur.EndDate {
		out["end_date"] = next.EndDate
	}
	return out
}

// ListBudgets returns every budget of the identity.
func (l *Ledger) ListBudgets() []models.Budget {
	budgets := []models.Budget{}
	if !l.ok() {
		return budgets
	}
	if err := l.owned(&models.Budget{}).Order("start_date DESC, id DESC").Find(&budgets).Error; err != nil {
		l.fail("list budgets", err)
		return []models.Budget{}
	}
	return budgets
}

// GetBudget finds a budget by id.
func (l *Ledger) GetBudget(id uint) *models.Budget {
	if !l.ok() {
		return nil
	}
	var b models.Budget
	if !l.first("get budget", &b, "id = ?", id) {
		return nil
	}
	return &b
}

// CreateBudget stamps the identity on b and inserts it.
func (l *Ledger) CreateBudget(b *models.Budget) uint {
	if !l.ok() {
		return 0
	}
	b.ID = 0
	b.UserID = l.userID
	if err := l.db.Create(b).Error; err != nil {
		l.fail("create budget", err)
		return 0
	}
	return b.ID
}

// UpdateBudget reports whether a stored field actually changed.
func (l *Ledger) UpdateBudget(id uint, patch BudgetPatch) bool {
	cur := l.GetBudget(id)
	if cur == nil {
		return false
	}
	return l.updateOwned("update budget", &models.Budget{}, cur.ID, patch.changes(cur))
}

// DeleteBudget removes a budget by id.
func (l *Ledger) DeleteBudget(id uint) bool {
	return l.deleteOwned("delete budget", &models.Budget{}, "id = ?", id)
}
