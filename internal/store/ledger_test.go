package store

import (
	"bytes"
	"log"
	"os"
	"testing"
	"time"

	"github.com/Divyaraj25/PaisaTrack/internal/defaults"
	"github.com/Divyaraj25/PaisaTrack/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testContent(t *testing.T) *defaults.Content {
	t.Helper()
	content, err := defaults.Load()
	require.NoError(t, err)
	return content
}

func newTestLedgers(t *testing.T) (db *gorm.DB, a, b, anon *Ledger) {
	t.Helper()
	db = openTestDB(t)
	content := testContent(t)
	return db, NewLedger(db, 1, content), NewLedger(db, 2, content), NewLedger(db, 0, content)
}

func seedLedger(t *testing.T, l *Ledger) {
	t.Helper()
	require.NotZero(t, l.CreateAccount(&models.Account{AccountType: "Bank Account", InitialAmount: dec("100000")}))
	require.NotZero(t, l.CreateAccount(&models.Account{AccountType: models.CreditCardAccount, InitialAmount: dec("25000")}))
	require.NotZero(t, l.CreateTransaction(&models.Transaction{
		Type: models.TxIncome, Date: "2023-11-01", Amount: dec("75000"), Category: "Salary", Account: "Bank Account",
	}))
	require.NotZero(t, l.CreateTransaction(&models.Transaction{
		Type: models.TxExpense, Date: "2023-11-05", Amount: dec("1500"), Category: "Food", Account: models.CreditCardAccount,
	}))
	require.NotZero(t, l.CreateTransaction(&models.Transaction{
		Type: models.TxTransfer, Date: "2023-11-10", Amount: dec("25000"), Category: models.CreditCardPayment,
		FromAccount: "Bank Account", ToAccount: models.CreditCardAccount,
	}))
	require.NotZero(t, l.CreateBudget(&models.Budget{
		Category: "Food", Amount: dec("10000"), Period: models.PeriodMonthly, StartDate: "2023-11-01", EndDate: "2023-11-30",
	}))
}

func TestLedgerIsolation(t *testing.T) {
	_, a, b, _ := newTestLedgers(t)
	seedLedger(t, a)

	assert.Len(t, a.ListAccounts(), 2)
	assert.Len(t, a.ListTransactions(TransactionFilter{}), 3)
	assert.Len(t, a.ListBudgets(), 1)

	assert.Empty(t, b.ListAccounts())
	assert.Empty(t, b.ListTransactions(TransactionFilter{}))
	assert.Empty(t, b.ListBudgets())
	assert.Nil(t, b.GetAccount("Bank Account"))

	tx := a.ListTransactions(TransactionFilter{})[0]
	budget := a.ListBudgets()[0]
	assert.Nil(t, b.GetTransaction(tx.ID))
	assert.Nil(t, b.GetBudget(budget.ID))

	assert.False(t, b.UpdateAccount("Bank Account", AccountPatch{InitialAmount: ptr(dec("1"))}))
	assert.False(t, b.UpdateTransaction(tx.ID, TransactionPatch{Description: ptr("hijack")}))
	assert.False(t, b.UpdateBudget(budget.ID, BudgetPatch{Amount: ptr(dec("1"))}))
	assert.False(t, b.DeleteAccount("Bank Account"))
	assert.False(t, b.DeleteTransaction(tx.ID))
	assert.False(t, b.DeleteBudget(budget.ID))

	assert.Len(t, a.ListAccounts(), 2)
	assert.Equal(t, "", a.GetTransaction(tx.ID).Description)
}

func TestLedgerSameAccountTypePerUser(t *testing.T) {
	_, a, b, _ := newTestLedgers(t)

	assert.NotZero(t, a.CreateAccount(&models.Account{AccountType: "Cash", InitialAmount: dec("10")}))
	assert.NotZero(t, b.CreateAccount(&models.Account{AccountType: "Cash", InitialAmount: dec("20")}))
	// the natural key is unique per user
	assert.Zero(t, a.CreateAccount(&models.Account{AccountType: "Cash", InitialAmount: dec("30")}))

	assert.True(t, a.GetAccount("Cash").InitialAmount.Equal(dec("10")))
	assert.True(t, b.GetAccount("Cash").InitialAmount.Equal(dec("20")))
}

func TestLedgerZeroIdentitySeesNothing(t *testing.T) {
	db, a, _, anon := newTestLedgers(t)
	seedLedger(t, a)

	assert.Empty(t, anon.ListAccounts())
	assert.Empty(t, anon.ListTransactions(TransactionFilter{}))
	assert.Zero(t, anon.CountTransactions(TransactionFilter{}))
	assert.Empty(t, anon.ListBudgets())
	assert.Nil(t, anon.GetAccount("Bank Account"))

	assert.Zero(t, anon.CreateAccount(&models.Account{AccountType: "Cash"}))
	assert.Zero(t, anon.CreateTransaction(&models.Transaction{Type: models.TxIncome, Date: "2023-11-01", Amount: dec("1")}))
	assert.Zero(t, anon.CreateBudget(&models.Budget{Category: "Food", Amount: dec("1")}))
	assert.False(t, anon.DeleteAccount("Bank Account"))
	assert.False(t, anon.UpdateCategories(models.CategoryLists{Income: []string{"x"}}))
	assert.Nil(t, anon.Snapshot(time.Now()))

	var n int64
	require.NoError(t, db.Model(&models.Account{}).Where("user_id = 0").Count(&n).Error)
	assert.Zero(t, n)
}

func TestCreateStampsOwnerAndNormalizesCreditCard(t *testing.T) {
	_, a, _, _ := newTestLedgers(t)

	acc := &models.Account{UserID: 99, AccountType: models.CreditCardAccount, InitialAmount: dec("25000")}
	require.NotZero(t, a.CreateAccount(acc))
	assert.Equal(t, uint(1), acc.UserID)

	got := a.GetAccount(models.CreditCardAccount)
	require.NotNil(t, got)
	assert.True(t, got.InitialAmount.Equal(dec("-25000")), got.InitialAmount.String())

	// updating keeps the sign convention
	assert.True(t, a.UpdateAccount(models.CreditCardAccount, AccountPatch{InitialAmount: ptr(dec("500"))}))
	assert.True(t, a.GetAccount(models.CreditCardAccount).InitialAmount.Equal(dec("-500")))
}

func TestUpdateReportsModifiedNotMatched(t *testing.T) {
	_, a, _, _ := newTestLedgers(t)
	seedLedger(t, a)

	assert.False(t, a.UpdateAccount("Bank Account", AccountPatch{InitialAmount: ptr(dec("100000"))}))
	assert.False(t, a.UpdateAccount("Bank Account", AccountPatch{}))
	assert.True(t, a.UpdateAccount("Bank Account", AccountPatch{LastDigits: ptr("1234")}))
	assert.False(t, a.UpdateAccount("Missing", AccountPatch{LastDigits: ptr("1234")}))

	tx := a.ListTransactions(TransactionFilter{Type: models.TxIncome})[0]
	assert.False(t, a.UpdateTransaction(tx.ID, TransactionPatch{Amount: ptr(dec("75000.00"))}))
	assert.True(t, a.UpdateTransaction(tx.ID, TransactionPatch{Amount: ptr(dec("80000"))}))
	assert.True(t, a.GetTransaction(tx.ID).Amount.Equal(dec("80000")))

	budget := a.ListBudgets()[0]
	assert.False(t, a.UpdateBudget(budget.ID, BudgetPatch{Category: ptr("Food")}))
	assert.True(t, a.UpdateBudget(budget.ID, BudgetPatch{Category: ptr("Rent")}))
	assert.Equal(t, "Rent", a.GetBudget(budget.ID).Category)
}

func TestRenameAccountCarriesTransactions(t *testing.T) {
	_, a, b, _ := newTestLedgers(t)
	seedLedger(t, a)
	seedLedger(t, b)

	assert.True(t, a.UpdateAccount("Bank Account", AccountPatch{AccountType: ptr("Savings")}))
	assert.Nil(t, a.GetAccount("Bank Account"))
	require.NotNil(t, a.GetAccount("Savings"))

	assert.Len(t, a.ListTransactions(TransactionFilter{Account: "Savings"}), 2)
	assert.Empty(t, a.ListTransactions(TransactionFilter{Account: "Bank Account"}))
	income := a.ListTransactions(TransactionFilter{Type: models.TxIncome})[0]
	assert.Equal(t, "Savings", income.Account)
	transfer := a.ListTransactions(TransactionFilter{Type: models.TxTransfer})[0]
	assert.Equal(t, "Savings", transfer.FromAccount)
	assert.Equal(t, models.CreditCardAccount, transfer.ToAccount)

	// the other user's rows keep the old name
	require.NotNil(t, b.GetAccount("Bank Account"))
	assert.Len(t, b.ListTransactions(TransactionFilter{Account: "Bank Account"}), 2)
}

func TestLedgerFailSoftOnStoreFault(t *testing.T) {
	db, a, _, _ := newTestLedgers(t)
	seedLedger(t, a)
	require.True(t, a.UpdateCategories(models.CategoryLists{Income: []string{"Salary"}, Expense: []string{}, Transfer: []string{}}))

	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	accounts := a.ListAccounts()
	assert.NotNil(t, accounts)
	assert.Empty(t, accounts)
	assert.Nil(t, a.GetAccount("Bank Account"))
	assert.Zero(t, a.CreateAccount(&models.Account{AccountType: "Cash"}))
	assert.False(t, a.UpdateAccount("Bank Account", AccountPatch{LastDigits: ptr("1234")}))
	assert.False(t, a.DeleteAccount("Bank Account"))

	assert.Empty(t, a.ListTransactions(TransactionFilter{}))
	assert.Zero(t, a.CountTransactions(TransactionFilter{}))
	assert.Nil(t, a.GetTransaction(1))
	assert.Zero(t, a.CreateTransaction(&models.Transaction{
		Type: models.TxIncome, Date: "2023-11-01", Amount: dec("1"), Category: "Salary", Account: "Bank Account",
	}))
	assert.False(t, a.DeleteTransaction(1))

	assert.Empty(t, a.ListBudgets())
	assert.Nil(t, a.GetBudget(1))

	assert.True(t, a.GetCategories().Equal(testContent(t).Categories()))
	assert.NotNil(t, a.GetInfo())

	assert.Contains(t, logs.String(), "ledger: list accounts user=1:")
	assert.Contains(t, logs.String(), "database is closed")
}

func TestDeleteRemovesRecord(t *testing.T) {
	_, a, _, _ := newTestLedgers(t)
	seedLedger(t, a)

	tx := a.ListTransactions(TransactionFilter{})[0]
	assert.True(t, a.DeleteTransaction(tx.ID))
	assert.False(t, a.DeleteTransaction(tx.ID))
	assert.Nil(t, a.GetTransaction(tx.ID))

	assert.True(t, a.DeleteAccount("Bank Account"))
	assert.Nil(t, a.GetAccount("Bank Account"))
}

func TestListTransactionsFilter(t *testing.T) {
	_, a, _, _ := newTestLedgers(t)
	seedLedger(t, a)

	all := a.ListTransactions(TransactionFilter{})
	require.Len(t, all, 3)
	// newest first
	assert.Equal(t, "2023-11-10", all[0].Date)
	assert.Equal(t, "2023-11-01", all[2].Date)

	assert.Len(t, a.ListTransactions(TransactionFilter{Type: models.TxExpense}), 1)
	assert.Len(t, a.ListTransactions(TransactionFilter{Category: "Salary"}), 1)
	assert.Len(t, a.ListTransactions(TransactionFilter{Account: "Bank Account"}), 2)
	assert.Len(t, a.ListTransactions(TransactionFilter{Type: models.TxTransfer, Account: models.CreditCardAccount}), 1)
	assert.Len(t, a.ListTransactions(TransactionFilter{Type: models.TxIncome, Account: models.CreditCardAccount}), 0)

	page := a.ListTransactions(TransactionFilter{Limit: 2, Offset: 2})
	require.Len(t, page, 1)
	assert.Equal(t, "2023-11-01", page[0].Date)
	assert.Equal(t, int64(3), a.CountTransactions(TransactionFilter{Limit: 1}))
}

func TestCategoriesFallbackAndUpsert(t *testing.T) {
	_, a, b, anon := newTestLedgers(t)
	bundled := testContent(t).Categories()

	assert.True(t, a.GetCategories().Equal(bundled))
	assert.True(t, anon.GetCategories().Equal(bundled))

	custom := models.CategoryLists{Income: []string{"Salary"}, Expense: []string{"Food"}, Transfer: []string{}}
	assert.True(t, a.UpdateCategories(custom))
	assert.False(t, a.UpdateCategories(custom))
	assert.True(t, a.GetCategories().Equal(custom))
	assert.True(t, b.GetCategories().Equal(bundled))

	assert.True(t, a.AddCategory(models.CategoryExpense, "Rent"))
	assert.False(t, a.AddCategory(models.CategoryExpense, "Rent"))
	assert.Equal(t, []string{"Food", "Rent"}, a.GetCategories().Expense)

	assert.True(t, a.RemoveCategory(models.CategoryExpense, "Food"))
	assert.False(t, a.RemoveCategory(models.CategoryExpense, "Food"))
	assert.Equal(t, []string{"Rent"}, a.GetCategories().Expense)

	assert.False(t, a.AddCategory("bogus", "x"))
}

func TestCategoriesHardcodedFallback(t *testing.T) {
	db := openTestDB(t)
	l := NewLedger(db, 1, nil)

	assert.True(t, l.GetCategories().Equal(defaults.Hardcoded()))
	assert.Nil(t, l.GetInfo())
}

func TestInfoDefaultAndUpdate(t *testing.T) {
	_, a, b, anon := newTestLedgers(t)
	bundled := testContent(t).Info()

	assert.Equal(t, bundled.Introduction, anon.GetInfo().Introduction)

	next := bundled.Clone()
	next.Introduction = "Updated"
	assert.False(t, anon.UpdateInfo(next))
	assert.True(t, a.UpdateInfo(next))
	assert.False(t, a.UpdateInfo(next))

	// shared, not user-scoped
	assert.Equal(t, "Updated", b.GetInfo().Introduction)
	assert.Equal(t, "Updated", anon.GetInfo().Introduction)
}

func TestInitializeDefaultsIdempotent(t *testing.T) {
	db, a, _, _ := newTestLedgers(t)

	a.InitializeDefaults()
	a.InitializeDefaults()

	var sets, infos int64
	require.NoError(t, db.Model(&models.CategorySet{}).Count(&sets).Error)
	require.NoError(t, db.Model(&models.Info{}).Count(&infos).Error)
	assert.Equal(t, int64(1), sets)
	assert.Equal(t, int64(1), infos)

	custom := models.CategoryLists{Income: []string{"Only"}}
	require.True(t, a.UpdateCategories(custom))
	a.InitializeDefaults()
	assert.Equal(t, []string{"Only"}, a.GetCategories().Income)
}

func TestSnapshotRestore(t *testing.T) {
	_, a, b, _ := newTestLedgers(t)
	seedLedger(t, a)
	require.True(t, a.AddCategory(models.CategoryExpense, "Pets"))

	snap := a.Snapshot(time.Date(2023, 11, 30, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, snap)
	assert.Equal(t, uint(1), snap.UserID)

	// restoring into another identity re-stamps every record
	res, ok := b.Restore(snap)
	require.True(t, ok)
	assert.Equal(t, RestoreResult{Accounts: 2, Transactions: 3, Budgets: 1}, res)
	assert.Len(t, b.ListAccounts(), 2)
	assert.Len(t, b.ListTransactions(TransactionFilter{}), 3)
	assert.Contains(t, b.GetCategories().Expense, "Pets")
	assert.Len(t, a.ListAccounts(), 2)

	// restore replaces rather than appends
	_, ok = b.Restore(snap)
	require.True(t, ok)
	assert.Len(t, b.ListTransactions(TransactionFilter{}), 3)
}

func TestBackupRecordsAndAudit(t *testing.T) {
	_, a, b, _ := newTestLedgers(t)

	id := a.CreateBackupRecord(&models.Backup{FileName: "f.bin", FilePath: "/tmp/f.bin", Size: 10})
	require.NotZero(t, id)
	assert.Len(t, a.ListBackups(), 1)
	assert.Empty(t, b.ListBackups())
	assert.Nil(t, b.GetBackup(id))
	assert.False(t, b.DeleteBackup(id))
	assert.True(t, a.DeleteBackup(id))

	require.True(t, a.RecordAudit(&models.AuditLog{Method: "POST", IP: "127.0.0.1"}))
	require.True(t, a.RecordAudit(&models.AuditLog{Method: "DELETE"}))
	logs, total := a.ListAuditLogs(AuditFilter{Limit: 1})
	assert.Equal(t, int64(2), total)
	assert.Len(t, logs, 1)

	logs, total = b.ListAuditLogs(AuditFilter{})
	assert.Zero(t, total)
	assert.Empty(t, logs)
}
