package store

import (
	"time"

	"github.com/Divyaraj25/PaisaTrack/internal/models"

	"gorm.io/gorm"
)

// Snapshot is the portable form of one identity's ledger. It is what a
// backup file holds once decrypted.
type Snapshot struct {
	UserID       uint                  `json:"user_id"`
	Created      time.Time             `json:"created"`
	Accounts     []models.Account      `json:"accounts"`
	Transactions []models.Transaction  `json:"transactions"`
	Budgets      []models.Budget       `json:"budgets"`
	Categories   *models.CategoryLists `json:"categories,omitempty"`
}

// Snapshot collects everything the identity owns. It returns nil without
// an identity.
func (l *Ledger) Snapshot(now time.Time) *Snapshot {
	if !l.ok() {
		return nil
	}
	snap := &Snapshot{
		UserID:       l.userID,
		Created:      now,
		Accounts:     l.ListAccounts(),
		Transactions: l.ListTransactions(TransactionFilter{}),
		Budgets:      l.ListBudgets(),
	}
	if set := l.categorySet(); set != nil {
		lists := set.Lists()
		snap.Categories = &lists
	}
	return snap
}

// RestoreResult counts the records written by Restore.
type RestoreResult struct {
	Accounts     int `json:"accounts"`
	Transactions int `json:"transactions"`
	Budgets      int `json:"budgets"`
}

// Restore replaces the identity's accounts, transactions, budgets and
// categories with the snapshot contents in one database transaction.
// Every restored record is stamped with the caller's identity.
func (l *Ledger) Restore(snap *Snapshot) (RestoreResult, bool) {
	var res RestoreResult
	if !l.ok() || snap == nil {
		return res, false
	}
	err := l.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.Transaction{}, &models.Budget{}, &models.Account{}} {
			if err := tx.Where("user_id = ?", l.userID).Delete(model).Error; err != nil {
				return err
			}
		}
		for i := range snap.Accounts {
			a := snap.Accounts[i]
			a.ID = 0
			a.UserID = l.userID
			a.NormalizeInitialAmount()
			if err := tx.Create(&a).Error; err != nil {
				return err
			}
		}
		for i := range snap.Transactions {
			t := snap.Transactions[i]
			t.ID = 0
			t.UserID = l.userID
			if err := tx.Create(&t).Error; err != nil {
				return err
			}
		}
		for i := range snap.Budgets {
			b := snap.Budgets[i]
			b.ID = 0
			b.UserID = l.userID
			if err := tx.Create(&b).Error; err != nil {
				return err
			}
		}
		if snap.Categories != nil {
			if err := tx.Where("user_id = ?", l.userID).Delete(&models.CategorySet{}).Error; err != nil {
				return err
			}
			lists := snap.Categories.Clone()
			doc := models.CategorySet{
				UserID:   l.userID,
				Income:   nonNil(lists.Income),
				Expense:  nonNil(lists.Expense),
				Transfer: nonNil(lists.Transfer),
			}
			if err := tx.Create(&doc).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		l.fail("restore", err)
		return RestoreResult{}, false
	}
	res.Accounts = len(snap.Accounts)
	res.Transactions = len(snap.Transactions)
	res.Budgets = len(snap.Budgets)
	return res, true
}

// ---------- backup records ----------

// CreateBackupRecord stamps the identity on b and inserts it.
func (l *Ledger) CreateBackupRecord(b *models.Backup) uint {
	if !l.ok() {
		return 0
	}
	b.ID = 0
	b.UserID = l.userID
	if err := l.db.Create(b).Error; err != nil {
		l.fail("create backup", err)
		return 0
	}
	return b.ID
}

// ListBackups returns the identity's backups, newest first.
func (l *Ledger) ListBackups() []models.Backup {
	list := []models.Backup{}
	if !l.ok() {
		return list
	}
	if err := l.owned(&models.Backup{}).Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		l.fail("list backups", err)
		return []models.Backup{}
	}
	return list
}

// GetBackup finds a backup record by id.
func (l *Ledger) GetBackup(id uint) *models.Backup {
	if !l.ok() {
		return nil
	}
	var b models.Backup
	if !l.first("get backup", &b, "id = ?", id) {
		return nil
	}
	return &b
}

// DeleteBackup removes a backup record by id. The file is the
// caller's concern.
func (l *Ledger) DeleteBackup(id uint) bool {
	return l.deleteOwned("delete backup", &models.Backup{}, "id = ?", id)
}

// ---------- audit log ----------

// RecordAudit stamps the identity on entry and inserts it.
func (l *Ledger) RecordAudit(entry *models.AuditLog) bool {
	if !l.ok() {
		return false
	}
	entry.ID = 0
	entry.UserID = l.userID
	if err := l.db.Create(entry).Error; err != nil {
		l.fail("record audit", err)
		return false
	}
	return true
}

// AuditFilter narrows ListAuditLogs. Zero times mean unbounded; End is
// exclusive.
type AuditFilter struct {
	Start  time.Time
	End    time.Time
	Limit  int
	Offset int
}

// ListAuditLogs returns one page of the identity's audit log, newest first,
// plus the total number of matches.
func (l *Ledger) ListAuditLogs(f AuditFilter) ([]models.AuditLog, int64) {
	logs := []models.AuditLog{}
	if !l.ok() {
		return logs, 0
	}
	base := l.owned(&models.AuditLog{})
	if !f.Start.IsZero() {
		base = base.Where("created_at >= ?", f.Start)
	}
	if !f.End.IsZero() {
		base = base.Where("created_at < ?", f.End)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		l.fail("count audit", err)
		return logs, 0
	}
	q := base.Order("created_at DESC, id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Find(&logs).Error; err != nil {
		l.fail("list audit", err)
		return []models.AuditLog{}, 0
	}
	return logs, total
}
