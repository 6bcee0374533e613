package store

import (
	"errors"
	"log"
	"reflect"

	"github.com/Divyaraj25/PaisaTrack/internal/models"

	"gorm.io/gorm"
)

// GetCategories returns the identity's category lists. Without a stored
// document, or without an identity, the bundled default is returned.
func (l *Ledger) GetCategories() models.CategoryLists {
	if l.ok() {
		if set := l.categorySet(); set != nil {
			return set.Lists()
		}
	}
	return l.defaults.Categories()
}

func (l *Ledger) categorySet() *models.CategorySet {
	var set models.CategorySet
	err := l.owned(&models.CategorySet{}).First(&set).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			l.fail("get categories", err)
		}
		return nil
	}
	return &set
}

// UpdateCategories replaces the identity's category lists, inserting the
// document when absent. It reports whether anything was stored.
func (l *Ledger) UpdateCategories(lists models.CategoryLists) bool {
	if !l.ok() {
		return false
	}
	lists = lists.Clone()
	set := l.categorySet()
	if set == nil {
		doc := models.CategorySet{
			UserID:   l.userID,
			Income:   nonNil(lists.Income),
			Expense:  nonNil(lists.Expense),
			Transfer: nonNil(lists.Transfer),
		}
		if err := l.db.Create(&doc).Error; err != nil {
			l.fail("insert categories", err)
			return false
		}
		return true
	}
	if set.Lists().Equal(lists) {
		return false
	}
	res := l.owned(&models.CategorySet{}).
		Where("id = ?", set.ID).
		Select("income", "expense", "transfer").
		Updates(&models.CategorySet{
			Income:   nonNil(lists.Income),
			Expense:  nonNil(lists.Expense),
			Transfer: nonNil(lists.Transfer),
		})
	if res.Error != nil {
		l.fail("update categories", res.Error)
		return false
	}
	return res.RowsAffected > 0
}

// AddCategory inserts name into one list unless it is already there.
func (l *Ledger) AddCategory(kind, name string) bool {
	lists := l.GetCategories()
	if !lists.Add(kind, name) {
		return false
	}
	return l.UpdateCategories(lists)
}

// RemoveCategory drops name from one list. Absent names change nothing.
func (l *Ledger) RemoveCategory(kind, name string) bool {
	lists := l.GetCategories()
	if !lists.Remove(kind, name) {
		return false
	}
	return l.UpdateCategories(lists)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ---------- shared info ----------

// GetInfo returns the shared info document, or the bundled one when
// nothing is stored.
func (l *Ledger) GetInfo() *models.Info {
	if info := l.storedInfo(); info != nil {
		return info.Clone()
	}
	return l.defaults.Info()
}

func (l *Ledger) storedInfo() *models.Info {
	if l.db == nil {
		return nil
	}
	var info models.Info
	if err := l.db.Order("id ASC").First(&info).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			l.fail("get info", err)
		}
		return nil
	}
	return &info
}

// UpdateInfo replaces the shared info document's fields. It needs no
// identity filter but still requires a caller identity.
func (l *Ledger) UpdateInfo(info *models.Info) bool {
	if !l.ok() || info == nil {
		return false
	}
	next := info.Clone()
	cur := l.storedInfo()
	if cur == nil {
		if err := l.db.Create(next).Error; err != nil {
			l.fail("insert info", err)
			return false
		}
		return true
	}
	if reflect.DeepEqual(cur.Clone(), next) {
		return false
	}
	res := l.db.Model(&models.Info{}).
		Where("id = ?", cur.ID).
		Select("introduction", "features", "calculations", "examples", "tips", "how_to_use").
		Updates(next)
	if res.Error != nil {
		l.fail("update info", res.Error)
		return false
	}
	return res.RowsAffected > 0
}

// InitializeDefaults seeds the identity's categories and the shared info
// document from bundled content. Each part is skipped when already stored.
func (l *Ledger) InitializeDefaults() {
	if l.ok() && l.categorySet() == nil {
		l.UpdateCategories(l.defaults.Categories())
	}
	SeedInfo(l.db, l.defaults.Info())
}

// SeedInfo stores info as the shared document unless one exists.
func SeedInfo(db *gorm.DB, info *models.Info) {
	if db == nil || info == nil {
		return
	}
	var n int64
	if err := db.Model(&models.Info{}).Count(&n).Error; err != nil {
		log.Printf("ledger: seed info: %v", err)
		return
	}
	if n > 0 {
		return
	}
	if err := db.Create(info.Clone()).Error; err != nil {
		log.Printf("ledger: seed info: %v", err)
	}
}
