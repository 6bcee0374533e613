package models

import "time"

// AuditLog records important operations for auditing.
// Path, action and body are stored only in encrypted form.
type AuditLog struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"index;not null"`
	PathEnc     string    `gorm:"size:1024"`
	Method      string    `gorm:"size:16"`
	ActionEnc   string    `gorm:"size:2048"`
	IP          string    `gorm:"size:64"`
	UserAgent   string    `gorm:"size:255"`
	MetadataEnc string    `gorm:"size:4096"`
	CreatedAt   time.Time `gorm:"index"`
}
