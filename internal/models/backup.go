package models

import "time"

// Backup describes one encrypted snapshot file of a user's ledger.
type Backup struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"-"`
	FileName  string    `gorm:"size:255;not null" json:"file_name"`
	FilePath  string    `gorm:"size:1024;not null" json:"-"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}
