package models

import "time"

// User represents application user.
type User struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Username      string     `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email         string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	ContactNumber string     `gorm:"size:32" json:"contact_number"`
	PasswordHash  string     `gorm:"size:255;not null" json:"-"`
	LastLoginAt   *time.Time `json:"last_login"`
	LastLoginIP   string     `gorm:"size:64" json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// LastToken is the most recently issued session token; anything else is revoked.
	LastToken         string     `gorm:"size:1024" json:"-"`
	ResetToken        string     `gorm:"size:1024" json:"-"`
	ResetTokenExpires *time.Time `json:"-"`

	FailedLoginAttempts int        `gorm:"default:0" json:"-"` // 连续登录失败次数
	LockedUntil         *time.Time `gorm:"index" json:"-"`     // 账户锁定到期时间
}
