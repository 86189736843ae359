package models

import "time"

// Account is a registered user. Email is unique across all accounts.
type Account struct {
	ID           uint      `gorm:"primaryKey"`
	Email        string    `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:200;not null"`
	FullName     string    `gorm:"size:100;not null"`
	CreatedAt    time.Time `gorm:"index"`

	Tasks []Task `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}
