package models

import "time"

// Task is a to-do item owned by exactly one Account.
type Task struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"size:200;not null"`
	Description string    `gorm:"type:text"`
	Completed   bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"index"`
	AccountID   uint      `gorm:"index;not null"`
}

const MaxTitleLength = 200
