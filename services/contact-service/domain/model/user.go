// Package model contains data models for the application
package model

import (
	"time"
)

// User is a single contact record
type User struct {
	// ID is assigned by the store on creation
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	FullName string `gorm:"size:255;not null;index"`
	// Email is stored lower-cased and is unique across live records
	Email       string `gorm:"size:255;uniqueIndex;not null"`
	PhoneNumber string `gorm:"size:50;not null"`
	Address     string `gorm:"type:text"`
	// AdditionalNotes is free text, up to 2000 characters
	AdditionalNotes string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

// TableName pins the table name used by GORM
func (User) TableName() string {
	return "users"
}

// Clone returns a copy that shares no state with u
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
