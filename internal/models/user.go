package models

import (
	"time"
)

// User represents a registered author or reader
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Username     string    `gorm:"type:varchar(150);not null;uniqueIndex:users_username_ux;column:username" json:"username"`
	Email        string    `gorm:"type:varchar(254);not null;default:'';column:email" json:"email,omitempty"`
	FirstName    string    `gorm:"type:varchar(150);not null;default:'';column:first_name" json:"first_name,omitempty"`
	LastName     string    `gorm:"type:varchar(150);not null;default:'';column:last_name" json:"last_name,omitempty"`
	PasswordHash string    `gorm:"type:varchar(255);not null;column:password_hash" json:"-"`
	CreatedAt    time.Time `gorm:"not null;column:created_at" json:"created_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// FullName returns "First Last", falling back to the username
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}
