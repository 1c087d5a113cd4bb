// Package domain contains persistence models for application users.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// UserStatus gates login upstream; the workflow only reads it for display.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
)

// User represents a staff account. Authentication lives outside this
// service; rows exist for role checks and audit attribution.
type User struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	Email     string       `gorm:"uniqueIndex;not null" json:"email"`
	Role      string       `gorm:"type:text;not null" json:"role"`
	Status    UserStatus   `gorm:"type:text;not null;default:'ACTIVE'" json:"status"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	LastLogin *time.Time   `json:"last_login,omitempty"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
