package database

import (
	"time"

	"gorm.io/gorm"
)

// Employee represents one tracked employee and their field-work day balance
type Employee struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeNumber string    `gorm:"size:20;index" json:"employee_number"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	TotalDays      int       `gorm:"not null;default:150" json:"total_days"`
	UsedDays       int       `gorm:"not null;default:0" json:"used_days"`
	RemainingDays  int       `gorm:"-" json:"remaining_days"`
	CreatedAt      time.Time `json:"created_at"`
	LastUpdated    time.Time `gorm:"autoUpdateTime" json:"last_updated"`
}

// AfterFind computes the derived balance on every read
func (e *Employee) AfterFind(_ *gorm.DB) error {
	e.RemainingDays = e.TotalDays - e.UsedDays
	return nil
}

// Admin represents a regular admin account
type Admin struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name         string     `gorm:"size:255" json:"name"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login"`
}

// SuperAdmin is a separate privilege tier with its own credential store.
// It is deliberately not a role flag on Admin; the two issue differently
// typed tokens and are never interchangeable.
type SuperAdmin struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name         string     `gorm:"size:255" json:"name"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login"`
}

// PasswordResetToken represents a pending admin password reset
type PasswordResetToken struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AdminID   int64     `gorm:"index;not null" json:"admin_id"`
	Token     string    `gorm:"size:64;uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time `json:"created_at"`
	Admin     Admin     `gorm:"foreignKey:AdminID" json:"-"`
}

// Action type constants
const (
	ActionCreate       = "CREATE"
	ActionUpdate       = "UPDATE"
	ActionDelete       = "DELETE"
	ActionAddDays      = "ADD_DAYS"
	ActionSubtractDays = "SUBTRACT_DAYS"
	ActionSetDays      = "SET_DAYS"
)

// Entity type constants
const (
	EntityEmployee     = "EMPLOYEE"
	EntityAdmin        = "ADMIN"
	EntitySuperAdmin   = "SUPER_ADMIN"
	EntityLeaveRequest = "LEAVE_REQUEST"
)

// Actor type constants
const (
	ActorAdmin      = "ADMIN"
	ActorSuperAdmin = "SUPER_ADMIN"
)
