package models

import "time"

type Employee struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Username     string     `json:"username" gorm:"size:80;uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	FullName     string     `json:"full_name" gorm:"size:120;not null"`
	Phone        string     `json:"phone" gorm:"size:20"`
	Role         Role       `json:"role" gorm:"size:20;not null"`
	IsActive     bool       `json:"is_active" gorm:"not null"`
	LastLogin    *time.Time `json:"last_login"`
	LoginCount   int        `json:"login_count" gorm:"not null;default:0"`
	Orders       []Order    `json:"-" gorm:"foreignKey:EmployeeID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (e *Employee) IsAdmin() bool { return e.Role == RoleAdmin }

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// EmployeeSummary backs the administrator dashboard.
type EmployeeSummary struct {
	Total        int64      `json:"total"`
	Active       int64      `json:"active"`
	RecentLogins []Employee `json:"recent_logins"`
}
