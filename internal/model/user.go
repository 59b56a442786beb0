package model

import "time"

// UserType distinguishes the two roles in the system.
type UserType string

const (
	UserTypeContractor UserType = "CONTRACTOR"
	UserTypeHomeowner  UserType = "HOMEOWNER"
)

// User represents a contractor or homeowner account.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:255;not null"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Type         UserType  `json:"type" gorm:"type:varchar(20);not null;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
