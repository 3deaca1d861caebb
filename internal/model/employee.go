package model

import "time"

// Employee is a machine operator or other staff member.
type Employee struct {
	Base
	EmployeeCode  string     `gorm:"uniqueIndex;size:64;not null" json:"employeeCode"`
	FirstName     string     `gorm:"size:128;not null" json:"firstName"`
	LastName      string     `gorm:"size:128;not null" json:"lastName"`
	Role          *string    `gorm:"size:64;index" json:"role"`
	ContactNumber *string    `gorm:"size:64" json:"contactNumber"`
	Email         *string    `gorm:"size:255" json:"email"`
	HireDate      *time.Time `json:"hireDate"`
	Active        bool       `gorm:"not null" json:"active"`
	DeletedAt     *time.Time `gorm:"index" json:"deletedAt"`

	// Associations
	Production []ProductionInfo `gorm:"foreignKey:OperatorID" json:"production,omitempty"`
}
