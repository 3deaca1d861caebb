package model

// Customer is a buyer of fabric. Deactivated rather than deleted.
type Customer struct {
	Base
	Name          string  `gorm:"uniqueIndex;size:255;not null" json:"name"`
	ContactPerson *string `gorm:"size:255" json:"contactPerson"`
	Phone         *string `gorm:"size:64" json:"phone"`
	Fax           *string `gorm:"size:64" json:"fax"`
	Cellphone     *string `gorm:"size:64" json:"cellphone"`
	Email         *string `gorm:"size:255" json:"email"`
	Address       *string `json:"address"`
	Active        bool    `gorm:"not null;index" json:"active"`

	// Associations
	Orders []CustomerOrder `gorm:"foreignKey:CustomerID" json:"orders,omitempty"`
}
