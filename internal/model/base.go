package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the identity and timestamps shared by every record.
type Base struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the caller did not supply one.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// All returns every model in migration order.
func All() []any {
	return []any{
		&Customer{},
		&Employee{},
		&YarnType{},
		&FabricQuality{},
		&FabricContent{},
		&MachineSpecification{},
		&CustomerOrder{},
		&ProductionInfo{},
		&YarnStockReference{},
		&YarnStockJobCard{},
		&Delivery{},
		&PackingList{},
		&PackingItem{},
		&PushSubscription{},
	}
}
