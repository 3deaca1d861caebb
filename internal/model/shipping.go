package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Packing and delivery statuses.
const (
	PackingPending  = "pending"
	DeliveryPending = "pending"
	DeliveryShipped = "in_transit"
	Delivered       = "delivered"
)

// PackingList groups produced pieces into cartons for shipment.
type PackingList struct {
	Base
	PackingListNumber string              `gorm:"uniqueIndex;size:32;not null" json:"packingListNumber"`
	JobCardID         string              `gorm:"type:varchar(36);index;not null" json:"jobCardId"`
	DeliveryID        *string             `gorm:"type:varchar(36);index" json:"deliveryId"`
	PackingDate       time.Time           `gorm:"not null" json:"packingDate"`
	NumberOfCartons   int                 `gorm:"not null" json:"numberOfCartons"`
	TotalNetWeight    decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"totalNetWeight"`
	TotalGrossWeight  decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"totalGrossWeight"`
	PackingNotes      *string             `json:"packingNotes"`
	PackingStatus     string              `gorm:"size:16;not null;index" json:"packingStatus"`
	DeletedAt         *time.Time          `gorm:"index" json:"deletedAt"`

	// Associations
	JobCard  *CustomerOrder `gorm:"foreignKey:JobCardID" json:"jobCard,omitempty"`
	Delivery *Delivery      `gorm:"foreignKey:DeliveryID" json:"delivery,omitempty"`
	Items    []PackingItem  `gorm:"foreignKey:PackingListID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// PackingItem places one produced piece on a packing list.
type PackingItem struct {
	Base
	PackingListID string `gorm:"type:varchar(36);index;not null" json:"packingListId"`
	ProductionID  string `gorm:"type:varchar(36);index;not null" json:"productionId"`

	Production *ProductionInfo `gorm:"foreignKey:ProductionID" json:"production,omitempty"`
}

// Delivery is a shipment of one or more packing lists for a job card.
type Delivery struct {
	Base
	DeliveryNoteNumber    string     `gorm:"uniqueIndex;size:32;not null" json:"deliveryNoteNumber"`
	JobCardID             string     `gorm:"type:varchar(36);index;not null" json:"jobCardId"`
	DeliveryDate          *time.Time `json:"deliveryDate"`
	ScheduledDeliveryDate *time.Time `json:"scheduledDeliveryDate"`
	DeliveryMethod        string     `gorm:"size:64;not null" json:"deliveryMethod"`
	DeliveryAddress       string     `gorm:"not null" json:"deliveryAddress"`
	CourierName           *string    `gorm:"size:128" json:"courierName"`
	TrackingNumber        *string    `gorm:"size:128" json:"trackingNumber"`
	DeliveryNotes         *string    `json:"deliveryNotes"`
	DeliveryStatus        string     `gorm:"size:16;not null;index" json:"deliveryStatus"`
	DeletedAt             *time.Time `gorm:"index" json:"deletedAt"`

	// Associations
	JobCard      *CustomerOrder `gorm:"foreignKey:JobCardID" json:"jobCard,omitempty"`
	PackingLists []PackingList  `gorm:"foreignKey:DeliveryID" json:"packingLists,omitempty"`
}
