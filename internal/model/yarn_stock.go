package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock reference statuses.
const (
	StockActive   = "active"
	StockDepleted = "depleted"
	StockInactive = "inactive"
)

// YarnStockReference is a receipt of yarn into inventory.
type YarnStockReference struct {
	Base
	StockReferenceNumber string          `gorm:"uniqueIndex;size:32;not null" json:"stockReferenceNumber"`
	YarnTypeID           string          `gorm:"type:varchar(36);index;not null" json:"yarnTypeId"`
	CustomerID           *string         `gorm:"type:varchar(36);index" json:"customerId"`
	InitialQuantity      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"initialQuantity"`
	CurrentQuantity      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"currentQuantity"`
	BatchNumber          *string         `gorm:"size:64" json:"batchNumber"`
	SupplierName         *string         `gorm:"size:255" json:"supplierName"`
	StockDate            time.Time       `gorm:"not null" json:"stockDate"`
	Status               string          `gorm:"size:16;not null" json:"status"`
	Notes                *string         `json:"notes"`
	DeletedAt            *time.Time      `gorm:"index" json:"deletedAt"`

	// Associations
	YarnType  *YarnType          `json:"yarnType,omitempty"`
	Customer  *Customer          `json:"customer,omitempty"`
	YarnStock []YarnStockJobCard `gorm:"foreignKey:StockRefID" json:"yarnStock,omitempty"`
}

// YarnStockJobCard allocates quantity from a stock reference to a job card.
type YarnStockJobCard struct {
	Base
	JobCardID        string          `gorm:"type:varchar(36);index;not null" json:"jobCardId"`
	StockRefID       string          `gorm:"type:varchar(36);index;not null" json:"stockRefId"`
	QuantityReceived decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"quantityReceived"`
	QuantityUsed     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"quantityUsed"`
	QuantityLoss     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"quantityLoss"`
	ReceivedDate     time.Time       `gorm:"not null" json:"receivedDate"`
	LotNumber        *string         `gorm:"size:64" json:"lotNumber"`
	Notes            *string         `json:"notes"`
	DeletedAt        *time.Time      `gorm:"index" json:"deletedAt"`

	// Associations
	JobCard  *CustomerOrder      `gorm:"foreignKey:JobCardID" json:"jobCard,omitempty"`
	StockRef *YarnStockReference `gorm:"foreignKey:StockRefID" json:"stockRef,omitempty"`
}
