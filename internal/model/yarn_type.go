package model

import "github.com/shopspring/decimal"

// YarnType is a catalogue entry for a yarn that can be stocked and blended into fabric.
type YarnType struct {
	Base
	Code         string              `gorm:"uniqueIndex;size:64;not null" json:"code"`
	Description  *string             `json:"description"`
	Material     *string             `gorm:"size:128" json:"material"`
	TexCount     decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"texCount"`
	Color        *string             `gorm:"size:64" json:"color"`
	SupplierName *string             `gorm:"size:255" json:"supplierName"`
	SupplierCode *string             `gorm:"size:64" json:"supplierCode"`
	UnitPrice    decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"unitPrice"`
	Active       bool                `gorm:"not null" json:"active"`
}
