package model

import "github.com/shopspring/decimal"

// FabricQuality describes a fabric specification that job cards are knitted to.
type FabricQuality struct {
	Base
	QualityCode      string              `gorm:"uniqueIndex;size:64;not null" json:"qualityCode"`
	Description      *string             `json:"description"`
	FabricType       *string             `gorm:"size:64" json:"fabricType"`
	GreigeDensity    decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"greigeDensity"`
	GreigeWidth      decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"greigeWidth"`
	GreigeWeight     decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"greigeWeight"`
	FinishedDensity  decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"finishedDensity"`
	FinishedWidth    decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"finishedWidth"`
	FinishedWeight   decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"finishedWeight"`
	PercentageLoss   decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"percentageLoss"`
	TexCount         *string             `gorm:"size:64" json:"texCount"`
	MetersPerKg      decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"metersPerKg"`
	Width            decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"width"`
	Weight           decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"weight"`
	MachineGauge     *string             `gorm:"size:32" json:"machineGauge"`
	MachineType      *string             `gorm:"size:64" json:"machineType"`
	SpecSheetRef     *string             `gorm:"size:128" json:"specSheetRef"`
	SlittingRequired bool                `gorm:"not null" json:"slittingRequired"`
	Active           bool                `gorm:"not null;index" json:"active"`

	// Associations
	FabricContent []FabricContent `gorm:"foreignKey:QualityID;constraint:OnDelete:CASCADE" json:"fabricContent,omitempty"`
}

// FabricContent is one yarn in a quality's composition.
type FabricContent struct {
	Base
	QualityID  string          `gorm:"type:varchar(36);index;not null" json:"qualityId"`
	YarnTypeID string          `gorm:"type:varchar(36);index;not null" json:"yarnTypeId"`
	Percentage decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"percentage"`
	Position   int             `gorm:"not null" json:"position"`

	YarnType *YarnType `json:"yarnType,omitempty"`
}
