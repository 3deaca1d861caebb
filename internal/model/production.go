package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductionInfo is one physical piece (roll) of fabric produced against a job card.
type ProductionInfo struct {
	Base
	PieceNumber    string          `gorm:"uniqueIndex;size:32;not null" json:"pieceNumber"`
	JobCardID      string          `gorm:"type:varchar(36);index;not null" json:"jobCardId"`
	Weight         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"weight"`
	ProductionDate time.Time       `gorm:"not null;index" json:"productionDate"`
	ProductionTime *time.Time      `json:"productionTime"`
	MachineNumber  *string         `gorm:"size:32" json:"machineNumber"`
	OperatorID     *string         `gorm:"type:varchar(36);index" json:"operatorId"`
	OperatorName   *string         `gorm:"size:128" json:"operatorName"`
	QualityGrade   *string         `gorm:"size:16" json:"qualityGrade"`
	Notes          *string         `json:"notes"`

	// Associations
	JobCard  *CustomerOrder `gorm:"foreignKey:JobCardID" json:"jobCard,omitempty"`
	Operator *Employee      `gorm:"foreignKey:OperatorID" json:"operator,omitempty"`
}
