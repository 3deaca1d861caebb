package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Job card statuses. Any value may follow any other.
const (
	JobDraft        = "draft"
	JobActive       = "active"
	JobInProduction = "in_production"
	JobCompleted    = "completed"
	JobOnHold       = "on_hold"
	JobCancelled    = "cancelled"
)

// Yarn allocation states of a job card.
const (
	YarnAllocationPending  = "pending"
	YarnAllocationPartial  = "partial"
	YarnAllocationComplete = "complete"
)

// StatusInfo is the display metadata for a job card status.
type StatusInfo struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// JobStatuses lists every job card status in display order.
var JobStatuses = []StatusInfo{
	{Value: JobDraft, Label: "Draft", Description: "Job card is being prepared", Color: "gray"},
	{Value: JobActive, Label: "Active", Description: "Ready for production", Color: "blue"},
	{Value: JobInProduction, Label: "In Production", Description: "Currently being produced", Color: "yellow"},
	{Value: JobCompleted, Label: "Completed", Description: "Production finished", Color: "green"},
	{Value: JobOnHold, Label: "On Hold", Description: "Temporarily paused", Color: "orange"},
	{Value: JobCancelled, Label: "Cancelled", Description: "Job card was cancelled", Color: "red"},
}

// LookupStatus returns the metadata for value.
func LookupStatus(value string) (StatusInfo, bool) {
	for _, s := range JobStatuses {
		if s.Value == value {
			return s, true
		}
	}
	return StatusInfo{}, false
}

// NeedsConfirmation reports whether moving from one status to another should be confirmed
// by the operator: cancelling, completing, or reopening a completed job.
func NeedsConfirmation(from, to string) bool {
	if from == to {
		return false
	}
	return to == JobCancelled || to == JobCompleted || from == JobCompleted
}

// CustomerOrder is a job card: a customer's production order for one fabric quality.
type CustomerOrder struct {
	Base
	JobCardNumber  string  `gorm:"uniqueIndex;size:32;not null" json:"jobCardNumber"`
	StockReference *string `gorm:"size:64" json:"stockReference"`
	CustomerID     string  `gorm:"type:varchar(36);index;not null" json:"customerId"`

	// Order information
	OrderNumber         *string    `gorm:"size:64" json:"orderNumber"`
	CustomerOrderNumber *string    `gorm:"size:64" json:"customerOrderNumber"`
	CustomerPONumber    *string    `gorm:"column:customer_po_number;size:64" json:"customerPONumber"`
	OrderDate           time.Time  `gorm:"not null" json:"orderDate"`
	DateReceived        *time.Time `json:"dateReceived"`
	RequiredByDate      *time.Time `json:"requiredByDate"`
	DeliveryDueDate     *time.Time `json:"deliveryDueDate"`
	Priority            string     `gorm:"size:16;not null" json:"priority"`

	// Fabric specification
	QualityID         string              `gorm:"type:varchar(36);index;not null" json:"qualityId"`
	QuantityRequired  decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"quantityRequired"`
	QuantityUnit      string              `gorm:"size:16;not null" json:"quantityUnit"`
	RollCount         *int                `json:"rollCount"`
	TargetPieceWeight decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"targetPieceWeight"`
	TargetWidth       decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"targetWidth"`
	TargetLength      decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"targetLength"`
	TargetGSM         decimal.NullDecimal `gorm:"column:target_gsm;type:numeric(10,2)" json:"targetGSM"`
	FinishType        *string             `gorm:"size:64" json:"finishType"`
	DyeMethod         *string             `gorm:"size:64" json:"dyeMethod"`
	FabricColor       *string             `gorm:"size:64" json:"fabricColor"`

	// Machine and production
	MachineAssigned  *string             `gorm:"size:32" json:"machineAssigned"`
	ActualMachine    *string             `gorm:"size:32" json:"actualMachine"`
	MachineGauge     *string             `gorm:"size:32" json:"machineGauge"`
	MachineSpeed     *int                `json:"machineSpeed"`
	EstimatedRunTime decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"estimatedRunTime"`
	SetupTime        decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"setupTime"`
	TargetEfficiency decimal.Decimal     `gorm:"type:numeric(5,2);not null" json:"targetEfficiency"`

	// Yarn requirements
	YarnCalculationMethod string              `gorm:"size:16;not null" json:"yarnCalculationMethod"`
	EstimatedYarnRequired decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"estimatedYarnRequired"`
	YarnAllocationStatus  string              `gorm:"size:16;not null" json:"yarnAllocationStatus"`

	// Costing
	EstimatedCost    decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"estimatedCost"`
	SellingPrice     decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"sellingPrice"`
	MarginPercentage decimal.NullDecimal `gorm:"type:numeric(6,2)" json:"marginPercentage"`

	// Quality control
	QualityStandard     *string         `gorm:"size:64" json:"qualityStandard"`
	InspectionFrequency *string         `gorm:"size:64" json:"inspectionFrequency"`
	DefectTolerance     decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"defectTolerance"`
	SamplingRequired    bool            `gorm:"not null" json:"samplingRequired"`
	SampleQuantity      *int            `json:"sampleQuantity"`

	// Slitting and finishing
	SlittingRequired         bool                `gorm:"not null" json:"slittingRequired"`
	TargetWidthAfterSlitting decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"targetWidthAfterSlitting"`
	NumberOfSlits            *int                `json:"numberOfSlits"`
	FinishingRequired        bool                `gorm:"not null" json:"finishingRequired"`
	FinishingInstructions    *string             `json:"finishingInstructions"`
	FinishingReference       *string             `gorm:"size:64" json:"finishingReference"`

	// Delivery
	DeliveryMethod              *string             `gorm:"size:64" json:"deliveryMethod"`
	DeliveryAddress             *string             `json:"deliveryAddress"`
	DeliveryDescription         *string             `json:"deliveryDescription"`
	SpecialDeliveryInstructions *string             `json:"specialDeliveryInstructions"`
	PackingInstructions         *string             `json:"packingInstructions"`
	TotalSlipQuantity           decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"totalSlipQuantity"`

	// Documentation
	Notes                       *string `json:"notes"`
	InternalNotes               *string `json:"internalNotes"`
	CustomerSpecialRequirements *string `json:"customerSpecialRequirements"`
	QualityNotes                *string `json:"qualityNotes"`

	// Status and control
	Status            string     `gorm:"size:16;not null;index" json:"status"`
	ApprovedBy        *string    `gorm:"size:128" json:"approvedBy"`
	ApprovalDate      *time.Time `json:"approvalDate"`
	JobStatusComplete bool       `gorm:"not null" json:"jobStatusComplete"`
	OverrideFlag      bool       `gorm:"not null" json:"overrideFlag"`
	OverrideValue     *string    `gorm:"size:128" json:"overrideValue"`

	// Associations
	Customer      *Customer          `json:"customer,omitempty"`
	FabricQuality *FabricQuality     `gorm:"foreignKey:QualityID" json:"fabricQuality,omitempty"`
	Production    []ProductionInfo   `gorm:"foreignKey:JobCardID" json:"production,omitempty"`
	YarnStock     []YarnStockJobCard `gorm:"foreignKey:JobCardID" json:"yarnStock,omitempty"`
}
