package store

import (
	"time"

	"github.com/shopspring/decimal"

	"gilnokie-backend/internal/model"
)

// CustomerFilter narrows ListCustomers. A nil Active lists everyone.
type CustomerFilter struct {
	Active *bool
}

// EmployeeFilter narrows ListEmployees.
type EmployeeFilter struct {
	Active *bool
	Role   string
}

// ActiveFilter narrows lists of catalogue records that are deactivated rather than deleted.
type ActiveFilter struct {
	Active *bool
}

// MachineFilter narrows ListMachines.
type MachineFilter struct {
	Status      string
	MachineType string
}

// JobCardFilter narrows ListJobCards.
type JobCardFilter struct {
	Status     string
	CustomerID string
}

// ProductionFilter narrows ListProduction. Date selects the whole UTC day.
type ProductionFilter struct {
	JobCardID string
	Date      *time.Time
}

// AllocationFilter narrows ListAllocations.
type AllocationFilter struct {
	JobCardID  string
	StockRefID string
}

// ShippingFilter narrows packing list and delivery listings. Status matches the
// packing or delivery status respectively.
type ShippingFilter struct {
	JobCardID string
	Status    string
}

// CustomerCounts are the related-record counts returned with a customer.
type CustomerCounts struct {
	Orders        int64 `json:"orders"`
	DeliveryNotes int64 `json:"deliveryNotes"`
}

// CustomerDetail is a customer with its latest orders and counts.
type CustomerDetail struct {
	model.Customer
	Count CustomerCounts `json:"_count"`
}

// ProductionCount is the number of pieces linked to a record.
type ProductionCount struct {
	Production int64 `json:"production"`
}

// EmployeeSummary is an employee with the number of pieces they produced.
type EmployeeSummary struct {
	model.Employee
	Count ProductionCount `json:"_count"`
}

// JobCardCounts are the related-record counts returned with a job card.
type JobCardCounts struct {
	Production int64 `json:"production"`
	YarnStock  int64 `json:"yarnStock"`
}

// JobCardSummary is a job card list entry.
type JobCardSummary struct {
	model.CustomerOrder
	Count JobCardCounts `json:"_count"`
}

// JobCardProgress summarises production against a job card's required quantity.
type JobCardProgress struct {
	JobCardID          string           `json:"jobCardId"`
	QuantityRequired   decimal.Decimal  `json:"quantityRequired"`
	ProducedWeight     decimal.Decimal  `json:"producedWeight"`
	PiecesProduced     int64            `json:"piecesProduced"`
	ProgressPercentage decimal.Decimal  `json:"progressPercentage"`
	MarginPercentage   *decimal.Decimal `json:"marginPercentage"`
}

// JobCardDetail is a job card with its full record graph.
type JobCardDetail struct {
	model.CustomerOrder
	Count    JobCardCounts   `json:"_count"`
	Progress JobCardProgress `json:"progress"`
}

// JobCardChange is the outcome of a job card update.
type JobCardChange struct {
	JobCard        model.CustomerOrder
	PreviousStatus string
}

// StatusChanged reports whether the update moved the job card to a new status.
func (c JobCardChange) StatusChanged() bool {
	return c.PreviousStatus != c.JobCard.Status
}

// DeliveryChange is the outcome of a delivery update.
type DeliveryChange struct {
	Delivery model.Delivery
	// CompletedJobCard is set when the update marked the linked job card completed.
	CompletedJobCard bool
}

// BulkProduction records several rolls from one machine against one job card.
// Template supplies the fields shared by every roll.
type BulkProduction struct {
	JobCardID     string
	MachineNumber string
	Template      model.ProductionInfo
	Weights       []decimal.Decimal
}

// QualityRollWeights are the piece weights produced for one fabric quality.
type QualityRollWeights struct {
	QualityID   string
	QualityCode string
	Description *string
	Weights     []float64
}

// DashboardCounts are the headline numbers of the dashboard.
type DashboardCounts struct {
	Customers       int64 `json:"customers"`
	YarnTypes       int64 `json:"yarnTypes"`
	ActiveJobCards  int64 `json:"activeJobCards"`
	TodayProduction int64 `json:"todayProduction"`
}
