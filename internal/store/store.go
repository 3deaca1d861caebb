package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"gilnokie-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB
	Ping(ctx context.Context) error

	ListCustomers(ctx context.Context, f CustomerFilter) ([]model.Customer, error)
	GetCustomer(ctx context.Context, id string) (*CustomerDetail, error)
	CreateCustomer(ctx context.Context, c *model.Customer) error
	UpdateCustomer(ctx context.Context, id string, fields map[string]any) (*model.Customer, error)
	DeactivateCustomer(ctx context.Context, id string) (*model.Customer, error)

	ListEmployees(ctx context.Context, f EmployeeFilter) ([]EmployeeSummary, error)
	GetEmployee(ctx context.Context, id string) (*EmployeeSummary, error)
	CreateEmployee(ctx context.Context, e *model.Employee) error
	UpdateEmployee(ctx context.Context, id string, fields map[string]any) (*model.Employee, error)
	DeactivateEmployee(ctx context.Context, id string) (*model.Employee, error)

	ListYarnTypes(ctx context.Context, f ActiveFilter) ([]model.YarnType, error)
	GetYarnType(ctx context.Context, id string) (*model.YarnType, error)
	CreateYarnType(ctx context.Context, y *model.YarnType) error
	UpdateYarnType(ctx context.Context, id string, fields map[string]any) (*model.YarnType, error)
	DeactivateYarnType(ctx context.Context, id string) (*model.YarnType, error)

	ListQualities(ctx context.Context, f ActiveFilter) ([]model.FabricQuality, error)
	GetQuality(ctx context.Context, id string) (*model.FabricQuality, error)
	CreateQuality(ctx context.Context, q *model.FabricQuality) error
	UpdateQuality(ctx context.Context, id string, fields map[string]any, content []model.FabricContent) (*model.FabricQuality, error)
	DeactivateQuality(ctx context.Context, id string) (*model.FabricQuality, error)

	ListMachines(ctx context.Context, f MachineFilter) ([]model.MachineSpecification, error)
	GetMachine(ctx context.Context, id string) (*model.MachineSpecification, error)
	CreateMachine(ctx context.Context, m *model.MachineSpecification) error
	UpdateMachine(ctx context.Context, id string, fields map[string]any) (*model.MachineSpecification, error)
	DeactivateMachine(ctx context.Context, id string) (*model.MachineSpecification, error)

	ListJobCards(ctx context.Context, f JobCardFilter) ([]JobCardSummary, error)
	GetJobCard(ctx context.Context, id string) (*JobCardDetail, error)
	CreateJobCard(ctx context.Context, jc *model.CustomerOrder) error
	UpdateJobCard(ctx context.Context, id string, fields map[string]any) (*JobCardChange, error)
	CancelJobCard(ctx context.Context, id string) (*JobCardChange, error)
	JobCardProgress(ctx context.Context, id string) (*JobCardProgress, error)

	ListProduction(ctx context.Context, f ProductionFilter) ([]model.ProductionInfo, error)
	CreateProduction(ctx context.Context, p *model.ProductionInfo) error
	CreateProductionBatch(ctx context.Context, b BulkProduction) ([]model.ProductionInfo, error)

	ListAllocations(ctx context.Context, f AllocationFilter) ([]model.YarnStockJobCard, error)
	GetAllocation(ctx context.Context, id string) (*model.YarnStockJobCard, error)
	CreateAllocation(ctx context.Context, a *model.YarnStockJobCard) error
	UpdateAllocation(ctx context.Context, id string, fields map[string]any) (*model.YarnStockJobCard, error)
	DeleteAllocation(ctx context.Context, id string) error

	ListStockReferences(ctx context.Context) ([]model.YarnStockReference, error)
	GetStockReference(ctx context.Context, id string) (*model.YarnStockReference, error)
	CreateStockReference(ctx context.Context, r *model.YarnStockReference) error
	UpdateStockReference(ctx context.Context, id string, fields map[string]any) (*model.YarnStockReference, error)
	DeactivateStockReference(ctx context.Context, id string) error

	ListPackingLists(ctx context.Context, f ShippingFilter) ([]model.PackingList, error)
	GetPackingList(ctx context.Context, id string) (*model.PackingList, error)
	CreatePackingList(ctx context.Context, pl *model.PackingList, productionIDs []string) error
	UpdatePackingList(ctx context.Context, id string, fields map[string]any) (*model.PackingList, error)
	DeletePackingList(ctx context.Context, id string) error

	ListDeliveries(ctx context.Context, f ShippingFilter) ([]model.Delivery, error)
	GetDelivery(ctx context.Context, id string) (*model.Delivery, error)
	CreateDelivery(ctx context.Context, d *model.Delivery, packingListIDs []string) (*DeliveryChange, error)
	UpdateDelivery(ctx context.Context, id string, fields map[string]any) (*DeliveryChange, error)
	DeleteDelivery(ctx context.Context, id string) error

	RollWeights(ctx context.Context, qualityID string) ([]float64, error)
	RollWeightsByQuality(ctx context.Context) ([]QualityRollWeights, error)
	Dashboard(ctx context.Context, since time.Time) (*DashboardCounts, error)

	SaveSubscription(ctx context.Context, sub *model.PushSubscription, jobCardIDs []string) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForJobCard(ctx context.Context, jobCardID string) ([]model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db          *gorm.DB
	now         func() time.Time
	maxAttempts int
}

// Option customises a gormStore.
type Option func(*gormStore)

// WithClock overrides the time source used for document numbers and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *gormStore) { s.now = now }
}

// WithMaxAttempts bounds how often a colliding document number is regenerated.
func WithMaxAttempts(n int) Option {
	return func(s *gormStore) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB, opts ...Option) Store {
	s := &gormStore{db: db, now: time.Now, maxAttempts: 5}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// Ping checks that the database answers.
func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// live excludes soft-deleted rows.
func live(db *gorm.DB) *gorm.DB {
	return db.Where("deleted_at IS NULL")
}

func activeScope(active *bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if active == nil {
			return db
		}
		return db.Where("active = ?", *active)
	}
}

// updateFields applies fields to the record with id inside a transaction and returns the
// reloaded record. Scopes restrict which rows count as existing.
func updateFields[T any](ctx context.Context, db *gorm.DB, entity, id string, fields map[string]any, scopes ...func(*gorm.DB) *gorm.DB) (*T, error) {
	var rec T
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(scopes...).First(&rec, "id = ?", id).Error; err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Model(&rec).Updates(fields).Error; err != nil {
				return err
			}
		}
		return tx.First(&rec, "id = ?", id).Error
	})
	if err != nil {
		return nil, translate(err, entity)
	}
	return &rec, nil
}

// getByID loads one record, honouring scopes.
func getByID[T any](ctx context.Context, db *gorm.DB, entity, id string, scopes ...func(*gorm.DB) *gorm.DB) (*T, error) {
	var rec T
	if err := db.WithContext(ctx).Scopes(scopes...).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err, entity)
	}
	return &rec, nil
}
