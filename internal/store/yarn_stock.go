package store

import (
	"context"

	"gorm.io/gorm"

	"gilnokie-backend/internal/model"
)

const (
	entityAllocation = "Yarn stock"
	entityStockRef   = "Stock reference"
)

func preloadAllocation(db *gorm.DB) *gorm.DB {
	return db.Preload("JobCard").
		Preload("JobCard.Customer").
		Preload("JobCard.FabricQuality").
		Preload("StockRef").
		Preload("StockRef.YarnType")
}

// ListAllocations returns live allocations, newest first.
func (s *gormStore) ListAllocations(ctx context.Context, f AllocationFilter) ([]model.YarnStockJobCard, error) {
	q := s.db.WithContext(ctx).Scopes(live, preloadAllocation)
	if f.JobCardID != "" {
		q = q.Where("job_card_id = ?", f.JobCardID)
	}
	if f.StockRefID != "" {
		q = q.Where("stock_ref_id = ?", f.StockRefID)
	}
	var out []model.YarnStockJobCard
	err := q.Order("created_at DESC").Find(&out).Error
	return out, translate(err, entityAllocation)
}

func (s *gormStore) GetAllocation(ctx context.Context, id string) (*model.YarnStockJobCard, error) {
	return getByID[model.YarnStockJobCard](ctx, s.db, entityAllocation, id, live, preloadAllocation)
}

// CreateAllocation inserts an allocation and, when it is the job card's first live one,
// moves the job card's yarn allocation status from pending to partial. Both writes share
// one transaction.
func (s *gormStore) CreateAllocation(ctx context.Context, a *model.YarnStockJobCard) error {
	a.JobCard, a.StockRef = nil, nil
	if a.ReceivedDate.IsZero() {
		a.ReceivedDate = s.now()
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card model.CustomerOrder
		if err := tx.Select("id", "yarn_allocation_status").First(&card, "id = ?", a.JobCardID).Error; err != nil {
			return translate(err, entityJobCard)
		}
		var ref model.YarnStockReference
		if err := tx.Select("id").First(&ref, "id = ?", a.StockRefID).Error; err != nil {
			return translate(err, entityStockRef)
		}
		if err := tx.Create(a).Error; err != nil {
			return err
		}

		var allocations int64
		if err := tx.Model(&model.YarnStockJobCard{}).Scopes(live).
			Where("job_card_id = ?", a.JobCardID).
			Count(&allocations).Error; err != nil {
			return err
		}
		if allocations != 1 || card.YarnAllocationStatus != model.YarnAllocationPending {
			return nil
		}
		return tx.Model(&model.CustomerOrder{}).
			Where("id = ? AND yarn_allocation_status = ?", a.JobCardID, model.YarnAllocationPending).
			Update("yarn_allocation_status", model.YarnAllocationPartial).Error
	})
	if err != nil {
		return translate(err, entityAllocation)
	}
	return translate(s.db.WithContext(ctx).Scopes(preloadAllocation).First(a, "id = ?", a.ID).Error, entityAllocation)
}

func (s *gormStore) UpdateAllocation(ctx context.Context, id string, fields map[string]any) (*model.YarnStockJobCard, error) {
	if _, err := updateFields[model.YarnStockJobCard](ctx, s.db, entityAllocation, id, fields, live); err != nil {
		return nil, err
	}
	return s.GetAllocation(ctx, id)
}

// DeleteAllocation stamps deleted_at.
func (s *gormStore) DeleteAllocation(ctx context.Context, id string) error {
	_, err := updateFields[model.YarnStockJobCard](ctx, s.db, entityAllocation, id, map[string]any{"deleted_at": s.now()}, live)
	return err
}
