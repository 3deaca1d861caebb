package store

import (
	"context"

	"gorm.io/gorm"

	"gilnokie-backend/internal/model"
	"gilnokie-backend/internal/parse"
)

func preloadYarnType(db *gorm.DB) *gorm.DB {
	return db.Preload("YarnType")
}

func (s *gormStore) ListStockReferences(ctx context.Context) ([]model.YarnStockReference, error) {
	var refs []model.YarnStockReference
	err := s.db.WithContext(ctx).
		Scopes(live, preloadYarnType).
		Order("stock_reference_number DESC").
		Find(&refs).Error
	return refs, translate(err, entityStockRef)
}

// GetStockReference returns a stock reference with its ten latest live allocations.
func (s *gormStore) GetStockReference(ctx context.Context, id string) (*model.YarnStockReference, error) {
	return getByID[model.YarnStockReference](ctx, s.db, entityStockRef, id, live, preloadYarnType, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Customer").
			Preload("YarnStock", func(tx *gorm.DB) *gorm.DB {
				return tx.Scopes(live).Order("created_at DESC").Limit(10)
			}).
			Preload("YarnStock.JobCard").
			Preload("YarnStock.JobCard.Customer")
	})
}

// CreateStockReference numbers and inserts a yarn receipt.
func (s *gormStore) CreateStockReference(ctx context.Context, r *model.YarnStockReference) error {
	r.YarnType, r.Customer, r.YarnStock = nil, nil, nil
	r.StockDate = s.now()
	if r.Status == "" {
		r.Status = model.StockActive
	}
	if r.InitialQuantity.IsZero() {
		r.InitialQuantity = r.CurrentQuantity
	}

	err := s.numberedCreate(ctx, parse.StockReference, "yarn_stock_references", "stock_reference_number", func(tx *gorm.DB, number string) error {
		var yarn model.YarnType
		if err := tx.Select("id").First(&yarn, "id = ?", r.YarnTypeID).Error; err != nil {
			return translate(err, entityYarnType)
		}
		r.StockReferenceNumber = number
		return tx.Create(r).Error
	})
	if err != nil {
		return translate(err, entityStockRef)
	}
	return translate(s.db.WithContext(ctx).Scopes(preloadYarnType).First(r, "id = ?", r.ID).Error, entityStockRef)
}

func (s *gormStore) UpdateStockReference(ctx context.Context, id string, fields map[string]any) (*model.YarnStockReference, error) {
	if _, err := updateFields[model.YarnStockReference](ctx, s.db, entityStockRef, id, fields, live); err != nil {
		return nil, err
	}
	return getByID[model.YarnStockReference](ctx, s.db, entityStockRef, id, preloadYarnType)
}

// DeactivateStockReference marks the reference inactive and stamps deleted_at.
func (s *gormStore) DeactivateStockReference(ctx context.Context, id string) error {
	_, err := updateFields[model.YarnStockReference](ctx, s.db, entityStockRef, id, map[string]any{
		"status":     model.StockInactive,
		"deleted_at": s.now(),
	}, live)
	return err
}
