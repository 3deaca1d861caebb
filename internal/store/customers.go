package store

import (
	"context"

	"gorm.io/gorm"

	"gilnokie-backend/internal/model"
)

const entityCustomer = "Customer"

func (s *gormStore) ListCustomers(ctx context.Context, f CustomerFilter) ([]model.Customer, error) {
	var customers []model.Customer
	err := s.db.WithContext(ctx).
		Scopes(activeScope(f.Active)).
		Order("name ASC").
		Find(&customers).Error
	return customers, translate(err, entityCustomer)
}

// GetCustomer returns a customer with its ten most recent orders.
func (s *gormStore) GetCustomer(ctx context.Context, id string) (*CustomerDetail, error) {
	db := s.db.WithContext(ctx)

	var customer model.Customer
	err := db.Preload("Orders", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at DESC").Limit(10)
	}).First(&customer, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, entityCustomer)
	}

	detail := &CustomerDetail{Customer: customer}
	if err := db.Model(&model.CustomerOrder{}).
		Where("customer_id = ?", id).
		Count(&detail.Count.Orders).Error; err != nil {
		return nil, translate(err, entityCustomer)
	}
	if err := db.Model(&model.Delivery{}).
		Joins("JOIN customer_orders ON customer_orders.id = deliveries.job_card_id").
		Where("customer_orders.customer_id = ? AND deliveries.deleted_at IS NULL", id).
		Count(&detail.Count.DeliveryNotes).Error; err != nil {
		return nil, translate(err, entityCustomer)
	}
	return detail, nil
}

func (s *gormStore) CreateCustomer(ctx context.Context, c *model.Customer) error {
	return translate(s.db.WithContext(ctx).Create(c).Error, entityCustomer)
}

func (s *gormStore) UpdateCustomer(ctx context.Context, id string, fields map[string]any) (*model.Customer, error) {
	return updateFields[model.Customer](ctx, s.db, entityCustomer, id, fields)
}

// DeactivateCustomer soft-deletes a customer by clearing its active flag.
func (s *gormStore) DeactivateCustomer(ctx context.Context, id string) (*model.Customer, error) {
	return updateFields[model.Customer](ctx, s.db, entityCustomer, id, map[string]any{"active": false})
}
