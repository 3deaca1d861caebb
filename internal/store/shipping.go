package store

import (
	"context"
	"slices"

	"gorm.io/gorm"

	"gilnokie-backend/internal/model"
	"gilnokie-backend/internal/parse"
)

const (
	entityPackingList = "Packing list"
	entityDelivery    = "Delivery"
)

func preloadPackingList(db *gorm.DB) *gorm.DB {
	return db.Preload("JobCard").
		Preload("JobCard.Customer").
		Preload("JobCard.FabricQuality").
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		Preload("Items.Production")
}

func preloadDelivery(db *gorm.DB) *gorm.DB {
	return db.Preload("JobCard").
		Preload("JobCard.Customer").
		Preload("JobCard.FabricQuality").
		Preload("PackingLists", live).
		Preload("PackingLists.Items").
		Preload("PackingLists.Items.Production")
}

func shippingFilter(f ShippingFilter, statusColumn string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.JobCardID != "" {
			db = db.Where("job_card_id = ?", f.JobCardID)
		}
		if f.Status != "" {
			db = db.Where(statusColumn+" = ?", f.Status)
		}
		return db
	}
}

func requireJobCard(tx *gorm.DB, id string) (*model.CustomerOrder, error) {
	var card model.CustomerOrder
	if err := tx.Select("id", "job_card_number", "status").First(&card, "id = ?", id).Error; err != nil {
		return nil, translate(err, entityJobCard)
	}
	return &card, nil
}

func (s *gormStore) ListPackingLists(ctx context.Context, f ShippingFilter) ([]model.PackingList, error) {
	var lists []model.PackingList
	err := s.db.WithContext(ctx).
		Scopes(live, shippingFilter(f, "packing_status"), preloadPackingList).
		Order("created_at DESC").
		Find(&lists).Error
	return lists, translate(err, entityPackingList)
}

func (s *gormStore) GetPackingList(ctx context.Context, id string) (*model.PackingList, error) {
	return getByID[model.PackingList](ctx, s.db, entityPackingList, id, live, preloadPackingList, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Delivery")
	})
}

// CreatePackingList numbers a packing list and inserts it with one item per production id.
func (s *gormStore) CreatePackingList(ctx context.Context, pl *model.PackingList, productionIDs []string) error {
	pl.JobCard, pl.Delivery = nil, nil
	if pl.PackingDate.IsZero() {
		pl.PackingDate = s.now()
	}
	if pl.PackingStatus == "" {
		pl.PackingStatus = model.PackingPending
	}

	err := s.numberedCreate(ctx, parse.PackingList, "packing_lists", "packing_list_number", func(tx *gorm.DB, number string) error {
		if _, err := requireJobCard(tx, pl.JobCardID); err != nil {
			return err
		}
		pl.PackingListNumber = number
		pl.Items = make([]model.PackingItem, 0, len(productionIDs))
		for _, pid := range productionIDs {
			pl.Items = append(pl.Items, model.PackingItem{ProductionID: pid})
		}
		return tx.Create(pl).Error
	})
	if err != nil {
		return translate(err, entityPackingList)
	}
	return translate(s.db.WithContext(ctx).Scopes(preloadPackingList).First(pl, "id = ?", pl.ID).Error, entityPackingList)
}

func (s *gormStore) UpdatePackingList(ctx context.Context, id string, fields map[string]any) (*model.PackingList, error) {
	if _, err := updateFields[model.PackingList](ctx, s.db, entityPackingList, id, fields, live); err != nil {
		return nil, err
	}
	return s.GetPackingList(ctx, id)
}

// DeletePackingList stamps deleted_at.
func (s *gormStore) DeletePackingList(ctx context.Context, id string) error {
	_, err := updateFields[model.PackingList](ctx, s.db, entityPackingList, id, map[string]any{"deleted_at": s.now()}, live)
	return err
}

func (s *gormStore) ListDeliveries(ctx context.Context, f ShippingFilter) ([]model.Delivery, error) {
	var deliveries []model.Delivery
	err := s.db.WithContext(ctx).
		Scopes(live, shippingFilter(f, "delivery_status"), preloadDelivery).
		Order("created_at DESC").
		Find(&deliveries).Error
	return deliveries, translate(err, entityDelivery)
}

func (s *gormStore) GetDelivery(ctx context.Context, id string) (*model.Delivery, error) {
	return getByID[model.Delivery](ctx, s.db, entityDelivery, id, live, preloadDelivery)
}

// completeJobCard marks the job card completed and reports whether its status changed.
func completeJobCard(tx *gorm.DB, id string) (bool, error) {
	res := tx.Model(&model.CustomerOrder{}).
		Where("id = ? AND status <> ?", id, model.JobCompleted).
		Update("status", model.JobCompleted)
	return res.RowsAffected > 0, res.Error
}

// CreateDelivery numbers a delivery note, links the given packing lists to it and, when
// the delivery is created already delivered, completes the job card.
func (s *gormStore) CreateDelivery(ctx context.Context, d *model.Delivery, packingListIDs []string) (*DeliveryChange, error) {
	d.JobCard, d.PackingLists = nil, nil
	packingListIDs = slices.Compact(slices.Sorted(slices.Values(packingListIDs)))
	if d.DeliveryStatus == "" {
		d.DeliveryStatus = model.DeliveryPending
	}

	var completed bool
	err := s.numberedCreate(ctx, parse.DeliveryNote, "deliveries", "delivery_note_number", func(tx *gorm.DB, number string) error {
		if _, err := requireJobCard(tx, d.JobCardID); err != nil {
			return err
		}
		d.DeliveryNoteNumber = number
		if err := tx.Create(d).Error; err != nil {
			return err
		}
		if len(packingListIDs) > 0 {
			res := tx.Model(&model.PackingList{}).Scopes(live).
				Where("id IN ?", packingListIDs).
				Update("delivery_id", d.ID)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected != int64(len(packingListIDs)) {
				return invalid("Invalid packing list")
			}
		}
		if d.DeliveryStatus != model.Delivered {
			return nil
		}
		var err error
		completed, err = completeJobCard(tx, d.JobCardID)
		return err
	})
	if err != nil {
		return nil, translate(err, entityDelivery)
	}

	out, err := s.GetDelivery(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	*d = *out
	return &DeliveryChange{Delivery: *out, CompletedJobCard: completed}, nil
}

// UpdateDelivery applies fields. Moving the delivery to delivered completes the linked
// job card in the same transaction.
func (s *gormStore) UpdateDelivery(ctx context.Context, id string, fields map[string]any) (*DeliveryChange, error) {
	var completed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var d model.Delivery
		if err := tx.Scopes(live).First(&d, "id = ?", id).Error; err != nil {
			return err
		}
		previous := d.DeliveryStatus
		if len(fields) > 0 {
			if err := tx.Model(&d).Updates(fields).Error; err != nil {
				return err
			}
		}
		if status, ok := fields["delivery_status"]; !ok || status != model.Delivered || previous == model.Delivered {
			return nil
		}
		var err error
		completed, err = completeJobCard(tx, d.JobCardID)
		return err
	})
	if err != nil {
		return nil, translate(err, entityDelivery)
	}

	d, err := s.GetDelivery(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DeliveryChange{Delivery: *d, CompletedJobCard: completed}, nil
}

// DeleteDelivery stamps deleted_at.
func (s *gormStore) DeleteDelivery(ctx context.Context, id string) error {
	_, err := updateFields[model.Delivery](ctx, s.db, entityDelivery, id, map[string]any{"deleted_at": s.now()}, live)
	return err
}
