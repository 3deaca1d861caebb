package store

import (
	"context"

	"gorm.io/gorm"

	"gilnokie-backend/internal/model"
)

const (
	entityYarnType = "Yarn type"
	entityQuality  = "Fabric quality"
	entityMachine  = "Machine"
)

func (s *gormStore) ListYarnTypes(ctx context.Context, f ActiveFilter) ([]model.YarnType, error) {
	var yarns []model.YarnType
	err := s.db.WithContext(ctx).Scopes(activeScope(f.Active)).Order("code ASC").Find(&yarns).Error
	return yarns, translate(err, entityYarnType)
}

func (s *gormStore) GetYarnType(ctx context.Context, id string) (*model.YarnType, error) {
	return getByID[model.YarnType](ctx, s.db, entityYarnType, id)
}

func (s *gormStore) CreateYarnType(ctx context.Context, y *model.YarnType) error {
	return translate(s.db.WithContext(ctx).Create(y).Error, entityYarnType)
}

func (s *gormStore) UpdateYarnType(ctx context.Context, id string, fields map[string]any) (*model.YarnType, error) {
	return updateFields[model.YarnType](ctx, s.db, entityYarnType, id, fields)
}

func (s *gormStore) DeactivateYarnType(ctx context.Context, id string) (*model.YarnType, error) {
	return updateFields[model.YarnType](ctx, s.db, entityYarnType, id, map[string]any{"active": false})
}

// preloadContent loads a quality's composition in position order.
func preloadContent(db *gorm.DB) *gorm.DB {
	return db.Preload("FabricContent", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	}).Preload("FabricContent.YarnType")
}

func (s *gormStore) ListQualities(ctx context.Context, f ActiveFilter) ([]model.FabricQuality, error) {
	var qualities []model.FabricQuality
	err := s.db.WithContext(ctx).
		Scopes(activeScope(f.Active), preloadContent).
		Order("quality_code ASC").
		Find(&qualities).Error
	return qualities, translate(err, entityQuality)
}

func (s *gormStore) GetQuality(ctx context.Context, id string) (*model.FabricQuality, error) {
	return getByID[model.FabricQuality](ctx, s.db, entityQuality, id, preloadContent)
}

// CreateQuality inserts a quality together with its composition rows.
func (s *gormStore) CreateQuality(ctx context.Context, q *model.FabricQuality) error {
	for i := range q.FabricContent {
		q.FabricContent[i].Position = i
	}
	return translate(s.db.WithContext(ctx).Create(q).Error, entityQuality)
}

// UpdateQuality applies fields and, when content is non-nil, replaces the composition.
func (s *gormStore) UpdateQuality(ctx context.Context, id string, fields map[string]any, content []model.FabricContent) (*model.FabricQuality, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var q model.FabricQuality
		if err := tx.First(&q, "id = ?", id).Error; err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Model(&q).Updates(fields).Error; err != nil {
				return err
			}
		}
		if content == nil {
			return nil
		}
		if err := tx.Where("quality_id = ?", id).Delete(&model.FabricContent{}).Error; err != nil {
			return err
		}
		for i := range content {
			content[i].ID = ""
			content[i].QualityID = id
			content[i].Position = i
			content[i].YarnType = nil
		}
		if len(content) == 0 {
			return nil
		}
		return tx.Create(&content).Error
	})
	if err != nil {
		return nil, translate(err, entityQuality)
	}
	return s.GetQuality(ctx, id)
}

func (s *gormStore) DeactivateQuality(ctx context.Context, id string) (*model.FabricQuality, error) {
	if _, err := updateFields[model.FabricQuality](ctx, s.db, entityQuality, id, map[string]any{"active": false}); err != nil {
		return nil, err
	}
	return s.GetQuality(ctx, id)
}

func (s *gormStore) ListMachines(ctx context.Context, f MachineFilter) ([]model.MachineSpecification, error) {
	q := s.db.WithContext(ctx).Scopes(live)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.MachineType != "" {
		q = q.Where("machine_type = ?", f.MachineType)
	}
	var machines []model.MachineSpecification
	err := q.Order("machine_number ASC").Find(&machines).Error
	return machines, translate(err, entityMachine)
}

func (s *gormStore) GetMachine(ctx context.Context, id string) (*model.MachineSpecification, error) {
	return getByID[model.MachineSpecification](ctx, s.db, entityMachine, id, live)
}

func (s *gormStore) CreateMachine(ctx context.Context, m *model.MachineSpecification) error {
	return translate(s.db.WithContext(ctx).Create(m).Error, entityMachine)
}

func (s *gormStore) UpdateMachine(ctx context.Context, id string, fields map[string]any) (*model.MachineSpecification, error) {
	return updateFields[model.MachineSpecification](ctx, s.db, entityMachine, id, fields, live)
}

// DeactivateMachine marks a machine inactive and stamps deleted_at.
func (s *gormStore) DeactivateMachine(ctx context.Context, id string) (*model.MachineSpecification, error) {
	return updateFields[model.MachineSpecification](ctx, s.db, entityMachine, id, map[string]any{
		"status":     model.MachineInactive,
		"deleted_at": s.now(),
	}, live)
}
