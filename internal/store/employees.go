package store

import (
	"context"

	"gorm.io/gorm"

	"gilnokie-backend/internal/model"
)

const entityEmployee = "Employee"

// ListEmployees returns live employees ordered by surname with their piece counts.
func (s *gormStore) ListEmployees(ctx context.Context, f EmployeeFilter) ([]EmployeeSummary, error) {
	db := s.db.WithContext(ctx)

	q := db.Scopes(live, activeScope(f.Active))
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	var employees []model.Employee
	if err := q.Order("last_name ASC").Order("first_name ASC").Find(&employees).Error; err != nil {
		return nil, translate(err, entityEmployee)
	}

	ids := make([]string, len(employees))
	for i, e := range employees {
		ids[i] = e.ID
	}
	counts, err := productionCountsByOperator(db, ids)
	if err != nil {
		return nil, translate(err, entityEmployee)
	}

	out := make([]EmployeeSummary, 0, len(employees))
	for _, e := range employees {
		out = append(out, EmployeeSummary{Employee: e, Count: ProductionCount{Production: counts[e.ID]}})
	}
	return out, nil
}

func productionCountsByOperator(db *gorm.DB, ids []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	type aggRow struct {
		OperatorID string
		Total      int64
	}
	var rows []aggRow
	if err := db.Model(&model.ProductionInfo{}).
		Select("operator_id, COUNT(*) AS total").
		Where("operator_id IN ?", ids).
		Group("operator_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.OperatorID] = r.Total
	}
	return counts, nil
}

// GetEmployee returns an employee, deactivated or not, with their 20 latest pieces.
func (s *gormStore) GetEmployee(ctx context.Context, id string) (*EmployeeSummary, error) {
	db := s.db.WithContext(ctx)

	var employee model.Employee
	err := db.Preload("Production", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("production_date DESC").Limit(20)
	}).Preload("Production.JobCard").
		Preload("Production.JobCard.Customer").
		First(&employee, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, entityEmployee)
	}

	counts, err := productionCountsByOperator(db, []string{id})
	if err != nil {
		return nil, translate(err, entityEmployee)
	}
	return &EmployeeSummary{Employee: employee, Count: ProductionCount{Production: counts[id]}}, nil
}

func (s *gormStore) CreateEmployee(ctx context.Context, e *model.Employee) error {
	return translate(s.db.WithContext(ctx).Create(e).Error, entityEmployee)
}

func (s *gormStore) UpdateEmployee(ctx context.Context, id string, fields map[string]any) (*model.Employee, error) {
	return updateFields[model.Employee](ctx, s.db, entityEmployee, id, fields, live)
}

// DeactivateEmployee clears the active flag and stamps deleted_at.
func (s *gormStore) DeactivateEmployee(ctx context.Context, id string) (*model.Employee, error) {
	return updateFields[model.Employee](ctx, s.db, entityEmployee, id, map[string]any{
		"active":     false,
		"deleted_at": s.now(),
	}, live)
}
