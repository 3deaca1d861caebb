package store

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"gilnokie-backend/internal/model"
	"gilnokie-backend/internal/parse"
	"gilnokie-backend/internal/stats"
)

const entityJobCard = "Job card"

// ErrJobCardHasProduction blocks deleting a job card that already has pieces.
var ErrJobCardHasProduction = &ValidationError{
	Message: "Cannot delete job card with production records. Archive it instead.",
}

type jobCardCount struct {
	JobCardID string
	Total     int64
}

// countByJobCard counts rows of mdl per job card.
func countByJobCard(db *gorm.DB, mdl any, ids []string, scopes ...func(*gorm.DB) *gorm.DB) (map[string]int64, error) {
	counts := make(map[string]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	var rows []jobCardCount
	if err := db.Model(mdl).Scopes(scopes...).
		Select("job_card_id, COUNT(*) AS total").
		Where("job_card_id IN ?", ids).
		Group("job_card_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.JobCardID] = r.Total
	}
	return counts, nil
}

// latestPieces returns up to n most recent pieces per job card.
func latestPieces(db *gorm.DB, ids []string, n int) (map[string][]model.ProductionInfo, error) {
	out := make(map[string][]model.ProductionInfo, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	ranked := db.Model(&model.ProductionInfo{}).
		Select("id, ROW_NUMBER() OVER (PARTITION BY job_card_id ORDER BY created_at DESC) AS rn").
		Where("job_card_id IN ?", ids)
	top := db.Table("(?) AS ranked", ranked).Select("id").Where("rn <= ?", n)

	var pieces []model.ProductionInfo
	if err := db.Where("id IN (?)", top).Order("created_at DESC").Find(&pieces).Error; err != nil {
		return nil, err
	}
	for _, p := range pieces {
		out[p.JobCardID] = append(out[p.JobCardID], p)
	}
	return out, nil
}

// ListJobCards returns job cards newest first, each with its five latest pieces.
func (s *gormStore) ListJobCards(ctx context.Context, f JobCardFilter) ([]JobCardSummary, error) {
	db := s.db.WithContext(ctx)

	q := db.Preload("Customer").Preload("FabricQuality")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CustomerID != "" {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	var cards []model.CustomerOrder
	if err := q.Order("created_at DESC").Find(&cards).Error; err != nil {
		return nil, translate(err, entityJobCard)
	}

	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	pieces, err := latestPieces(db, ids, 5)
	if err != nil {
		return nil, translate(err, entityJobCard)
	}
	production, err := countByJobCard(db, &model.ProductionInfo{}, ids)
	if err != nil {
		return nil, translate(err, entityJobCard)
	}
	yarn, err := countByJobCard(db, &model.YarnStockJobCard{}, ids, live)
	if err != nil {
		return nil, translate(err, entityJobCard)
	}

	out := make([]JobCardSummary, 0, len(cards))
	for _, c := range cards {
		c.Production = pieces[c.ID]
		out = append(out, JobCardSummary{
			CustomerOrder: c,
			Count:         JobCardCounts{Production: production[c.ID], YarnStock: yarn[c.ID]},
		})
	}
	return out, nil
}

func preloadJobCardGraph(db *gorm.DB) *gorm.DB {
	return db.Preload("Customer").
		Preload("FabricQuality").
		Preload("FabricQuality.FabricContent", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		Preload("FabricQuality.FabricContent.YarnType").
		Preload("Production", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("piece_number ASC")
		}).
		Preload("YarnStock", live).
		Preload("YarnStock.StockRef").
		Preload("YarnStock.StockRef.YarnType")
}

// GetJobCard returns a job card with its customer, quality composition, pieces, yarn
// allocations and progress.
func (s *gormStore) GetJobCard(ctx context.Context, id string) (*JobCardDetail, error) {
	card, err := getByID[model.CustomerOrder](ctx, s.db, entityJobCard, id, preloadJobCardGraph)
	if err != nil {
		return nil, err
	}

	weights := make([]decimal.Decimal, len(card.Production))
	for i, p := range card.Production {
		weights[i] = p.Weight
	}
	return &JobCardDetail{
		CustomerOrder: *card,
		Count: JobCardCounts{
			Production: int64(len(card.Production)),
			YarnStock:  int64(len(card.YarnStock)),
		},
		Progress: progressOf(card, weights),
	}, nil
}

func progressOf(card *model.CustomerOrder, weights []decimal.Decimal) JobCardProgress {
	produced := stats.Sum(weights)
	p := JobCardProgress{
		JobCardID:          card.ID,
		QuantityRequired:   card.QuantityRequired,
		ProducedWeight:     produced,
		PiecesProduced:     int64(len(weights)),
		ProgressPercentage: stats.ProgressPercent(produced, card.QuantityRequired),
	}
	if m, ok := marginOf(card); ok {
		p.MarginPercentage = &m
	}
	return p
}

func marginOf(card *model.CustomerOrder) (decimal.Decimal, bool) {
	if !card.EstimatedCost.Valid || !card.SellingPrice.Valid {
		return decimal.Zero, false
	}
	return stats.MarginPercent(card.EstimatedCost.Decimal, card.SellingPrice.Decimal)
}

// JobCardProgress sums the weight produced against a job card.
func (s *gormStore) JobCardProgress(ctx context.Context, id string) (*JobCardProgress, error) {
	card, err := getByID[model.CustomerOrder](ctx, s.db, entityJobCard, id)
	if err != nil {
		return nil, err
	}
	var weights []decimal.Decimal
	if err := s.db.WithContext(ctx).Model(&model.ProductionInfo{}).
		Where("job_card_id = ?", id).
		Pluck("weight", &weights).Error; err != nil {
		return nil, translate(err, entityJobCard)
	}
	p := progressOf(card, weights)
	return &p, nil
}

func applyJobCardDefaults(jc *model.CustomerOrder) {
	if jc.Priority == "" {
		jc.Priority = "Normal"
	}
	if jc.QuantityUnit == "" {
		jc.QuantityUnit = "kg"
	}
	if jc.TargetEfficiency.IsZero() {
		jc.TargetEfficiency = decimal.NewFromInt(85)
	}
	if jc.YarnCalculationMethod == "" {
		jc.YarnCalculationMethod = "manual"
	}
	if jc.YarnAllocationStatus == "" {
		jc.YarnAllocationStatus = model.YarnAllocationPending
	}
	if jc.DefectTolerance.IsZero() {
		jc.DefectTolerance = decimal.NewFromInt(2)
	}
	if jc.Status == "" {
		jc.Status = model.JobActive
	}
	if !jc.MarginPercentage.Valid {
		if m, ok := marginOf(jc); ok {
			jc.MarginPercentage = decimal.NullDecimal{Decimal: m, Valid: true}
		}
	}
}

// CreateJobCard numbers and inserts a job card, then reloads its customer and quality.
func (s *gormStore) CreateJobCard(ctx context.Context, jc *model.CustomerOrder) error {
	applyJobCardDefaults(jc)
	jc.Customer, jc.FabricQuality = nil, nil

	err := s.numberedCreate(ctx, parse.JobCard, "customer_orders", "job_card_number", func(tx *gorm.DB, number string) error {
		jc.JobCardNumber = number
		return tx.Create(jc).Error
	})
	if err != nil {
		return translate(err, entityJobCard)
	}
	return translate(s.db.WithContext(ctx).
		Preload("Customer").Preload("FabricQuality").
		First(jc, "id = ?", jc.ID).Error, entityJobCard)
}

// UpdateJobCard applies fields and recomputes the margin when costing changed without an
// explicit margin.
func (s *gormStore) UpdateJobCard(ctx context.Context, id string, fields map[string]any) (*JobCardChange, error) {
	var change JobCardChange
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card model.CustomerOrder
		if err := tx.First(&card, "id = ?", id).Error; err != nil {
			return err
		}
		change.PreviousStatus = card.Status

		if len(fields) > 0 {
			if err := tx.Model(&card).Updates(fields).Error; err != nil {
				return err
			}
		}
		if err := tx.First(&card, "id = ?", id).Error; err != nil {
			return err
		}

		_, explicit := fields["margin_percentage"]
		_, cost := fields["estimated_cost"]
		_, price := fields["selling_price"]
		if !explicit && (cost || price) {
			if m, ok := marginOf(&card); ok {
				if err := tx.Model(&card).Update("margin_percentage", m).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, entityJobCard)
	}

	card, err := getByID[model.CustomerOrder](ctx, s.db, entityJobCard, id, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Customer").Preload("FabricQuality")
	})
	if err != nil {
		return nil, err
	}
	change.JobCard = *card
	return &change, nil
}

// CancelJobCard soft-deletes a job card by cancelling it. Job cards with production are
// rejected with ErrJobCardHasProduction.
func (s *gormStore) CancelJobCard(ctx context.Context, id string) (*JobCardChange, error) {
	var change JobCardChange
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card model.CustomerOrder
		if err := tx.First(&card, "id = ?", id).Error; err != nil {
			return err
		}
		change.PreviousStatus = card.Status

		var pieces int64
		if err := tx.Model(&model.ProductionInfo{}).Where("job_card_id = ?", id).Count(&pieces).Error; err != nil {
			return err
		}
		if pieces > 0 {
			return ErrJobCardHasProduction
		}
		if err := tx.Model(&card).Update("status", model.JobCancelled).Error; err != nil {
			return err
		}
		change.JobCard = card
		return nil
	})
	if err != nil {
		return nil, translate(err, entityJobCard)
	}
	return &change, nil
}
