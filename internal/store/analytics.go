package store

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"gilnokie-backend/internal/model"
	"gilnokie-backend/internal/stats"
)

const entityAnalytics = "Analytics"

// RollWeights returns the weight of every piece produced for job cards of a quality.
func (s *gormStore) RollWeights(ctx context.Context, qualityID string) ([]float64, error) {
	var weights []decimal.Decimal
	err := s.db.WithContext(ctx).Model(&model.ProductionInfo{}).
		Joins("JOIN customer_orders ON customer_orders.id = production_infos.job_card_id").
		Where("customer_orders.quality_id = ?", qualityID).
		Pluck("production_infos.weight", &weights).Error
	if err != nil {
		return nil, translate(err, entityAnalytics)
	}
	return stats.Floats(weights), nil
}

type qualityWeightRow struct {
	QualityID   string
	QualityCode string
	Description *string
	Weight      decimal.Decimal
}

// RollWeightsByQuality groups piece weights by fabric quality, most produced first.
// Qualities without pieces are left out.
func (s *gormStore) RollWeightsByQuality(ctx context.Context) ([]QualityRollWeights, error) {
	var rows []qualityWeightRow
	err := s.db.WithContext(ctx).Table("production_infos").
		Select("fabric_qualities.id AS quality_id, fabric_qualities.quality_code, fabric_qualities.description, production_infos.weight").
		Joins("JOIN customer_orders ON customer_orders.id = production_infos.job_card_id").
		Joins("JOIN fabric_qualities ON fabric_qualities.id = customer_orders.quality_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, entityAnalytics)
	}

	byID := make(map[string]*QualityRollWeights)
	var out []*QualityRollWeights
	for _, r := range rows {
		q, ok := byID[r.QualityID]
		if !ok {
			q = &QualityRollWeights{QualityID: r.QualityID, QualityCode: r.QualityCode, Description: r.Description}
			byID[r.QualityID] = q
			out = append(out, q)
		}
		q.Weights = append(q.Weights, r.Weight.InexactFloat64())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].Weights) != len(out[j].Weights) {
			return len(out[i].Weights) > len(out[j].Weights)
		}
		return out[i].QualityCode < out[j].QualityCode
	})

	result := make([]QualityRollWeights, len(out))
	for i, q := range out {
		result[i] = *q
	}
	return result, nil
}

// Dashboard counts the headline figures concurrently. since bounds today's production.
func (s *gormStore) Dashboard(ctx context.Context, since time.Time) (*DashboardCounts, error) {
	var counts DashboardCounts
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.db.WithContext(ctx).Model(&model.Customer{}).Where("active = ?", true).Count(&counts.Customers).Error
	})
	g.Go(func() error {
		return s.db.WithContext(ctx).Model(&model.YarnType{}).Where("active = ?", true).Count(&counts.YarnTypes).Error
	})
	g.Go(func() error {
		return s.db.WithContext(ctx).Model(&model.CustomerOrder{}).Where("status = ?", model.JobActive).Count(&counts.ActiveJobCards).Error
	})
	g.Go(func() error {
		return s.db.WithContext(ctx).Model(&model.ProductionInfo{}).Where("production_date >= ?", since).Count(&counts.TodayProduction).Error
	})

	if err := g.Wait(); err != nil {
		return nil, translate(err, entityAnalytics)
	}
	return &counts, nil
}
