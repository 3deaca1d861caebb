package store

import (
	"context"

	"gorm.io/gorm"

	"gilnokie-backend/internal/model"
	"gilnokie-backend/internal/parse"
)

const (
	entityProduction = "Production record"
	pieceLabel       = "piece"
	productionLimit  = 100
)

func preloadPieceJobCard(db *gorm.DB) *gorm.DB {
	return db.Preload("JobCard").Preload("JobCard.Customer").Preload("JobCard.FabricQuality")
}

// ListProduction returns the 100 most recently recorded pieces matching f.
func (s *gormStore) ListProduction(ctx context.Context, f ProductionFilter) ([]model.ProductionInfo, error) {
	q := s.db.WithContext(ctx).Scopes(preloadPieceJobCard)
	if f.JobCardID != "" {
		q = q.Where("job_card_id = ?", f.JobCardID)
	}
	if f.Date != nil {
		start, end := parse.DayRange(*f.Date)
		q = q.Where("production_date >= ? AND production_date < ?", start, end)
	}
	var pieces []model.ProductionInfo
	err := q.Order("created_at DESC").Limit(productionLimit).Find(&pieces).Error
	return pieces, translate(err, entityProduction)
}

func jobCardNumber(tx *gorm.DB, id string) (string, error) {
	var card model.CustomerOrder
	if err := tx.Select("id", "job_card_number").First(&card, "id = ?", id).Error; err != nil {
		return "", translate(err, entityJobCard)
	}
	return card.JobCardNumber, nil
}

// nextPieceSuffix returns the sequence following the highest piece number under prefix.
// Piece prefixes are shared by job cards with the same sequence on different days, so the
// next slot comes from existing numbers rather than from one card's piece count.
func nextPieceSuffix(tx *gorm.DB, prefix string) (int, error) {
	var last []model.ProductionInfo
	if err := tx.Select("id", "piece_number").
		Where("piece_number LIKE ?", prefix+"%").
		Order("piece_number DESC").
		Limit(1).
		Find(&last).Error; err != nil {
		return 0, err
	}
	if len(last) > 0 {
		if n, ok := parse.Suffix(last[0].PieceNumber); ok {
			return n + 1, nil
		}
	}
	return 1, nil
}

// CreateProduction records a single piece numbered after the highest piece under its prefix.
func (s *gormStore) CreateProduction(ctx context.Context, p *model.ProductionInfo) error {
	p.JobCard, p.Operator = nil, nil

	err := s.retryOnConflict(ctx, pieceLabel, func(tx *gorm.DB, attempt int) error {
		number, err := jobCardNumber(tx, p.JobCardID)
		if err != nil {
			return err
		}
		prefix := parse.SinglePiecePrefix(s.now(), number)
		next, err := nextPieceSuffix(tx, prefix)
		if err != nil {
			return err
		}
		p.PieceNumber = parse.FormatSequence(prefix, next+attempt)
		return tx.Create(p).Error
	})
	if err != nil {
		return translate(err, entityProduction)
	}
	return translate(s.db.WithContext(ctx).Scopes(preloadPieceJobCard).First(p, "id = ?", p.ID).Error, entityProduction)
}

// CreateProductionBatch records every roll of b in one transaction. Piece numbers continue
// from the highest existing number under the machine/job prefix and are contiguous.
func (s *gormStore) CreateProductionBatch(ctx context.Context, b BulkProduction) ([]model.ProductionInfo, error) {
	if len(b.Weights) == 0 {
		return nil, invalid("rolls array is required and must contain at least one item")
	}

	var ids []string
	err := s.retryOnConflict(ctx, pieceLabel, func(tx *gorm.DB, attempt int) error {
		number, err := jobCardNumber(tx, b.JobCardID)
		if err != nil {
			return err
		}
		prefix := parse.BulkPiecePrefix(b.MachineNumber, number)

		next, err := nextPieceSuffix(tx, prefix)
		if err != nil {
			return err
		}
		next += attempt

		ids = ids[:0]
		machine := b.MachineNumber
		for i, w := range b.Weights {
			piece := b.Template
			piece.ID = ""
			piece.JobCard, piece.Operator = nil, nil
			piece.JobCardID = b.JobCardID
			piece.MachineNumber = &machine
			piece.Weight = w
			piece.PieceNumber = parse.FormatSequence(prefix, next+i)
			if err := tx.Create(&piece).Error; err != nil {
				return err
			}
			ids = append(ids, piece.ID)
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, entityProduction)
	}

	var pieces []model.ProductionInfo
	err = s.db.WithContext(ctx).Scopes(preloadPieceJobCard).
		Where("id IN ?", ids).
		Order("piece_number ASC").
		Find(&pieces).Error
	return pieces, translate(err, entityProduction)
}
