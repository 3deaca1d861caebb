package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gilnokie-backend/internal/model"
)

const entitySubscription = "Subscription"

// SaveSubscription upserts a push subscription and replaces the job cards it follows.
// Unknown job card ids are ignored.
func (s *gormStore) SaveSubscription(ctx context.Context, sub *model.PushSubscription, jobCardIDs []string) error {
	sub.JobCards = nil
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = s.now()
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Omit(clause.Associations).Create(sub).Error; err != nil {
			return err
		}

		cards := []*model.CustomerOrder{}
		if len(jobCardIDs) > 0 {
			if err := tx.Where("id IN ?", jobCardIDs).Find(&cards).Error; err != nil {
				return err
			}
		}
		return tx.Model(sub).Association("JobCards").Replace(cards)
	})
	return translate(err, entitySubscription)
}

func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).
		Preload("JobCards", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "job_card_number", "status")
		}).
		First(&sub, "endpoint = ?", endpoint).Error
	if err != nil {
		return nil, translate(err, entitySubscription)
	}
	return &sub, nil
}

// DeleteSubscription removes a subscription together with its job card links.
func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM subscription_job_cards WHERE push_subscription_endpoint = ?", endpoint).Error; err != nil {
			return err
		}
		return tx.Delete(&model.PushSubscription{}, "endpoint = ?", endpoint).Error
	})
	return translate(err, entitySubscription)
}

// SubscriptionsForJobCard lists the subscriptions following a job card.
func (s *gormStore) SubscriptionsForJobCard(ctx context.Context, jobCardID string) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).
		Joins("JOIN subscription_job_cards sjc ON sjc.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("sjc.customer_order_id = ?", jobCardID).
		Find(&subs).Error
	return subs, translate(err, entitySubscription)
}
