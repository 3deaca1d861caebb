package store

import (
	"context"

	"gorm.io/gorm"

	"gilnokie-backend/internal/metrics"
	"gilnokie-backend/internal/parse"
)

// countWithPrefix counts rows of table whose column starts with prefix.
func countWithPrefix(tx *gorm.DB, table, column, prefix string) (int64, error) {
	var count int64
	err := tx.Table(table).Where(column+" LIKE ?", prefix+"%").Count(&count).Error
	return count, err
}

// retryOnConflict runs fn in a transaction until it commits or fails with something other
// than a unique conflict. attempt starts at 0 and lets fn skip sequence slots that are
// already taken.
func (s *gormStore) retryOnConflict(ctx context.Context, label string, fn func(tx *gorm.DB, attempt int) error) error {
	var err error
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(tx, attempt)
		})
		if err == nil || !isDuplicate(err) {
			return err
		}
		metrics.NumberRetries.WithLabelValues(label).Inc()
	}
	return err
}

// numberedCreate generates the next document number of kind and hands it to create, all
// inside one transaction. A unique conflict rolls the attempt back and retries with the
// next sequence slot, up to the store's attempt limit.
func (s *gormStore) numberedCreate(ctx context.Context, kind parse.DocumentKind, table, column string, create func(tx *gorm.DB, number string) error) error {
	prefix := parse.DocumentPrefix(kind, s.now())
	return s.retryOnConflict(ctx, string(kind), func(tx *gorm.DB, attempt int) error {
		count, err := countWithPrefix(tx, table, column, prefix)
		if err != nil {
			return err
		}
		return create(tx, parse.FormatSequence(prefix, int(count)+1+attempt))
	})
}
