package model

import "time"

// PushSubscription holds a browser push subscription and the job cards it follows.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey" json:"endpoint"`
	P256DH    string    `gorm:"column:p256dh;not null" json:"p256dh"`
	Auth      string    `gorm:"not null" json:"auth"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`

	// Associations
	JobCards []*CustomerOrder `gorm:"many2many:subscription_job_cards;" json:"jobCards,omitempty"`
}
