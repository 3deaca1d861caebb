package model

import "time"

// Machine statuses.
const (
	MachineActive      = "active"
	MachineMaintenance = "maintenance"
	MachineInactive    = "inactive"
)

// MachineSpecification represents a knitting machine on the floor.
type MachineSpecification struct {
	Base
	MachineNumber string     `gorm:"uniqueIndex;size:32;not null" json:"machineNumber"`
	MachineName   string     `gorm:"size:128;not null" json:"machineName"`
	MachineType   string     `gorm:"size:64;not null;index" json:"machineType"`
	Gauge         *string    `gorm:"size:32" json:"gauge"`
	Diameter      *int       `json:"diameter"`
	Feeders       *int       `json:"feeders"`
	MaxSpeed      *int       `json:"maxSpeed"`
	Status        string     `gorm:"size:32;not null;index" json:"status"`
	Notes         *string    `json:"notes"`
	DeletedAt     *time.Time `gorm:"index" json:"deletedAt"`
}
