package storage

import (
	"time"

	"gorm.io/datatypes"
)

// UsageLog is the persistence model for one day's wear record. The composite
// unique index on (token, date) is what enforces the one-entry-per-day rule;
// concurrent writers for the same key race on last-write-wins.
type UsageLog struct {
	ID                      uint      `gorm:"primaryKey" json:"-"`
	Token                   string    `gorm:"uniqueIndex:idx_usage_logs_token_date;index;not null" json:"token"`
	Date                    string    `gorm:"uniqueIndex:idx_usage_logs_token_date;not null" json:"date"`
	WearType                string    `gorm:"not null" json:"wearType"`
	LensUsageDays           int       `gorm:"default:0" json:"lensUsageDays"`
	LastLensReplacementDate *string   `json:"lastLensReplacementDate"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

func (UsageLog) TableName() string {
	return "usage_logs"
}

// DomainEvent is the audit row written for every mutating store operation.
type DomainEvent struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	EventType string         `gorm:"index;not null" json:"event_type"`
	Token     string         `gorm:"index" json:"token"`
	Data      datatypes.JSON `gorm:"not null" json:"data"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}

func (DomainEvent) TableName() string {
	return "domain_events"
}
