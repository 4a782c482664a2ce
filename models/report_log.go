package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ActionSentToLandlord   = "SENT_TO_LANDLORD"
	ActionViewedByLandlord = "VIEWED_BY_LANDLORD"
)

// ReportLog est un journal append-only des événements du cycle de vie.
type ReportLog struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	ReportID  uint              `gorm:"not null;index" json:"reportId"`
	Action    string            `gorm:"size:50;not null" json:"action"`
	Timestamp time.Time         `gorm:"not null" json:"timestamp"`
	Details   datatypes.JSONMap `json:"details"`
}
