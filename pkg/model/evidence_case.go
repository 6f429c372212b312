package model

import (
	"time"

	"github.com/lib/pq"
)

// EvidenceCase is a row of the evidence_cases table. SnapshotIDs point at
// collector output stored elsewhere.
type EvidenceCase struct {
	ID          string         `gorm:"column:id;primaryKey"`
	DeviceID    string         `gorm:"column:device_id;not null"`
	TicketID    string         `gorm:"column:ticket_id"`
	Summary     string         `gorm:"column:summary"`
	SnapshotIDs pq.StringArray `gorm:"column:snapshot_ids;type:text[]"`
	CreatedBy   string         `gorm:"column:created_by"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
}

func (EvidenceCase) TableName() string {
	return "evidence_cases"
}
