package model

import "time"

// BreakGlassEvent rows are never updated or deleted.
type BreakGlassEvent struct {
	ID        string    `gorm:"column:id;primaryKey"`
	UserID    string    `gorm:"column:user_id;not null"`
	Reason    string    `gorm:"column:reason"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (BreakGlassEvent) TableName() string {
	return "break_glass_events"
}
