package model

import "time"

type MaintenanceWindow struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Title       string    `gorm:"column:title"`
	Environment string    `gorm:"column:environment;not null"`
	StartAt     time.Time `gorm:"column:start_at"`
	EndAt       time.Time `gorm:"column:end_at"`
	CreatedBy   string    `gorm:"column:created_by"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (MaintenanceWindow) TableName() string {
	return "maintenance_windows"
}
