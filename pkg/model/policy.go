package model

import (
	"time"

	"github.com/lib/pq"
)

// Policy is a row of the policies table.
type Policy struct {
	ID              string         `gorm:"column:id;primaryKey"`
	Name            string         `gorm:"column:name;not null"`
	Environment     string         `gorm:"column:environment;not null"`
	AllowList       pq.StringArray `gorm:"column:allow_list;type:text[]"`
	DenyList        pq.StringArray `gorm:"column:deny_list;type:text[]"`
	DangerousList   pq.StringArray `gorm:"column:dangerous_list;type:text[]"`
	RequireApproval bool           `gorm:"column:require_approval"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
}

func (Policy) TableName() string {
	return "policies"
}
