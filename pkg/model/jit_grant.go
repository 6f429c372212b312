package model

import "time"

type JitGrant struct {
	ID        string    `gorm:"column:id;primaryKey"`
	UserID    string    `gorm:"column:user_id;not null"`
	Role      string    `gorm:"column:role;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
	Reason    string    `gorm:"column:reason"`
	CreatedBy string    `gorm:"column:created_by"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (JitGrant) TableName() string {
	return "jit_grants"
}
