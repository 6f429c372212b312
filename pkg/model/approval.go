package model

import "time"

// ApprovalRequest is a row of the approval_requests table.
type ApprovalRequest struct {
	ID          string     `gorm:"column:id;primaryKey"`
	DeviceID    string     `gorm:"column:device_id;not null"`
	TicketID    string     `gorm:"column:ticket_id;not null"`
	RequestedBy string     `gorm:"column:requested_by"`
	Reason      string     `gorm:"column:reason"`
	Status      string     `gorm:"column:status;not null"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	ResolvedAt  *time.Time `gorm:"column:resolved_at"`
	Approver    *string    `gorm:"column:approver"`
}

func (ApprovalRequest) TableName() string {
	return "approval_requests"
}
