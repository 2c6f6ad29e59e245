package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChannelInternal = "internal"
	ChannelEmail    = "email"

	NotificationStatusCreated = "created"
	NotificationStatusFailed  = "failed"

	TypeOrderConfirmed = "order_confirmed"
)

// NotificationLog records the admin-visible side effects generated after an
// order is persisted. Rows here are best-effort: losing one never rolls back
// the order it points at.
type NotificationLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	Recipient string    `gorm:"type:varchar(255)" json:"recipient"`
	Type      string    `gorm:"type:varchar(40)" json:"type"`
	Channel   string    `gorm:"type:varchar(20)" json:"channel"`
	Status    string    `gorm:"type:varchar(20)" json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NotificationFilter struct {
	Status   string
	Channel  string
	Page     int
	PageSize int
}
