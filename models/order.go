package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrderStatusConfirmed = "confirmed"

	DeliveryPickup  = "pickup"
	DeliveryCourier = "courier"

	PaymentMethodPayPal = "paypal"
)

// Order is created exactly once per captured payment. PayPalOrderID carries
// the unique index that makes capture idempotent: a second insert for the
// same gateway order fails with a duplicate-key error instead of producing
// a second row.
type Order struct {
	ID     uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`

	// Guest contact block, populated only when no authenticated user owns
	// the order.
	CustomerName  string `gorm:"type:varchar(100)" json:"customer_name,omitempty"`
	CustomerPhone string `gorm:"type:varchar(30)" json:"customer_phone,omitempty"`
	CustomerEmail string `gorm:"type:varchar(255)" json:"customer_email,omitempty"`

	Total          float64 `gorm:"not null" json:"total"`           // business currency
	CapturedAmount float64 `gorm:"not null" json:"captured_amount"` // settlement currency

	DeliveryMethod string    `gorm:"type:varchar(20);not null" json:"delivery_method"`
	ScheduledFor   time.Time `json:"scheduled_for"`
	Notes          string    `gorm:"type:varchar(500)" json:"notes,omitempty"`

	PaymentMethod   string `gorm:"type:varchar(20);not null" json:"payment_method"`
	PayPalOrderID   string `gorm:"type:varchar(64);uniqueIndex;not null" json:"paypal_order_id"`
	PayPalCaptureID string `gorm:"type:varchar(64)" json:"paypal_capture_id"`

	Status    string         `gorm:"type:varchar(20);not null;default:'confirmed'" json:"status"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	UnitPrice float64   `gorm:"not null" json:"unit_price"`
}
