package repository

import (
	"context"
	"errors"

	"github.com/diegova8/food-manager-backend/models"

	"gorm.io/gorm"
)

// ErrDuplicateOrder is returned by Create when an order for the same gateway
// order reference already exists. Callers treat it as the idempotent-success
// path: the winning row is the order.
var ErrDuplicateOrder = errors.New("order already exists for gateway order reference")

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByPayPalOrderID(ctx context.Context, paypalOrderID string) (*models.Order, error)
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order and its items in one atomic write. The unique
// index on paypal_order_id is what actually enforces once-per-capture; two
// racing inserts resolve to one row and one ErrDuplicateOrder.
func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateOrder
		}
		return err
	}
	return nil
}

// FindByPayPalOrderID returns (nil, nil) when no order exists for the
// reference.
func (r *GormOrderRepository) FindByPayPalOrderID(ctx context.Context, paypalOrderID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Where("pay_pal_order_id = ?", paypalOrderID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}
