package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"printcalc/internal/apperrors"
	"printcalc/internal/models"
)

type OrderRepository interface {
	// CreateWithItems inserts the order and its items in one transaction.
	CreateWithItems(ctx context.Context, order *models.Order) error
	GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	List(ctx context.Context, status models.OrderStatus, offset, limit int) ([]models.Order, int64, error)
	// UpdateStatus writes the order's status fields if the stored status is
	// still from; otherwise it reports a conflict.
	UpdateStatus(ctx context.Context, order *models.Order, from models.OrderStatus) error
	Stats(ctx context.Context) (*models.OrderStats, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateWithItems(ctx context.Context, order *models.Order) error {
	items := order.Items
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(order).Error; err != nil {
			return translate(err, "order", order.OrderNumber)
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return translate(err, "order item", order.OrderNumber)
		}
		return nil
	})
	if err != nil {
		order.ID = 0
		return err
	}
	order.Items = items
	return nil
}

func (r *orderRepository) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if err != nil {
		return nil, translate(err, "order", orderNumber)
	}
	return &order, nil
}

// List returns one page of orders, newest first. An empty status lists all.
func (r *orderRepository) List(ctx context.Context, status models.OrderStatus, offset, limit int) ([]models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "orders", "")
	}

	var orders []models.Order
	err := q.Order("created_at DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&orders).Error
	if err != nil {
		return nil, 0, translate(err, "orders", "")
	}
	return orders, total, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, order *models.Order, from models.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, from).
		Updates(map[string]interface{}{
			"status":       order.Status,
			"completed_at": order.CompletedAt,
			"employee_id":  order.EmployeeID,
		})
	if res.Error != nil {
		return translate(res.Error, "order", order.OrderNumber)
	}
	if res.RowsAffected == 0 {
		return apperrors.Conflict(fmt.Sprintf("order %s is no longer %s", order.OrderNumber, from))
	}
	return nil
}

func (r *orderRepository) Stats(ctx context.Context) (*models.OrderStats, error) {
	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "orders", "")
	}

	var stats models.OrderStats
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case models.OrderNew:
			stats.New = row.Count
		case models.OrderInProgress:
			stats.InProgress = row.Count
		case models.OrderCompleted:
			stats.Completed = row.Count
		}
	}
	return &stats, nil
}
