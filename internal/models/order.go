package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Order struct {
	ID                uint            `json:"id" gorm:"primaryKey"`
	OrderNumber       string          `json:"order_number" gorm:"size:36;uniqueIndex;not null"`
	CustomerName      string          `json:"customer_name" gorm:"size:120"`
	CustomerPhone     string          `json:"customer_phone" gorm:"size:20"`
	PrintingSubtotal  decimal.Decimal `json:"printing_subtotal" gorm:"type:numeric(12,2);not null"`
	AddOnSubtotal     decimal.Decimal `json:"add_on_subtotal" gorm:"type:numeric(12,2);not null"`
	TotalCost         decimal.Decimal `json:"total_cost" gorm:"type:numeric(12,2);not null"`
	Status            OrderStatus     `json:"status" gorm:"size:20;not null;index"`
	PrintingPriceID   *uint           `json:"printing_price_id" gorm:"index"`
	PrintingPriceName string          `json:"printing_price_name" gorm:"size:100"`
	SelectedAddOns    datatypes.JSON  `json:"selected_add_ons"`
	Notes             string          `json:"notes" gorm:"type:text"`
	EmployeeID        *uint           `json:"employee_id" gorm:"index"`
	Items             []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt         time.Time       `json:"created_at" gorm:"index"`
	CompletedAt       *time.Time      `json:"completed_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type OrderStatus string

const (
	OrderNew        OrderStatus = "new"
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderNew:        {OrderInProgress, OrderCompleted},
	OrderInProgress: {OrderCompleted},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderNew, OrderInProgress, OrderCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether an order may move from s to next.
// Orders only move forward; completed is terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderStats counts orders per status.
type OrderStats struct {
	Total      int64 `json:"total"`
	New        int64 `json:"new"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
}
