package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one priced cart line frozen at placement time. BookID is
// cleared when the book is deleted; the name and page snapshot remain.
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   uint            `json:"order_id" gorm:"not null;index"`
	BookID    *uint           `json:"book_id" gorm:"index"`
	BookName  string          `json:"book_name" gorm:"size:200;not null"`
	PageCount int             `json:"page_count" gorm:"not null"`
	Units     int             `json:"units" gorm:"not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitCost  decimal.Decimal `json:"unit_cost" gorm:"type:numeric(12,2);not null"`
	TotalCost decimal.Decimal `json:"total_cost" gorm:"type:numeric(12,2);not null"`
	CreatedAt time.Time       `json:"created_at"`
}
