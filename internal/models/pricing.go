package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PrintingPrice is a printing tier: PricePerUnit is charged for every
// PagesPerUnit pages (rounded up) of each copy.
type PrintingPrice struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Name         string          `json:"name" gorm:"size:100;uniqueIndex;not null"`
	PricePerUnit decimal.Decimal `json:"price_per_unit" gorm:"type:numeric(12,2);not null"`
	PagesPerUnit int             `json:"pages_per_unit" gorm:"not null"`
	Description  string          `json:"description" gorm:"type:text"`
	IsActive     bool            `json:"is_active" gorm:"not null"`
	Orders       []Order         `json:"-" gorm:"foreignKey:PrintingPriceID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// AddOn is a flat per-order extra such as a cover or binding.
type AddOn struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Description string          `json:"description" gorm:"type:text"`
	IsActive    bool            `json:"is_active" gorm:"not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (AddOn) TableName() string { return "add_ons" }
