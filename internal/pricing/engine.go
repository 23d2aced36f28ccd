// Package pricing turns cart lines, a printing tier and add-ons into a cost
// breakdown. It does no I/O.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"printcalc/internal/apperrors"
)

type Line struct {
	BookID      uint   `json:"book_id"`
	BookName    string `json:"book_name"`
	PageCount   int    `json:"page_count"`
	Quantity    int    `json:"quantity"`
	SubjectName string `json:"subject_name,omitempty"`
	YearName    string `json:"year_name,omitempty"`
}

type Tier struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	PagesPerUnit int             `json:"pages_per_unit"`
}

type AddOn struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type ItemCost struct {
	Line
	Units     int             `json:"units"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type Breakdown struct {
	Items            []ItemCost      `json:"items"`
	Tier             Tier            `json:"tier"`
	AddOns           []AddOn         `json:"add_ons"`
	PrintingSubtotal decimal.Decimal `json:"printing_subtotal"`
	AddOnSubtotal    decimal.Decimal `json:"add_on_subtotal"`
	Total            decimal.Decimal `json:"total"`
}

// AddOnIDs lists the add-ons that were charged.
func (b *Breakdown) AddOnIDs() []uint {
	ids := make([]uint, 0, len(b.AddOns))
	for _, a := range b.AddOns {
		ids = append(ids, a.ID)
	}
	return ids
}

// Units is the number of billable units for one copy: pages divided by
// pagesPerUnit, rounded up.
func Units(pageCount, pagesPerUnit int) (int, error) {
	if pagesPerUnit <= 0 {
		return 0, apperrors.Configuration(fmt.Sprintf("pages per unit must be positive, got %d", pagesPerUnit))
	}
	if pageCount <= 0 {
		return 0, apperrors.Validation("page_count", "must be greater than zero")
	}
	return (pageCount + pagesPerUnit - 1) / pagesPerUnit, nil
}

// Calculate prices lines under tier and charges every available add-on whose
// id appears in selected. Unknown or repeated ids in selected are ignored.
func Calculate(lines []Line, tier Tier, available []AddOn, selected []uint) (*Breakdown, error) {
	if len(lines) == 0 {
		return nil, apperrors.Validation("cart", "cart is empty")
	}
	if tier.PagesPerUnit <= 0 {
		return nil, fmt.Errorf("printing tier %q: %w", tier.Name,
			apperrors.Configuration(fmt.Sprintf("pages per unit must be positive, got %d", tier.PagesPerUnit)))
	}
	if !tier.PricePerUnit.IsPositive() {
		return nil, fmt.Errorf("printing tier %q: %w", tier.Name,
			apperrors.Configuration("price per unit must be positive"))
	}

	b := &Breakdown{
		Items:            make([]ItemCost, 0, len(lines)),
		Tier:             tier,
		AddOns:           []AddOn{},
		PrintingSubtotal: decimal.Zero,
		AddOnSubtotal:    decimal.Zero,
	}

	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, apperrors.Validation("quantity", fmt.Sprintf("quantity for %q must be greater than zero", line.BookName))
		}
		units, err := Units(line.PageCount, tier.PagesPerUnit)
		if err != nil {
			return nil, fmt.Errorf("book %q: %w", line.BookName, err)
		}
		unitCost := tier.PricePerUnit.Mul(decimal.NewFromInt(int64(units)))
		lineTotal := unitCost.Mul(decimal.NewFromInt(int64(line.Quantity)))

		b.Items = append(b.Items, ItemCost{Line: line, Units: units, UnitCost: unitCost, LineTotal: lineTotal})
		b.PrintingSubtotal = b.PrintingSubtotal.Add(lineTotal)
	}

	wanted := make(map[uint]struct{}, len(selected))
	for _, id := range selected {
		wanted[id] = struct{}{}
	}
	seen := make(map[uint]struct{}, len(available))
	for _, addOn := range available {
		if _, ok := wanted[addOn.ID]; !ok {
			continue
		}
		if _, dup := seen[addOn.ID]; dup {
			continue
		}
		seen[addOn.ID] = struct{}{}
		b.AddOns = append(b.AddOns, addOn)
		b.AddOnSubtotal = b.AddOnSubtotal.Add(addOn.Price)
	}

	b.Total = b.PrintingSubtotal.Add(b.AddOnSubtotal)
	return b, nil
}
