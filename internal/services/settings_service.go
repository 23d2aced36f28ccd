package services

import (
	"context"

	"github.com/shopspring/decimal"

	"printcalc/internal/apperrors"
	"printcalc/internal/models"
	"printcalc/internal/repository"
)

type TierInput struct {
	Name         string          `json:"name" validate:"required,max=100"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	PagesPerUnit int             `json:"pages_per_unit" validate:"gt=0"`
	Description  string          `json:"description"`
	IsActive     *bool           `json:"is_active"`
}

type AddOnInput struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	IsActive    *bool           `json:"is_active"`
}

// PricingOptions is what a clerk can choose from when pricing a cart.
type PricingOptions struct {
	Tiers  []models.PrintingPrice `json:"printing_prices"`
	AddOns []models.AddOn         `json:"add_ons"`
}

// SettingsService manages printing tiers and add-ons.
type SettingsService interface {
	ListTiers(ctx context.Context, activeOnly bool) ([]models.PrintingPrice, error)
	CreateTier(ctx context.Context, in TierInput) (*models.PrintingPrice, error)
	UpdateTier(ctx context.Context, id uint, in TierInput) (*models.PrintingPrice, error)
	DeleteTier(ctx context.Context, id uint) error

	ListAddOns(ctx context.Context, activeOnly bool) ([]models.AddOn, error)
	CreateAddOn(ctx context.Context, in AddOnInput) (*models.AddOn, error)
	UpdateAddOn(ctx context.Context, id uint, in AddOnInput) (*models.AddOn, error)
	DeleteAddOn(ctx context.Context, id uint) error

	Options(ctx context.Context) (*PricingOptions, error)
}

type settingsService struct {
	pricingRepo repository.PricingRepository
}

func NewSettingsService(pricingRepo repository.PricingRepository) SettingsService {
	return &settingsService{pricingRepo: pricingRepo}
}

func (in *TierInput) check() error {
	in.Name = trimmed(in.Name)
	if err := validateInput(in); err != nil {
		return err
	}
	if !in.PricePerUnit.IsPositive() {
		return apperrors.Validation("price_per_unit", "must be greater than zero")
	}
	if !in.PricePerUnit.Equal(in.PricePerUnit.Round(2)) {
		return apperrors.Validation("price_per_unit", "must have at most two decimal places")
	}
	return nil
}

func (in *AddOnInput) check() error {
	in.Name = trimmed(in.Name)
	if err := validateInput(in); err != nil {
		return err
	}
	if in.Price.IsNegative() {
		return apperrors.Validation("price", "must not be negative")
	}
	if !in.Price.Equal(in.Price.Round(2)) {
		return apperrors.Validation("price", "must have at most two decimal places")
	}
	return nil
}

func (s *settingsService) ListTiers(ctx context.Context, activeOnly bool) ([]models.PrintingPrice, error) {
	return s.pricingRepo.ListTiers(ctx, activeOnly)
}

func (s *settingsService) CreateTier(ctx context.Context, in TierInput) (*models.PrintingPrice, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	tier := &models.PrintingPrice{
		Name:         in.Name,
		PricePerUnit: in.PricePerUnit,
		PagesPerUnit: in.PagesPerUnit,
		Description:  in.Description,
		IsActive:     activeOr(in.IsActive, true),
	}
	if err := s.pricingRepo.CreateTier(ctx, tier); err != nil {
		return nil, err
	}
	return tier, nil
}

func (s *settingsService) UpdateTier(ctx context.Context, id uint, in TierInput) (*models.PrintingPrice, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	tier, err := s.pricingRepo.GetTier(ctx, id)
	if err != nil {
		return nil, err
	}
	tier.Name = in.Name
	tier.PricePerUnit = in.PricePerUnit
	tier.PagesPerUnit = in.PagesPerUnit
	tier.Description = in.Description
	tier.IsActive = activeOr(in.IsActive, tier.IsActive)
	if err := s.pricingRepo.UpdateTier(ctx, tier); err != nil {
		return nil, err
	}
	return tier, nil
}

func (s *settingsService) DeleteTier(ctx context.Context, id uint) error {
	return s.pricingRepo.DeleteTier(ctx, id)
}

func (s *settingsService) ListAddOns(ctx context.Context, activeOnly bool) ([]models.AddOn, error) {
	return s.pricingRepo.ListAddOns(ctx, activeOnly)
}

func (s *settingsService) CreateAddOn(ctx context.Context, in AddOnInput) (*models.AddOn, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	addOn := &models.AddOn{
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		IsActive:    activeOr(in.IsActive, true),
	}
	if err := s.pricingRepo.CreateAddOn(ctx, addOn); err != nil {
		return nil, err
	}
	return addOn, nil
}

func (s *settingsService) UpdateAddOn(ctx context.Context, id uint, in AddOnInput) (*models.AddOn, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	addOn, err := s.pricingRepo.GetAddOn(ctx, id)
	if err != nil {
		return nil, err
	}
	addOn.Name = in.Name
	addOn.Price = in.Price
	addOn.Description = in.Description
	addOn.IsActive = activeOr(in.IsActive, addOn.IsActive)
	if err := s.pricingRepo.UpdateAddOn(ctx, addOn); err != nil {
		return nil, err
	}
	return addOn, nil
}

func (s *settingsService) DeleteAddOn(ctx context.Context, id uint) error {
	return s.pricingRepo.DeleteAddOn(ctx, id)
}

func (s *settingsService) Options(ctx context.Context) (*PricingOptions, error) {
	tiers, err := s.pricingRepo.ListTiers(ctx, true)
	if err != nil {
		return nil, err
	}
	addOns, err := s.pricingRepo.ListAddOns(ctx, true)
	if err != nil {
		return nil, err
	}
	return &PricingOptions{Tiers: tiers, AddOns: addOns}, nil
}
