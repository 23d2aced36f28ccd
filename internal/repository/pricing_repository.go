package repository

import (
	"context"

	"gorm.io/gorm"

	"printcalc/internal/models"
)

type PricingRepository interface {
	CreateTier(ctx context.Context, tier *models.PrintingPrice) error
	GetTier(ctx context.Context, id uint) (*models.PrintingPrice, error)
	ListTiers(ctx context.Context, activeOnly bool) ([]models.PrintingPrice, error)
	UpdateTier(ctx context.Context, tier *models.PrintingPrice) error
	DeleteTier(ctx context.Context, id uint) error
	CountTiers(ctx context.Context) (int64, error)

	CreateAddOn(ctx context.Context, addOn *models.AddOn) error
	GetAddOn(ctx context.Context, id uint) (*models.AddOn, error)
	ListAddOns(ctx context.Context, activeOnly bool) ([]models.AddOn, error)
	UpdateAddOn(ctx context.Context, addOn *models.AddOn) error
	DeleteAddOn(ctx context.Context, id uint) error
	CountAddOns(ctx context.Context) (int64, error)
}

type pricingRepository struct {
	db *gorm.DB
}

func NewPricingRepository(db *gorm.DB) PricingRepository {
	return &pricingRepository{db: db}
}

func (r *pricingRepository) CreateTier(ctx context.Context, tier *models.PrintingPrice) error {
	return translate(r.db.WithContext(ctx).Create(tier).Error, "printing price", tier.Name)
}

func (r *pricingRepository) GetTier(ctx context.Context, id uint) (*models.PrintingPrice, error) {
	var tier models.PrintingPrice
	if err := r.db.WithContext(ctx).First(&tier, id).Error; err != nil {
		return nil, translate(err, "printing price", id)
	}
	return &tier, nil
}

func (r *pricingRepository) ListTiers(ctx context.Context, activeOnly bool) ([]models.PrintingPrice, error) {
	var tiers []models.PrintingPrice
	q := r.db.WithContext(ctx).Order("id")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&tiers).Error
	return tiers, translate(err, "printing prices", "")
}

func (r *pricingRepository) UpdateTier(ctx context.Context, tier *models.PrintingPrice) error {
	return translate(r.db.WithContext(ctx).Save(tier).Error, "printing price", tier.ID)
}

func (r *pricingRepository) DeleteTier(ctx context.Context, id uint) error {
	return deleted(r.db.WithContext(ctx).Delete(&models.PrintingPrice{}, id), "printing price", id)
}

func (r *pricingRepository) CountTiers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.PrintingPrice{}).Count(&n).Error
	return n, translate(err, "printing prices", "")
}

func (r *pricingRepository) CreateAddOn(ctx context.Context, addOn *models.AddOn) error {
	return translate(r.db.WithContext(ctx).Create(addOn).Error, "add-on", addOn.Name)
}

func (r *pricingRepository) GetAddOn(ctx context.Context, id uint) (*models.AddOn, error) {
	var addOn models.AddOn
	if err := r.db.WithContext(ctx).First(&addOn, id).Error; err != nil {
		return nil, translate(err, "add-on", id)
	}
	return &addOn, nil
}

func (r *pricingRepository) ListAddOns(ctx context.Context, activeOnly bool) ([]models.AddOn, error) {
	var addOns []models.AddOn
	q := r.db.WithContext(ctx).Order("id")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&addOns).Error
	return addOns, translate(err, "add-ons", "")
}

func (r *pricingRepository) UpdateAddOn(ctx context.Context, addOn *models.AddOn) error {
	return translate(r.db.WithContext(ctx).Save(addOn).Error, "add-on", addOn.ID)
}

func (r *pricingRepository) DeleteAddOn(ctx context.Context, id uint) error {
	return deleted(r.db.WithContext(ctx).Delete(&models.AddOn{}, id), "add-on", id)
}

func (r *pricingRepository) CountAddOns(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.AddOn{}).Count(&n).Error
	return n, translate(err, "add-ons", "")
}
