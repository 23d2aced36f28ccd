package services

import (
	"context"
	"errors"
	"fmt"

	"printcalc/internal/apperrors"
	"printcalc/internal/models"
	"printcalc/internal/redis"
	"printcalc/internal/repository"
)

type CartService interface {
	Get(ctx context.Context, sessionID string) (*models.Cart, error)
	Add(ctx context.Context, sessionID string, bookID uint) (*models.Cart, error)
	SetQuantity(ctx context.Context, sessionID string, bookID uint, quantity int) (*models.Cart, error)
	Remove(ctx context.Context, sessionID string, bookID uint) (*models.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type cartService struct {
	store       SessionStore
	catalogRepo repository.CatalogRepository
}

func NewCartService(store SessionStore, catalogRepo repository.CatalogRepository) CartService {
	return &cartService{store: store, catalogRepo: catalogRepo}
}

func loadCart(ctx context.Context, store SessionStore, sessionID string) (*models.Cart, error) {
	var cart models.Cart
	err := store.GetValue(ctx, sessionID, cartKey, &cart)
	if err != nil && !errors.Is(err, redis.ErrNotFound) {
		return nil, apperrors.Internal("failed to load cart", err)
	}
	if cart.Lines == nil {
		cart.Lines = []models.CartLine{}
	}
	return &cart, nil
}

func (s *cartService) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	return loadCart(ctx, s.store, sessionID)
}

// update applies mutate atomically and drops the stored calculation, which no
// longer matches the cart.
func (s *cartService) update(ctx context.Context, sessionID string, mutate func(*models.Cart) error) (*models.Cart, error) {
	var cart models.Cart
	err := s.store.UpdateValue(ctx, sessionID, cartKey, &cart, func() error { return mutate(&cart) })
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.Internal("failed to update cart", err)
	}
	if err := s.store.DeleteValues(ctx, sessionID, lastCalculationKey); err != nil {
		return nil, apperrors.Internal("failed to reset calculation", err)
	}
	if cart.Lines == nil {
		cart.Lines = []models.CartLine{}
	}
	return &cart, nil
}

func (s *cartService) Add(ctx context.Context, sessionID string, bookID uint) (*models.Cart, error) {
	book, err := s.catalogRepo.GetBookView(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, sessionID, func(cart *models.Cart) error {
		if !cart.Add(*book) {
			return apperrors.Validation("quantity", fmt.Sprintf("must not exceed %d", models.MaxLineQuantity))
		}
		return nil
	})
}

func (s *cartService) SetQuantity(ctx context.Context, sessionID string, bookID uint, quantity int) (*models.Cart, error) {
	if quantity < 0 {
		return nil, apperrors.Validation("quantity", "must not be negative")
	}
	if quantity > models.MaxLineQuantity {
		return nil, apperrors.Validation("quantity", fmt.Sprintf("must not exceed %d", models.MaxLineQuantity))
	}
	return s.update(ctx, sessionID, func(cart *models.Cart) error {
		if !cart.SetQuantity(bookID, quantity) {
			return apperrors.NotFound("cart line for book", bookID)
		}
		return nil
	})
}

func (s *cartService) Remove(ctx context.Context, sessionID string, bookID uint) (*models.Cart, error) {
	return s.update(ctx, sessionID, func(cart *models.Cart) error {
		cart.Remove(bookID)
		return nil
	})
}

func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.DeleteValues(ctx, sessionID, cartKey, lastCalculationKey); err != nil {
		return apperrors.Internal("failed to clear cart", err)
	}
	return nil
}
