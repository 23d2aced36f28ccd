package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"printcalc/internal/apperrors"
	"printcalc/internal/models"
	"printcalc/internal/pricing"
	"printcalc/internal/redis"
	"printcalc/internal/repository"
)

type CalculateInput struct {
	PrintingPriceID uint   `json:"printing_price_id" validate:"required"`
	AddOnIDs        []uint `json:"add_on_ids"`
}

type QuoteInput struct {
	BookID          uint   `json:"book_id" validate:"required"`
	PrintingPriceID uint   `json:"printing_price_id" validate:"required"`
	AddOnIDs        []uint `json:"add_on_ids"`
	Quantity        int    `json:"quantity" validate:"gte=0,lte=10000"`
}

type PlaceOrderInput struct {
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Notes         string          `json:"notes"`
}

// Invoice is what the clerk hands to the customer after placing an order.
type Invoice struct {
	Order       *models.Order      `json:"order"`
	Calculation *pricing.Breakdown `json:"calculation"`
	AmountPaid  decimal.Decimal    `json:"amount_paid"`
	BalanceDue  decimal.Decimal    `json:"balance_due"`
	TrackingURL string             `json:"tracking_url"`
}

// CheckoutService prices the session cart and turns the priced cart into an order.
type CheckoutService interface {
	Calculate(ctx context.Context, sessionID string, in CalculateInput) (*pricing.Breakdown, error)
	LastCalculation(ctx context.Context, sessionID string) (*pricing.Breakdown, error)
	QuoteBook(ctx context.Context, in QuoteInput) (*pricing.Breakdown, error)
	PlaceOrder(ctx context.Context, sessionID string, in PlaceOrderInput, actorID uint) (*Invoice, error)
}

type checkoutService struct {
	store        SessionStore
	catalogRepo  repository.CatalogRepository
	pricingRepo  repository.PricingRepository
	orderService OrderService
	log          *zap.Logger
	tracer       trace.Tracer
}

func NewCheckoutService(
	store SessionStore,
	catalogRepo repository.CatalogRepository,
	pricingRepo repository.PricingRepository,
	orderService OrderService,
	log *zap.Logger,
) CheckoutService {
	return &checkoutService{
		store:        store,
		catalogRepo:  catalogRepo,
		pricingRepo:  pricingRepo,
		orderService: orderService,
		log:          log,
		tracer:       otel.Tracer("printcalc/checkout"),
	}
}

func toTier(p *models.PrintingPrice) pricing.Tier {
	return pricing.Tier{ID: p.ID, Name: p.Name, PricePerUnit: p.PricePerUnit, PagesPerUnit: p.PagesPerUnit}
}

func toAddOns(addOns []models.AddOn) []pricing.AddOn {
	out := make([]pricing.AddOn, 0, len(addOns))
	for _, a := range addOns {
		out = append(out, pricing.AddOn{ID: a.ID, Name: a.Name, Price: a.Price})
	}
	return out
}

// priceLines loads the tier and active add-ons and runs the engine.
func (s *checkoutService) priceLines(ctx context.Context, lines []pricing.Line, tierID uint, addOnIDs []uint) (*pricing.Breakdown, error) {
	tier, err := s.pricingRepo.GetTier(ctx, tierID)
	if err != nil {
		return nil, err
	}
	if !tier.IsActive {
		return nil, apperrors.Validation("printing_price_id", "printing price is not available")
	}
	addOns, err := s.pricingRepo.ListAddOns(ctx, true)
	if err != nil {
		return nil, err
	}

	b, err := pricing.Calculate(lines, toTier(tier), toAddOns(addOns), addOnIDs)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeConfiguration) {
			s.log.Error("pricing misconfigured", zap.Uint("printing_price_id", tier.ID), zap.Error(err))
		}
		return nil, err
	}
	return b, nil
}

func (s *checkoutService) Calculate(ctx context.Context, sessionID string, in CalculateInput) (*pricing.Breakdown, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.calculate")
	defer span.End()

	if err := validateInput(in); err != nil {
		return nil, err
	}
	cart, err := loadCart(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperrors.Validation("cart", "cart is empty")
	}

	// Page counts come from the catalog, not from the cart snapshot.
	lines := make([]pricing.Line, 0, len(cart.Lines))
	for _, cl := range cart.Lines {
		book, err := s.catalogRepo.GetBookView(ctx, cl.BookID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, pricing.Line{
			BookID:      book.ID,
			BookName:    book.Name,
			PageCount:   book.PageCount,
			Quantity:    cl.Quantity,
			SubjectName: book.SubjectName,
			YearName:    book.YearName,
		})
	}

	b, err := s.priceLines(ctx, lines, in.PrintingPriceID, in.AddOnIDs)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := s.store.SetValue(ctx, sessionID, lastCalculationKey, b); err != nil {
		return nil, apperrors.Internal("failed to store calculation", err)
	}

	span.SetAttributes(attribute.Int("cart.lines", len(lines)), attribute.String("total", b.Total.StringFixed(2)))
	return b, nil
}

func (s *checkoutService) LastCalculation(ctx context.Context, sessionID string) (*pricing.Breakdown, error) {
	var b pricing.Breakdown
	if err := s.store.GetValue(ctx, sessionID, lastCalculationKey, &b); err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return nil, apperrors.NotFound("calculation for session", "")
		}
		return nil, apperrors.Internal("failed to load calculation", err)
	}
	return &b, nil
}

func (s *checkoutService) QuoteBook(ctx context.Context, in QuoteInput) (*pricing.Breakdown, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	book, err := s.catalogRepo.GetBookView(ctx, in.BookID)
	if err != nil {
		return nil, err
	}
	line := pricing.Line{
		BookID:      book.ID,
		BookName:    book.Name,
		PageCount:   book.PageCount,
		Quantity:    in.Quantity,
		SubjectName: book.SubjectName,
		YearName:    book.YearName,
	}
	return s.priceLines(ctx, []pricing.Line{line}, in.PrintingPriceID, in.AddOnIDs)
}

func (s *checkoutService) PlaceOrder(ctx context.Context, sessionID string, in PlaceOrderInput, actorID uint) (*Invoice, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.place_order")
	defer span.End()

	if in.AmountPaid.IsNegative() {
		return nil, apperrors.Validation("amount_paid", "must not be negative")
	}

	cart, err := loadCart(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperrors.Validation("cart", "cart is empty")
	}
	b, err := s.LastCalculation(ctx, sessionID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Validation("calculation", "calculate the cart cost before placing an order")
		}
		return nil, err
	}
	if !calculatedFor(b, cart) {
		return nil, apperrors.Conflict("cart changed since it was calculated, recalculate before placing the order")
	}

	order, err := s.orderService.Place(ctx, b, CustomerInfo{
		Name:  in.CustomerName,
		Phone: in.CustomerPhone,
		Notes: in.Notes,
	}, actorID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	// The order is committed; a stale cart is only an inconvenience.
	if err := s.releaseCart(ctx, sessionID, b); err != nil {
		s.log.Warn("failed to clear cart after placement", zap.String("order_number", order.OrderNumber), zap.Error(err))
	}

	balance := order.TotalCost.Sub(in.AmountPaid)
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	return &Invoice{
		Order:       order,
		Calculation: b,
		AmountPaid:  in.AmountPaid,
		BalanceDue:  balance,
		TrackingURL: s.orderService.TrackingURL(order.OrderNumber),
	}, nil
}

// calculatedFor reports whether b priced exactly the books and quantities in cart.
func calculatedFor(b *pricing.Breakdown, cart *models.Cart) bool {
	if len(b.Items) != len(cart.Lines) {
		return false
	}
	for i, item := range b.Items {
		if item.BookID != cart.Lines[i].BookID || item.Quantity != cart.Lines[i].Quantity {
			return false
		}
	}
	return true
}

// releaseCart takes the ordered copies out of the cart. Copies added while the
// order was being placed stay in the cart.
func (s *checkoutService) releaseCart(ctx context.Context, sessionID string, b *pricing.Breakdown) error {
	var cart models.Cart
	err := s.store.UpdateValue(ctx, sessionID, cartKey, &cart, func() error {
		for _, item := range b.Items {
			for _, line := range cart.Lines {
				if line.BookID == item.BookID {
					cart.SetQuantity(item.BookID, line.Quantity-item.Quantity)
					break
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.store.DeleteValues(ctx, sessionID, lastCalculationKey)
}
