package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"printcalc/internal/apperrors"
	"printcalc/internal/models"
	"printcalc/internal/pricing"
	"printcalc/internal/repository"
)

const maxOrderNumberAttempts = 3

type CustomerInfo struct {
	Name  string `json:"customer_name" validate:"max=120"`
	Phone string `json:"customer_phone" validate:"max=20"`
	Notes string `json:"notes" validate:"max=2000"`
}

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

type OrderPage struct {
	Orders     []models.Order `json:"orders"`
	Pagination Pagination     `json:"pagination"`
}

type OrderService interface {
	// Place persists a priced cart as a new order. Costs are copied from b
	// and never recomputed.
	Place(ctx context.Context, b *pricing.Breakdown, customer CustomerInfo, actorID uint) (*models.Order, error)
	SetStatus(ctx context.Context, orderNumber string, status string, actorID uint) (*models.Order, error)
	FindByTrackingNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	// List pages through orders newest first; statusFilter "" or "all" disables filtering.
	List(ctx context.Context, statusFilter string, page int) (*OrderPage, error)
	Stats(ctx context.Context) (*models.OrderStats, error)
	TrackingURL(orderNumber string) string
}

type orderService struct {
	orderRepo repository.OrderRepository
	notifier  Notifier
	perPage   int
	baseURL   string
	log       *zap.Logger
	tracer    trace.Tracer
	placed    metric.Int64Counter
	now       func() time.Time
	newNumber func() string
}

func NewOrderService(orderRepo repository.OrderRepository, notifier Notifier, perPage int, baseURL string, log *zap.Logger) OrderService {
	if perPage <= 0 {
		perPage = 20
	}
	return &orderService{
		orderRepo: orderRepo,
		notifier:  notifier,
		perPage:   perPage,
		baseURL:   baseURL,
		log:       log,
		tracer:    otel.Tracer("printcalc/orders"),
		placed:    newPlacedCounter(otel.Meter("printcalc/services")),
		now:       time.Now,
		newNumber: uuid.NewString,
	}
}

func newPlacedCounter(meter metric.Meter) metric.Int64Counter {
	placed, err := meter.Int64Counter("orders_placed_total", metric.WithDescription("Orders placed"))
	if err != nil {
		return noop.Int64Counter{}
	}
	return placed
}

func (s *orderService) TrackingURL(orderNumber string) string {
	return TrackingURL(s.baseURL, orderNumber)
}

func (s *orderService) Place(ctx context.Context, b *pricing.Breakdown, customer CustomerInfo, actorID uint) (*models.Order, error) {
	ctx, span := s.tracer.Start(ctx, "orders.place")
	defer span.End()

	if b == nil || len(b.Items) == 0 {
		return nil, apperrors.Validation("cart", "cart is empty")
	}
	customer.Name = trimmed(customer.Name)
	customer.Phone = trimmed(customer.Phone)
	if err := validateInput(customer); err != nil {
		return nil, err
	}

	addOnIDs, err := json.Marshal(b.AddOnIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to encode add-ons: %w", err)
	}

	var order *models.Order
	for attempt := 1; ; attempt++ {
		order = s.buildOrder(b, customer, addOnIDs, actorID)
		err = s.orderRepo.CreateWithItems(ctx, order)
		if err == nil {
			break
		}
		// A clashing order number is retried with a fresh one.
		if apperrors.Is(err, apperrors.CodeConflict) && attempt < maxOrderNumberAttempts {
			continue
		}
		span.RecordError(err)
		s.log.Error("order placement failed", zap.Error(err), zap.Uint("employee_id", actorID))
		return nil, err
	}

	span.SetAttributes(
		attribute.String("order.number", order.OrderNumber),
		attribute.Int("order.items", len(order.Items)),
	)
	s.placed.Add(ctx, 1)
	s.log.Info("order placed",
		zap.String("order_number", order.OrderNumber),
		zap.String("total", order.TotalCost.StringFixed(2)),
		zap.Uint("employee_id", actorID))

	if err := s.notifier.OrderPlaced(ctx, order, s.TrackingURL(order.OrderNumber)); err != nil {
		s.log.Warn("order placed notification failed", zap.String("order_number", order.OrderNumber), zap.Error(err))
	}
	return order, nil
}

func (s *orderService) buildOrder(b *pricing.Breakdown, customer CustomerInfo, addOnIDs []byte, actorID uint) *models.Order {
	order := &models.Order{
		OrderNumber:       s.newNumber(),
		CustomerName:      customer.Name,
		CustomerPhone:     customer.Phone,
		Notes:             customer.Notes,
		PrintingSubtotal:  b.PrintingSubtotal,
		AddOnSubtotal:     b.AddOnSubtotal,
		TotalCost:         b.Total,
		Status:            models.OrderNew,
		PrintingPriceName: b.Tier.Name,
		SelectedAddOns:    addOnIDs,
		Items:             make([]models.OrderItem, 0, len(b.Items)),
	}
	if b.Tier.ID != 0 {
		tierID := b.Tier.ID
		order.PrintingPriceID = &tierID
	}
	if actorID != 0 {
		order.EmployeeID = &actorID
	}
	for _, item := range b.Items {
		oi := models.OrderItem{
			BookName:  item.BookName,
			PageCount: item.PageCount,
			Units:     item.Units,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
			TotalCost: item.LineTotal,
		}
		if item.BookID != 0 {
			bookID := item.BookID
			oi.BookID = &bookID
		}
		order.Items = append(order.Items, oi)
	}
	return order
}

func (s *orderService) SetStatus(ctx context.Context, orderNumber string, status string, actorID uint) (*models.Order, error) {
	next := models.OrderStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return nil, apperrors.Validation("status", "must be one of: new, in_progress, completed")
	}

	order, err := s.orderRepo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot change order status from %s to %s", order.Status, next))
	}

	from := order.Status
	order.Status = next
	if next == models.OrderCompleted {
		now := s.now()
		order.CompletedAt = &now
	}
	if actorID != 0 {
		order.EmployeeID = &actorID
	}
	if err := s.orderRepo.UpdateStatus(ctx, order, from); err != nil {
		return nil, err
	}

	s.log.Info("order status changed",
		zap.String("order_number", order.OrderNumber),
		zap.String("status", string(next)),
		zap.Uint("employee_id", actorID))

	if next == models.OrderCompleted {
		if err := s.notifier.OrderCompleted(ctx, order, s.TrackingURL(order.OrderNumber)); err != nil {
			s.log.Warn("order completed notification failed", zap.String("order_number", order.OrderNumber), zap.Error(err))
		}
	}
	return order, nil
}

func (s *orderService) FindByTrackingNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, apperrors.NotFound("order", `""`)
	}
	return s.orderRepo.GetByNumber(ctx, orderNumber)
}

func (s *orderService) List(ctx context.Context, statusFilter string, page int) (*OrderPage, error) {
	var status models.OrderStatus
	switch f := strings.TrimSpace(statusFilter); f {
	case "", "all":
	default:
		status = models.OrderStatus(f)
		if !status.Valid() {
			return nil, apperrors.Validation("status", "must be one of: all, new, in_progress, completed")
		}
	}
	if page < 1 {
		page = 1
	}

	orders, total, err := s.orderRepo.List(ctx, status, (page-1)*s.perPage, s.perPage)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}

	totalPages := int((total + int64(s.perPage) - 1) / int64(s.perPage))
	return &OrderPage{
		Orders: orders,
		Pagination: Pagination{
			Page:       page,
			PerPage:    s.perPage,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}

func (s *orderService) Stats(ctx context.Context) (*models.OrderStats, error) {
	return s.orderRepo.Stats(ctx)
}
