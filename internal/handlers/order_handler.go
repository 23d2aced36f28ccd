package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"printcalc/internal/models"
	"printcalc/internal/services"
)

type OrderHandler struct {
	orderService    services.OrderService
	checkoutService services.CheckoutService
	log             *zap.Logger
}

func NewOrderHandler(orderService services.OrderService, checkoutService services.CheckoutService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{orderService: orderService, checkoutService: checkoutService, log: log}
}

// Place turns the session's calculated cart into an order and returns the invoice.
func (h *OrderHandler) Place(c *gin.Context) {
	var in services.PlaceOrderInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, h.log, err)
		return
	}
	claims := currentClaims(c)
	invoice, err := h.checkoutService.PlaceOrder(c.Request.Context(), claims.SessionID(), in, claims.EmployeeID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	created(c, invoice)
}

func (h *OrderHandler) List(c *gin.Context) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	result, err := h.orderService.List(c.Request.Context(), c.Query("status"), page)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, result)
}

func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orderService.FindByTrackingNumber(c.Request.Context(), c.Param("order_number"))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, gin.H{"order": order, "tracking_url": h.orderService.TrackingURL(order.OrderNumber)})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, h.log, err)
		return
	}
	order, err := h.orderService.SetStatus(c.Request.Context(), c.Param("order_number"), req.Status, currentClaims(c).EmployeeID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, order)
}

type trackedItem struct {
	BookName string `json:"book_name"`
	Quantity int    `json:"quantity"`
}

// trackingView is what an unauthenticated customer may see of an order.
type trackingView struct {
	OrderNumber  string             `json:"order_number"`
	CustomerName string             `json:"customer_name"`
	Status       models.OrderStatus `json:"status"`
	TotalCost    decimal.Decimal    `json:"total_cost"`
	Items        []trackedItem      `json:"items"`
	CreatedAt    time.Time          `json:"created_at"`
	CompletedAt  *time.Time         `json:"completed_at"`
}

func newTrackingView(o *models.Order) trackingView {
	v := trackingView{
		OrderNumber:  o.OrderNumber,
		CustomerName: o.CustomerName,
		Status:       o.Status,
		TotalCost:    o.TotalCost,
		Items:        make([]trackedItem, 0, len(o.Items)),
		CreatedAt:    o.CreatedAt,
		CompletedAt:  o.CompletedAt,
	}
	for _, item := range o.Items {
		v.Items = append(v.Items, trackedItem{BookName: item.BookName, Quantity: item.Quantity})
	}
	return v
}

// Track is the public customer tracking endpoint.
func (h *OrderHandler) Track(c *gin.Context) {
	order, err := h.orderService.FindByTrackingNumber(c.Request.Context(), c.Param("order_number"))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, newTrackingView(order))
}

func (h *OrderHandler) Dashboard(c *gin.Context) {
	stats, err := h.orderService.Stats(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, stats)
}
