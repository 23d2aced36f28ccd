package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printcalc/internal/services"
)

// CartHandler serves the cart of the caller's login session.
type CartHandler struct {
	cartService     services.CartService
	checkoutService services.CheckoutService
	log             *zap.Logger
}

func NewCartHandler(cartService services.CartService, checkoutService services.CheckoutService, log *zap.Logger) *CartHandler {
	return &CartHandler{cartService: cartService, checkoutService: checkoutService, log: log}
}

func sessionID(c *gin.Context) string { return currentClaims(c).SessionID() }

func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.cartService.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, cart)
}

func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context(), sessionID(c)); err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, gin.H{"message": "cart cleared"})
}

func (h *CartHandler) AddItem(c *gin.Context) {
	bookID, err := paramID(c, "book_id")
	if err != nil {
		fail(c, h.log, err)
		return
	}
	cart, err := h.cartService.Add(c.Request.Context(), sessionID(c), bookID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, cart)
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) SetQuantity(c *gin.Context) {
	bookID, err := paramID(c, "book_id")
	if err != nil {
		fail(c, h.log, err)
		return
	}
	var req quantityRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, h.log, err)
		return
	}
	cart, err := h.cartService.SetQuantity(c.Request.Context(), sessionID(c), bookID, req.Quantity)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, cart)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	bookID, err := paramID(c, "book_id")
	if err != nil {
		fail(c, h.log, err)
		return
	}
	cart, err := h.cartService.Remove(c.Request.Context(), sessionID(c), bookID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, cart)
}

func (h *CartHandler) Calculate(c *gin.Context) {
	var in services.CalculateInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, h.log, err)
		return
	}
	b, err := h.checkoutService.Calculate(c.Request.Context(), sessionID(c), in)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, b)
}

func (h *CartHandler) LastCalculation(c *gin.Context) {
	b, err := h.checkoutService.LastCalculation(c.Request.Context(), sessionID(c))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, b)
}

// Quote prices copies of a single book without touching the cart.
func (h *CartHandler) Quote(c *gin.Context) {
	var in services.QuoteInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, h.log, err)
		return
	}
	b, err := h.checkoutService.QuoteBook(c.Request.Context(), in)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, b)
}
