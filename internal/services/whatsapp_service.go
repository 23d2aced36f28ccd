package services

import (
	"context"
	"fmt"
	"net/url"

	"printcalc/internal/models"
	"printcalc/pkg/whatsapp"
)

// Notifier tells customers about their orders.
type Notifier interface {
	OrderPlaced(ctx context.Context, order *models.Order, trackingURL string) error
	OrderCompleted(ctx context.Context, order *models.Order, trackingURL string) error
}

type whatsappNotifier struct {
	client *whatsapp.Client
}

// NewWhatsAppNotifier returns a Notifier backed by the WhatsApp gateway, or a
// no-op notifier when client is nil.
func NewWhatsAppNotifier(client *whatsapp.Client) Notifier {
	if client == nil {
		return noopNotifier{}
	}
	return &whatsappNotifier{client: client}
}

func (n *whatsappNotifier) OrderPlaced(ctx context.Context, order *models.Order, trackingURL string) error {
	if order.CustomerPhone == "" {
		return nil
	}
	msg := fmt.Sprintf("Hello %s, your print order %s was received. Total: %s.\nTrack it here: %s",
		customerName(order), order.OrderNumber, order.TotalCost.StringFixed(2), trackingURL)
	return n.client.SendTextMessage(ctx, order.CustomerPhone, msg)
}

func (n *whatsappNotifier) OrderCompleted(ctx context.Context, order *models.Order, trackingURL string) error {
	if order.CustomerPhone == "" {
		return nil
	}
	msg := fmt.Sprintf("Hello %s, your print order %s is ready for pickup.\nDetails: %s",
		customerName(order), order.OrderNumber, trackingURL)
	return n.client.SendTextMessage(ctx, order.CustomerPhone, msg)
}

func customerName(order *models.Order) string {
	if order.CustomerName == "" {
		return "there"
	}
	return order.CustomerName
}

type noopNotifier struct{}

func (noopNotifier) OrderPlaced(context.Context, *models.Order, string) error    { return nil }
func (noopNotifier) OrderCompleted(context.Context, *models.Order, string) error { return nil }

// TrackingURL is the public link a customer uses to follow an order.
func TrackingURL(baseURL, orderNumber string) string {
	return baseURL + "/order/" + url.PathEscape(orderNumber)
}
