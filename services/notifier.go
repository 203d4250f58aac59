package services

import (
	"github.com/antonkhv/shop-app/models"
	"github.com/antonkhv/shop-app/utils"
)

// Notifier delivers an order summary to the operator channel.
type Notifier interface {
	NotifyOrder(order models.Order, items []models.OrderItem) error
}

// DispatchOrderNotification runs the notifier detached from the request
// that captured the order. Every failure mode, panics included, stays
// inside this boundary: order placement never fails because the
// notification transport is down.
func DispatchOrderNotification(n Notifier, order models.Order, items []models.OrderItem) {
	go safeNotify(n, order, items)
}

func safeNotify(n Notifier, order models.Order, items []models.OrderItem) {
	defer func() {
		if r := recover(); r != nil {
			utils.ErrorLogger.Printf("order notification panic for order #%d: %v", order.ID, r)
		}
	}()

	if err := n.NotifyOrder(order, items); err != nil {
		utils.ErrorLogger.Printf("order notification failed for order #%d: %v", order.ID, err)
	}
}
