package order

import "github.com/fekuna/wlpl-service/internal/model"

// CanTransition allows a single step forward along the stage sequence, or a
// cancellation from any stage before out_for_delivery.
func CanTransition(from, to model.OrderStatus) bool {
	if from.Terminal() || !from.Valid() || !to.Valid() {
		return false
	}
	if to == model.OrderStatusCancelled {
		return from.StageIndex() < model.OrderStatusOutForDelivery.StageIndex()
	}
	return to.StageIndex() == from.StageIndex()+1
}
