package order

import (
	"time"

	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/internal/order/dto"
)

// PollInterval is how often clients refresh an order that is still moving.
const PollInterval = 30 * time.Second

var stageLabels = map[model.OrderStatus]string{
	model.OrderStatusDraft:            "Draft",
	model.OrderStatusSubmitted:        "Submitted",
	model.OrderStatusAssigned:         "Shopper assigned",
	model.OrderStatusShoppingStarted:  "Shopping in progress",
	model.OrderStatusShoppingComplete: "Shopping complete",
	model.OrderStatusOutForDelivery:   "Out for delivery",
	model.OrderStatusDelivered:        "Delivered",
}

// BuildTimeline marks every stage up to and including status as reached. A
// cancelled order reports no stage reached. history supplies the time each
// stage was entered, when known.
func BuildTimeline(status model.OrderStatus, history []model.OrderStatusChange) []dto.TimelineStage {
	entered := make(map[model.OrderStatus]time.Time, len(history))
	for _, h := range history {
		entered[h.ToStatus] = h.ChangedAt
	}

	current := status.StageIndex()
	stages := make([]dto.TimelineStage, len(model.OrderStages))
	for i, st := range model.OrderStages {
		stages[i] = dto.TimelineStage{
			Status:  st,
			Label:   stageLabels[st],
			Reached: current >= 0 && i <= current,
			Current: i == current,
		}
		if at, ok := entered[st]; ok && stages[i].Reached {
			stages[i].At = &at
		}
	}
	return stages
}

// PINVisible reports whether the delivery PIN may be shown for status.
func PINVisible(status model.OrderStatus) bool {
	return status.StageIndex() >= model.OrderStatusOutForDelivery.StageIndex()
}
