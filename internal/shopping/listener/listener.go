package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/internal/shopping"
	"github.com/fekuna/wlpl-service/internal/shopping/dto"
	"github.com/fekuna/wlpl-service/pkg/broker"
	"github.com/fekuna/wlpl-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const retryDelay = time.Second

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// InventoryListener applies consumption and delivery events to shopping items.
type InventoryListener struct {
	consumer MessageReader
	uc       shopping.UseCase
	logger   logger.ZapLogger
}

func NewInventoryListener(consumer MessageReader, uc shopping.UseCase, logger logger.ZapLogger) *InventoryListener {
	return &InventoryListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *InventoryListener) Start(ctx context.Context) {
	l.logger.Info("Starting Inventory Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Inventory Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					l.logger.Info("Stopping Inventory Kafka Listener")
					return
				case <-time.After(retryDelay):
				}
				continue
			}
			l.ProcessMessage(ctx, msg.Value)
		}
	}
}

// ProcessMessage handles one raw event. Malformed or unknown events are logged and dropped.
func (l *InventoryListener) ProcessMessage(ctx context.Context, value []byte) {
	var envelope broker.Event[json.RawMessage]
	if err := json.Unmarshal(value, &envelope); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	switch envelope.EventType {
	case model.EventItemConsumed:
		var p model.ItemConsumedPayload
		if err := json.Unmarshal(envelope.Payload, &p); err != nil || p.ItemID == "" {
			l.logger.Error("Malformed ItemConsumed event", zap.String("event_id", envelope.EventID), zap.Error(err))
			return
		}
		l.handleConsumed(ctx, p)
	case model.EventOrderDelivered:
		var p model.OrderDeliveredPayload
		if err := json.Unmarshal(envelope.Payload, &p); err != nil || p.OrderID == "" {
			l.logger.Error("Malformed OrderDelivered event", zap.String("event_id", envelope.EventID), zap.Error(err))
			return
		}
		l.handleDelivered(ctx, p)
	default:
		l.logger.Debug("Ignoring event", zap.String("event_type", envelope.EventType))
	}
}

func (l *InventoryListener) handleConsumed(ctx context.Context, p model.ItemConsumedPayload) {
	_, err := l.uc.ConsumeItem(ctx, &dto.ConsumeInput{
		UserID:   p.UserID,
		ID:       p.ItemID,
		Quantity: p.Quantity,
		All:      p.All,
		Reason:   p.Reason,
	})
	if err != nil {
		l.logger.Error("Failed to consume shopping item",
			zap.String("item_id", p.ItemID),
			zap.Error(err),
		)
	}
}

func (l *InventoryListener) handleDelivered(ctx context.Context, p model.OrderDeliveredPayload) {
	l.logger.Info("Processing OrderDelivered event", zap.String("order_id", p.OrderID))

	for _, line := range p.Items {
		if line.ShoppingItemID == "" {
			continue
		}
		_, err := l.uc.MarkPurchased(ctx, &dto.PurchaseInput{
			UserID:   p.UserID,
			ID:       line.ShoppingItemID,
			Quantity: line.Quantity,
			Store:    "Shop & Deliver",
			OrderID:  p.OrderID,
		})
		if err != nil {
			l.logger.Error("Failed to restock delivered order item",
				zap.String("order_id", p.OrderID),
				zap.String("item_id", line.ShoppingItemID),
				zap.Error(err),
			)
		}
	}
}
