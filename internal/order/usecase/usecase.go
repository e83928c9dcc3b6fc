package usecase

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"github.com/fekuna/wlpl-service/internal/auth"
	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/internal/order"
	"github.com/fekuna/wlpl-service/internal/order/dto"
	shoppingdto "github.com/fekuna/wlpl-service/internal/shopping/dto"
	"github.com/fekuna/wlpl-service/pkg/apperr"
	"github.com/fekuna/wlpl-service/pkg/broker"
	"github.com/fekuna/wlpl-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Topics struct {
	Orders    string
	Inventory string
}

type orderUseCase struct {
	repo    order.Repository
	items   order.ItemSource
	prices  order.PriceBook
	pub     order.Publisher
	pricing order.Pricing
	topics  Topics
	logger  logger.ZapLogger
}

func NewOrderUseCase(
	repo order.Repository,
	items order.ItemSource,
	prices order.PriceBook,
	pub order.Publisher,
	pricing order.Pricing,
	topics Topics,
	log logger.ZapLogger,
) order.UseCase {
	return &orderUseCase{
		repo:    repo,
		items:   items,
		prices:  prices,
		pub:     pub,
		pricing: pricing,
		topics:  topics,
		logger:  log,
	}
}

func (uc *orderUseCase) CreateDraft(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error) {
	const op = "order.CreateDraft"
	if input.DeliveryWindowStart != nil && input.DeliveryWindowEnd != nil &&
		!input.DeliveryWindowEnd.After(*input.DeliveryWindowStart) {
		return nil, apperr.Invalid(op, "delivery window must end after it starts")
	}

	needed := true
	candidates, _, err := uc.items.ListItems(ctx, &shoppingdto.ItemFilters{UserID: input.UserID, Needed: &needed})
	if err != nil {
		return nil, err
	}

	selected := candidates
	if len(input.ItemIDs) > 0 {
		byID := make(map[string]model.ShoppingItem, len(candidates))
		for _, it := range candidates {
			byID[it.ID] = it
		}
		selected = make([]model.ShoppingItem, 0, len(input.ItemIDs))
		for _, id := range input.ItemIDs {
			it, ok := byID[id]
			if !ok {
				return nil, apperr.Invalid(op, fmt.Sprintf("item %s is not on your shopping list", id))
			}
			selected = append(selected, it)
		}
	}
	if len(selected) == 0 {
		return nil, apperr.Invalid(op, "no needed items to order")
	}

	now := time.Now()
	o := &model.Order{
		BaseModel:           model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		UserID:              input.UserID,
		Status:              model.OrderStatusDraft,
		DeliveryWindowStart: input.DeliveryWindowStart,
		DeliveryWindowEnd:   input.DeliveryWindowEnd,
	}
	for _, it := range selected {
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		itemID := it.ID
		o.Items = append(o.Items, model.OrderItem{
			ID:             uuid.New().String(),
			OrderID:        o.ID,
			ShoppingItemID: &itemID,
			ProductName:    it.ProductName,
			Barcode:        it.Barcode,
			Quantity:       qty,
			Unit:           it.Unit,
			UnitPrice:      uc.estimatePrice(ctx, it.Barcode),
		})
	}

	q := uc.pricing.Quote(o.Items, input.Tip)
	o.TotalItems = q.TotalItems
	o.Subtotal = q.Subtotal
	o.ServiceFee = q.ServiceFee
	o.DeliveryFee = q.DeliveryFee
	o.Tip = q.Tip
	o.Total = q.Total

	if err := uc.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	uc.logger.Info("order draft created",
		zap.String("order_id", o.ID),
		zap.Int("items", o.TotalItems),
		zap.String("total", o.Total.StringFixed(2)),
	)
	return o, nil
}

// GetOrder returns an order to its owner, or to staff when userID is "".
// Shoppers only see open submitted orders and those assigned to them.
func (uc *orderUseCase) GetOrder(ctx context.Context, userID, id string) (*model.Order, error) {
	const op = "order.GetOrder"
	o, err := uc.load(ctx, op, userID, id)
	if err != nil {
		return nil, err
	}
	if userID == "" && isShopper(ctx) && o.Status != model.OrderStatusSubmitted && !assignedTo(o, auth.GetUserID(ctx)) {
		return nil, apperr.NotFound(op, "order")
	}
	redact(o, userID)
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	if filters.Status != "" && !filters.Status.Valid() {
		return nil, 0, apperr.Invalid("order.ListOrders", "unknown order status")
	}
	orders, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		redact(&orders[i], filters.UserID)
	}
	return orders, count, nil
}

func (uc *orderUseCase) Timeline(ctx context.Context, userID, id string) (*dto.Timeline, error) {
	o, err := uc.load(ctx, "order.Timeline", userID, id)
	if err != nil {
		return nil, err
	}
	history, err := uc.repo.ListStatusChanges(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	redact(o, userID)

	t := &dto.Timeline{
		OrderID:     o.ID,
		Status:      o.Status,
		Cancelled:   o.Status == model.OrderStatusCancelled,
		Stages:      order.BuildTimeline(o.Status, history),
		DeliveryPIN: o.DeliveryPIN,
	}
	if !o.Status.Terminal() {
		t.PollAfterSeconds = int(order.PollInterval / time.Second)
	}
	return t, nil
}

func (uc *orderUseCase) Submit(ctx context.Context, userID, id string) (*model.Order, error) {
	const op = "order.Submit"
	o, err := uc.load(ctx, op, userID, id)
	if err != nil {
		return nil, err
	}
	if o.TotalItems == 0 {
		return nil, apperr.Invalid(op, "order has no items")
	}
	return uc.advance(ctx, op, o, model.OrderStatusSubmitted, userID, nil)
}

func (uc *orderUseCase) Cancel(ctx context.Context, input *dto.CancelInput) (*model.Order, error) {
	const op = "order.Cancel"
	o, err := uc.load(ctx, op, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}
	return uc.advance(ctx, op, o, model.OrderStatusCancelled, input.UserID, func(o *model.Order) error {
		if input.Reason != "" {
			reason := input.Reason
			o.CancelReason = &reason
		}
		return nil
	})
}

// Transition moves an order on behalf of staff. Delivery is only reachable
// through ConfirmDelivery.
func (uc *orderUseCase) Transition(ctx context.Context, input *dto.TransitionInput) (*model.Order, error) {
	const op = "order.Transition"
	if !input.To.Valid() {
		return nil, apperr.Invalid(op, "unknown order status")
	}
	if input.To == model.OrderStatusDelivered {
		return nil, apperr.New(op, apperr.ErrInvalidTransition, "delivery must be confirmed with the customer's PIN")
	}

	o, err := uc.load(ctx, op, "", input.ID)
	if err != nil {
		return nil, err
	}
	shopper := isShopper(ctx)
	if shopper && input.To != model.OrderStatusAssigned && !assignedTo(o, input.Actor) {
		return nil, apperr.New(op, apperr.ErrForbidden, "order is assigned to another shopper")
	}

	moved, err := uc.advance(ctx, op, o, input.To, input.Actor, func(o *model.Order) error {
		switch input.To {
		case model.OrderStatusAssigned:
			shopperID := input.ShopperID
			if shopper || shopperID == "" {
				shopperID = input.Actor
			}
			o.ShopperID = &shopperID
		case model.OrderStatusOutForDelivery:
			pin, err := newDeliveryPIN()
			if err != nil {
				return err
			}
			o.DeliveryPIN = &pin
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	redact(moved, "")
	return moved, nil
}

func (uc *orderUseCase) ConfirmDelivery(ctx context.Context, input *dto.ConfirmDeliveryInput) (*model.Order, error) {
	const op = "order.ConfirmDelivery"
	o, err := uc.load(ctx, op, "", input.ID)
	if err != nil {
		return nil, err
	}
	if o.Status != model.OrderStatusOutForDelivery {
		return nil, apperr.New(op, apperr.ErrInvalidTransition, "order is not out for delivery")
	}
	if isShopper(ctx) && !assignedTo(o, input.Actor) {
		return nil, apperr.New(op, apperr.ErrForbidden, "order is assigned to another shopper")
	}
	if o.DeliveryPIN == nil || subtle.ConstantTimeCompare([]byte(*o.DeliveryPIN), []byte(input.PIN)) != 1 {
		uc.logger.Warn("delivery PIN mismatch", zap.String("order_id", o.ID), zap.String("actor", input.Actor))
		return nil, apperr.Invalid(op, "incorrect delivery PIN")
	}

	delivered, err := uc.advance(ctx, op, o, model.OrderStatusDelivered, input.Actor, nil)
	if err != nil {
		return nil, err
	}
	redact(delivered, "")
	return delivered, nil
}

func (uc *orderUseCase) advance(ctx context.Context, op string, o *model.Order, to model.OrderStatus, actor string, mutate func(*model.Order) error) (*model.Order, error) {
	from := o.Status
	if !order.CanTransition(from, to) {
		return nil, apperr.New(op, apperr.ErrInvalidTransition, fmt.Sprintf("cannot move order from %s to %s", from, to))
	}

	now := time.Now()
	o.Status = to
	o.UpdatedAt = now
	if mutate != nil {
		if err := mutate(o); err != nil {
			return nil, err
		}
	}

	change := &model.OrderStatusChange{
		ID:         uuid.New().String(),
		OrderID:    o.ID,
		FromStatus: from,
		ToStatus:   to,
		ChangedBy:  actor,
		ChangedAt:  now,
	}
	ok, err := uc.repo.UpdateStatus(ctx, o, change)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.New(op, apperr.ErrConflict, "order changed in the meantime, refresh and try again")
	}

	uc.logger.Info("order status changed",
		zap.String("order_id", o.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("actor", actor),
	)
	uc.publish(ctx, o, from, actor)
	return o, nil
}

func (uc *orderUseCase) publish(ctx context.Context, o *model.Order, from model.OrderStatus, actor string) {
	if uc.pub == nil {
		return
	}

	changed := broker.Event[model.OrderStatusChangedPayload]{
		EventID:   uuid.New().String(),
		EventType: model.EventOrderStatusChanged,
		Payload:   model.OrderStatusChangedPayload{OrderID: o.ID, UserID: o.UserID, From: from, To: o.Status, Actor: actor},
		Timestamp: time.Now(),
	}
	if err := uc.pub.PublishJSON(ctx, uc.topics.Orders, o.ID, changed); err != nil {
		uc.logger.Error("failed to publish order status change", zap.String("order_id", o.ID), zap.Error(err))
	}

	if o.Status != model.OrderStatusDelivered {
		return
	}
	payload := model.OrderDeliveredPayload{OrderID: o.ID, UserID: o.UserID}
	for _, it := range o.Items {
		line := model.DeliveredLine{ProductName: it.ProductName, Quantity: it.Quantity}
		if it.ShoppingItemID != nil {
			line.ShoppingItemID = *it.ShoppingItemID
		}
		payload.Items = append(payload.Items, line)
	}
	delivered := broker.Event[model.OrderDeliveredPayload]{
		EventID:   uuid.New().String(),
		EventType: model.EventOrderDelivered,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	if err := uc.pub.PublishJSON(ctx, uc.topics.Inventory, o.UserID, delivered); err != nil {
		uc.logger.Error("failed to publish order delivered", zap.String("order_id", o.ID), zap.Error(err))
	}
}

func (uc *orderUseCase) estimatePrice(ctx context.Context, barcode *string) decimal.Decimal {
	if barcode == nil || uc.prices == nil {
		return decimal.Zero
	}
	p, err := uc.prices.FindByBarcode(ctx, *barcode)
	if err != nil {
		uc.logger.Warn("price lookup failed", zap.String("barcode", *barcode), zap.Error(err))
		return decimal.Zero
	}
	if p == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(p.EstimatedPrice).Round(2)
}

// load fetches an order. userID "" is a staff caller and may see any order.
func (uc *orderUseCase) load(ctx context.Context, op, userID, id string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil || (userID != "" && o.UserID != userID) {
		return nil, apperr.NotFound(op, "order")
	}
	return o, nil
}

// redact hides the delivery PIN from staff and from stages before delivery.
func redact(o *model.Order, viewer string) {
	if viewer == "" || viewer != o.UserID || !order.PINVisible(o.Status) {
		o.DeliveryPIN = nil
	}
}

func isShopper(ctx context.Context) bool {
	return auth.FromContext(ctx).Role == auth.RoleShopper
}

func assignedTo(o *model.Order, shopperID string) bool {
	return o.ShopperID != nil && *o.ShopperID == shopperID
}

func newDeliveryPIN() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("generate delivery pin: %w", err)
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
