package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/wlpl-service/internal/auth"
	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/internal/shopping"
	"github.com/fekuna/wlpl-service/internal/shopping/dto"
	"github.com/fekuna/wlpl-service/pkg/apperr"
	"github.com/fekuna/wlpl-service/pkg/cache"
	"github.com/fekuna/wlpl-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultUnit = "each"

type shoppingUseCase struct {
	repo       shopping.Repository
	locker     cache.Locker
	products   shopping.ProductResolver
	classifier shopping.Classifier
	messages   shopping.Translator
	logger     logger.ZapLogger
}

func NewShoppingUseCase(
	repo shopping.Repository,
	locker cache.Locker,
	products shopping.ProductResolver,
	classifier shopping.Classifier,
	messages shopping.Translator,
	log logger.ZapLogger,
) shopping.UseCase {
	return &shoppingUseCase{
		repo:       repo,
		locker:     locker,
		products:   products,
		classifier: classifier,
		messages:   messages,
		logger:     log,
	}
}

func (uc *shoppingUseCase) ListItems(ctx context.Context, filters *dto.ItemFilters) ([]model.ShoppingItem, int, error) {
	if filters.UserID == "" {
		return nil, 0, apperr.New("shopping.ListItems", apperr.ErrUnauthenticated, "sign in required")
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *shoppingUseCase) AddItem(ctx context.Context, input *dto.AddItemInput) (*dto.ItemResult, error) {
	const op = "shopping.AddItem"
	name := strings.TrimSpace(input.ProductName)
	if name == "" {
		return nil, apperr.Invalid(op, "product name is required")
	}
	if input.Quantity < 0 {
		return nil, apperr.Invalid(op, "quantity cannot be negative")
	}
	priority := input.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}
	if !priority.Valid() {
		return nil, apperr.Invalid(op, "priority must be high or normal")
	}

	lang := auth.GetLanguage(ctx)
	var result *dto.ItemResult
	err := uc.locked(ctx, op, userLockKey(input.UserID), func() error {
		items, err := uc.repo.FindByUser(ctx, input.UserID)
		if err != nil {
			return err
		}

		if match := shopping.CheckForDuplicates(items, name, input.Barcode); match.Found() {
			id := "ScanPromptMarkNeeded"
			if match.Item.Needed {
				id = "ScanAlreadyNeeded"
			}
			return apperr.New(op, apperr.ErrConflict, uc.message(lang, id, match.Item))
		}

		now := time.Now()
		item := &model.ShoppingItem{
			BaseModel:       model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			UserID:          input.UserID,
			ProductName:     name,
			Brand:           input.Brand,
			Category:        input.Category,
			Quantity:        0,
			Unit:            unitOrDefault(input.Unit),
			Priority:        priority,
			Needed:          true,
			InStock:         false,
			Barcode:         optional(input.Barcode),
			PurchaseHistory: model.JSONList[model.PurchaseRecord]{},
		}
		movement := newMovement(item, model.MovementAdd, 0, 0, "added to list")
		if err := uc.repo.SaveWithMovement(ctx, item, movement); err != nil {
			return err
		}
		result = &dto.ItemResult{Item: item, Message: uc.message(lang, "ItemAddedToList", item)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *shoppingUseCase) ScanItem(ctx context.Context, input *dto.ScanInput) (*dto.ScanResult, error) {
	const op = "shopping.ScanItem"
	barcode := strings.TrimSpace(input.Barcode)
	name := strings.TrimSpace(input.Name)
	if barcode == "" && name == "" {
		return nil, apperr.Invalid(op, "barcode or product name is required")
	}

	lang := auth.GetLanguage(ctx)
	var result *dto.ScanResult
	err := uc.locked(ctx, op, userLockKey(input.UserID), func() error {
		items, err := uc.repo.FindByUser(ctx, input.UserID)
		if err != nil {
			return err
		}

		match := shopping.CheckForDuplicates(items, name, barcode)

		var product *model.Product
		if !match.Found() && barcode != "" && uc.products != nil {
			product, err = uc.products.LookupBarcode(ctx, barcode)
			if err != nil {
				if name == "" {
					return err
				}
				uc.logger.Warn("barcode lookup failed, continuing with scanned name",
					zap.String("barcode", barcode), zap.Error(err))
				product = nil
			}
			if product != nil && name == "" {
				name = product.Name
				match = shopping.CheckForDuplicates(items, name, barcode)
			}
		}

		// 1. Existing item: never create a second row
		if match.Found() {
			result = &dto.ScanResult{MatchType: string(match.Type), Item: match.Item}
			if match.Item.Needed {
				result.Outcome = dto.OutcomeAlreadyNeeded
				result.Message = uc.message(lang, "ScanAlreadyNeeded", match.Item)
			} else {
				result.Outcome = dto.OutcomePromptMarkNeeded
				result.Message = uc.message(lang, "ScanPromptMarkNeeded", match.Item)
			}
			return nil
		}

		if name == "" {
			return apperr.New(op, apperr.ErrNotFound, "product not recognised, enter its name")
		}

		// 2. Impulse purchase
		category := strings.TrimSpace(input.Category)
		brand := input.Brand
		if product != nil {
			if category == "" {
				category = product.Category
			}
			if brand == "" {
				brand = product.Brand
			}
		}
		classifyBy := category
		if classifyBy == "" {
			classifyBy = name
		}
		class, err := uc.classifier.Classify(ctx, classifyBy)
		if err != nil {
			return err
		}
		// Free-form taxonomy names are a weak signal; let the product name
		// flag perishables an unknown category missed.
		if !class.Known && !class.Perishable && classifyBy != name {
			byName, err := uc.classifier.Classify(ctx, name)
			if err != nil {
				return err
			}
			class.Perishable = byName.Perishable
		}
		if category == "" && class.Known {
			category = class.Name
		}

		now := time.Now()
		item := &model.ShoppingItem{
			BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			UserID:      input.UserID,
			ProductName: name,
			Brand:       brand,
			Category:    category,
			Quantity:    1,
			Unit:        defaultUnit,
			Priority:    model.PriorityNormal,
			Needed:      false,
			InStock:     true,
			Barcode:     optional(barcode),
			ExpiresAt:   input.ExpiresAt,
			PurchaseHistory: model.JSONList[model.PurchaseRecord]{
				{PurchasedAt: now, Quantity: 1, Store: input.Store},
			},
		}

		if class.Perishable && input.ExpiresAt == nil {
			result = &dto.ScanResult{
				Outcome:    dto.OutcomeNeedsExpiration,
				MatchType:  string(shopping.MatchNone),
				Message:    uc.message(lang, "ScanNeedsExpiration", item),
				Perishable: true,
				Suggested:  item,
			}
			return nil
		}

		movement := newMovement(item, model.MovementScan, 0, 1, "impulse purchase")
		if err := uc.repo.SaveWithMovement(ctx, item, movement); err != nil {
			return err
		}
		result = &dto.ScanResult{
			Outcome:    dto.OutcomeAddedToInventory,
			MatchType:  string(shopping.MatchNone),
			Message:    uc.message(lang, "ScanAddedToInventory", item),
			Perishable: class.Perishable,
			Item:       item,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("item scanned",
		zap.String("user_id", input.UserID),
		zap.String("outcome", string(result.Outcome)),
		zap.String("match", result.MatchType),
	)
	return result, nil
}

func (uc *shoppingUseCase) MarkNeeded(ctx context.Context, input *dto.MarkNeededInput) (*dto.ItemResult, error) {
	const op = "shopping.MarkNeeded"
	priority := input.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}
	if !priority.Valid() {
		return nil, apperr.Invalid(op, "priority must be high or normal")
	}

	var item *model.ShoppingItem
	err := uc.locked(ctx, op, itemLockKey(input.ID), func() error {
		var err error
		item, err = uc.load(ctx, op, input.UserID, input.ID)
		if err != nil {
			return err
		}

		item.Needed = true
		item.Priority = priority
		item.UpdatedAt = time.Now()
		movement := newMovement(item, model.MovementNeeded, item.Quantity, item.Quantity, "marked needed")
		return uc.repo.SaveWithMovement(ctx, item, movement)
	})
	if err != nil {
		return nil, err
	}
	return &dto.ItemResult{Item: item, Message: uc.message(auth.GetLanguage(ctx), "ItemMarkedNeeded", item)}, nil
}

func (uc *shoppingUseCase) MarkPurchased(ctx context.Context, input *dto.PurchaseInput) (*dto.ItemResult, error) {
	const op = "shopping.MarkPurchased"
	qty := input.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return nil, apperr.Invalid(op, "quantity must be positive")
	}

	var item *model.ShoppingItem
	err := uc.locked(ctx, op, itemLockKey(input.ID), func() error {
		var err error
		item, err = uc.load(ctx, op, input.UserID, input.ID)
		if err != nil {
			return err
		}

		now := time.Now()
		before := item.Quantity
		item.Quantity += qty
		item.InStock = true
		item.Needed = false
		item.UpdatedAt = now
		item.PurchaseHistory = append(item.PurchaseHistory, model.PurchaseRecord{
			PurchasedAt: now,
			Quantity:    qty,
			Store:       input.Store,
			OrderID:     input.OrderID,
		})

		movement := newMovement(item, model.MovementPurchase, before, item.Quantity, "purchased")
		movement.ReferenceID = optional(input.OrderID)
		return uc.repo.SaveWithMovement(ctx, item, movement)
	})
	if err != nil {
		return nil, err
	}
	return &dto.ItemResult{Item: item, Message: uc.message(auth.GetLanguage(ctx), "ItemPurchased", item)}, nil
}

// ConsumeItem depletes stock. Reaching zero moves the item back onto the list in
// the same write, so consumption never leaves an orphan behind.
func (uc *shoppingUseCase) ConsumeItem(ctx context.Context, input *dto.ConsumeInput) (*model.ShoppingItem, error) {
	const op = "shopping.ConsumeItem"
	if !input.All && input.Quantity <= 0 {
		return nil, apperr.Invalid(op, "quantity must be positive, or set all to use up the item")
	}

	var item *model.ShoppingItem
	err := uc.locked(ctx, op, itemLockKey(input.ID), func() error {
		var err error
		item, err = uc.load(ctx, op, input.UserID, input.ID)
		if err != nil {
			return err
		}

		before := item.Quantity
		used := input.Quantity
		if input.All || used > before {
			used = before
		}
		item.Quantity = before - used
		if item.Quantity <= 0 {
			item.Quantity = 0
			item.InStock = false
			item.Needed = true
		}
		item.UpdatedAt = time.Now()

		notes := input.Reason
		if notes == "" {
			notes = "consumed"
		}
		movement := newMovement(item, model.MovementConsume, before, item.Quantity, notes)
		return uc.repo.SaveWithMovement(ctx, item, movement)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *shoppingUseCase) DeleteItem(ctx context.Context, userID, id string) error {
	const op = "shopping.DeleteItem"
	return uc.locked(ctx, op, itemLockKey(id), func() error {
		if _, err := uc.load(ctx, op, userID, id); err != nil {
			return err
		}
		return uc.repo.Delete(ctx, id)
	})
}

func (uc *shoppingUseCase) ListMovements(ctx context.Context, userID, id string) ([]model.ItemMovement, error) {
	if _, err := uc.load(ctx, "shopping.ListMovements", userID, id); err != nil {
		return nil, err
	}
	return uc.repo.ListMovements(ctx, id)
}

func (uc *shoppingUseCase) ListOrphans(ctx context.Context, userID string) ([]model.ShoppingItem, error) {
	items, err := uc.repo.FindOrphans(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := items[:0]
	for _, it := range items {
		if it.IsOrphaned() {
			out = append(out, it)
		}
	}
	return out, nil
}

func (uc *shoppingUseCase) RepairOrphan(ctx context.Context, userID, id string) (*dto.ItemResult, error) {
	const op = "shopping.RepairOrphan"
	var item *model.ShoppingItem
	err := uc.locked(ctx, op, itemLockKey(id), func() error {
		var err error
		item, err = uc.load(ctx, op, userID, id)
		if err != nil {
			return err
		}
		if !item.IsOrphaned() {
			return apperr.New(op, apperr.ErrConflict, "item is not orphaned")
		}
		return uc.repair(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return &dto.ItemResult{Item: item, Message: uc.message(auth.GetLanguage(ctx), "OrphanRepaired", item)}, nil
}

// RepairAllOrphans repairs each orphan under its own lock. Items that changed
// in the meantime are skipped; a busy lock or failed write stops the run.
func (uc *shoppingUseCase) RepairAllOrphans(ctx context.Context, userID string) (*dto.RepairResult, error) {
	const op = "shopping.RepairAllOrphans"
	orphans, err := uc.ListOrphans(ctx, userID)
	if err != nil {
		return nil, err
	}

	repaired := make([]model.ShoppingItem, 0, len(orphans))
	for _, o := range orphans {
		var item *model.ShoppingItem
		err := uc.locked(ctx, op, itemLockKey(o.ID), func() error {
			current, err := uc.repo.FindByID(ctx, o.ID)
			if err != nil || current == nil || !current.IsOrphaned() {
				return err
			}
			if err := uc.repair(ctx, current); err != nil {
				return err
			}
			item = current
			return nil
		})
		if err != nil {
			return nil, err
		}
		if item != nil {
			repaired = append(repaired, *item)
		}
	}

	uc.logger.Info("orphans repaired", zap.String("user_id", userID), zap.Int("count", len(repaired)))
	return &dto.RepairResult{
		Repaired: len(repaired),
		Items:    repaired,
		Message:  uc.messages.T(auth.GetLanguage(ctx), "OrphansRepaired", map[string]any{"Count": len(repaired)}),
	}, nil
}

func (uc *shoppingUseCase) repair(ctx context.Context, item *model.ShoppingItem) error {
	item.Needed = true
	item.Priority = model.PriorityHigh
	item.UpdatedAt = time.Now()
	movement := newMovement(item, model.MovementRepair, item.Quantity, item.Quantity, "orphan repaired")
	return uc.repo.SaveWithMovement(ctx, item, movement)
}

func (uc *shoppingUseCase) load(ctx context.Context, op, userID, id string) (*model.ShoppingItem, error) {
	item, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// userID "" is the system caller (event listener, CLI).
	if item == nil || (userID != "" && item.UserID != userID) {
		return nil, apperr.NotFound(op, "shopping item")
	}
	return item, nil
}

func (uc *shoppingUseCase) locked(ctx context.Context, op, key string, fn func() error) error {
	ok, err := cache.WithLock(ctx, uc.locker, key, fn)
	if err != nil {
		return err
	}
	if !ok {
		uc.logger.Warn("lock busy", zap.String("key", key))
		return apperr.New(op, apperr.ErrBusy, "system busy, please try again")
	}
	return nil
}

func (uc *shoppingUseCase) message(lang, id string, item *model.ShoppingItem) string {
	return uc.messages.T(lang, id, map[string]any{"Name": item.ProductName})
}

func newMovement(item *model.ShoppingItem, kind model.MovementKind, before, after float64, notes string) *model.ItemMovement {
	return &model.ItemMovement{
		ID:             uuid.New().String(),
		ItemID:         item.ID,
		UserID:         item.UserID,
		Kind:           kind,
		QuantityChange: after - before,
		QuantityBefore: before,
		QuantityAfter:  after,
		Notes:          notes,
		CreatedAt:      time.Now(),
	}
}

func userLockKey(userID string) string { return fmt.Sprintf("lock:shopping:user:%s", userID) }
func itemLockKey(id string) string     { return fmt.Sprintf("lock:shopping:item:%s", id) }

func unitOrDefault(unit string) string {
	if strings.TrimSpace(unit) == "" {
		return defaultUnit
	}
	return unit
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
