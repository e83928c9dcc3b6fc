package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/wlpl-service/internal/auth"
	categorydto "github.com/fekuna/wlpl-service/internal/category/dto"
	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/internal/shopping"
	"github.com/fekuna/wlpl-service/internal/shopping/dto"
	"github.com/fekuna/wlpl-service/pkg/apperr"
	"github.com/fekuna/wlpl-service/pkg/i18n"
	"github.com/fekuna/wlpl-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const user = "user-1"

type memRepo struct {
	mu        sync.Mutex
	order     []string
	items     map[string]model.ShoppingItem
	movements []model.ItemMovement
	saveErr   error
}

func newMemRepo(items ...model.ShoppingItem) *memRepo {
	r := &memRepo{items: map[string]model.ShoppingItem{}}
	for _, it := range items {
		r.order = append(r.order, it.ID)
		r.items[it.ID] = it
	}
	return r
}

func (r *memRepo) FindByID(_ context.Context, id string) (*model.ShoppingItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r *memRepo) FindByUser(_ context.Context, userID string) ([]model.ShoppingItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ShoppingItem
	for _, id := range r.order {
		if it, ok := r.items[id]; ok && it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *memRepo) FindAll(ctx context.Context, f *dto.ItemFilters) ([]model.ShoppingItem, int, error) {
	items, _ := r.FindByUser(ctx, f.UserID)
	var out []model.ShoppingItem
	for _, it := range items {
		if f.Needed != nil && it.Needed != *f.Needed {
			continue
		}
		out = append(out, it)
	}
	return out, len(out), nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *memRepo) FindOrphans(_ context.Context, userID string) ([]model.ShoppingItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ShoppingItem
	for _, id := range r.order {
		it, ok := r.items[id]
		if ok && (userID == "" || it.UserID == userID) && !it.InStock && !it.Needed && it.Quantity == 0 {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *memRepo) ListMovements(_ context.Context, itemID string) ([]model.ItemMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ItemMovement
	for _, m := range r.movements {
		if m.ItemID == itemID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memRepo) SaveWithMovement(_ context.Context, item *model.ShoppingItem, movement *model.ItemMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	if _, ok := r.items[item.ID]; !ok {
		r.order = append(r.order, item.ID)
	}
	r.items[item.ID] = *item
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

type fakeLocker struct {
	mu   sync.Mutex
	held map[string]string
	busy bool
}

func (l *fakeLocker) AcquireLock(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.busy {
		return false, nil
	}
	if l.held == nil {
		l.held = map[string]string{}
	}
	if _, taken := l.held[key]; taken {
		return false, nil
	}
	l.held[key] = value
	return true, nil
}

func (l *fakeLocker) ReleaseLock(_ context.Context, key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == value {
		delete(l.held, key)
	}
	return nil
}

type fakeProducts struct {
	byBarcode map[string]*model.Product
	err       error
}

func (f *fakeProducts) LookupBarcode(_ context.Context, barcode string) (*model.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byBarcode[barcode], nil
}

type keywordClassifier struct{}

func (keywordClassifier) Classify(_ context.Context, name string) (*categorydto.Classification, error) {
	n := strings.ToLower(name)
	perishable := strings.Contains(n, "dairy") || strings.Contains(n, "milk") || strings.Contains(n, "meat")
	return &categorydto.Classification{Name: name, Perishable: perishable}, nil
}

func newUseCase(t *testing.T, repo *memRepo, locker *fakeLocker, products *fakeProducts) shopping.UseCase {
	t.Helper()
	tr, err := i18n.New()
	require.NoError(t, err)
	if locker == nil {
		locker = &fakeLocker{}
	}
	if products == nil {
		products = &fakeProducts{}
	}
	return NewShoppingUseCase(repo, locker, products, keywordClassifier{}, tr, logger.NewNop())
}

func milk(needed bool) model.ShoppingItem {
	barcode := "012345"
	return model.ShoppingItem{
		BaseModel:   model.BaseModel{ID: "milk-1"},
		UserID:      user,
		ProductName: "Milk",
		Category:    "Dairy",
		Quantity:    1,
		Unit:        "each",
		Priority:    model.PriorityNormal,
		Needed:      needed,
		InStock:     !needed,
		Barcode:     &barcode,
	}
}

func TestScanExistingMilkPromptsMarkNeeded(t *testing.T) {
	repo := newMemRepo(milk(false))
	uc := newUseCase(t, repo, nil, nil)

	res, err := uc.ScanItem(context.Background(), &dto.ScanInput{UserID: user, Barcode: "012345"})
	require.NoError(t, err)

	assert.Equal(t, dto.OutcomePromptMarkNeeded, res.Outcome)
	assert.Equal(t, string(shopping.MatchExact), res.MatchType)
	assert.Equal(t, "milk-1", res.Item.ID)
	assert.Contains(t, res.Message, "Mark it as needed")
	assert.Equal(t, 1, repo.count())
	assert.Empty(t, repo.movements)
}

func TestScanNeededItemIsRejected(t *testing.T) {
	repo := newMemRepo(milk(true))
	uc := newUseCase(t, repo, nil, nil)

	res, err := uc.ScanItem(context.Background(), &dto.ScanInput{UserID: user, Barcode: "999", Name: "milk"})
	require.NoError(t, err)

	assert.Equal(t, dto.OutcomeAlreadyNeeded, res.Outcome)
	assert.Equal(t, string(shopping.MatchName), res.MatchType)
	assert.Equal(t, "Milk is already on your shopping list.", res.Message)
	assert.Equal(t, 1, repo.count())
}

func TestScanUsesLookupNameForMatching(t *testing.T) {
	repo := newMemRepo(model.ShoppingItem{BaseModel: model.BaseModel{ID: "pb"}, UserID: user, ProductName: "Peanut Butter"})
	products := &fakeProducts{byBarcode: map[string]*model.Product{"555": {Name: "Crunchy Peanut Butter"}}}
	uc := newUseCase(t, repo, nil, products)

	res, err := uc.ScanItem(context.Background(), &dto.ScanInput{UserID: user, Barcode: "555"})
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomePromptMarkNeeded, res.Outcome)
	assert.Equal(t, "pb", res.Item.ID)
}

func TestScanPerishableImpulsePurchaseNeedsExpiration(t *testing.T) {
	repo := newMemRepo()
	products := &fakeProducts{byBarcode: map[string]*model.Product{"321": {Name: "Greek Yogurt", Category: "Dairy"}}}
	uc := newUseCase(t, repo, nil, products)

	res, err := uc.ScanItem(context.Background(), &dto.ScanInput{UserID: user, Barcode: "321"})
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeNeedsExpiration, res.Outcome)
	assert.True(t, res.Perishable)
	require.NotNil(t, res.Suggested)
	assert.Equal(t, "Greek Yogurt", res.Suggested.ProductName)
	assert.Zero(t, repo.count())

	expires := time.Now().Add(72 * time.Hour)
	res, err = uc.ScanItem(context.Background(), &dto.ScanInput{UserID: user, Barcode: "321", ExpiresAt: &expires})
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeAddedToInventory, res.Outcome)
	require.NotNil(t, res.Item.ExpiresAt)
	assert.Equal(t, 1, repo.count())
}

func TestScanPerishableByNameWhenCategoryIsUnknown(t *testing.T) {
	repo := newMemRepo()
	products := &fakeProducts{byBarcode: map[string]*model.Product{"777": {Name: "Whole Milk", Category: "Dairies"}}}
	uc := newUseCase(t, repo, nil, products)

	res, err := uc.ScanItem(context.Background(), &dto.ScanInput{UserID: user, Barcode: "777"})
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeNeedsExpiration, res.Outcome)
	assert.True(t, res.Perishable)
	require.NotNil(t, res.Suggested)
	assert.Equal(t, "Dairies", res.Suggested.Category)
	assert.Zero(t, repo.count())
}

func TestScanNonPerishableAddsToInventory(t *testing.T) {
	repo := newMemRepo()
	uc := newUseCase(t, repo, nil, nil)

	res, err := uc.ScanItem(context.Background(), &dto.ScanInput{UserID: user, Barcode: "42", Name: "Rice", Category: "Pantry", Store: "Corner Shop"})
	require.NoError(t, err)

	assert.Equal(t, dto.OutcomeAddedToInventory, res.Outcome)
	assert.Equal(t, "Rice added to your kitchen inventory.", res.Message)
	item := res.Item
	assert.True(t, item.InStock)
	assert.False(t, item.Needed)
	assert.Equal(t, 1.0, item.Quantity)
	require.Len(t, item.PurchaseHistory, 1)
	assert.Equal(t, "Corner Shop", item.PurchaseHistory[0].Store)

	require.Len(t, repo.movements, 1)
	assert.Equal(t, model.MovementScan, repo.movements[0].Kind)
}

func TestScanUnknownBarcodeWithoutName(t *testing.T) {
	uc := newUseCase(t, newMemRepo(), nil, nil)

	_, err := uc.ScanItem(context.Background(), &dto.ScanInput{UserID: user, Barcode: "000"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = uc.ScanItem(context.Background(), &dto.ScanInput{UserID: user})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestScanLookupFailureFallsBackToName(t *testing.T) {
	repo := newMemRepo()
	uc := newUseCase(t, repo, nil, &fakeProducts{err: errors.New("upstream down")})

	res, err := uc.ScanItem(context.Background(), &dto.ScanInput{UserID: user, Barcode: "1", Name: "Pasta"})
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeAddedToInventory, res.Outcome)

	_, err = uc.ScanItem(context.Background(), &dto.ScanInput{UserID: user, Barcode: "2"})
	assert.Error(t, err)
}

func TestScanMessagesFollowLanguage(t *testing.T) {
	repo := newMemRepo(milk(false))
	uc := newUseCase(t, repo, nil, nil)
	ctx := auth.WithIdentity(context.Background(), auth.Identity{UserID: user, Role: auth.RoleUser, Language: "id"})

	res, err := uc.ScanItem(ctx, &dto.ScanInput{UserID: user, Barcode: "012345"})
	require.NoError(t, err)
	assert.NotContains(t, res.Message, "Mark it as needed")
	assert.Contains(t, res.Message, "Milk")
}

func TestAddItemRejectsDuplicates(t *testing.T) {
	repo := newMemRepo(milk(true))
	uc := newUseCase(t, repo, nil, nil)

	_, err := uc.AddItem(context.Background(), &dto.AddItemInput{UserID: user, ProductName: "milk"})
	require.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, "Milk is already on your shopping list.", apperr.PublicMessage(err))

	res, err := uc.AddItem(context.Background(), &dto.AddItemInput{UserID: user, ProductName: "Eggs", Priority: model.PriorityHigh})
	require.NoError(t, err)
	assert.True(t, res.Item.Needed)
	assert.False(t, res.Item.InStock)
	assert.Equal(t, model.PriorityHigh, res.Item.Priority)
	assert.Equal(t, 2, repo.count())

	_, err = uc.AddItem(context.Background(), &dto.AddItemInput{UserID: user, ProductName: "Tea", Priority: "urgent"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestMarkPurchasedRestocks(t *testing.T) {
	item := milk(true)
	item.Quantity = 0
	repo := newMemRepo(item)
	uc := newUseCase(t, repo, nil, nil)

	res, err := uc.MarkPurchased(context.Background(), &dto.PurchaseInput{UserID: user, ID: "milk-1", Quantity: 2, Store: "Market"})
	require.NoError(t, err)

	assert.True(t, res.Item.InStock)
	assert.False(t, res.Item.Needed)
	assert.Equal(t, 2.0, res.Item.Quantity)
	require.Len(t, res.Item.PurchaseHistory, 1)
	assert.Equal(t, "Milk marked as purchased.", res.Message)
}

func TestConsumeToZeroPutsItemBackOnList(t *testing.T) {
	item := milk(false)
	item.Quantity = 2
	repo := newMemRepo(item)
	uc := newUseCase(t, repo, nil, nil)
	ctx := context.Background()

	got, err := uc.ConsumeItem(ctx, &dto.ConsumeInput{UserID: user, ID: "milk-1", Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Quantity)
	assert.True(t, got.InStock)
	assert.False(t, got.Needed)

	got, err = uc.ConsumeItem(ctx, &dto.ConsumeInput{UserID: user, ID: "milk-1", Quantity: 5})
	require.NoError(t, err)
	assert.Zero(t, got.Quantity)
	assert.False(t, got.InStock)
	assert.True(t, got.Needed)
	assert.False(t, got.IsOrphaned())

	orphans, err := uc.ListOrphans(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, orphans)

	movements, err := uc.ListMovements(ctx, user, "milk-1")
	require.NoError(t, err)
	assert.Len(t, movements, 2)
}

func TestConsumeRequiresQuantityOrAll(t *testing.T) {
	item := milk(false)
	item.Quantity = 3
	repo := newMemRepo(item)
	uc := newUseCase(t, repo, nil, nil)
	ctx := context.Background()

	for _, qty := range []float64{0, -1} {
		_, err := uc.ConsumeItem(ctx, &dto.ConsumeInput{UserID: user, ID: "milk-1", Quantity: qty})
		assert.ErrorIs(t, err, apperr.ErrInvalidInput, "quantity %v", qty)
	}
	unchanged, err := repo.FindByID(ctx, "milk-1")
	require.NoError(t, err)
	assert.Equal(t, 3.0, unchanged.Quantity)
	assert.Empty(t, repo.movements)

	got, err := uc.ConsumeItem(ctx, &dto.ConsumeInput{UserID: user, ID: "milk-1", All: true})
	require.NoError(t, err)
	assert.Zero(t, got.Quantity)
	assert.True(t, got.Needed)
	assert.False(t, got.InStock)
}

func TestRepairOrphans(t *testing.T) {
	orphan := func(id, name string) model.ShoppingItem {
		return model.ShoppingItem{BaseModel: model.BaseModel{ID: id}, UserID: user, ProductName: name, Priority: model.PriorityNormal}
	}
	repo := newMemRepo(orphan("a", "Butter"), orphan("b", "Jam"), milk(false))
	uc := newUseCase(t, repo, nil, nil)
	ctx := context.Background()

	orphans, err := uc.ListOrphans(ctx, user)
	require.NoError(t, err)
	assert.Len(t, orphans, 2)

	res, err := uc.RepairOrphan(ctx, user, "a")
	require.NoError(t, err)
	assert.True(t, res.Item.Needed)
	assert.Equal(t, model.PriorityHigh, res.Item.Priority)
	assert.Equal(t, "Butter restored to your shopping list.", res.Message)

	_, err = uc.RepairOrphan(ctx, user, "milk-1")
	assert.ErrorIs(t, err, apperr.ErrConflict)

	all, err := uc.RepairAllOrphans(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 1, all.Repaired)
	assert.Equal(t, "1 items restored to your shopping list.", all.Message)

	orphans, err = uc.ListOrphans(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

func TestBusyLockLeavesStateUnchanged(t *testing.T) {
	repo := newMemRepo(milk(false))
	uc := newUseCase(t, repo, &fakeLocker{busy: true}, nil)

	_, err := uc.MarkNeeded(context.Background(), &dto.MarkNeededInput{UserID: user, ID: "milk-1"})
	assert.ErrorIs(t, err, apperr.ErrBusy)

	stored, _ := repo.FindByID(context.Background(), "milk-1")
	assert.False(t, stored.Needed)
	assert.Empty(t, repo.movements)
}

func TestFailedWriteLeavesStateUnchanged(t *testing.T) {
	repo := newMemRepo(milk(false))
	repo.saveErr = errors.New("connection reset")
	uc := newUseCase(t, repo, nil, nil)

	_, err := uc.ConsumeItem(context.Background(), &dto.ConsumeInput{UserID: user, ID: "milk-1", Quantity: 1})
	require.Error(t, err)

	stored, _ := repo.FindByID(context.Background(), "milk-1")
	assert.Equal(t, 1.0, stored.Quantity)
	assert.True(t, stored.InStock)
}

func TestItemsOfOtherUsersAreHidden(t *testing.T) {
	repo := newMemRepo(milk(false))
	uc := newUseCase(t, repo, nil, nil)

	_, err := uc.MarkNeeded(context.Background(), &dto.MarkNeededInput{UserID: "someone-else", ID: "milk-1"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = uc.DeleteItem(context.Background(), "someone-else", "milk-1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, uc.DeleteItem(context.Background(), user, "milk-1"))
	assert.Zero(t, repo.count())
}
