package usecase

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/fekuna/wlpl-service/internal/analytics"
	"github.com/fekuna/wlpl-service/internal/analytics/dto"
	decisiondto "github.com/fekuna/wlpl-service/internal/decision/dto"
	"github.com/fekuna/wlpl-service/internal/model"
	perkdto "github.com/fekuna/wlpl-service/internal/perk/dto"
	"github.com/fekuna/wlpl-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type analyticsUseCase struct {
	repo        analytics.Repository
	decisions   analytics.DecisionStats
	redemptions analytics.RedemptionCounter
	logger      logger.ZapLogger
}

func NewAnalyticsUseCase(repo analytics.Repository, decisions analytics.DecisionStats, redemptions analytics.RedemptionCounter, log logger.ZapLogger) analytics.UseCase {
	return &analyticsUseCase{
		repo:        repo,
		decisions:   decisions,
		redemptions: redemptions,
		logger:      log,
	}
}

// sections runs each named loader concurrently and returns the names of the
// ones that failed, sorted. A failure never cancels its siblings.
func (uc *analyticsUseCase) sections(loaders map[string]func() error) []string {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		failed []string
	)
	for name, fn := range loaders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				uc.logger.Warn("analytics section failed", zap.String("section", name), zap.Error(err))
				mu.Lock()
				failed = append(failed, name)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	sort.Strings(failed)
	return failed
}

func (uc *analyticsUseCase) Summary(ctx context.Context, r dto.Range) (*dto.Summary, error) {
	out := &dto.Summary{From: r.From, To: r.To}

	var (
		orders    *dto.OrderSection
		decisions *decisiondto.Stats
		redeemed  int
		purchased int
	)
	failed := uc.sections(map[string]func() error{
		"orders": func() (err error) {
			orders, err = uc.orderSection(ctx, r)
			return err
		},
		"decisions": func() (err error) {
			decisions, err = uc.decisions.Stats(ctx, decisiondto.Range{From: r.From, To: r.To})
			return err
		},
		"perk_redemptions": func() (err error) {
			redeemed, err = uc.redemptions.CountRedemptions(ctx, perkdto.Range{From: r.From, To: r.To})
			return err
		},
		"items_purchased": func() (err error) {
			purchased, err = uc.repo.ItemsPurchased(ctx, r)
			return err
		},
	})

	ok := func(name string) bool { return !contains(failed, name) }
	if ok("orders") {
		out.Orders = orders
	}
	if ok("decisions") {
		out.Decisions = decisions
	}
	if ok("perk_redemptions") {
		out.PerkRedemptions = &redeemed
	}
	if ok("items_purchased") {
		out.ItemsPurchased = &purchased
	}
	out.Warnings = failed
	return out, nil
}

func (uc *analyticsUseCase) orderSection(ctx context.Context, r dto.Range) (*dto.OrderSection, error) {
	counts, err := uc.repo.OrdersByStatus(ctx, r)
	if err != nil {
		return nil, err
	}
	totals, err := uc.repo.DeliveredTotals(ctx, r)
	if err != nil {
		return nil, err
	}

	s := &dto.OrderSection{ByStatus: map[string]int{}, GMV: decimal.Zero, AverageBasket: decimal.Zero}
	for _, st := range model.OrderStages {
		s.ByStatus[string(st)] = 0
	}
	s.ByStatus[string(model.OrderStatusCancelled)] = 0
	for _, c := range counts {
		s.ByStatus[c.Status] += c.Count
	}

	if totals != nil {
		s.Delivered = totals.Orders
		s.GMV = totals.GMV.Round(2)
		if totals.Orders > 0 {
			s.AverageBasket = totals.GMV.Div(decimal.NewFromInt(int64(totals.Orders))).Round(2)
		}
	}

	// Completion is measured over orders that reached an end state.
	delivered := s.ByStatus[string(model.OrderStatusDelivered)]
	finished := delivered + s.ByStatus[string(model.OrderStatusCancelled)]
	if finished > 0 {
		s.CompletionRate = round2(float64(delivered) / float64(finished))
	}
	return s, nil
}

func (uc *analyticsUseCase) UserAnalytics(ctx context.Context, userID string, r dto.Range) (*dto.UserAnalytics, error) {
	out := &dto.UserAnalytics{UserID: userID}

	var (
		weights *dto.WeightEnds
		meals   *dto.MealTotals
		steps   *dto.StepTotals
	)
	out.Warnings = uc.sections(map[string]func() error{
		"weight": func() (err error) {
			weights, err = uc.repo.WeightEnds(ctx, userID, r)
			return err
		},
		"meals": func() (err error) {
			meals, err = uc.repo.MealTotals(ctx, userID, r)
			return err
		},
		"steps": func() (err error) {
			steps, err = uc.repo.StepTotals(ctx, userID, r)
			return err
		},
	})

	if weights != nil && !contains(out.Warnings, "weight") {
		out.WeightLogs = weights.Logs
		if weights.Logs >= 2 {
			change := round2(weights.LastKg - weights.FirstKg)
			out.WeightChangeKg = &change
		}
	}
	if meals != nil && !contains(out.Warnings, "meals") {
		out.MealsLogged = meals.Meals
		if meals.Days > 0 {
			out.AvgDailyCalories = round2(meals.Calories / float64(meals.Days))
		}
	}
	if steps != nil && !contains(out.Warnings, "steps") && steps.Days > 0 {
		out.AvgDailySteps = round2(float64(steps.Steps) / float64(steps.Days))
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
