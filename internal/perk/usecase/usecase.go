package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/internal/perk"
	"github.com/fekuna/wlpl-service/internal/perk/dto"
	"github.com/fekuna/wlpl-service/pkg/apperr"
	"github.com/fekuna/wlpl-service/pkg/broker"
	"github.com/fekuna/wlpl-service/pkg/cache"
	"github.com/fekuna/wlpl-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var allTiers = []model.PerkTier{model.PerkTierBronze, model.PerkTierSilver, model.PerkTierChampion}

type perkUseCase struct {
	repo   perk.Repository
	tiers  perk.TierSource
	locker cache.Locker
	pub    perk.Publisher
	topic  string
	logger logger.ZapLogger
	now    func() time.Time
}

func NewPerkUseCase(repo perk.Repository, tiers perk.TierSource, locker cache.Locker, pub perk.Publisher, topic string, log logger.ZapLogger) perk.UseCase {
	return &perkUseCase{
		repo:   repo,
		tiers:  tiers,
		locker: locker,
		pub:    pub,
		topic:  topic,
		logger: log,
		now:    time.Now,
	}
}

func (uc *perkUseCase) ListPerks(ctx context.Context, filters *dto.PerkFilters) ([]dto.AdminPerk, int, error) {
	if filters.Tier != "" && filters.Tier.Rank() == 0 {
		return nil, 0, apperr.Invalid("perk.ListPerks", "unknown tier")
	}
	perks, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.AdminPerk, len(perks))
	for i, p := range perks {
		out[i] = adminView(p)
	}
	return out, count, nil
}

func (uc *perkUseCase) CreatePerk(ctx context.Context, input *dto.PerkInput) (*dto.AdminPerk, error) {
	const op = "perk.CreatePerk"
	if err := validate(op, input); err != nil {
		return nil, err
	}

	now := uc.now()
	p := &model.Perk{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		TotalAvailable: input.TotalAvailable,
		RemainingCount: input.TotalAvailable,
		Enabled:        input.Enabled,
	}
	apply(p, input)

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.logger.Info("perk created", zap.String("perk_id", p.ID), zap.String("sponsor", p.Sponsor))
	v := adminView(*p)
	return &v, nil
}

// UpdatePerk edits a perk. Changing TotalAvailable shifts the remaining stock
// by the same amount, never below zero.
func (uc *perkUseCase) UpdatePerk(ctx context.Context, input *dto.PerkInput) (*dto.AdminPerk, error) {
	const op = "perk.UpdatePerk"
	if err := validate(op, input); err != nil {
		return nil, err
	}

	var p *model.Perk
	err := uc.withPerkLock(ctx, op, input.ID, func() error {
		var err error
		p, err = uc.load(ctx, op, input.ID)
		if err != nil {
			return err
		}

		delta := input.TotalAvailable - p.TotalAvailable
		p.TotalAvailable = input.TotalAvailable
		p.RemainingCount = max(0, p.RemainingCount+delta)
		p.Enabled = input.Enabled
		p.UpdatedAt = uc.now()
		apply(p, input)
		return uc.repo.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	v := adminView(*p)
	return &v, nil
}

func (uc *perkUseCase) SetEnabled(ctx context.Context, id string, enabled bool) (*dto.AdminPerk, error) {
	const op = "perk.SetEnabled"
	var p *model.Perk
	err := uc.withPerkLock(ctx, op, id, func() error {
		var err error
		p, err = uc.load(ctx, op, id)
		if err != nil {
			return err
		}
		p.Enabled = enabled
		p.UpdatedAt = uc.now()
		return uc.repo.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	uc.logger.Info("perk toggled", zap.String("perk_id", id), zap.Bool("enabled", enabled))
	v := adminView(*p)
	return &v, nil
}

func (uc *perkUseCase) ListAvailable(ctx context.Context, userID string) ([]model.Perk, error) {
	tier, err := uc.tierOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	eligible := make([]model.PerkTier, 0, len(allTiers))
	for _, t := range allTiers {
		if t.Rank() <= tier.Rank() {
			eligible = append(eligible, t)
		}
	}
	return uc.repo.FindAvailable(ctx, eligible, uc.now())
}

func (uc *perkUseCase) Redeem(ctx context.Context, userID, perkID string) (*dto.RedemptionResult, error) {
	const op = "perk.Redeem"
	tier, err := uc.tierOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	var result *dto.RedemptionResult
	err = uc.withPerkLock(ctx, op, perkID, func() error {
		p, err := uc.load(ctx, op, perkID)
		if err != nil {
			return err
		}
		now := uc.now()
		switch {
		case !p.Enabled:
			return apperr.NotFound(op, "perk")
		case p.ExpiresAt != nil && !p.ExpiresAt.After(now):
			return apperr.New(op, apperr.ErrConflict, "this perk has expired")
		case tier.Rank() < p.Tier.Rank():
			return apperr.New(op, apperr.ErrForbidden, fmt.Sprintf("this perk needs the %s tier", p.Tier))
		case p.RemainingCount <= 0:
			return apperr.New(op, apperr.ErrConflict, "this perk is out of stock")
		}

		already, err := uc.repo.HasRedeemed(ctx, p.ID, userID)
		if err != nil {
			return err
		}
		if already {
			return apperr.New(op, apperr.ErrConflict, "you have already redeemed this perk")
		}

		redemption := model.PerkRedemption{ID: uuid.New().String(), PerkID: p.ID, UserID: userID, RedeemedAt: now}
		ok, err := uc.repo.Redeem(ctx, &redemption)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.New(op, apperr.ErrConflict, "this perk is out of stock")
		}
		p.RemainingCount--

		result = &dto.RedemptionResult{Redemption: redemption, Perk: *p}
		switch p.Redemption {
		case model.RedemptionCode:
			result.Code = deref(p.Code)
			result.Message = "Use this code at checkout."
		case model.RedemptionLink:
			result.Link = deref(p.Link)
			result.Message = "Open the link to claim your perk."
		case model.RedemptionWebhook:
			uc.notifySponsor(ctx, p, redemption)
			result.Message = fmt.Sprintf("%s will contact you shortly.", p.Sponsor)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("perk redeemed", zap.String("perk_id", perkID), zap.String("user_id", userID))
	return result, nil
}

func (uc *perkUseCase) notifySponsor(ctx context.Context, p *model.Perk, r model.PerkRedemption) {
	if uc.pub == nil {
		return
	}
	ev := broker.Event[model.PerkRedeemedPayload]{
		EventID:   uuid.New().String(),
		EventType: model.EventPerkRedeemed,
		Payload: model.PerkRedeemedPayload{
			PerkID:       p.ID,
			RedemptionID: r.ID,
			UserID:       r.UserID,
			Sponsor:      p.Sponsor,
			WebhookURL:   deref(p.WebhookURL),
		},
		Timestamp: r.RedeemedAt,
	}
	if err := uc.pub.PublishJSON(ctx, uc.topic, p.ID, ev); err != nil {
		uc.logger.Error("failed to publish perk redemption", zap.String("perk_id", p.ID), zap.Error(err))
	}
}

func (uc *perkUseCase) withPerkLock(ctx context.Context, op, id string, fn func() error) error {
	ok, err := cache.WithLock(ctx, uc.locker, "lock:perk:"+id, fn)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.New(op, apperr.ErrBusy, "system busy, please try again")
	}
	return nil
}

func (uc *perkUseCase) load(ctx context.Context, op, id string) (*model.Perk, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound(op, "perk")
	}
	return p, nil
}

func (uc *perkUseCase) tierOf(ctx context.Context, userID string) (model.PerkTier, error) {
	tier, err := uc.tiers.TierOf(ctx, userID)
	if err != nil {
		return "", err
	}
	if tier.Rank() == 0 {
		return model.PerkTierBronze, nil
	}
	return tier, nil
}

func validate(op string, in *dto.PerkInput) error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return apperr.Invalid(op, "title is required")
	case strings.TrimSpace(in.Sponsor) == "":
		return apperr.Invalid(op, "sponsor is required")
	case in.Tier.Rank() == 0:
		return apperr.Invalid(op, "tier must be bronze, silver or champion")
	case in.TotalAvailable < 0:
		return apperr.Invalid(op, "total_available cannot be negative")
	}

	switch in.Redemption {
	case model.RedemptionCode:
		if strings.TrimSpace(in.Code) == "" {
			return apperr.Invalid(op, "code is required for code perks")
		}
	case model.RedemptionLink:
		if !validURL(in.Link) {
			return apperr.Invalid(op, "a valid link is required for link perks")
		}
	case model.RedemptionWebhook:
		if !validURL(in.WebhookURL) {
			return apperr.Invalid(op, "a valid webhook_url is required for webhook perks")
		}
	default:
		return apperr.Invalid(op, "redemption must be code, link or webhook")
	}
	return nil
}

func apply(p *model.Perk, in *dto.PerkInput) {
	p.Sponsor = strings.TrimSpace(in.Sponsor)
	p.Title = strings.TrimSpace(in.Title)
	p.Description = in.Description
	p.Tier = in.Tier
	p.Redemption = in.Redemption
	p.Code = optional(in.Code)
	p.Link = optional(in.Link)
	p.WebhookURL = optional(in.WebhookURL)
	p.ExpiresAt = in.ExpiresAt
}

func adminView(p model.Perk) dto.AdminPerk {
	return dto.AdminPerk{Perk: p, Code: p.Code, WebhookURL: p.WebhookURL}
}

func validURL(raw string) bool {
	u, err := url.ParseRequestURI(strings.TrimSpace(raw))
	return err == nil && (u.Scheme == "https" || u.Scheme == "http") && u.Host != ""
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
