package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/internal/perk/dto"
	"github.com/fekuna/wlpl-service/pkg/apperr"
	"github.com/fekuna/wlpl-service/pkg/broker"
	"github.com/fekuna/wlpl-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	perks       map[string]model.Perk
	redemptions []model.PerkRedemption
}

func newMemRepo(ps ...model.Perk) *memRepo {
	r := &memRepo{perks: map[string]model.Perk{}}
	for _, p := range ps {
		r.perks[p.ID] = p
	}
	return r
}

func (r *memRepo) Create(_ context.Context, p *model.Perk) error {
	r.perks[p.ID] = *p
	return nil
}

func (r *memRepo) FindByID(_ context.Context, id string) (*model.Perk, error) {
	p, ok := r.perks[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memRepo) FindAll(_ context.Context, f *dto.PerkFilters) ([]model.Perk, int, error) {
	var out []model.Perk
	for _, p := range r.perks {
		if f.Tier != "" && p.Tier != f.Tier {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (r *memRepo) Update(_ context.Context, p *model.Perk) error {
	r.perks[p.ID] = *p
	return nil
}

func (r *memRepo) FindAvailable(_ context.Context, tiers []model.PerkTier, now time.Time) ([]model.Perk, error) {
	var out []model.Perk
	for _, p := range r.perks {
		if !p.Enabled || p.RemainingCount <= 0 || (p.ExpiresAt != nil && !p.ExpiresAt.After(now)) {
			continue
		}
		for _, t := range tiers {
			if p.Tier == t {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (r *memRepo) HasRedeemed(_ context.Context, perkID, userID string) (bool, error) {
	for _, red := range r.redemptions {
		if red.PerkID == perkID && red.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) Redeem(_ context.Context, red *model.PerkRedemption) (bool, error) {
	p := r.perks[red.PerkID]
	if p.RemainingCount <= 0 {
		return false, nil
	}
	p.RemainingCount--
	r.perks[p.ID] = p
	r.redemptions = append(r.redemptions, *red)
	return true, nil
}

func (r *memRepo) CountRedemptions(_ context.Context, _ dto.Range) (int, error) {
	return len(r.redemptions), nil
}

type fixedTiers map[string]model.PerkTier

func (f fixedTiers) TierOf(_ context.Context, userID string) (model.PerkTier, error) {
	return f[userID], nil
}

type fakeLocker struct{ busy bool }

func (l *fakeLocker) AcquireLock(context.Context, string, string, time.Duration) (bool, error) {
	return !l.busy, nil
}

func (l *fakeLocker) ReleaseLock(context.Context, string, string) error { return nil }

type published struct {
	topic, key string
	v          any
}

type recordingPublisher struct{ sent []published }

func (p *recordingPublisher) PublishJSON(_ context.Context, topic, key string, v any) error {
	p.sent = append(p.sent, published{topic, key, v})
	return nil
}

var clock = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newUseCase(repo *memRepo, tiers fixedTiers, locker *fakeLocker, pub *recordingPublisher) *perkUseCase {
	uc := NewPerkUseCase(repo, tiers, locker, pub, "perks.events", logger.NewNop()).(*perkUseCase)
	uc.now = func() time.Time { return clock }
	return uc
}

func str(s string) *string { return &s }

func codePerk(id string, tier model.PerkTier, remaining int) model.Perk {
	return model.Perk{
		BaseModel:      model.BaseModel{ID: id},
		Sponsor:        "GreenBowl",
		Title:          "20% off salads",
		Tier:           tier,
		Redemption:     model.RedemptionCode,
		Code:           str("GREEN20"),
		TotalAvailable: 10,
		RemainingCount: remaining,
		Enabled:        true,
	}
}

func TestRedeemCodePerk(t *testing.T) {
	repo := newMemRepo(codePerk("p1", model.PerkTierBronze, 2))
	uc := newUseCase(repo, fixedTiers{"u1": model.PerkTierBronze}, &fakeLocker{}, &recordingPublisher{})

	res, err := uc.Redeem(context.Background(), "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "GREEN20", res.Code)
	assert.Equal(t, 1, res.Perk.RemainingCount)
	assert.Equal(t, clock, res.Redemption.RedeemedAt)
	assert.Equal(t, 1, repo.perks["p1"].RemainingCount)
}

func TestRedeemRejections(t *testing.T) {
	past := clock.Add(-time.Hour)
	expired := codePerk("expired", model.PerkTierBronze, 5)
	expired.ExpiresAt = &past
	disabled := codePerk("disabled", model.PerkTierBronze, 5)
	disabled.Enabled = false

	repo := newMemRepo(
		codePerk("empty", model.PerkTierBronze, 0),
		codePerk("champ", model.PerkTierChampion, 5),
		expired,
		disabled,
	)
	uc := newUseCase(repo, fixedTiers{"u1": model.PerkTierSilver}, &fakeLocker{}, &recordingPublisher{})

	cases := map[string]error{
		"empty":    apperr.ErrConflict,
		"champ":    apperr.ErrForbidden,
		"expired":  apperr.ErrConflict,
		"disabled": apperr.ErrNotFound,
		"missing":  apperr.ErrNotFound,
	}
	for id, want := range cases {
		_, err := uc.Redeem(context.Background(), "u1", id)
		assert.ErrorIs(t, err, want, id)
	}
	assert.Empty(t, repo.redemptions)
}

func TestRedeemOncePerUser(t *testing.T) {
	repo := newMemRepo(codePerk("p1", model.PerkTierBronze, 5))
	uc := newUseCase(repo, fixedTiers{}, &fakeLocker{}, &recordingPublisher{})

	_, err := uc.Redeem(context.Background(), "u1", "p1")
	require.NoError(t, err)

	_, err = uc.Redeem(context.Background(), "u1", "p1")
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, 4, repo.perks["p1"].RemainingCount)
}

func TestRedeemWebhookPublishesEvent(t *testing.T) {
	p := codePerk("p1", model.PerkTierBronze, 5)
	p.Redemption = model.RedemptionWebhook
	p.Code = nil
	p.WebhookURL = str("https://sponsor.example/hook")
	pub := &recordingPublisher{}
	uc := newUseCase(newMemRepo(p), fixedTiers{}, &fakeLocker{}, pub)

	res, err := uc.Redeem(context.Background(), "u1", "p1")
	require.NoError(t, err)
	assert.Empty(t, res.Code)
	assert.Equal(t, "GreenBowl will contact you shortly.", res.Message)

	require.Len(t, pub.sent, 1)
	assert.Equal(t, "perks.events", pub.sent[0].topic)
	ev, ok := pub.sent[0].v.(broker.Event[model.PerkRedeemedPayload])
	require.True(t, ok)
	assert.Equal(t, model.EventPerkRedeemed, ev.EventType)
	assert.Equal(t, "https://sponsor.example/hook", ev.Payload.WebhookURL)
	assert.Equal(t, res.Redemption.ID, ev.Payload.RedemptionID)
}

func TestRedeemBusyLock(t *testing.T) {
	repo := newMemRepo(codePerk("p1", model.PerkTierBronze, 5))
	uc := newUseCase(repo, fixedTiers{}, &fakeLocker{busy: true}, &recordingPublisher{})

	_, err := uc.Redeem(context.Background(), "u1", "p1")
	assert.ErrorIs(t, err, apperr.ErrBusy)
	assert.Equal(t, 5, repo.perks["p1"].RemainingCount)
}

func TestListAvailableByTier(t *testing.T) {
	repo := newMemRepo(
		codePerk("b", model.PerkTierBronze, 1),
		codePerk("s", model.PerkTierSilver, 1),
		codePerk("c", model.PerkTierChampion, 1),
	)
	uc := newUseCase(repo, fixedTiers{"silver": model.PerkTierSilver, "odd": "platinum"}, &fakeLocker{}, nil)

	ids := func(ps []model.Perk) []string {
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = p.ID
		}
		return out
	}

	got, err := uc.ListAvailable(context.Background(), "silver")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b", "s"}, ids(got))

	got, err = uc.ListAvailable(context.Background(), "odd")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b"}, ids(got))
}

func TestCreatePerkValidation(t *testing.T) {
	uc := newUseCase(newMemRepo(), fixedTiers{}, &fakeLocker{}, nil)
	base := dto.PerkInput{Sponsor: "GreenBowl", Title: "Salad", Tier: model.PerkTierBronze, Redemption: model.RedemptionCode, Code: "X", TotalAvailable: 3}

	bad := []func(*dto.PerkInput){
		func(in *dto.PerkInput) { in.Title = " " },
		func(in *dto.PerkInput) { in.Sponsor = "" },
		func(in *dto.PerkInput) { in.Tier = "gold" },
		func(in *dto.PerkInput) { in.TotalAvailable = -1 },
		func(in *dto.PerkInput) { in.Code = "" },
		func(in *dto.PerkInput) { in.Redemption = model.RedemptionLink; in.Link = "not a url" },
		func(in *dto.PerkInput) { in.Redemption = model.RedemptionWebhook; in.WebhookURL = "ftp://x" },
		func(in *dto.PerkInput) { in.Redemption = "mail" },
	}
	for i, mutate := range bad {
		in := base
		mutate(&in)
		_, err := uc.CreatePerk(context.Background(), &in)
		assert.ErrorIs(t, err, apperr.ErrInvalidInput, "case %d", i)
	}

	created, err := uc.CreatePerk(context.Background(), &base)
	require.NoError(t, err)
	assert.Equal(t, 3, created.RemainingCount)
	require.NotNil(t, created.Code)
	assert.Equal(t, "X", *created.Code)
}

func TestUpdatePerkShiftsRemainingStock(t *testing.T) {
	repo := newMemRepo(codePerk("p1", model.PerkTierBronze, 4))
	uc := newUseCase(repo, fixedTiers{}, &fakeLocker{}, nil)
	in := dto.PerkInput{ID: "p1", Sponsor: "GreenBowl", Title: "Salad", Tier: model.PerkTierBronze, Redemption: model.RedemptionCode, Code: "GREEN20", Enabled: true}

	in.TotalAvailable = 15
	got, err := uc.UpdatePerk(context.Background(), &in)
	require.NoError(t, err)
	assert.Equal(t, 9, got.RemainingCount)

	in.TotalAvailable = 2
	got, err = uc.UpdatePerk(context.Background(), &in)
	require.NoError(t, err)
	assert.Equal(t, 0, got.RemainingCount)

	in.ID = "missing"
	_, err = uc.UpdatePerk(context.Background(), &in)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSetEnabled(t *testing.T) {
	repo := newMemRepo(codePerk("p1", model.PerkTierBronze, 4))
	uc := newUseCase(repo, fixedTiers{}, &fakeLocker{}, nil)

	got, err := uc.SetEnabled(context.Background(), "p1", false)
	require.NoError(t, err)
	assert.False(t, got.Enabled)

	_, err = uc.Redeem(context.Background(), "u1", "p1")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
