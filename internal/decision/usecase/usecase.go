package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/wlpl-service/internal/decision"
	"github.com/fekuna/wlpl-service/internal/decision/dto"
	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/pkg/apperr"
	"github.com/fekuna/wlpl-service/pkg/logger"
	"go.uber.org/zap"
)

type decisionUseCase struct {
	repo   decision.Repository
	logger logger.ZapLogger
}

func NewDecisionUseCase(repo decision.Repository, log logger.ZapLogger) decision.UseCase {
	return &decisionUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *decisionUseCase) List(ctx context.Context, filters *dto.DecisionFilters) ([]dto.DecisionView, int, error) {
	const op = "decision.List"
	if filters.ReviewStatus != "" && !filters.ReviewStatus.Valid() {
		return nil, 0, apperr.Invalid(op, "unknown review status")
	}
	if filters.MinConfidence != nil && filters.MaxConfidence != nil && *filters.MinConfidence > *filters.MaxConfidence {
		return nil, 0, apperr.Invalid(op, "min_confidence cannot exceed max_confidence")
	}

	decisions, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	views := make([]dto.DecisionView, len(decisions))
	for i, d := range decisions {
		views[i] = toView(d)
	}
	return views, count, nil
}

func (uc *decisionUseCase) Get(ctx context.Context, id string) (*dto.DecisionView, error) {
	d, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.NotFound("decision.Get", "decision")
	}
	v := toView(*d)
	return &v, nil
}

// Review records an approve or reverse verdict. Reversals need notes, and each
// decision can be reviewed once.
func (uc *decisionUseCase) Review(ctx context.Context, input *dto.ReviewInput) (*dto.DecisionView, error) {
	const op = "decision.Review"
	notes := strings.TrimSpace(input.Notes)

	var status model.ReviewStatus
	switch input.Action {
	case dto.ActionApprove:
		status = model.ReviewStatusApproved
	case dto.ActionReverse:
		if notes == "" {
			return nil, apperr.Invalid(op, "notes are required to reverse a decision")
		}
		status = model.ReviewStatusReversed
	default:
		return nil, apperr.Invalid(op, "action must be approve or reverse")
	}

	d, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.NotFound(op, "decision")
	}
	if d.ReviewStatus != model.ReviewStatusUnreviewed {
		return nil, apperr.New(op, apperr.ErrConflict, "decision has already been reviewed")
	}

	now := time.Now()
	reviewer := input.Reviewer
	d.ReviewStatus = status
	d.ReviewedBy = &reviewer
	d.ReviewedAt = &now
	if notes != "" {
		d.ReviewNotes = &notes
	}
	if status == model.ReviewStatusReversed {
		d.ReversalReason = &notes
	}

	ok, err := uc.repo.SaveReview(ctx, d)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.New(op, apperr.ErrConflict, "decision has already been reviewed")
	}

	uc.logger.Info("decision reviewed",
		zap.String("decision_id", d.DecisionID),
		zap.String("status", string(status)),
		zap.String("reviewer", reviewer),
	)
	v := toView(*d)
	return &v, nil
}

func (uc *decisionUseCase) Stats(ctx context.Context, r dto.Range) (*dto.Stats, error) {
	rows, err := uc.repo.CountByStatusAndBand(ctx, r)
	if err != nil {
		return nil, err
	}

	s := &dto.Stats{
		ByStatus: map[string]int{
			string(model.ReviewStatusUnreviewed): 0,
			string(model.ReviewStatusApproved):   0,
			string(model.ReviewStatusReversed):   0,
		},
		ByBand: map[string]int{
			string(decision.BandHigh):   0,
			string(decision.BandMedium): 0,
			string(decision.BandLow):    0,
		},
	}
	for _, row := range rows {
		s.Total += row.Count
		s.ByStatus[string(row.ReviewStatus)] += row.Count
		s.ByBand[row.Band] += row.Count
	}
	s.Reviewed = s.ByStatus[string(model.ReviewStatusApproved)] + s.ByStatus[string(model.ReviewStatusReversed)]
	if s.Reviewed > 0 {
		s.ReversalRate = float64(s.ByStatus[string(model.ReviewStatusReversed)]) / float64(s.Reviewed)
	}
	return s, nil
}

func toView(d model.AIDecision) dto.DecisionView {
	band := decision.ConfidenceBand(d.Confidence)
	return dto.DecisionView{AIDecision: d, Band: string(band), BandColor: band.Color()}
}
