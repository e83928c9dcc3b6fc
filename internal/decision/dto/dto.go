package dto

import (
	"time"

	"github.com/fekuna/wlpl-service/internal/model"
)

type DecisionFilters struct {
	ReviewStatus  model.ReviewStatus
	DecisionType  string
	UserID        string
	MinConfidence *float64
	MaxConfidence *float64
	Page          int
	PageSize      int
}

type ReviewAction string

const (
	ActionApprove ReviewAction = "approve"
	ActionReverse ReviewAction = "reverse"
)

type ReviewInput struct {
	ID       string       `json:"-"`
	Reviewer string       `json:"-"`
	Action   ReviewAction `json:"action"`
	Notes    string       `json:"notes"`
}

// DecisionView adds the derived confidence band to a stored decision.
type DecisionView struct {
	model.AIDecision
	Band      string `json:"band"`
	BandColor string `json:"band_color"`
}

type Range struct {
	From *time.Time
	To   *time.Time
}

type CountRow struct {
	ReviewStatus model.ReviewStatus `db:"review_status"`
	Band         string             `db:"band"`
	Count        int                `db:"count"`
}

type Stats struct {
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"by_status"`
	ByBand       map[string]int `json:"by_band"`
	Reviewed     int            `json:"reviewed"`
	ReversalRate float64        `json:"reversal_rate"`
}
