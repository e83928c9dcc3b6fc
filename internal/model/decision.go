package model

import "time"

type ReviewStatus string

const (
	ReviewStatusUnreviewed ReviewStatus = "unreviewed"
	ReviewStatusApproved   ReviewStatus = "approved"
	ReviewStatusReversed   ReviewStatus = "reversed"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewStatusUnreviewed, ReviewStatusApproved, ReviewStatusReversed:
		return true
	}
	return false
}

// AIDecision is an automated decision kept for human audit.
type AIDecision struct {
	DecisionID      string       `db:"decision_id" json:"decision_id"`
	UserID          string       `db:"user_id" json:"user_id"`
	DecisionType    string       `db:"decision_type" json:"decision_type"`
	Decision        string       `db:"decision" json:"decision"`
	Confidence      float64      `db:"confidence" json:"confidence"`
	Rationale       string       `db:"rationale" json:"rationale"`
	PolicyReference string       `db:"policy_reference" json:"policy_reference"`
	Model           string       `db:"model" json:"model"`
	ReviewStatus    ReviewStatus `db:"review_status" json:"review_status"`
	ReviewedBy      *string      `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time   `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ReviewNotes     *string      `db:"review_notes" json:"review_notes,omitempty"`
	ReversalReason  *string      `db:"reversal_reason" json:"reversal_reason,omitempty"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
}
