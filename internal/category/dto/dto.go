package dto

type CategoryFilters struct {
	ParentID        *string // Nil means ignore, empty string means root categories
	IsActive        *bool
	Perishable      *bool
	IncludeChildren bool
	Page            int
	PageSize        int
}

type Classification struct {
	Name       string `json:"name"`
	CategoryID string `json:"category_id,omitempty"`
	Perishable bool   `json:"perishable"`
	// Known is false when the name matched no stored category and the keyword fallback decided.
	Known bool `json:"known"`
}
