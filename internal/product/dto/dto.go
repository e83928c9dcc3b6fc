package dto

type ProductFilters struct {
	CategoryID  string `json:"category_id,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
	Verified    *bool  `json:"verified,omitempty"`
	SearchQuery string `json:"q,omitempty"`          // name, brand, barcode
	SortBy      string `json:"sort_by,omitempty"`    // name, calories, created_at
	SortOrder   string `json:"sort_order,omitempty"` // asc, desc
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
}
