package dto

type CreateCategoryInput struct {
	ParentID    *string `json:"parent_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Perishable  bool    `json:"perishable"`
	SortOrder   int     `json:"sort_order"`
}

type UpdateCategoryInput struct {
	ID          string  `json:"-"`
	ParentID    *string `json:"parent_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Perishable  bool    `json:"perishable"`
	SortOrder   int     `json:"sort_order"`
	IsActive    bool    `json:"is_active"`
}
