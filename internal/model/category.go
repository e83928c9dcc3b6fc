package model

type Category struct {
	BaseModel
	ParentID    *string    `db:"parent_id" json:"parent_id"`
	Name        string     `db:"name" json:"name"`
	Description *string    `db:"description" json:"description"`
	Perishable  bool       `db:"perishable" json:"perishable"`
	SortOrder   int        `db:"sort_order" json:"sort_order"`
	IsActive    bool       `db:"is_active" json:"is_active"`
	Children    []Category `db:"-" json:"children,omitempty"`
}
