package dto

type CreateProductInput struct {
	Barcode        string  `json:"barcode"`
	Name           string  `json:"name"`
	Brand          string  `json:"brand"`
	CategoryID     string  `json:"category_id"`
	Category       string  `json:"category"`
	ServingSize    string  `json:"serving_size"`
	Calories       float64 `json:"calories"`
	ProteinG       float64 `json:"protein_g"`
	CarbsG         float64 `json:"carbs_g"`
	FatG           float64 `json:"fat_g"`
	EstimatedPrice float64 `json:"estimated_price"`
	Verified       bool    `json:"verified"`
}

type UpdateProductInput struct {
	ID             string  `json:"-"`
	Barcode        string  `json:"barcode"`
	Name           string  `json:"name"`
	Brand          string  `json:"brand"`
	CategoryID     string  `json:"category_id"`
	Category       string  `json:"category"`
	ServingSize    string  `json:"serving_size"`
	Calories       float64 `json:"calories"`
	ProteinG       float64 `json:"protein_g"`
	CarbsG         float64 `json:"carbs_g"`
	FatG           float64 `json:"fat_g"`
	EstimatedPrice float64 `json:"estimated_price"`
	Verified       bool    `json:"verified"`
	IsActive       bool    `json:"is_active"`
}
