package model

type ProductSource string

const (
	ProductSourceManual        ProductSource = "manual"
	ProductSourceOpenFoodFacts ProductSource = "openfoodfacts"
)

type Product struct {
	BaseModel
	Barcode     *string       `db:"barcode" json:"barcode"`
	Name        string        `db:"name" json:"name"`
	Brand       string        `db:"brand" json:"brand"`
	CategoryID  *string       `db:"category_id" json:"category_id"`
	Category    string        `db:"category_name" json:"category"`
	ServingSize string        `db:"serving_size" json:"serving_size"`
	Calories    float64       `db:"calories" json:"calories"`
	ProteinG    float64       `db:"protein_g" json:"protein_g"`
	CarbsG      float64       `db:"carbs_g" json:"carbs_g"`
	FatG        float64       `db:"fat_g" json:"fat_g"`
	Source      ProductSource `db:"source" json:"source"`
	Verified    bool          `db:"verified" json:"verified"`
	IsActive    bool          `db:"is_active" json:"is_active"`
	// EstimatedPrice seeds shop & deliver pricing; zero when unknown.
	EstimatedPrice float64 `db:"estimated_price" json:"estimated_price"`
}
