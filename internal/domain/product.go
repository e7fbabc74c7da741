package domain

import "strings"

type ProductType string

const (
	ProductProtein     ProductType = "protein"
	ProductCreatine    ProductType = "creatine"
	ProductPreWorkout  ProductType = "pre_workout"
	ProductPostWorkout ProductType = "post_workout"
	ProductFatBurner   ProductType = "fat_burner"
	ProductAmino       ProductType = "amino"
	ProductVitamin     ProductType = "vitamin"
	ProductOther       ProductType = "other"
)

// ParseProductType maps a catalog type onto the fixed vocabulary. Unknown types become other.
func ParseProductType(s string) ProductType {
	switch t := ProductType(strings.ToLower(strings.TrimSpace(s))); t {
	case ProductProtein, ProductCreatine, ProductPreWorkout, ProductPostWorkout,
		ProductFatBurner, ProductAmino, ProductVitamin, ProductOther:
		return t
	}
	return ProductOther
}

// Macros are per serving.
type Macros struct {
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Calories float64 `json:"calories"`
}

func (m Macros) Empty() bool {
	return m.Protein == 0 && m.Carbs == 0 && m.Fats == 0 && m.Calories == 0
}

type Brand struct {
	Name     string `json:"name,omitempty"`
	Verified bool   `json:"verified"`
	Premium  bool   `json:"premium"`
}

type Product struct {
	ID     string      `json:"id"`
	Name   string      `json:"name,omitempty"`
	Type   ProductType `json:"type"`
	Macros Macros      `json:"macros"`
	Brand  Brand       `json:"brand"`

	// Category is the catalog type as received, kept after Type collapses
	// it into the fixed vocabulary.
	Category string `json:"-"`
}

func (p Product) Normalize() Product {
	if p.Category == "" {
		p.Category = strings.ToLower(strings.TrimSpace(string(p.Type)))
	}
	p.Type = ParseProductType(string(p.Type))
	return p
}

// IsJointSupport reports whether the product targets joints, based on its
// catalog type or name.
func (p Product) IsJointSupport() bool {
	text := strings.ToLower(p.Category + " " + string(p.Type) + " " + p.Name)
	return strings.Contains(text, "joint") || strings.Contains(text, "glucosamine")
}

// Dosage is the structured usage suggestion attached to a scored product.
type Dosage struct {
	Frequency      string   `json:"frequency"`
	Timing         string   `json:"timing"`
	ServingsPerDay int      `json:"servings_per_day,omitempty"`
	GramsPerDay    float64  `json:"grams_per_day,omitempty"`
	Notes          []string `json:"notes"`
}

type ScoredProduct struct {
	ProductID  string   `json:"product_id"`
	Score      float64  `json:"score"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons"`
	Warnings   []string `json:"warnings"`
	Dosage     Dosage   `json:"dosage_recommendation"`
}
