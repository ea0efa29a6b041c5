package models

import (
	"math"
	"strings"
)

const DefaultPreparationTime = 15

// MaxPrice caps a menu price in rupees.
const MaxPrice int64 = 10_000_000

// DefaultCategories is what the dashboard offers before any item exists.
var DefaultCategories = []string{"Main Course", "Appetizers", "Breads", "Beverages", "Desserts"}

type NutritionInfo struct {
	Calories int `json:"calories" yaml:"calories"`
	Protein  int `json:"protein" yaml:"protein"`
	Carbs    int `json:"carbs" yaml:"carbs"`
	Fat      int `json:"fat" yaml:"fat"`
}

type MenuItem struct {
	ID              string         `db:"id" json:"id" yaml:"id"`
	Name            string         `db:"name" json:"name" yaml:"name"`
	Description     string         `db:"description" json:"description" yaml:"description"`
	Price           int64          `db:"price" json:"price" yaml:"price"`
	Category        string         `db:"category" json:"category" yaml:"category"`
	Available       bool           `db:"available" json:"available" yaml:"available"`
	PreparationTime int            `db:"preparation_time" json:"preparationTime" yaml:"preparationTime"`
	Tags            []string       `db:"tags" json:"tags" yaml:"tags"`
	NutritionInfo   *NutritionInfo `db:"nutrition_info" json:"nutritionInfo,omitempty" yaml:"nutritionInfo"`
	AIRecommended   bool           `db:"ai_recommended" json:"aiRecommended" yaml:"aiRecommended"`
	Image           string         `db:"image" json:"image,omitempty" yaml:"image"`
}

// MenuItemInput is the editable part of a menu item.
type MenuItemInput struct {
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Price           int64          `json:"price"`
	Category        string         `json:"category"`
	Available       *bool          `json:"available"`
	PreparationTime *int           `json:"preparationTime"`
	Tags            []string       `json:"tags"`
	NutritionInfo   *NutritionInfo `json:"nutritionInfo"`
	AIRecommended   bool           `json:"aiRecommended"`
	Image           string         `json:"image"`
}

// Validate trims text fields in place and reports every problem at once.
func (in *MenuItemInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)

	var v ValidationError
	if in.Name == "" {
		v.Add("name is required")
	}
	if in.Description == "" {
		v.Add("description is required")
	}
	if in.Category == "" {
		v.Add("category is required")
	}
	if in.Price <= 0 {
		v.Add("price must be positive")
	}
	if in.Price > MaxPrice {
		v.Add("price must be at most %d", MaxPrice)
	}
	if in.PreparationTime != nil && *in.PreparationTime < 0 {
		v.Add("preparationTime must not be negative")
	}
	return v.Err()
}

// Apply copies the input onto item, filling defaults for omitted fields.
// Omitted nutrition info and image keep the item's current values.
func (in MenuItemInput) Apply(item *MenuItem) {
	item.Name = in.Name
	item.Description = in.Description
	item.Price = in.Price
	item.Category = in.Category
	item.Available = true
	if in.Available != nil {
		item.Available = *in.Available
	}
	item.PreparationTime = DefaultPreparationTime
	if in.PreparationTime != nil {
		item.PreparationTime = *in.PreparationTime
	}
	item.Tags = in.Tags
	if item.Tags == nil {
		item.Tags = []string{}
	}
	if in.NutritionInfo != nil {
		item.NutritionInfo = in.NutritionInfo
	}
	item.AIRecommended = in.AIRecommended
	if in.Image != "" {
		item.Image = in.Image
	}
}

// Input returns the editable fields of the item.
func (m MenuItem) Input() MenuItemInput {
	available := m.Available
	prep := m.PreparationTime
	return MenuItemInput{
		Name:            m.Name,
		Description:     m.Description,
		Price:           m.Price,
		Category:        m.Category,
		Available:       &available,
		PreparationTime: &prep,
		Tags:            m.Tags,
		NutritionInfo:   m.NutritionInfo,
		AIRecommended:   m.AIRecommended,
		Image:           m.Image,
	}
}

// Categories lists distinct categories in first-seen order, or the defaults for an empty menu.
func Categories(items []MenuItem) []string {
	if len(items) == 0 {
		return append([]string(nil), DefaultCategories...)
	}
	seen := make(map[string]bool)
	var out []string
	for _, item := range items {
		if item.Category == "" || seen[item.Category] {
			continue
		}
		seen[item.Category] = true
		out = append(out, item.Category)
	}
	return out
}

// AdjustPrice applies a percentage change, rounding half away from zero and
// keeping the result between 1 and MaxPrice.
func AdjustPrice(price int64, percentage float64) int64 {
	adjusted := math.Round(float64(price) * (1 + percentage/100))
	switch {
	case adjusted < 1:
		return 1
	case adjusted > float64(MaxPrice):
		return MaxPrice
	}
	return int64(adjusted)
}
