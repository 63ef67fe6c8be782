// Package taxonomy holds the fixed category tree, color palette and
// specification option lists used to populate the product form's cascading
// selectors. All data is read-only package state.
package taxonomy

// SubCategory is one second-level entry. A nil or empty Types slice marks a
// leaf: the form skips the specific-type selection step for it.
type SubCategory struct {
	Name  string
	Types []string
}

func (s SubCategory) Leaf() bool {
	return len(s.Types) == 0
}

// CustomColor is the dropdown sentinel that switches a variant to free-text
// color entry.
const CustomColor = "Custom"

// OtherOption is the equivalent sentinel for specification dropdowns.
const OtherOption = "Other"

var categories = map[string][]SubCategory{
	"Men": {
		{Name: "Topwear", Types: []string{"T-Shirts", "Shirts", "Polos", "Vests"}},
		{Name: "Bottomwear", Types: []string{"Jeans", "Joggers", "Trousers", "Shorts"}},
		{Name: "Winterwear", Types: []string{"Hoodies", "Sweatshirts", "Jackets"}},
		{Name: "Co-ord Sets"},
	},
	"Women": {
		{Name: "Topwear", Types: []string{"Tops", "T-Shirts", "Shirts"}},
		{Name: "Bottomwear", Types: []string{"Jeans", "Leggings", "Skirts", "Palazzos"}},
		{Name: "Dresses"},
		{Name: "Winterwear", Types: []string{"Hoodies", "Sweatshirts", "Cardigans"}},
	},
	"Kids": {
		{Name: "Boys", Types: []string{"T-Shirts", "Shirts", "Shorts"}},
		{Name: "Girls", Types: []string{"Tops", "Dresses", "Skirts"}},
	},
	"Accessories": {
		{Name: "Caps"},
		{Name: "Bags"},
		{Name: "Socks"},
	},
}

// Colors is the fixed palette offered before the Custom entry.
var Colors = []string{
	"Black", "White", "Grey", "Navy", "Blue", "Red",
	"Maroon", "Green", "Olive", "Yellow", "Pink", "Beige",
}

// Sizes are the selectable size codes for a stock row.
var Sizes = []string{"S", "M", "L", "XL", "XXL"}

// SpecFields lists the specification keys in display order.
var SpecFields = []string{"Fabric", "Fit", "Sleeve", "Neck", "Occasion", "Wash Care"}

// SpecOptions maps a specification key to its fixed option list. Each
// selector also offers OtherOption for free-text entry.
var SpecOptions = map[string][]string{
	"Fabric":    {"Cotton", "Cotton Blend", "Polyester", "Linen", "Fleece"},
	"Fit":       {"Regular", "Slim", "Oversized", "Relaxed"},
	"Sleeve":    {"Half Sleeve", "Full Sleeve", "Sleeveless"},
	"Neck":      {"Round Neck", "V Neck", "Polo Collar", "Hooded"},
	"Occasion":  {"Casual", "Formal", "Sports", "Lounge"},
	"Wash Care": {"Machine Wash", "Hand Wash"},
}

// GalleryViews labels the fixed additional-image slots.
var GalleryViews = []string{"front", "back", "side", "detail"}

// MainCategories returns the first-level names in a stable order.
func MainCategories() []string {
	return []string{"Men", "Women", "Kids", "Accessories"}
}

// SubCategoriesOf returns the second-level names under main. Unknown keys
// yield an empty list.
func SubCategoriesOf(main string) []string {
	subs := categories[main]
	names := make([]string, 0, len(subs))
	for _, s := range subs {
		names = append(names, s.Name)
	}
	return names
}

// TypesOf returns the third-level names under (main, sub). An empty result
// means the pair is a leaf (or unknown) and the form has no third step.
func TypesOf(main, sub string) []string {
	for _, s := range categories[main] {
		if s.Name == sub {
			return s.Types
		}
	}
	return nil
}

// IsPaletteColor reports whether color is one of the fixed palette entries.
func IsPaletteColor(color string) bool {
	for _, c := range Colors {
		if c == color {
			return true
		}
	}
	return false
}

// IsSpecOption reports whether value is a fixed option for the given key.
func IsSpecOption(key, value string) bool {
	for _, v := range SpecOptions[key] {
		if v == value {
			return true
		}
	}
	return false
}
