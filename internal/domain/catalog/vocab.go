package catalog

import "slices"

const (
	PriceRange0To50    = "$0-50"
	PriceRange50To100  = "$50-100"
	PriceRange100To200 = "$100-200"
	PriceRange200Plus  = "$200+"
)

var (
	Brands = []string{
		"Nike", "Adidas", "Zara", "H&M", "Uniqlo", "Levi's", "Patagonia", "Vans",
		"Converse", "The North Face", "Supreme", "Stüssy", "Other",
	}
	Categories = []string{
		"tops", "bottoms", "dresses", "outerwear", "shoes", "accessories",
		"activewear", "swimwear", "loungewear", "underwear",
	}
	Colors = []string{
		"Black", "White", "Gray", "Navy", "Brown", "Beige", "Red", "Blue", "Green", "Pastels",
	}
	Patterns = []string{
		"solid", "striped", "plaid", "floral", "geometric", "animal print", "abstract", "other",
	}
	Styles = []string{
		"Streetwear", "Casual", "Athletic", "Formal", "Vintage",
		"Minimalist", "Boho", "Preppy", "Grunge", "Techwear",
	}
	Occasions = []string{
		"everyday", "work", "party", "date night", "wedding", "vacation", "gym", "lounging",
	}
	ItemGenders = []string{"men", "women", "unisex"}
	Fits        = []string{"slim", "regular", "loose", "oversized", "tailored"}
	PriceRanges = []string{PriceRange0To50, PriceRange50To100, PriceRange100To200, PriceRange200Plus}

	LetterSizes = []string{"XS", "S", "M", "L", "XL", "XXL"}
	PantsSizes  = []string{"26", "28", "30", "32", "34", "36", "38", "40"}
)

const (
	MinShoeSize = 4
	MaxShoeSize = 23
)

// In reports whether v is one of the allowed values.
func In(allowed []string, v string) bool {
	return slices.Contains(allowed, v)
}

// AllIn reports whether every value is allowed.
func AllIn(allowed []string, values []string) bool {
	for _, v := range values {
		if !In(allowed, v) {
			return false
		}
	}
	return true
}
