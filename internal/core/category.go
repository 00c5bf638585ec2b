package core

import "strings"

// Category tags a Record with one of a closed set of expense kinds.
type Category string

const (
	CategoryGeneric   Category = "generic"
	CategoryFood      Category = "food"
	CategoryTransport Category = "transport"
	CategoryFun       Category = "entertainment"
	CategoryUtilities Category = "utilities"
)

// defaultDescriptions maps each tagged category to the label used when a
// Record is created without an explicit description. Generic has no label.
var defaultDescriptions = map[Category]string{
	CategoryFood:      "Food",
	CategoryTransport: "Transport",
	CategoryFun:       "Entertainment",
	CategoryUtilities: "Utilities",
}

// Categories returns the taxonomy in a fixed display order.
func Categories() []Category {
	return []Category{
		CategoryGeneric,
		CategoryFood,
		CategoryTransport,
		CategoryFun,
		CategoryUtilities,
	}
}

// ParseCategory maps a free-text name to a taxonomy entry. Matching is
// case-insensitive; unrecognized or empty names fall back to Generic.
func ParseCategory(name string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(name))) {
	case CategoryFood:
		return CategoryFood
	case CategoryTransport:
		return CategoryTransport
	case CategoryFun:
		return CategoryFun
	case CategoryUtilities:
		return CategoryUtilities
	default:
		return CategoryGeneric
	}
}

// DefaultDescription returns the category's canonical label, or "" for
// Generic and unknown categories.
func (c Category) DefaultDescription() string {
	return defaultDescriptions[c]
}

func (c Category) String() string {
	return string(c)
}
