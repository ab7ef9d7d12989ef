package core

// DefaultIcon is shown when a category has no mapped glyph.
const DefaultIcon = "💸"

// categoryIcons is the static category-name-to-glyph lookup used for the
// transaction list. Names match what the backend seeds plus the fixed
// income categories.
var categoryIcons = map[string]string{
	"Food & Dining":     "🍔",
	"Transportation":    "🚗",
	"Shopping":          "🛍️",
	"Entertainment":     "🎮",
	"Bills & Utilities": "💡",
	"Healthcare":        "🏥",
	"Salary":            "💰",
	"Freelance":         "💼",
	"Business":          "🏢",
}

// IconFor returns the display glyph for a category name, falling back to
// DefaultIcon for unmapped names.
func IconFor(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return DefaultIcon
}
