package insights

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var categoryLabels = map[string]string{
	// expense
	"food":          "Makanan",
	"entertainment": "Hiburan",
	"utilities":     "Utilitas/Tagihan",
	"transport":     "Transportasi",
	"shopping":      "Belanja",
	"education":     "Pendidikan",
	"health":        "Kesehatan",
	"other":         "Lainnya",

	// income
	"salary":     "Gaji",
	"freelance":  "Freelance",
	"bonus":      "Bonus",
	"investment": "Investasi",
}

// CategoryLabel returns the display label of a category. Unknown categories
// have underscores replaced by spaces and each word capitalised.
func CategoryLabel(category string) string {
	if label, ok := categoryLabels[category]; ok {
		return label
	}
	return titleCase(strings.ReplaceAll(category, "_", " "))
}

func titleCase(s string) string {
	words := make([]string, 0)
	for _, w := range strings.Split(s, " ") {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words = append(words, string(unicode.ToUpper(r))+w[size:])
	}
	return strings.Join(words, " ")
}
