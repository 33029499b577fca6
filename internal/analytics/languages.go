package analytics

import (
	"math"
	"sort"
)

// FallbackLanguageColor is used for languages missing from the color table
const FallbackLanguageColor = "#cccccc"

// LanguageShare is one language's part of a repository's code
type LanguageShare struct {
	Name       string  `json:"name"`
	Bytes      int64   `json:"bytes"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// LanguageBreakdown converts the GET /languages byte counts into shares sorted by
// size, largest first. Percentages are rounded to one decimal.
func LanguageBreakdown(bytes map[string]int64, colors map[string]string) []LanguageShare {
	var total int64
	for _, b := range bytes {
		if b > 0 {
			total += b
		}
	}

	shares := make([]LanguageShare, 0, len(bytes))
	if total == 0 {
		return shares
	}

	for name, b := range bytes {
		if b <= 0 {
			continue
		}
		color, ok := colors[name]
		if !ok {
			color = FallbackLanguageColor
		}
		shares = append(shares, LanguageShare{
			Name:       name,
			Bytes:      b,
			Percentage: math.Round(float64(b)/float64(total)*1000) / 10,
			Color:      color,
		})
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Bytes != shares[j].Bytes {
			return shares[i].Bytes > shares[j].Bytes
		}
		return shares[i].Name < shares[j].Name
	})

	return shares
}
