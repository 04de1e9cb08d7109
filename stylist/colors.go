package stylist

import "strings"

var multiWordColors = []struct {
	keyword   string
	canonical string
}{
	{"light blue", "light blue"},
	{"dark blue", "dark blue"},
	{"navy blue", "navy"},
}

// More specific names come first: "olive green" is olive.
var singleWordColors = []struct {
	keyword   string
	canonical string
}{
	{"navy", "navy"},
	{"maroon", "maroon"},
	{"olive", "olive"},
	{"beige", "beige"},
	{"cream", "cream"},
	{"khaki", "khaki"},
	{"black", "black"},
	{"white", "white"},
	{"grey", "grey"},
	{"gray", "grey"},
	{"blue", "blue"},
	{"red", "red"},
	{"green", "green"},
	{"yellow", "yellow"},
	{"pink", "pink"},
	{"purple", "purple"},
	{"brown", "brown"},
}

var colorTable = map[string][]string{
	"black":      {"white", "grey", "red", "beige", "pink", "light blue", "olive"},
	"white":      {"black", "navy", "blue", "grey", "beige", "olive", "khaki", "brown"},
	"grey":       {"black", "white", "navy", "pink", "maroon", "light blue"},
	"navy":       {"white", "beige", "khaki", "grey", "light blue", "brown", "black", "cream"},
	"blue":       {"white", "beige", "khaki", "grey", "brown", "navy"},
	"light blue": {"navy", "white", "beige", "khaki", "grey", "dark blue"},
	"dark blue":  {"white", "beige", "grey", "khaki", "light blue"},
	"red":        {"black", "white", "navy", "grey", "beige"},
	"maroon":     {"beige", "cream", "grey", "white", "navy", "khaki"},
	"green":      {"white", "beige", "khaki", "brown", "black", "cream"},
	"olive":      {"white", "beige", "black", "cream", "khaki", "brown"},
	"yellow":     {"navy", "white", "grey", "blue", "black"},
	"pink":       {"grey", "white", "navy", "beige", "black"},
	"purple":     {"grey", "white", "black", "beige"},
	"brown":      {"white", "beige", "cream", "navy", "blue", "olive", "khaki"},
	"beige":      {"navy", "brown", "white", "black", "olive", "maroon"},
	"cream":      {"navy", "brown", "maroon", "olive", "black"},
	"khaki":      {"navy", "white", "black", "brown", "olive", "light blue"},
}

var safeColors = []string{"black", "white", "grey", "navy", "beige"}

var neutralColors = []string{"black", "white", "grey", "navy"}

// ExtractColorKeyword returns the canonical color named in text, or "".
func ExtractColorKeyword(text string) string {
	lower := strings.ToLower(text)
	for _, color := range multiWordColors {
		if strings.Contains(lower, color.keyword) {
			return color.canonical
		}
	}
	for _, color := range singleWordColors {
		if strings.Contains(lower, color.keyword) {
			return color.canonical
		}
	}
	return ""
}

// MatchingColors returns colors that pair with the color named in text.
// Unknown colors get the neutral safe set. The returned slice is a copy.
func MatchingColors(text string) []string {
	matches, ok := colorTable[ExtractColorKeyword(text)]
	if !ok {
		matches = safeColors
	}
	return append([]string(nil), matches...)
}

// ColorMatchScore looks at the first candidate color only: +2 when it contains
// a target color, +1 when it contains a neutral. Result is within [0,3].
func ColorMatchScore(candidateColors []string, targetColors []string) int {
	if len(candidateColors) == 0 {
		return 0
	}
	first := strings.ToLower(candidateColors[0])
	score := 0
	for _, target := range targetColors {
		if target != "" && strings.Contains(first, strings.ToLower(target)) {
			score += 2
			break
		}
	}
	for _, neutral := range neutralColors {
		if strings.Contains(first, neutral) {
			score++
			break
		}
	}
	return score
}
