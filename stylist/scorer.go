package stylist

import (
	"fmt"
	"sort"
	"strings"

	"fashionapi/languageutil"
)

// Garment is the read-only view of a catalog product used for styling.
type Garment struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Colors      []string `json:"colors"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"imageUrl"`
	Description string   `json:"description,omitempty"`
}

// FirstColor returns the first non-empty color descriptor or "".
func (g Garment) FirstColor() string {
	if len(g.Colors) == 0 {
		return ""
	}
	return strings.TrimSpace(g.Colors[0])
}

const (
	minPriceRatio = 0.3
	maxPriceRatio = 3.0
)

var genericTips = []string{
	"Keep accessories minimal so the main piece stays the focus.",
	"Balance fitted and relaxed silhouettes for an effortless look.",
}

// SelectOutfit picks the best scoring candidate for every required slot.
// Slots without candidates are skipped.
func SelectOutfit(candidates []Garment, main Garment, required []ProductType, occasion string, lists TypeLists) ([]Garment, []string) {
	mainColor := main.FirstColor()
	if mainColor == "" {
		mainColor = main.Name
	}
	targets := MatchingColors(mainColor)
	buckets := bucketByType(candidates, lists)

	selected := []Garment{}
	var tips []string
	for _, slot := range required {
		bucket := buckets[slot]
		if len(bucket) == 0 {
			continue
		}
		best, bestScore := 0, -1
		for i, candidate := range bucket {
			score := scoreCandidate(candidate, main, slot, targets, occasion)
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		pick := bucket[best]
		selected = append(selected, pick)
		tips = append(tips, tipFor(pick))
	}
	if len(tips) == 0 {
		tips = append([]string(nil), genericTips...)
	}
	return selected, tips
}

func scoreCandidate(candidate Garment, main Garment, slot ProductType, targets []string, occasion string) int {
	score := ColorMatchScore(candidate.Colors, targets)
	if occasionPrefers(occasion, slot, candidate.Category) {
		score += 2
	}
	if main.Price > 0 {
		ratio := candidate.Price / main.Price
		if ratio >= minPriceRatio && ratio <= maxPriceRatio {
			score++
		}
	}
	return score
}

// bucketByType groups candidates by strict product type, each bucket in ascending id order.
func bucketByType(candidates []Garment, lists TypeLists) map[ProductType][]Garment {
	buckets := map[ProductType][]Garment{}
	for _, candidate := range candidates {
		productType := ProductTypeOf(candidate.Category, lists)
		buckets[productType] = append(buckets[productType], candidate)
	}
	for _, bucket := range buckets {
		sort.SliceStable(bucket, func(i, j int) bool { return bucket[i].ID < bucket[j].ID })
	}
	return buckets
}

func tipFor(pick Garment) string {
	color := pick.FirstColor()
	if color == "" {
		return fmt.Sprintf("Add the %s to round off the outfit.", pick.Name)
	}
	return fmt.Sprintf("The %s %s picks up the palette of your main piece.", languageutil.Title(color), pick.Name)
}
