package stylist

import "strings"

// OccasionStyles lists preferred catalog categories per slot for each occasion.
// Read-only after init.
var OccasionStyles = map[string]map[ProductType][]string{
	"office": {
		TypeTop:       {"Formal Shirt", "shirt"},
		TypeBottom:    {"Formal Trousers", "Chinos"},
		TypeOuterwear: {"Blazer"},
		TypeFootwear:  {"Formal Shoes", "Loafers"},
		TypeAccessory: {"Belt", "Watch", "Tie"},
	},
	"casual": {
		TypeTop:       {"T-Shirt", "shirt", "Short Kurta"},
		TypeBottom:    {"Jeans", "Chinos", "Joggers"},
		TypeOuterwear: {"Jacket"},
		TypeFootwear:  {"Sneakers", "Sandals"},
		TypeAccessory: {"Sunglasses", "Watch", "Bag"},
	},
	"party": {
		TypeTop:       {"shirt", "Kurta Shirt"},
		TypeBottom:    {"Jeans", "Formal Trousers"},
		TypeOuterwear: {"Blazer", "Jacket"},
		TypeFootwear:  {"Loafers", "Boots"},
		TypeAccessory: {"Watch", "Pocket Square"},
	},
	"wedding": {
		TypeTop:       {"Kurta", "Kurta Shirt"},
		TypeBottom:    {"Formal Trousers"},
		TypeOuterwear: {"Bandhgala", "Bandhgala Jacket"},
		TypeFootwear:  {"Mojari", "Formal Shoes"},
		TypeAccessory: {"Stole", "Pocket Square"},
	},
	"festive": {
		TypeTop:       {"Kurta", "Short Kurta", "Kurta Shirt"},
		TypeBottom:    {"Chinos", "Formal Trousers"},
		TypeOuterwear: {"Bandhgala Jacket"},
		TypeFootwear:  {"Mojari", "Sandals"},
		TypeAccessory: {"Stole", "Watch"},
	},
	"date": {
		TypeTop:       {"shirt", "T-Shirt"},
		TypeBottom:    {"Chinos", "Jeans"},
		TypeOuterwear: {"Jacket", "Blazer"},
		TypeFootwear:  {"Loafers", "Sneakers"},
		TypeAccessory: {"Watch", "Sunglasses"},
	},
}

func occasionPrefers(occasion string, slot ProductType, category string) bool {
	styles, ok := OccasionStyles[strings.ToLower(strings.TrimSpace(occasion))]
	if !ok {
		return false
	}
	for _, preferred := range styles[slot] {
		if preferred == category {
			return true
		}
	}
	return false
}
