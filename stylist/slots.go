package stylist

import "strings"

// Category is the coarse garment family guessed from free-text category names.
type Category string

const (
	CategoryFullBody  Category = "FullBody"
	CategoryBottoms   Category = "Bottoms"
	CategoryOuterwear Category = "Outerwear"
	CategoryTops      Category = "Tops"
	CategoryShoes     Category = "Shoes"
	CategoryAccessory Category = "Accessory"
)

// ProductType is the outfit slot a garment fills.
type ProductType string

const (
	TypeTop       ProductType = "Top"
	TypeBottom    ProductType = "Bottom"
	TypeOuterwear ProductType = "Outerwear"
	TypeFootwear  ProductType = "Footwear"
	TypeAccessory ProductType = "Accessory"
	TypeOther     ProductType = "Other"
)

type keywordRule struct {
	category Category
	keywords []string
}

// FullBody must be checked before Tops so that "Kurta Set" is not a Top.
var classifierRules = []keywordRule{
	{CategoryFullBody, []string{"set", "suit", "sherwani", "pajama", "co-ords", "overall", "jumpsuit"}},
	{CategoryBottoms, []string{"jeans", "trouser", "pant", "chinos", "jogger", "short", "bottom", "skirt", "legging"}},
	{CategoryOuterwear, []string{"jacket", "blazer", "coat", "bandhgala", "vest", "cardigan"}},
	{CategoryTops, []string{"shirt", "top", "tee", "t-shirt", "kurta", "tunic", "blouse"}},
	{CategoryShoes, []string{"shoe", "sneaker", "boot", "sandal", "footwear", "heel", "flat"}},
}

// Classify maps a category string to a garment family. First matching rule wins.
func Classify(categoryText string) Category {
	text := strings.ToLower(categoryText)
	for _, rule := range classifierRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(text, keyword) {
				return rule.category
			}
		}
	}
	return CategoryAccessory
}

// TypeLists holds the exact catalog category names belonging to every product type.
type TypeLists map[ProductType][]string

var typeOrder = []ProductType{TypeTop, TypeBottom, TypeOuterwear, TypeFootwear, TypeAccessory}

var DefaultTypeLists = TypeLists{
	TypeTop:       {"T-Shirt", "Formal Shirt", "shirt", "Kurta", "Short Kurta", "Kurta Shirt"},
	TypeBottom:    {"Jeans", "Chinos", "Joggers", "Formal Trousers"},
	TypeOuterwear: {"Jacket", "Blazer", "Bandhgala", "Bandhgala Jacket"},
	TypeFootwear:  {"Formal Shoes", "Sneakers", "Loafers", "Boots", "Sandals", "Mojari"},
	TypeAccessory: {"Belt", "Watch", "Tie", "Pocket Square", "Sunglasses", "Stole", "Bag"},
}

// ProductTypeOf is the strict mapping: exact membership in one of the lists.
func ProductTypeOf(category string, lists TypeLists) ProductType {
	for _, productType := range typeOrder {
		for _, name := range lists[productType] {
			if name == category {
				return productType
			}
		}
	}
	return TypeOther
}

// Categories returns the catalog categories that can fill any of the given types.
func (lists TypeLists) Categories(types []ProductType) []string {
	var categories []string
	for _, productType := range types {
		categories = append(categories, lists[productType]...)
	}
	return categories
}

// RequiredTypes lists the slots that complete an outfit around a garment family.
func RequiredTypes(category Category) []ProductType {
	switch category {
	case CategoryTops:
		return []ProductType{TypeBottom, TypeFootwear, TypeAccessory}
	case CategoryBottoms:
		return []ProductType{TypeTop, TypeFootwear, TypeAccessory}
	case CategoryOuterwear:
		return []ProductType{TypeTop, TypeBottom, TypeFootwear, TypeAccessory}
	case CategoryFullBody:
		return []ProductType{TypeFootwear, TypeAccessory}
	default:
		return []ProductType{TypeTop, TypeBottom, TypeFootwear}
	}
}
