package stylist

import (
	"testing"

	"fashionapi/cascade"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPriority(t *testing.T) {
	cases := map[string]Category{
		"Kurta Set":       CategoryFullBody,
		"Sherwani":        CategoryFullBody,
		"Denim Jacket":    CategoryOuterwear,
		"Slim Fit Jeans":  CategoryBottoms,
		"Formal Trousers": CategoryBottoms,
		"Formal Shirt":    CategoryTops,
		"Kurta":           CategoryTops,
		"Sneakers":        CategoryShoes,
		"Loafers":         CategoryAccessory,
		"Watch":           CategoryAccessory,
		"":                CategoryAccessory,
	}
	for text, expected := range cases {
		assert.Equal(t, expected, Classify(text), text)
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, CategoryFullBody, Classify("KURTA SET"))
	assert.Equal(t, CategoryOuterwear, Classify("bandhgala jacket"))
}

func TestProductTypeOfIsExact(t *testing.T) {
	assert.Equal(t, TypeTop, ProductTypeOf("Formal Shirt", DefaultTypeLists))
	assert.Equal(t, TypeFootwear, ProductTypeOf("Loafers", DefaultTypeLists))
	assert.Equal(t, TypeAccessory, ProductTypeOf("Belt", DefaultTypeLists))
	// heuristics would call this a shirt, the strict mapping does not
	assert.Equal(t, TypeOther, ProductTypeOf("formal shirt", DefaultTypeLists))
	assert.Equal(t, TypeOther, ProductTypeOf("Kurta Set", DefaultTypeLists))
}

func TestRequiredTypes(t *testing.T) {
	assert.Equal(t, []ProductType{TypeBottom, TypeFootwear, TypeAccessory}, RequiredTypes(CategoryTops))
	assert.Equal(t, []ProductType{TypeTop, TypeFootwear, TypeAccessory}, RequiredTypes(CategoryBottoms))
	assert.Equal(t, []ProductType{TypeTop, TypeBottom, TypeFootwear, TypeAccessory}, RequiredTypes(CategoryOuterwear))
	assert.Equal(t, []ProductType{TypeFootwear, TypeAccessory}, RequiredTypes(CategoryFullBody))
	assert.Equal(t, []ProductType{TypeTop, TypeBottom, TypeFootwear}, RequiredTypes(CategoryShoes))
	assert.Equal(t, []ProductType{TypeTop, TypeBottom, TypeFootwear}, RequiredTypes(CategoryAccessory))
}

func TestExtractColorKeyword(t *testing.T) {
	assert.Equal(t, "navy", ExtractColorKeyword("Navy Blue Formal Shirt"))
	assert.Equal(t, "light blue", ExtractColorKeyword("LIGHT BLUE"))
	assert.Equal(t, "grey", ExtractColorKeyword("Charcoal Gray"))
	assert.Equal(t, "olive", ExtractColorKeyword("olive green"))
	assert.Equal(t, "", ExtractColorKeyword("Mustard"))
	assert.Equal(t, "", ExtractColorKeyword(""))
}

func TestMatchingColorsUnknownFallsBackToSafeSet(t *testing.T) {
	for _, color := range []string{"", "Mustard", "teal", "Rainbow Print"} {
		assert.Equal(t, []string{"black", "white", "grey", "navy", "beige"}, MatchingColors(color), color)
	}
}

func TestMatchingColorsReturnsCopy(t *testing.T) {
	first := MatchingColors("navy")
	first[0] = "changed"
	assert.Equal(t, "white", MatchingColors("navy")[0])

	safe := MatchingColors("teal")
	safe[0] = "changed"
	assert.Equal(t, "black", MatchingColors("teal")[0])
}

func TestColorMatchScore(t *testing.T) {
	targets := MatchingColors("navy")
	assert.Equal(t, 0, ColorMatchScore(nil, targets))
	assert.Equal(t, 2, ColorMatchScore([]string{"beige"}, targets))
	assert.Equal(t, 3, ColorMatchScore([]string{"black"}, targets))
	assert.Equal(t, 1, ColorMatchScore([]string{"navy"}, []string{"red"}))
	assert.Equal(t, 0, ColorMatchScore([]string{"mustard", "black"}, targets))

	for _, colors := range [][]string{{"white"}, {"Light Blue"}, {"pink"}, {"grey melange"}, {"teal"}} {
		score := ColorMatchScore(colors, targets)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 3)
	}
}

func navyShirt() Garment {
	return Garment{ID: 1, Name: "Navy Blue Formal Shirt", Category: "Formal Shirt", Colors: []string{"Navy Blue"}, Price: 1200}
}

func TestSelectOutfitOfficeExample(t *testing.T) {
	main := navyShirt()
	trousers := Garment{ID: 10, Name: "Pleated Trousers", Category: "Formal Trousers", Colors: []string{"Beige"}, Price: 900}
	shoes := Garment{ID: 20, Name: "Oxford Shoes", Category: "Formal Shoes", Colors: []string{"Black"}, Price: 1500}
	belt := Garment{ID: 30, Name: "Leather Belt", Category: "Belt", Colors: []string{"Brown"}, Price: 300}
	decoys := []Garment{
		{ID: 11, Name: "Track Joggers", Category: "Joggers", Colors: []string{"Mustard"}, Price: 5000},
		{ID: 21, Name: "Flip Sandals", Category: "Sandals", Colors: []string{"Yellow"}, Price: 100},
	}
	candidates := append([]Garment{trousers, shoes, belt}, decoys...)

	required := RequiredTypes(Classify(main.Category))
	items, tips := SelectOutfit(candidates, main, required, "Office", DefaultTypeLists)

	require.Len(t, items, 3)
	assert.Equal(t, []uint{10, 20, 30}, []uint{items[0].ID, items[1].ID, items[2].ID})
	assert.Len(t, tips, 3)

	targets := MatchingColors(main.FirstColor())
	for i, item := range items {
		score := scoreCandidate(item, main, required[i], targets, "Office")
		assert.GreaterOrEqual(t, score, 2, item.Name)
	}
}

func TestSelectOutfitOnePerSlot(t *testing.T) {
	candidates := []Garment{
		{ID: 5, Name: "Jeans A", Category: "Jeans", Colors: []string{"Blue"}, Price: 1000},
		{ID: 6, Name: "Jeans B", Category: "Jeans", Colors: []string{"Black"}, Price: 1000},
		{ID: 7, Name: "Sneakers", Category: "Sneakers", Colors: []string{"White"}, Price: 1000},
		{ID: 8, Name: "Watch", Category: "Watch", Colors: []string{"Silver"}, Price: 1000},
		{ID: 9, Name: "Belt", Category: "Belt", Colors: []string{"Brown"}, Price: 1000},
	}
	items, _ := SelectOutfit(candidates, Garment{Name: "Tee", Category: "T-Shirt", Colors: []string{"White"}, Price: 800},
		[]ProductType{TypeBottom, TypeFootwear, TypeAccessory}, "casual", DefaultTypeLists)

	seen := map[ProductType]bool{}
	ids := map[uint]bool{}
	for _, item := range items {
		slot := ProductTypeOf(item.Category, DefaultTypeLists)
		assert.False(t, seen[slot], "slot %s picked twice", slot)
		assert.False(t, ids[item.ID])
		seen[slot] = true
		ids[item.ID] = true
	}
	assert.Len(t, items, 3)
}

func TestSelectOutfitTieBreaksOnLowestID(t *testing.T) {
	candidates := []Garment{
		{ID: 42, Name: "Later", Category: "Chinos", Colors: []string{"Beige"}, Price: 1000},
		{ID: 7, Name: "Earlier", Category: "Chinos", Colors: []string{"Beige"}, Price: 1000},
	}
	items, _ := SelectOutfit(candidates, navyShirt(), []ProductType{TypeBottom}, "", DefaultTypeLists)
	require.Len(t, items, 1)
	assert.Equal(t, uint(7), items[0].ID)
}

func TestSelectOutfitSkipsMissingSlots(t *testing.T) {
	sherwani := Garment{ID: 1, Name: "Ivory Sherwani", Category: "Sherwani", Colors: []string{"Cream"}, Price: 9000}
	candidates := []Garment{
		{ID: 2, Name: "Kurta", Category: "Kurta", Colors: []string{"Maroon"}, Price: 2000},
		{ID: 3, Name: "Trousers", Category: "Formal Trousers", Colors: []string{"Navy"}, Price: 2000},
	}
	items, tips := SelectOutfit(candidates, sherwani, RequiredTypes(Classify(sherwani.Category)), "wedding", DefaultTypeLists)
	assert.Empty(t, items)
	assert.Equal(t, genericTips, tips)
}

func TestBuildPromptMentionsSlotsAndCandidates(t *testing.T) {
	prompt := BuildPrompt(OracleRequest{
		Main:       navyShirt(),
		Candidates: []Garment{{ID: 17, Name: "Chinos", Category: "Chinos", Price: 900}},
		Occasion:   "Office",
		Slots:      []ProductType{TypeBottom, TypeFootwear},
	})
	assert.Contains(t, prompt, `"id":"17"`)
	assert.Contains(t, prompt, `"color":"Unknown"`)
	assert.Contains(t, prompt, "Bottom, Footwear")
	assert.Contains(t, prompt, "'Office' occasion for Unisex")
	assert.Contains(t, prompt, "Navy Blue Formal Shirt")
}

func TestParseSelection(t *testing.T) {
	selection, err := ParseSelection("```json\n{\"selected_ids\": [\"3\", 4], \"style_tips\": [\"Roll the sleeves\"]}\n```")
	require.NoError(t, err)
	assert.Equal(t, IDList{"3", "4"}, selection.SelectedIDs)
	assert.Equal(t, []string{"Roll the sleeves"}, selection.StyleTips)

	_, err = ParseSelection("Sure! Here is your outfit.")
	assert.ErrorIs(t, err, cascade.ErrContent)

	_, err = ParseSelection(`{"selected_ids": [{"id": 1}]}`)
	assert.Error(t, err)
}
