package languageutil

import (
	"fmt"
	"math/rand"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var TitleCaser = cases.Title(language.English)
var LowerCaser = cases.Lower(language.English)

var Adjs []string = []string{
	"weekend",
	"easy",
	"sharp",
	"classic",
	"bold",
	"relaxed",
	"polished",
	"festive",
	"minimal",
	"urban",
	"breezy",
	"smart",
	"moody",
	"sunny",
	"crisp",
	"royal",
}

var Nouns []string = []string{
	"edit",
	"layers",
	"ensemble",
	"capsule",
	"look",
	"combo",
	"set",
	"fit",
	"story",
	"mood",
}

func RandomAdjective(rng *rand.Rand) string {
	return Adjs[rng.Intn(len(Adjs))]
}

func RandomNounlike(rng *rand.Rand) string {
	return Nouns[rng.Intn(len(Nouns))]
}

// RandomOutfitName builds a display name such as "Crisp Capsule".
func RandomOutfitName(rng *rand.Rand) string {
	return TitleCaser.String(fmt.Sprintf("%s %s", RandomAdjective(rng), RandomNounlike(rng)))
}

// Title title-cases free text like "navy blue" -> "Navy Blue".
func Title(s string) string {
	return TitleCaser.String(s)
}
