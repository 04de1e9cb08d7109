package languageutil

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomOutfitNameIsTitleCased(t *testing.T) {
	name := RandomOutfitName(rand.New(rand.NewSource(7)))
	parts := strings.Split(name, " ")
	assert.Len(t, parts, 2)
	for _, p := range parts {
		assert.Equal(t, strings.ToUpper(p[:1]), p[:1])
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Navy Blue", Title("navy blue"))
}
