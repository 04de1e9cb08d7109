package models

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumScan(t *testing.T) {
	var platform Platform
	require.NoError(t, platform.Scan([]byte("android")))
	assert.Equal(t, PlatformAndroid, platform)
	require.NoError(t, platform.Scan(nil))
	assert.Equal(t, Platform(""), platform)
	assert.Error(t, platform.Scan(42))

	var status PreviewStatus
	require.NoError(t, status.Scan("ready"))
	assert.Equal(t, PreviewReady, status)

	value, err := OrderShipped.Value()
	require.NoError(t, err)
	assert.Equal(t, "Shipped", value)
}

func TestProductToGarment(t *testing.T) {
	product := Product{
		Name:     "Oxford Shirt",
		Category: "Formal Shirt",
		Colors:   pq.StringArray{"white", "blue"},
		Images:   pq.StringArray{"https://cdn.example.com/oxford-1.png", "https://cdn.example.com/oxford-2.png"},
		Price:    49.5,
	}
	product.ID = 7

	garment := product.ToGarment()
	assert.Equal(t, uint(7), garment.ID)
	assert.Equal(t, "https://cdn.example.com/oxford-1.png", garment.ImageURL)
	assert.Equal(t, []string{"white", "blue"}, garment.Colors)

	garment.Colors[0] = "red"
	assert.Equal(t, "white", product.Colors[0])

	product.ImageURL = "https://cdn.example.com/oxford.png"
	assert.Equal(t, "https://cdn.example.com/oxford.png", product.ToGarment().ImageURL)
}

func TestValidators(t *testing.T) {
	v := validator.New()
	v.RegisterValidation("platform", ValidatePlatform)
	v.RegisterValidation("gender", ValidateGender)

	assert.NoError(t, v.Struct(UserPushIn{Token: "t", Platform: "web"}))
	assert.Error(t, v.Struct(UserPushIn{Token: "t", Platform: "tizen"}))

	unisex := "Unisex"
	assert.NoError(t, v.Struct(ProfileUpdateIn{Gender: &unisex}))
	other := "other"
	assert.Error(t, v.Struct(ProfileUpdateIn{Gender: &other}))
	assert.NoError(t, v.Struct(ProfileUpdateIn{}))
}
