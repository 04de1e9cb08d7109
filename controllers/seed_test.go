package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fashionapi/models"
	"fashionapi/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	e, db, _ := setupTestServer(t, AIServices{})
	test.FakeProduct(db, "Old Product", "Jeans", nil, 10)
	test.FakeUser(db)

	payload := models.SeedIn{
		Users: []models.SeedUserIn{{Name: "Demo", Email: "Demo@Example.com", Password: "demo-pass"}},
		Products: []models.Product{
			{Name: "Linen Shirt", Category: "shirt", Price: 45, ImageURL: "https://cdn.example.com/linen.png"},
			{Name: "Chelsea Boots", Category: "Boots", Price: 120, Style: "Formal Wear"},
		},
		Collections: []models.Collection{{Name: "Summer", Slug: "summer", Featured: true}},
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, test.NewJSONRootRequest("POST", "/seed", payload, "wrong"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, test.NewJSONRootRequest("POST", "/seed", payload, "root-test"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Counts models.SeedOut `json:"counts"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.Equal(t, models.SeedOut{Products: 2, Collections: 1, Users: 1}, resp.Counts)

	var products []models.Product
	db.Order("id").Find(&products)
	require.Len(t, products, 2)
	assert.Equal(t, []string{"https://cdn.example.com/linen.png"}, []string(products[0].Images))
	assert.Equal(t, models.DefaultStyle, products[0].Style)
	assert.Equal(t, "Formal Wear", products[1].Style)

	var users int64
	db.Model(&models.UserAccount{}).Count(&users)
	assert.Equal(t, int64(1), users)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, test.NewJSONRequest("POST", "/auth/login", models.LoginIn{Email: "demo@example.com", Password: "demo-pass"}))
	assert.Equal(t, http.StatusOK, rec.Code)
}
