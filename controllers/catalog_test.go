package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"fashionapi/models"
	"fashionapi/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProducts(t *testing.T) {
	e, db, _ := setupTestServer(t, AIServices{})
	test.FakeProduct(db, "Slim Jeans", "Jeans", []string{"blue"}, 60)
	test.FakeProduct(db, "Relaxed Jeans", "Jeans", []string{"black"}, 45)
	test.FakeProduct(db, "White Sneakers", "Sneakers", []string{"white"}, 80)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, test.NewJSONRequest("GET", "/products", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var products []models.Product
	json.Unmarshal(rec.Body.Bytes(), &products)
	assert.Len(t, products, 3)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, test.NewJSONRequest("GET", "/products?category=Jeans&sort=price_asc", nil))
	products = nil
	json.Unmarshal(rec.Body.Bytes(), &products)
	require.Len(t, products, 2)
	assert.Equal(t, "Relaxed Jeans", products[0].Name)
	assert.Equal(t, "Slim Jeans", products[1].Name)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, test.NewJSONRequest("GET", "/products?search=sneak", nil))
	products = nil
	json.Unmarshal(rec.Body.Bytes(), &products)
	require.Len(t, products, 1)
	assert.Equal(t, "White Sneakers", products[0].Name)
	assert.Equal(t, []string{"white"}, []string(products[0].Colors))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, test.NewJSONRequest("GET", "/products?sort=price_desc", nil))
	products = nil
	json.Unmarshal(rec.Body.Bytes(), &products)
	require.Len(t, products, 3)
	assert.Equal(t, "White Sneakers", products[0].Name)
}

func TestGetProduct(t *testing.T) {
	e, db, _ := setupTestServer(t, AIServices{})
	product := test.FakeProduct(db, "Navy Blazer", "Blazer", []string{"navy"}, 150)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, test.NewJSONRequest("GET", fmt.Sprintf("/products/%d", product.ID), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var out models.Product
	json.Unmarshal(rec.Body.Bytes(), &out)
	assert.Equal(t, "Navy Blazer", out.Name)
	assert.Equal(t, models.DefaultStyle, out.Style)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, test.NewJSONRequest("GET", fmt.Sprintf("/products/%d", product.ID+1000), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, test.NewJSONRequest("GET", "/products/abc", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRandomProduct(t *testing.T) {
	e, db, _ := setupTestServer(t, AIServices{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, test.NewJSONRequest("GET", "/products/random", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	imageless := &models.Product{Name: "Ghost", Category: "Belt"}
	db.Create(imageless)
	product := test.FakeProduct(db, "Leather Belt", "Belt", []string{"brown"}, 25)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, test.NewJSONRequest("GET", "/products/random", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var out models.Product
	json.Unmarshal(rec.Body.Bytes(), &out)
	assert.Equal(t, product.ID, out.ID)
}

func TestCollections(t *testing.T) {
	e, db, _ := setupTestServer(t, AIServices{})
	db.Create(&models.Collection{Name: "Summer", Slug: "summer", Featured: true})
	db.Create(&models.Collection{Name: "Office", Slug: "office"})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, test.NewJSONRequest("GET", "/collections", nil))
	var all []models.Collection
	json.Unmarshal(rec.Body.Bytes(), &all)
	assert.Len(t, all, 2)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, test.NewJSONRequest("GET", "/collections?featured=true", nil))
	var featured []models.Collection
	json.Unmarshal(rec.Body.Bytes(), &featured)
	require.Len(t, featured, 1)
	assert.Equal(t, "summer", featured[0].Slug)
}

func TestProductCatalogCandidates(t *testing.T) {
	_, db, _ := setupTestServer(t, AIServices{})
	main := test.FakeProduct(db, "Blue Tee", "T-Shirt", []string{"blue"}, 20)
	jeans := test.FakeProduct(db, "Slim Jeans", "Jeans", []string{"blue"}, 60)
	test.FakeProduct(db, "Navy Blazer", "Blazer", []string{"navy"}, 150)

	garments, err := ProductCatalog{DB: db}.Candidates(t.Context(), []string{"Jeans", "T-Shirt"}, main.ID, 10)
	require.NoError(t, err)
	require.Len(t, garments, 1)
	assert.Equal(t, jeans.ID, garments[0].ID)
	assert.Equal(t, jeans.ImageURL, garments[0].ImageURL)
}
