package controllers

import (
	"context"
	"net/http"
	"strings"

	"fashionapi/models"
	"fashionapi/stylist"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const maxProductList = 1000

type CatalogController struct{}

func (m *CatalogController) CatalogRoutes(e *echo.Echo) {
	e.GET("/collections", func(c echo.Context) error {
		db := c.Get("__db").(*gorm.DB)
		query := db.Model(&models.Collection{})
		switch c.QueryParam("featured") {
		case "true":
			query = query.Where("featured = ?", true)
		case "false":
			query = query.Where("featured = ?", false)
		}
		collections := []models.Collection{}
		if err := query.Order("id").Find(&collections).Error; err != nil {
			return echo.ErrInternalServerError
		}
		return c.JSON(http.StatusOK, collections)
	})

	e.GET("/products", func(c echo.Context) error {
		db := c.Get("__db").(*gorm.DB)
		query := db.Model(&models.Product{})
		if category := c.QueryParam("category"); category != "" {
			query = query.Where("category = ?", category)
		}
		if search := strings.TrimSpace(c.QueryParam("search")); search != "" {
			query = query.Where("name ILIKE ?", "%"+search+"%")
		}
		switch c.QueryParam("sort") {
		case "price_asc":
			query = query.Order("price asc")
		case "price_desc":
			query = query.Order("price desc")
		case "newest":
			query = query.Order("created_at desc")
		default:
			query = query.Order("id")
		}
		products := []models.Product{}
		if err := query.Limit(maxProductList).Find(&products).Error; err != nil {
			return echo.ErrInternalServerError
		}
		return c.JSON(http.StatusOK, products)
	})

	e.GET("/products/random", func(c echo.Context) error {
		db := c.Get("__db").(*gorm.DB)
		var product models.Product
		r := db.Where("image_url <> ''").Order("RANDOM()").Limit(1).Find(&product)
		if r.Error != nil {
			return echo.ErrInternalServerError
		}
		if r.RowsAffected == 0 {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "No products found"})
		}
		return c.JSON(http.StatusOK, product)
	})

	e.GET("/products/:id", func(c echo.Context) error {
		db := c.Get("__db").(*gorm.DB)
		var id uint
		if err := echo.PathParamsBinder(c).Uint("id", &id).BindError(); err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Product not found"})
		}
		var product models.Product
		r := db.Limit(1).Find(&product, id)
		if r.Error != nil {
			return echo.ErrInternalServerError
		}
		if r.RowsAffected == 0 {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Product not found"})
		}
		return c.JSON(http.StatusOK, product)
	})
}

// ProductCatalog serves recommendation candidates from the products table.
type ProductCatalog struct {
	DB *gorm.DB
}

func (p ProductCatalog) Candidates(ctx context.Context, categories []string, excludeID uint, limit int) ([]stylist.Garment, error) {
	var products []models.Product
	query := p.DB.WithContext(ctx).Where("category IN ?", categories)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Order("id").Limit(limit).Find(&products).Error; err != nil {
		return nil, err
	}
	garments := make([]stylist.Garment, 0, len(products))
	for _, product := range products {
		garments = append(garments, product.ToGarment())
	}
	return garments, nil
}
