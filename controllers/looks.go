package controllers

import (
	"encoding/base64"
	"errors"
	"log"
	"net/http"
	"strings"

	"fashionapi/looks"
	"fashionapi/models"
	"fashionapi/services"
	"fashionapi/stylist"
	"fashionapi/tasks"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// LookController serves outfit recommendations and look images.
type LookController struct {
	Recommender *stylist.Recommender
	Generator   *looks.Generator
	URLCache    services.URLCacheServiceProvider
}

func (m *LookController) Recommend(c echo.Context) error {
	db := c.Get("__db").(*gorm.DB)
	req := new(models.RecommendIn)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	var product stylist.Garment
	switch {
	case req.ProductID != nil:
		var stored models.Product
		r := db.Limit(1).Find(&stored, *req.ProductID)
		if r.Error != nil {
			return echo.ErrInternalServerError
		}
		if r.RowsAffected == 0 {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Product not found"})
		}
		product = stored.ToGarment()
	case req.Product != nil:
		product = req.Product.ToGarment()
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "product or product_id is required"})
	}
	if strings.TrimSpace(product.Category) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Product category is required"})
	}

	rec, err := m.Recommender.Recommend(c.Request().Context(), stylist.Request{
		Product:  product,
		Occasion: req.Occasion,
		Gender:   req.Gender,
	})
	if errors.Is(err, stylist.ErrInvalidProduct) {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}
	if err != nil {
		sentry.CaptureException(err)
		log.Printf("[Recommend] failed for product %q: %v", product.Name, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Could not build a recommendation"})
	}
	return c.JSON(http.StatusOK, rec)
}

func (m *LookController) GenerateLook(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)
	req := new(models.GenerateLookIn)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "items are required"})
	}
	ids := make([]uint, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ID)
	}
	in, err := tasks.LookInput(c.Request().Context(), db, m.URLCache, user, ids, req.MainProductID)
	if err != nil {
		return echo.ErrInternalServerError
	}
	if len(in.Items) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "None of the items exist"})
	}

	result := m.Generator.Generate(c.Request().Context(), in)
	return c.JSON(http.StatusOK, models.GenerateLookOut{
		ImageURL: "data:" + result.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(result.Image),
		Message:  result.Message,
		Stage:    string(result.Stage),
		BlurHash: result.BlurHash,
	})
}
