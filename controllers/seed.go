package controllers

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"fashionapi/models"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// SeedHandler replaces catalog and accounts with the posted data.
func SeedHandler(c echo.Context) error {
	rootPassword := os.Getenv("ROOT_PASSWORD")
	if rootPassword == "" || c.Request().Header.Get("Authorization") != rootPassword {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}
	db := c.Get("__db").(*gorm.DB)
	req := new(models.SeedIn)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	users := make([]models.UserAccount, 0, len(req.Users))
	for _, in := range req.Users {
		user := models.UserAccount{Name: in.Name, Email: strings.ToLower(in.Email), Image: in.Image, Platform: models.PlatformWeb}
		if in.Password != "" {
			hash, err := HashPassword(in.Password)
			if err != nil {
				return echo.ErrInternalServerError
			}
			user.Password = hash
		}
		users = append(users, user)
	}
	for i := range req.Products {
		req.Products[i].ID = 0
		if req.Products[i].Style == "" {
			req.Products[i].Style = models.DefaultStyle
		}
		if len(req.Products[i].Images) == 0 && req.Products[i].ImageURL != "" {
			req.Products[i].Images = []string{req.Products[i].ImageURL}
		}
	}
	for i := range req.Collections {
		req.Collections[i].ID = 0
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		session := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []interface{}{
			&models.OutfitItem{}, &models.Outfit{}, &models.PaymentMethod{},
			&models.OrderItem{}, &models.Order{}, &models.WishlistItem{},
			&models.CartItem{}, &models.Cart{}, &models.UserPushToken{},
			&models.UserAccount{}, &models.Product{}, &models.Collection{},
		} {
			if err := session.Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		if len(users) > 0 {
			if err := tx.Create(&users).Error; err != nil {
				return err
			}
		}
		if len(req.Products) > 0 {
			if err := tx.CreateInBatches(&req.Products, 500).Error; err != nil {
				return err
			}
		}
		if len(req.Collections) > 0 {
			if err := tx.Create(&req.Collections).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to seed database"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Database seeded successfully",
		"counts": models.SeedOut{
			Products:    len(req.Products),
			Collections: len(req.Collections),
			Users:       len(users),
		},
	})
}
