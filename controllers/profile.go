package controllers

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"fashionapi/models"
	"fashionapi/services"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type ProfileController struct {
	AWSService services.AWSServiceProvider
	URLCache   services.URLCacheServiceProvider
}

func (m *ProfileController) ProfileRoutes(g *echo.Group) {
	g.GET("/profile", func(c echo.Context) error {
		user := c.Get("currentUser").(models.UserAccount)
		return c.JSON(http.StatusOK, userOut(c.Request().Context(), m.URLCache, user))
	})

	g.PUT("/profile", func(c echo.Context) error {
		user := c.Get("currentUser").(models.UserAccount)
		db := c.Get("__db").(*gorm.DB)
		req := new(models.ProfileUpdateIn)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		}
		if err := c.Validate(req); err != nil {
			return err
		}
		if req.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*req.Email))
			if email != user.Email {
				var taken int64
				db.Model(&models.UserAccount{}).Where("email = ? AND id <> ?", email, user.ID).Count(&taken)
				if taken > 0 {
					return c.JSON(http.StatusBadRequest, map[string]string{"message": "Email already in use"})
				}
				user.Email = email
			}
		}
		if req.Name != nil {
			user.Name = *req.Name
		}
		if req.Image != nil {
			user.Image = *req.Image
		}
		if req.Gender != nil {
			user.Gender = models.Gender(*req.Gender)
		}
		if req.PreferredStyle != nil {
			user.PreferredStyle = *req.PreferredStyle
		}
		if err := db.Save(&user).Error; err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to update profile"})
		}
		return c.JSON(http.StatusOK, userOut(c.Request().Context(), m.URLCache, user))
	})

	g.PUT("/change-password", func(c echo.Context) error {
		user := c.Get("currentUser").(models.UserAccount)
		db := c.Get("__db").(*gorm.DB)
		req := new(models.ChangePasswordIn)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		}
		if err := c.Validate(req); err != nil {
			return err
		}
		if !CheckPassword(user.Password, req.CurrentPassword) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Current password is incorrect"})
		}
		hash, err := HashPassword(req.NewPassword)
		if err != nil {
			return echo.ErrInternalServerError
		}
		if err := db.Model(&user).Update("password", hash).Error; err != nil {
			return echo.ErrInternalServerError
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Password updated"})
	})

	g.DELETE("/delete", func(c echo.Context) error {
		user := c.Get("currentUser").(models.UserAccount)
		db := c.Get("__db").(*gorm.DB)
		err := db.Transaction(func(tx *gorm.DB) error {
			steps := []func() error{
				func() error {
					return tx.Where("cart_id IN (?)", tx.Model(&models.Cart{}).Select("id").Where("user_account_id = ?", user.ID)).Delete(&models.CartItem{}).Error
				},
				func() error { return tx.Where("user_account_id = ?", user.ID).Delete(&models.Cart{}).Error },
				func() error { return tx.Where("user_account_id = ?", user.ID).Delete(&models.WishlistItem{}).Error },
				func() error { return tx.Where("user_account_id = ?", user.ID).Delete(&models.PaymentMethod{}).Error },
				func() error {
					return tx.Where("outfit_id IN (?)", tx.Model(&models.Outfit{}).Select("id").Where("user_account_id = ?", user.ID)).Delete(&models.OutfitItem{}).Error
				},
				func() error { return tx.Where("user_account_id = ?", user.ID).Delete(&models.Outfit{}).Error },
				func() error { return tx.Where("user_account_id = ?", user.ID).Delete(&models.UserPushToken{}).Error },
				func() error { return tx.Delete(&models.UserAccount{}, user.ID).Error },
			}
			for _, step := range steps {
				if err := step(); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			sentry.CaptureException(fmt.Errorf("delete account %d: %w", user.ID, err))
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to delete account"})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Account deleted"})
	})

	g.POST("/push-token", func(c echo.Context) error {
		user := c.Get("currentUser").(models.UserAccount)
		db := c.Get("__db").(*gorm.DB)
		tokenRequest := new(models.UserPushIn)
		if err := c.Bind(tokenRequest); err != nil {
			return err
		}
		if !models.ValidatePlatformRaw(tokenRequest.Platform) {
			return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Please provide proper platform parameter"})
		}
		if err := c.Validate(tokenRequest); err != nil {
			return err
		}
		pushData := models.UserPushToken{
			Platform:      models.Platform(tokenRequest.Platform),
			Token:         tokenRequest.Token,
			UserAccountID: user.ID,
			Active:        true,
		}
		// same device may be signed in to several accounts
		result := db.Where("token = ? and user_account_id = ?", tokenRequest.Token, user.ID).FirstOrCreate(&pushData)
		if result.Error != nil {
			log.Println(result.Error)
			return echo.ErrInternalServerError
		}
		return c.JSON(http.StatusOK, echo.Map{
			"message": "registered",
			"push_id": pushData.ID,
		})
	})

	g.POST("/profile-photo-upload", func(c echo.Context) error {
		user := c.Get("currentUser").(models.UserAccount)
		db := c.Get("__db").(*gorm.DB)
		var req models.ProfilePhotoUploadIn
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		if !services.IsAllowedImageFile(req.FileName) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unsupported image type"})
		}
		objectKey := fmt.Sprintf("profiles/%v/%s%s", user.ID, uuid.NewString(), strings.ToLower(filepath.Ext(req.FileName)))
		uploadURL, err := m.AWSService.PresignUpload(c.Request().Context(), objectKey)
		if err != nil {
			log.Printf("Unable to presign profile photo upload for %s: %s", user.Email, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error while uploading your photo, please try again"})
		}
		user.Image = objectKey
		if err := db.Model(&user).Update("image", objectKey).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to save your photo"})
		}
		return c.JSON(http.StatusOK, models.ProfilePhotoUploadOut{UploadURL: uploadURL, ObjectKey: objectKey})
	})

	g.GET("/payments", func(c echo.Context) error {
		user := c.Get("currentUser").(models.UserAccount)
		db := c.Get("__db").(*gorm.DB)
		methods := []models.PaymentMethod{}
		if err := db.Where("user_account_id = ?", user.ID).Order("id desc").Find(&methods).Error; err != nil {
			return echo.ErrInternalServerError
		}
		return c.JSON(http.StatusOK, methods)
	})

	g.POST("/payments", func(c echo.Context) error {
		user := c.Get("currentUser").(models.UserAccount)
		db := c.Get("__db").(*gorm.DB)
		req := new(models.PaymentMethodIn)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		}
		req.CardNumber = strings.ReplaceAll(req.CardNumber, " ", "")
		if err := c.Validate(req); err != nil {
			return err
		}
		method := models.PaymentMethod{
			UserAccountID: user.ID,
			Type:          "card",
			Last4:         req.CardNumber[len(req.CardNumber)-4:],
			Brand:         CardBrand(req.CardNumber),
			ExpiryMonth:   req.ExpiryMonth,
			ExpiryYear:    req.ExpiryYear,
			IsDefault:     false,
		}
		if err := db.Create(&method).Error; err != nil {
			return echo.ErrInternalServerError
		}
		return c.JSON(http.StatusCreated, method)
	})

	g.DELETE("/payments/:id", func(c echo.Context) error {
		user := c.Get("currentUser").(models.UserAccount)
		db := c.Get("__db").(*gorm.DB)
		var id uint
		if err := echo.PathParamsBinder(c).Uint("id", &id).BindError(); err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Payment method not found"})
		}
		result := db.Where("id = ? AND user_account_id = ?", id, user.ID).Delete(&models.PaymentMethod{})
		if result.Error != nil {
			return echo.ErrInternalServerError
		}
		if result.RowsAffected == 0 {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Payment method not found"})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Payment method removed"})
	})
}
