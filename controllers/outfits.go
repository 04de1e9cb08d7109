package controllers

import (
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"fashionapi/languageutil"
	"fashionapi/models"
	"fashionapi/services"
	"fashionapi/tasks"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type OutfitController struct {
	URLCache services.URLCacheServiceProvider

	once sync.Once
	mu   sync.Mutex
	rng  *rand.Rand
}

func (m *OutfitController) outfitName(occasion string) string {
	m.once.Do(func() {
		m.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	})
	m.mu.Lock()
	defer m.mu.Unlock()
	name := languageutil.RandomOutfitName(m.rng)
	if occasion = strings.TrimSpace(occasion); occasion != "" {
		return languageutil.Title(occasion) + " " + name
	}
	return name
}

func (m *OutfitController) withPreviewURL(c echo.Context, outfit *models.Outfit) {
	if outfit.PreviewImageKey == "" || m.URLCache == nil {
		return
	}
	url, err := m.URLCache.GetReadURL(c.Request().Context(), outfit.PreviewImageKey)
	if err != nil {
		log.Printf("[Outfits] preview url for %d: %v", outfit.ID, err)
		return
	}
	outfit.PreviewImageURL = url
}

func (m *OutfitController) OutfitRoutes(g *echo.Group) {
	g.GET("", func(c echo.Context) error {
		user := c.Get("currentUser").(models.UserAccount)
		db := c.Get("__db").(*gorm.DB)
		outfits := []models.Outfit{}
		if err := db.Preload("Items").Where("user_account_id = ?", user.ID).Order("created_at desc, id desc").Limit(100).Find(&outfits).Error; err != nil {
			return echo.ErrInternalServerError
		}
		for i := range outfits {
			m.withPreviewURL(c, &outfits[i])
		}
		return c.JSON(http.StatusOK, outfits)
	})

	g.POST("", func(c echo.Context) error {
		user := c.Get("currentUser").(models.UserAccount)
		db := c.Get("__db").(*gorm.DB)
		req := new(models.OutfitIn)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		}
		if err := c.Validate(req); err != nil {
			return err
		}
		outfit := models.Outfit{
			UserAccountID: user.ID,
			Name:          strings.TrimSpace(req.Name),
			Occasion:      req.Occasion,
			MainProductID: req.MainProductID,
			StyleAdvice:   req.StyleAdvice,
			PreviewStatus: models.PreviewNone,
		}
		if outfit.Name == "" {
			outfit.Name = m.outfitName(req.Occasion)
		}
		for _, item := range req.Items {
			outfit.Items = append(outfit.Items, models.OutfitItem{
				ProductID: item.ProductID,
				Name:      item.Name,
				Image:     item.Image,
				Price:     item.Price,
				Category:  item.Category,
			})
		}
		if err := db.Create(&outfit).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to save outfit"})
		}

		task, err := tasks.NewOutfitPreviewTask(outfit.ID)
		if err == nil {
			info, err := enqueue(c, task, asynq.MaxRetry(models.MaxPreviewRetry), asynq.Queue("generate"))
			if err != nil {
				log.Printf("[Queue] outfit %d preview not queued: %v", outfit.ID, err)
			} else {
				fmt.Printf("[Queue] Outfit preview task submitted, Outfit ID: %v Task ID %v\n", outfit.ID, info.ID)
				outfit.PreviewStatus = models.PreviewPending
				db.Model(&outfit).Update("preview_status", models.PreviewPending)
			}
		}
		return c.JSON(http.StatusCreated, outfit)
	})

	g.DELETE("/:id", func(c echo.Context) error {
		user := c.Get("currentUser").(models.UserAccount)
		db := c.Get("__db").(*gorm.DB)
		var id uint
		if err := echo.PathParamsBinder(c).Uint("id", &id).BindError(); err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Outfit not found"})
		}
		var outfit models.Outfit
		r := db.Where("id = ? AND user_account_id = ?", id, user.ID).Limit(1).Find(&outfit)
		if r.Error != nil {
			return echo.ErrInternalServerError
		}
		if r.RowsAffected == 0 {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Outfit not found"})
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("outfit_id = ?", outfit.ID).Delete(&models.OutfitItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&outfit).Error
		})
		if err != nil {
			return echo.ErrInternalServerError
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Outfit deleted"})
	})
}
