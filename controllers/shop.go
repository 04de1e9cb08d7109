package controllers

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"fashionapi/models"
	"fashionapi/tasks"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	orderListLimit     = 100
	mockPaymentMethod  = "Credit Card (Mock)"
	orderNumberRetries = 5
)

// ShopController serves cart, wishlist, checkout and orders.
type ShopController struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (m *ShopController) ShopRoutes(e *echo.Echo, mw ...echo.MiddlewareFunc) {
	e.GET("/cart", m.getCart, mw...)
	e.POST("/cart/add", m.addToCart, mw...)
	e.PUT("/cart/update", m.updateCart, mw...)

	e.GET("/wishlist", m.getWishlist, mw...)
	e.POST("/wishlist/add", m.addToWishlist, mw...)
	e.DELETE("/wishlist/remove/:productId", m.removeFromWishlist, mw...)

	e.POST("/checkout", m.checkout, mw...)
	e.GET("/orders", m.listOrders, mw...)
	e.GET("/orders/:id", m.getOrder, mw...)
}

func getOrCreateCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	cart := models.Cart{UserAccountID: userID}
	if err := db.Where("user_account_id = ?", userID).FirstOrCreate(&cart).Error; err != nil {
		return nil, err
	}
	if err := db.Where("cart_id = ?", cart.ID).Order("id").Find(&cart.Items).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func touchCart(db *gorm.DB, cart *models.Cart) error {
	return db.Model(cart).Update("updated_at", time.Now()).Error
}

func (m *ShopController) getCart(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)
	cart, err := getOrCreateCart(db, user.ID)
	if err != nil {
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, cart)
}

func (m *ShopController) addToCart(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)
	req := new(models.CartAddIn)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	cart, err := getOrCreateCart(db, user.ID)
	if err != nil {
		return echo.ErrInternalServerError
	}

	for i := range cart.Items {
		item := &cart.Items[i]
		if item.ProductID == req.ProductID && item.Size == req.Size && item.Color == req.Color {
			item.Quantity += req.Quantity
			if err := db.Save(item).Error; err != nil {
				return echo.ErrInternalServerError
			}
			touchCart(db, cart)
			return c.JSON(http.StatusOK, cart)
		}
	}

	item := models.CartItem{
		CartID:    cart.ID,
		ProductID: req.ProductID,
		Name:      req.Name,
		Image:     req.Image,
		Size:      req.Size,
		Color:     req.Color,
		Quantity:  req.Quantity,
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if item.Name == "" || req.Price == nil || item.Image == "" {
		var product models.Product
		if r := db.Limit(1).Find(&product, req.ProductID); r.Error == nil && r.RowsAffected > 0 {
			if item.Name == "" {
				item.Name = product.Name
			}
			if req.Price == nil {
				item.Price = product.Price
			}
			if item.Image == "" {
				item.Image = product.ToGarment().ImageURL
			}
		}
	}
	if err := db.Create(&item).Error; err != nil {
		return echo.ErrInternalServerError
	}
	cart.Items = append(cart.Items, item)
	touchCart(db, cart)
	return c.JSON(http.StatusOK, cart)
}

func (m *ShopController) updateCart(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)
	req := new(models.CartUpdateIn)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	var cart models.Cart
	r := db.Where("user_account_id = ?", user.ID).Limit(1).Find(&cart)
	if r.Error != nil {
		return echo.ErrInternalServerError
	}
	if r.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Cart not found"})
	}

	query := db.Where("cart_id = ? AND product_id = ?", cart.ID, req.ProductID)
	if req.Size != nil {
		query = query.Where("size = ?", *req.Size)
	}
	if req.Color != nil {
		query = query.Where("color = ?", *req.Color)
	}
	if req.Quantity == 0 {
		if err := query.Delete(&models.CartItem{}).Error; err != nil {
			return echo.ErrInternalServerError
		}
	} else if err := query.Model(&models.CartItem{}).Update("quantity", req.Quantity).Error; err != nil {
		return echo.ErrInternalServerError
	}
	touchCart(db, &cart)

	updated, err := getOrCreateCart(db, user.ID)
	if err != nil {
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, updated)
}

func (m *ShopController) getWishlist(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)
	items := []models.WishlistItem{}
	if err := db.Preload("Product").Where("user_account_id = ?", user.ID).Order("id desc").Find(&items).Error; err != nil {
		return echo.ErrInternalServerError
	}
	products := make([]models.Product, 0, len(items))
	for _, item := range items {
		if item.Product.ID != 0 {
			products = append(products, item.Product)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"products": products})
}

func (m *ShopController) addToWishlist(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)
	req := new(models.WishlistAddIn)
	if err := c.Bind(req); err != nil || req.ProductID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "product_id is required"})
	}
	item := models.WishlistItem{UserAccountID: user.ID, ProductID: req.ProductID}
	if err := db.Where("user_account_id = ? AND product_id = ?", user.ID, req.ProductID).FirstOrCreate(&item).Error; err != nil {
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Added to wishlist"})
}

func (m *ShopController) removeFromWishlist(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)
	var productID uint
	if err := echo.PathParamsBinder(c).Uint("productId", &productID).BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid product id"})
	}
	if err := db.Where("user_account_id = ? AND product_id = ?", user.ID, productID).Delete(&models.WishlistItem{}).Error; err != nil {
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Removed from wishlist"})
}

func (m *ShopController) newOrderNumber() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return OrderNumber(m.rng)
}

func (m *ShopController) checkout(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)
	req := new(models.CheckoutIn)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	order := models.Order{
		UserAccountID:   user.ID,
		Total:           req.Total,
		Status:          models.OrderProcessing,
		PaymentMethod:   mockPaymentMethod,
		ShippingAddress: req.ShippingAddress,
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Image:     item.Image,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
		})
	}

	var err error
	for attempt := 0; attempt < orderNumberRetries; attempt++ {
		order.Number = m.newOrderNumber()
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
			return tx.Where("cart_id IN (?)", tx.Model(&models.Cart{}).Select("id").Where("user_account_id = ?", user.ID)).Delete(&models.CartItem{}).Error
		})
		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		order.ID = 0
		for i := range order.Items {
			order.Items[i].ID = 0
		}
	}
	if err != nil {
		sentry.CaptureException(fmt.Errorf("checkout for user %d: %w", user.ID, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to place order"})
	}

	if task, err := tasks.NewOrderPlacedTask(order.ID); err == nil {
		if info, err := enqueue(c, task, asynq.MaxRetry(3)); err != nil {
			log.Printf("[Queue] order %s notification not queued: %v", order.Number, err)
		} else {
			fmt.Printf("[Queue] Order placed task submitted, Order: %s Task ID %v\n", order.Number, info.ID)
		}
	}
	return c.JSON(http.StatusCreated, order)
}

func (m *ShopController) listOrders(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)
	orders := []models.Order{}
	if err := db.Preload("Items").Where("user_account_id = ?", user.ID).Order("created_at desc, id desc").Limit(orderListLimit).Find(&orders).Error; err != nil {
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, orders)
}

func (m *ShopController) getOrder(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)
	ref, err := url.PathUnescape(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Order not found"})
	}

	query := db.Preload("Items")
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		query = query.Where("id = ?", id)
	} else {
		if !strings.HasPrefix(ref, "#") {
			ref = "#" + ref
		}
		query = query.Where("number = ?", ref)
	}
	var order models.Order
	r := query.Limit(1).Find(&order)
	if r.Error != nil {
		return echo.ErrInternalServerError
	}
	if r.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Order not found"})
	}
	if order.UserAccountID != user.ID {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Not your order"})
	}
	return c.JSON(http.StatusOK, order)
}
