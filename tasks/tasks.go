package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"fashionapi/looks"
	"fashionapi/models"
	"fashionapi/services"
	"fashionapi/stylist"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

const (
	TypeOutfitPreview = "generate:outfit_preview"
	TypeOrderPlaced   = "notify:order_placed"
	TypeCartReminder  = "notify:cart_reminder"
)

// CartIdleFor is how long a cart stays untouched before a reminder is sent.
const CartIdleFor = 24 * time.Hour

type OutfitPreviewPayload struct {
	OutfitID uint `json:"outfit_id"`
}

type OrderPlacedPayload struct {
	OrderID uint `json:"order_id"`
}

func NewOutfitPreviewTask(outfitID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(OutfitPreviewPayload{OutfitID: outfitID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeOutfitPreview, payload), nil
}

func NewOrderPlacedTask(orderID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(OrderPlacedPayload{OrderID: orderID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeOrderPlaced, payload), nil
}

func NewCartReminderTask() *asynq.Task {
	return asynq.NewTask(TypeCartReminder, []byte{})
}

// LookInput loads the products behind an outfit and resolves the profile
// photo of the user. Unknown product ids are skipped.
func LookInput(ctx context.Context, db *gorm.DB, urlCache services.URLCacheServiceProvider, user models.UserAccount, productIDs []uint, mainProductID *uint) (looks.Input, error) {
	var products []models.Product
	if len(productIDs) > 0 {
		if err := db.Where("id IN ?", productIDs).Find(&products).Error; err != nil {
			return looks.Input{}, fmt.Errorf("load look products: %w", err)
		}
	}
	byID := make(map[uint]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}
	in := looks.Input{Gender: string(user.Gender)}
	seen := map[uint]bool{}
	for _, id := range productIDs {
		product, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		in.Items = append(in.Items, product.ToGarment())
	}
	if mainProductID != nil {
		for i := range in.Items {
			if in.Items[i].ID == *mainProductID {
				main := in.Items[i]
				in.Main = &main
				break
			}
		}
		if in.Main == nil {
			var product models.Product
			if err := db.Limit(1).Find(&product, *mainProductID).Error; err == nil && product.ID != 0 {
				main := product.ToGarment()
				in.Main = &main
			}
		}
	}
	if user.Image != "" && urlCache != nil {
		photo, err := urlCache.GetReadURL(ctx, user.Image)
		if err != nil {
			log.Printf("[Looks] profile photo of user %d unavailable: %v", user.ID, err)
		} else {
			in.ProfilePhotoURL = photo
		}
	}
	return in, nil
}

func outfitGarments(outfit models.Outfit) []stylist.Garment {
	garments := make([]stylist.Garment, 0, len(outfit.Items))
	for _, item := range outfit.Items {
		garments = append(garments, stylist.Garment{
			ID:       item.ProductID,
			Name:     item.Name,
			Category: item.Category,
			Price:    item.Price,
			ImageURL: item.Image,
		})
	}
	return garments
}

func previewExtension(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return "jpg"
	case "image/webp":
		return "webp"
	}
	return "png"
}

func HandleOutfitPreviewTask(
	ctx context.Context, t *asynq.Task, db *gorm.DB, generator *looks.Generator,
	awsService services.AWSServiceProvider, urlCache services.URLCacheServiceProvider,
	notifier services.NotificationSender) error {
	var payload OutfitPreviewPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	fmt.Printf("[Outfit: %v] Start preview\n", payload.OutfitID)

	var outfit models.Outfit
	if err := db.Preload("Items").First(&outfit, payload.OutfitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("[Outfit: %v] Outfit is gone, skipping preview\n", payload.OutfitID)
			return nil
		}
		sentry.CaptureException(fmt.Errorf("[Queue] Error on retrieving outfit %v: %w", payload.OutfitID, err))
		return err
	}
	var user models.UserAccount
	if err := db.First(&user, outfit.UserAccountID).Error; err != nil {
		if err := savePreviewFail(db, outfit, false); err != nil {
			log.Printf("[Outfit: %v] could not record preview failure: %v", outfit.ID, err)
		}
		return fmt.Errorf("[Outfit: %v] owner %v not found: %v: %w", outfit.ID, outfit.UserAccountID, err, asynq.SkipRetry)
	}

	productIDs := make([]uint, 0, len(outfit.Items))
	for _, item := range outfit.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	in, err := LookInput(ctx, db, urlCache, user, productIDs, outfit.MainProductID)
	if err != nil {
		if err := savePreviewFail(db, outfit, true); err != nil {
			log.Printf("[Outfit: %v] could not record preview failure: %v", outfit.ID, err)
		}
		return err
	}
	if len(in.Items) == 0 {
		in.Items = outfitGarments(outfit)
	}

	result := generator.Generate(ctx, in)
	key := fmt.Sprintf("outfits/%s.%s", uuid.NewString(), previewExtension(result.MIMEType))
	if err := awsService.Upload(ctx, key, result.Image); err != nil {
		sentry.CaptureException(fmt.Errorf("[Outfit: %v] preview upload failed: %w", outfit.ID, err))
		if err := savePreviewFail(db, outfit, true); err != nil {
			log.Printf("[Outfit: %v] could not record preview failure: %v", outfit.ID, err)
		}
		return err
	}

	outfit.PreviewImageKey = key
	outfit.PreviewStage = string(result.Stage)
	outfit.PreviewBlurHash = result.BlurHash
	outfit.PreviewStatus = models.PreviewReady
	if err := db.Omit("Items").Save(&outfit).Error; err != nil {
		sentry.CaptureException(fmt.Errorf("[Outfit: %v] Error on saving preview: %w", outfit.ID, err))
		return err
	}
	fmt.Printf("[Outfit: %v] Preview ready from stage %s\n", outfit.ID, result.Stage)

	if notifier != nil {
		err := notifier.Notify(ctx, db, outfit.UserAccountID, "Your look is ready", result.Message, map[string]string{
			"type":      "outfit_preview",
			"outfit_id": fmt.Sprint(outfit.ID),
		})
		if err != nil {
			log.Printf("[Outfit: %v] preview push failed: %v", outfit.ID, err)
		}
	}
	return nil
}

func savePreviewFail(db *gorm.DB, outfit models.Outfit, shouldRetry bool) error {
	outfit.PreviewRetryTimes = outfit.PreviewRetryTimes + 1
	if !shouldRetry || outfit.PreviewRetryTimes >= models.MaxPreviewRetry {
		outfit.PreviewStatus = models.PreviewFailed
	}
	tx := db.Omit("Items").Save(&outfit)
	if tx.Error != nil {
		sentry.CaptureException(fmt.Errorf("[Fail Outfit %v] Error on saving preview failed status: %w", outfit.ID, tx.Error))
		return tx.Error
	}
	return nil
}

func HandleOrderPlacedTask(ctx context.Context, t *asynq.Task, db *gorm.DB, notifier services.NotificationSender) error {
	var payload OrderPlacedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	var order models.Order
	if err := db.Preload("Items").First(&order, payload.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return notifier.Notify(ctx, db, order.UserAccountID,
		fmt.Sprintf("Order %s placed", order.Number),
		fmt.Sprintf("We received your order of %d item(s), total %.2f.", len(order.Items), order.Total),
		map[string]string{"type": "order_placed", "order_id": order.Number},
	)
}

// HandleCartReminderTask reminds owners of non-empty carts idle for CartIdleFor.
func HandleCartReminderTask(ctx context.Context, t *asynq.Task, db *gorm.DB, notifier services.NotificationSender) error {
	fmt.Printf("[Cart Reminder] Processing for all users\n")
	cutoff := time.Now().Add(-CartIdleFor)

	var carts []models.Cart
	result := db.Preload("Items").
		Joins("JOIN user_accounts ON user_accounts.id = carts.user_account_id AND user_accounts.banned = ?", false).
		Where("carts.updated_at < ?", cutoff).
		Where("EXISTS (SELECT 1 FROM cart_items WHERE cart_items.cart_id = carts.id)").
		Find(&carts)
	if result.Error != nil {
		sentry.CaptureException(fmt.Errorf("[Cart Reminder] Error fetching carts: %v", result.Error))
		return result.Error
	}
	fmt.Printf("[Cart Reminder] Found %d idle carts\n", len(carts))

	for _, cart := range carts {
		names := make([]string, 0, len(cart.Items))
		for _, item := range cart.Items {
			names = append(names, item.Name)
		}
		message := fmt.Sprintf("Still thinking about %s?", strings.Join(names, ", "))
		if runes := []rune(message); len(runes) > 100 {
			message = string(runes[:97]) + "..."
		}
		err := notifier.Notify(ctx, db, cart.UserAccountID, "Your cart misses you", message, map[string]string{"type": "cart_reminder"})
		if err != nil {
			fmt.Printf("[Cart Reminder] Failed to send to user %d: %v\n", cart.UserAccountID, err)
			continue
		}
	}
	return nil
}
