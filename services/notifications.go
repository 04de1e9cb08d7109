package services

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"fashionapi/models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/getsentry/sentry-go"
	"github.com/golang-jwt/jwt"
	"gorm.io/gorm"
)

// NotificationSender delivers push notifications to every active device of a user.
type NotificationSender interface {
	Notify(ctx context.Context, db *gorm.DB, userID uint, title string, message string, customData map[string]string) error
}

// PushService sends Android pushes through FCM and iOS pushes straight to APNs.
type PushService struct {
	FirebaseApp *firebase.App
	TeamID      string
	KeyID       string
	BundleID    string
}

func NewPushService(fbApp *firebase.App) *PushService {
	return &PushService{
		FirebaseApp: fbApp,
		TeamID:      GetEnv("APPLE_TEAM_ID", ""),
		KeyID:       GetEnv("APPLE_PUSH_KEY_ID", ""),
		BundleID:    GetEnv("APPLE_BUNDLE_ID", ""),
	}
}

func stringMapToInterfaceMap(stringMap map[string]string) map[string]interface{} {
	interfaceMap := make(map[string]interface{})
	for key, value := range stringMap {
		interfaceMap[key] = value
	}
	return interfaceMap
}

func (p *PushService) Notify(ctx context.Context, db *gorm.DB, userID uint, title string, message string, customData map[string]string) error {
	var tokens []models.UserPushToken
	if err := db.Where("user_account_id = ? and active = true", userID).Find(&tokens).Error; err != nil {
		return fmt.Errorf("load push tokens: %w", err)
	}
	if len(tokens) == 0 {
		log.Printf("[Push] user %d has no active devices, skipping %q", userID, title)
		return nil
	}

	var iosCustomData map[string]interface{}
	if customData != nil {
		iosCustomData = stringMapToInterfaceMap(customData)
	}
	var androidMessages, iOSMessages []*messaging.Message
	for _, token := range tokens {
		msg := &messaging.Message{
			Notification: &messaging.Notification{Title: title, Body: message},
			APNS: &messaging.APNSConfig{
				FCMOptions: &messaging.APNSFCMOptions{AnalyticsLabel: "fashion"},
				Payload: &messaging.APNSPayload{
					Aps: &messaging.Aps{
						ContentAvailable: true,
						Alert:            &messaging.ApsAlert{Title: title, Body: message},
						Sound:            "default",
					},
					CustomData: iosCustomData,
				},
			},
			Android: &messaging.AndroidConfig{
				Notification: &messaging.AndroidNotification{
					Priority:  messaging.AndroidNotificationPriority(messaging.PriorityMax),
					ChannelID: "fashion-high-priority",
				},
				Data: customData,
			},
			Token: token.Token,
		}
		if token.Platform == models.PlatformIOS {
			iOSMessages = append(iOSMessages, msg)
		} else {
			androidMessages = append(androidMessages, msg)
		}
	}

	var errs []error
	if len(androidMessages) > 0 {
		if p.FirebaseApp == nil {
			errs = append(errs, errors.New("firebase app is not configured"))
		} else if client, err := p.FirebaseApp.Messaging(ctx); err != nil {
			errs = append(errs, fmt.Errorf("init messaging client: %w", err))
		} else if br, err := client.SendEach(ctx, androidMessages); err != nil {
			errs = append(errs, fmt.Errorf("fcm send: %w", err))
		} else {
			log.Printf("[Push] FCM sent=%d failed=%d for user %d", br.SuccessCount, br.FailureCount, userID)
		}
	}
	if len(iOSMessages) > 0 {
		errs = append(errs, p.sendAPNs(ctx, iOSMessages)...)
	}
	if len(errs) > 0 {
		joined := errors.Join(errs...)
		sentry.CaptureException(joined)
		return joined
	}
	return nil
}

func (p *PushService) apnsToken() (string, error) {
	privateKeyPEM, err := DecodeBase64EnvPrivateKey("APPLE_PUSH_KEY_BASE64")
	if err != nil {
		return "", err
	}
	block, _ := pem.Decode([]byte(privateKeyPEM))
	if block == nil {
		return "", errors.New("apple push key is not PEM encoded")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return "", fmt.Errorf("parse apple push key: %w", err)
	}
	privateKey, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return "", errors.New("apple push key is not an ECDSA key")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iss": p.TeamID,
		"iat": time.Now().Unix(),
	})
	token.Header["kid"] = p.KeyID
	return token.SignedString(privateKey)
}

func (p *PushService) sendAPNs(ctx context.Context, messages []*messaging.Message) []error {
	jwtToken, err := p.apnsToken()
	if err != nil {
		return []error{err}
	}
	client := &http.Client{Timeout: 10 * time.Second}
	var errs []error
	for _, message := range messages {
		alert := message.APNS.Payload.Aps.Alert
		payloadBytes, _ := json.Marshal(map[string]interface{}{
			"aps": map[string]interface{}{
				"alert": map[string]string{"title": alert.Title, "body": alert.Body},
				"sound": "default",
			},
		})
		url := fmt.Sprintf("https://api.push.apple.com/3/device/%s", message.Token)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadBytes))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		req.Header.Set("Authorization", "Bearer "+jwtToken)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("apns-topic", p.BundleID)

		resp, err := client.Do(req)
		if err != nil {
			errs = append(errs, fmt.Errorf("apns %s: %w", message.Token, err))
			continue
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			errs = append(errs, fmt.Errorf("apns %s returned %d: %s", message.Token, resp.StatusCode, string(body)))
		}
	}
	return errs
}
