package test

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"time"

	"fashionapi/models"
	"fashionapi/services"
	"fashionapi/stylist"

	"github.com/golang-jwt/jwt/v4"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

func JsonString(model interface{}) string {
	bytes, _ := json.Marshal(model)
	return string(bytes)
}

func NewJSONRequest(method string, target string, param interface{}) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

func GenerateUserToken(userPk string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userPk,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	t, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		log.Fatalf("Error when signing user token for %s. Error %s ", userPk, err)
	}
	return t
}

func NewJSONAuthRequest(method string, target string, userPk string, param interface{}) *http.Request {
	req := NewJSONRequest(method, target, param)
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", GenerateUserToken(userPk)))
	return req
}

func NewJSONRootRequest(method string, target string, param interface{}, password string) *http.Request {
	req := NewJSONRequest(method, target, param)
	req.Header.Add("Authorization", password)
	return req
}

func UserPk(user *models.UserAccount) string {
	return fmt.Sprint(user.ID)
}

func FakeUser(db *gorm.DB) *models.UserAccount {
	return FakeUserV2(db, "OurName", "email@example.com")
}

const FakePassword = "password123"

// FakeUserV2 creates a user with FakePassword and one android device.
func FakeUserV2(db *gorm.DB, userName string, email string) *models.UserAccount {
	if email == "" {
		email = "email@example.com"
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte(FakePassword), bcrypt.MinCost)
	user := &models.UserAccount{
		Name:     userName,
		Password: string(hash),
		Email:    email,
		GoogleID: "12232",
		Platform: models.PlatformIOS,
		Image:    "https://cdn.example.com/avatar.png",
		Gender:   models.GenderMen,
	}
	db.Create(user)
	tokenDb := models.UserPushToken{
		UserAccountID: user.ID,
		Platform:      models.PlatformAndroid,
		Token:         "cX-UZ3zwQEiPt-2GJkG2gA:APA91bGqRflaGrJrnynhRwZ442HdgUjVcO7mWMFnx6IwAdJ9RRKopvSP4QU7hbvTmk1XAp8XGvtHZLvo5JmOPTVKBbGqqvhfbZWKlXA9csEjx1hgpNvrWepU",
		Active:        true,
	}
	db.Save(&tokenDb)
	return user
}

func FakeProduct(db *gorm.DB, name string, category string, colors []string, price float64) *models.Product {
	product := &models.Product{
		Name:     name,
		Category: category,
		Colors:   pq.StringArray(colors),
		Price:    price,
		ImageURL: "https://cdn.example.com/" + strings.ReplaceAll(strings.ToLower(name), " ", "-") + ".png",
		Brand:    "Test Brand",
		Style:    models.DefaultStyle,
		Stock:    10,
	}
	db.Create(product)
	return product
}

type GoogleServiceMock struct{}

func (gsm GoogleServiceMock) ValidateIdToken(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error) {
	return &idtoken.Payload{Issuer: "Issue", Audience: "AAA", Expires: 119919191919, IssuedAt: 12312321321, Subject: "fake@example.com", Claims: map[string]interface{}{
		"email":   "fake@example.com",
		"picture": "pictureurl",
		"name":    "Fake Google",
		"sub":     "123googleid",
	}}, nil
}

type AppleServiceMock struct {
	AppleID string
	Email   string
}

func (m AppleServiceMock) VerifyAuthorizationCode(ctx context.Context, code string) (*services.AppleIdentity, error) {
	if code == "bad" {
		return nil, fmt.Errorf("invalid_grant")
	}
	return &services.AppleIdentity{AppleID: m.AppleID, Email: m.Email}, nil
}

// AWSProviderMock records uploads in memory.
type AWSProviderMock struct {
	mu      sync.Mutex
	Uploads map[string][]byte
}

func (m *AWSProviderMock) PresignUpload(ctx context.Context, objectKey string) (string, error) {
	return fmt.Sprintf("https://fakebucketurl.com/upload/%s", objectKey), nil
}

func (m *AWSProviderMock) PresignRead(ctx context.Context, objectKey string) (string, error) {
	return fmt.Sprintf("https://fakebucketurl.com/%s", objectKey), nil
}

func (m *AWSProviderMock) Upload(ctx context.Context, objectKey string, content []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Uploads == nil {
		m.Uploads = map[string][]byte{}
	}
	m.Uploads[objectKey] = content
	return nil
}

type URLCacheMock struct{}

func (URLCacheMock) GetReadURL(ctx context.Context, objectKeyOrURL string) (string, error) {
	if objectKeyOrURL == "" || services.IsAbsoluteURL(objectKeyOrURL) {
		return objectKeyOrURL, nil
	}
	return "https://fakebucketurl.com/" + objectKeyOrURL, nil
}

// StylistOracleMock picks the first candidate of every requested slot.
type StylistOracleMock struct {
	Disabled bool
	Err      error
	Tips     []string
}

func (m StylistOracleMock) Available() bool {
	return !m.Disabled
}

func (m StylistOracleMock) SelectOutfit(ctx context.Context, req stylist.OracleRequest) (*stylist.OracleSelection, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	selection := &stylist.OracleSelection{StyleTips: m.Tips}
	for _, slot := range req.Slots {
		for _, candidate := range req.Candidates {
			if stylist.ProductTypeOf(candidate.Category, stylist.DefaultTypeLists) == slot {
				selection.SelectedIDs = append(selection.SelectedIDs, fmt.Sprint(candidate.ID))
				break
			}
		}
	}
	return selection, nil
}

type Notification struct {
	UserID  uint
	Title   string
	Message string
	Data    map[string]string
}

type NotifierMock struct {
	mu   sync.Mutex
	Sent []Notification
}

func (n *NotifierMock) Notify(ctx context.Context, db *gorm.DB, userID uint, title string, message string, customData map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Sent = append(n.Sent, Notification{UserID: userID, Title: title, Message: message, Data: customData})
	return nil
}
