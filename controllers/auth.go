package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"fashionapi/models"
	"fashionapi/services"

	"github.com/getsentry/sentry-go"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type AuthController struct {
	Google   services.GoogleServiceProvider
	Apple    services.AppleServiceProvider
	URLCache services.URLCacheServiceProvider
}

func (m *AuthController) AuthRoutes(g *echo.Group) {
	g.POST("/signup", m.signUp)
	g.POST("/login", m.login)
	g.POST("/google", m.google)
	g.POST("/apple", m.apple)
	g.POST("/refresh-token", m.refreshToken)
}

func (m *AuthController) signUp(c echo.Context) error {
	req := new(models.SignUpIn)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	db := c.Get("__db").(*gorm.DB)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing int64
	db.Model(&models.UserAccount{}).Where("email = ?", email).Count(&existing)
	if existing > 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Email already registered"})
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		sentry.CaptureException(err)
		return echo.ErrInternalServerError
	}
	user := models.UserAccount{
		Name:     req.Name,
		Email:    email,
		Password: hash,
		Image:    req.Image,
		Platform: models.PlatformWeb,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Println("[Auth] signup failed", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Email already registered"})
	}
	out, err := authResponse(c, m.URLCache, user, true)
	if err != nil {
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusCreated, out)
}

func (m *AuthController) login(c echo.Context) error {
	req := new(models.LoginIn)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	db := c.Get("__db").(*gorm.DB)
	var user models.UserAccount
	r := db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).Limit(1).Find(&user)
	if r.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}
	if r.RowsAffected == 0 || !CheckPassword(user.Password, req.Password) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	}
	if user.Banned {
		return echo.ErrForbidden
	}
	out, err := authResponse(c, m.URLCache, user, false)
	if err != nil {
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, out)
}

func (m *AuthController) google(c echo.Context) error {
	googleCreds := new(models.GoogleAuthSignIn)
	if err := c.Bind(googleCreds); err != nil {
		return err
	}
	if !models.ValidatePlatformRaw(googleCreds.Platform) {
		return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Please provide proper platform parameter"})
	}
	if err := c.Validate(googleCreds); err != nil {
		return err
	}
	payload, err := m.Google.ValidateIdToken(c.Request().Context(), googleCreds.IdToken, os.Getenv("GOOGLE_CLIENT_ID"))
	if err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Couldn't verify credentials"})
	}
	googleID, _ := payload.Claims["sub"].(string)
	googleEmail, _ := payload.Claims["email"].(string)
	if googleID == "" || googleEmail == "" {
		sentry.CaptureMessage(fmt.Sprintf("Error when fetching user data %s", payload.Claims))
		return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Couldn't verify credentials"})
	}
	pictureURL, _ := payload.Claims["picture"].(string)
	googleName, _ := payload.Claims["name"].(string)

	db := c.Get("__db").(*gorm.DB)
	user, isNew, err := findOrCreateSocialUser(db, "google_id", googleID, googleEmail, func(user *models.UserAccount) {
		user.GoogleID = googleID
		user.Platform = models.Platform(googleCreds.Platform)
		if user.Name == "" {
			user.Name = googleName
		}
		if user.Image == "" {
			user.Image = pictureURL
		}
	})
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"message": "Internal server error"})
	}
	if user.Banned {
		return echo.ErrForbidden
	}
	out, err := authResponse(c, m.URLCache, *user, isNew)
	if err != nil {
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, out)
}

func (m *AuthController) apple(c echo.Context) error {
	var req models.AppleAuthRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	identity, err := m.Apple.VerifyAuthorizationCode(c.Request().Context(), req.AuthorizationCode)
	if err != nil {
		log.Println("[Auth] apple verification failed:", err)
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
	}
	db := c.Get("__db").(*gorm.DB)
	user, isNew, err := findOrCreateSocialUser(db, "apple_id", identity.AppleID, identity.Email, func(user *models.UserAccount) {
		user.AppleID = identity.AppleID
		user.Platform = models.Platform(req.Platform)
		if user.Name == "" {
			user.Name = strings.Split(identity.Email, "@")[0]
		}
	})
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if user.Banned {
		return echo.ErrForbidden
	}
	out, err := authResponse(c, m.URLCache, *user, isNew)
	if err != nil {
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, out)
}

// findOrCreateSocialUser matches by provider id first, then links an
// existing account with the same email, then creates a new one.
func findOrCreateSocialUser(db *gorm.DB, idColumn string, providerID string, email string, apply func(*models.UserAccount)) (*models.UserAccount, bool, error) {
	var user models.UserAccount
	r := db.Where(idColumn+" = ?", providerID).Limit(1).Find(&user)
	if r.Error != nil {
		return nil, false, r.Error
	}
	if r.RowsAffected > 0 {
		return &user, false, nil
	}
	isNew := true
	if email != "" {
		r = db.Where("email = ?", strings.ToLower(email)).Limit(1).Find(&user)
		if r.Error != nil {
			return nil, false, r.Error
		}
		isNew = r.RowsAffected == 0
	}
	if isNew {
		user.Email = strings.ToLower(email)
	}
	apply(&user)
	if err := db.Save(&user).Error; err != nil {
		return nil, false, err
	}
	return &user, isNew, nil
}

func (m *AuthController) refreshToken(c echo.Context) error {
	tokenReq := new(models.RefreshIn)
	if err := c.Bind(tokenReq); err != nil {
		return echo.ErrBadRequest
	}
	if tokenReq.RefreshToken == "" {
		return echo.ErrBadRequest
	}
	token, err := jwt.Parse(tokenReq.RefreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil {
		return echo.ErrBadRequest
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return echo.ErrUnauthorized
	}
	sub, _ := claims["sub"].(string)
	userID, err := strconv.Atoi(sub)
	if err != nil || userID < 1 {
		return echo.ErrBadRequest
	}
	db := c.Get("__db").(*gorm.DB)
	var user models.UserAccount
	result := db.First(&user, userID)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return echo.ErrForbidden
	}
	if result.Error != nil {
		return echo.ErrInternalServerError
	}
	if user.Banned {
		return echo.ErrUnauthorized
	}
	rt, err := GenerateRefreshToken(sub)
	if err != nil {
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  GenerateUserToken(sub, c, 72),
		"refresh_token": rt,
	})
}
