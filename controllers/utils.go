package controllers

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"fashionapi/models"
	"fashionapi/services"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

func UIntToStr(value uint) string {
	return strconv.FormatUint(uint64(value), 10)
}

func GenerateUserToken(userPk string, c echo.Context, hours uint64) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userPk,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * time.Duration(hours))),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	t, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		c.Logger().Errorf("Error when signing user token for %s. Error %s ", userPk, err)
	}
	return t
}

func GenerateRefreshToken(userPk string) (string, error) {
	refreshToken := jwt.New(jwt.SigningMethodHS256)
	rtClaims := refreshToken.Claims.(jwt.MapClaims)
	rtClaims["sub"] = userPk
	rtClaims["exp"] = time.Now().Add(time.Hour * 24 * 30 * 12).Unix()
	rt, err := refreshToken.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return "", err
	}
	return rt, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash string, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// OrderNumber looks like #ORD-482913-007.
func OrderNumber(rng *rand.Rand) string {
	return fmt.Sprintf("#ORD-%06d-%03d", rng.Intn(1000000), rng.Intn(1000))
}

// CardBrand guesses the network from the leading digit.
func CardBrand(cardNumber string) string {
	if cardNumber == "" {
		return "Visa"
	}
	switch cardNumber[0] {
	case '5':
		return "Mastercard"
	case '3':
		return "Amex"
	default:
		return "Visa"
	}
}

func userOut(ctx context.Context, urlCache services.URLCacheServiceProvider, user models.UserAccount) models.UserOut {
	image := user.Image
	if urlCache != nil {
		if url, err := urlCache.GetReadURL(ctx, user.Image); err == nil {
			image = url
		}
	}
	return models.UserOut{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Image:          image,
		Gender:         user.Gender,
		PreferredStyle: user.PreferredStyle,
	}
}

func authResponse(c echo.Context, urlCache services.URLCacheServiceProvider, user models.UserAccount, isNew bool) (*models.AuthOut, error) {
	refreshToken, err := GenerateRefreshToken(UIntToStr(user.ID))
	if err != nil {
		return nil, err
	}
	return &models.AuthOut{
		User:         userOut(c.Request().Context(), urlCache, user),
		AccessToken:  GenerateUserToken(UIntToStr(user.ID), c, 72),
		RefreshToken: refreshToken,
		New:          isNew,
	}, nil
}
