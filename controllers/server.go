package controllers

import (
	"errors"
	"math/rand"
	"net/http"
	"os"
	"time"

	"fashionapi/looks"
	"fashionapi/models"
	"fashionapi/services"
	"fashionapi/stylist"

	"github.com/go-playground/validator"
	"github.com/hibiken/asynq"
	echojwt "github.com/labstack/echo-jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// AIServices bundles the oracles behind /recommend and /generate-look.
type AIServices struct {
	PrimaryStylist   stylist.Oracle
	SecondaryStylist stylist.Oracle
	Looks            *looks.Generator
}

func SetupServer(
	db *gorm.DB,
	googleService services.GoogleServiceProvider,
	appleService services.AppleServiceProvider,
	awsService services.AWSServiceProvider,
	urlCache services.URLCacheServiceProvider,
	ai AIServices,
	asynqClient *asynq.Client,
) *echo.Echo {
	e := echo.New()
	v := validator.New()
	v.RegisterValidation("platform", models.ValidatePlatform)
	v.RegisterValidation("gender", models.ValidateGender)
	e.Validator = &CustomValidator{validator: v}
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("__db", db)
			c.Set("__asynqclient", asynqClient)
			return next(c)
		}
	})

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	jwtMiddleware := echojwt.JWT([]byte(os.Getenv("JWT_SECRET")))

	authController := AuthController{Google: googleService, Apple: appleService, URLCache: urlCache}
	authController.AuthRoutes(e.Group("/auth"))

	userGroup := e.Group("/user", jwtMiddleware, UserMiddleware)
	profileController := ProfileController{AWSService: awsService, URLCache: urlCache}
	profileController.ProfileRoutes(userGroup)

	catalogController := CatalogController{}
	catalogController.CatalogRoutes(e)

	shopController := ShopController{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
	shopController.ShopRoutes(e, jwtMiddleware, UserMiddleware)

	outfitController := OutfitController{URLCache: urlCache}
	outfitController.OutfitRoutes(e.Group("/outfits", jwtMiddleware, UserMiddleware))

	if ai.Looks == nil {
		ai.Looks = looks.NewGenerator(nil, nil, nil, nil, nil, "")
	}
	lookController := LookController{
		Recommender: stylist.NewRecommender(ProductCatalog{DB: db}, ai.PrimaryStylist, ai.SecondaryStylist, nil),
		Generator:   ai.Looks,
		URLCache:    urlCache,
	}
	e.POST("/recommend", lookController.Recommend)
	e.POST("/generate-look", lookController.GenerateLook, jwtMiddleware, UserMiddleware)

	e.POST("/seed", SeedHandler)

	return e
}

var errQueueDisabled = errors.New("task queue is not configured")

func enqueue(c echo.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	client, ok := c.Get("__asynqclient").(*asynq.Client)
	if !ok || client == nil {
		return nil, errQueueDisabled
	}
	return client.Enqueue(task, opts...)
}
