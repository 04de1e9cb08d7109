package main

import (
	"context"
	"log"
	"os"
	"time"

	"fashionapi/controllers"
	"fashionapi/dbhelper"
	"fashionapi/services"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              os.Getenv("SENTRY_DSN"),
		Environment:      services.GetEnv("ENV", "local"),
		Release:          "fashionapi@1.0.0",
		Debug:            false,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Recover()
	defer sentry.Flush(2 * time.Second)

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET environment variable is not set!")
	}
	ctx := context.Background()
	db := dbhelper.SetupDB()

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")})
	defer asynqClient.Close()

	awsService, err := services.NewAWSService(ctx,
		services.GetEnv("R2_ACCOUNT_ID", ""),
		services.GetEnv("R2_ACCESS_KEY_ID", ""),
		services.GetEnv("R2_ACCESS_KEY_SECRET", ""),
		services.GetEnv("R2_BUCKET_NAME", ""),
	)
	if err != nil {
		log.Fatalf("Failed to initialize AWS provider: %v", err)
	}
	urlCache, err := services.NewURLCacheService(awsService)
	if err != nil {
		log.Fatal("Failed to initialize URL cache service")
	}
	oracles, err := services.NewOracles(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize oracles: %v", err)
	}
	appleService := services.AppleService{
		TeamID:   services.GetEnv("APPLE_TEAM_ID", ""),
		KeyID:    services.GetEnv("APPLE_KEY_ID", ""),
		ClientID: services.GetEnv("APPLE_CLIENT_ID", ""),
		KeyEnv:   "APPLE_SIGNIN_PKEY_BASE64",
	}

	e := controllers.SetupServer(
		db, services.GoogleService{}, appleService, awsService, urlCache,
		controllers.AIServices{
			PrimaryStylist:   oracles.Gemini,
			SecondaryStylist: oracles.Ark,
			Looks:            oracles.LookGenerator(),
		},
		asynqClient,
	)
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	e.Logger.Fatal(e.Start(":" + services.GetEnv("API_PORT", "8083")))
}
