package main

import (
	"context"
	"log"
	"os"
	"time"

	"fashionapi/dbhelper"
	"fashionapi/services"
	"fashionapi/tasks"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
)

func runScheduler() {
	scheduler := asynq.NewScheduler(asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")}, &asynq.SchedulerOpts{
		LogLevel: asynq.InfoLevel,
	})

	entries := []struct {
		cron string
		task *asynq.Task
		desc string
	}{
		{
			cron: "0 18 * * *",
			task: tasks.NewCartReminderTask(),
			desc: "Abandoned cart reminders",
		},
	}
	for _, t := range entries {
		entryID, err := scheduler.Register(t.cron, t.task)
		if err != nil {
			log.Fatalf("Failed to register task '%s': %v", t.desc, err)
		}
		log.Printf("Registered task '%s' with ID: %s, cron: %s", t.desc, entryID, t.cron)
	}

	log.Println("Starting scheduler...")
	if err := scheduler.Run(); err != nil {
		log.Fatalf("Scheduler failed: %v", err)
	}
}

func main() {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         os.Getenv("SENTRY_DSN"),
		Environment: services.GetEnv("ENV", "local"),
		Release:     "fashionapi-worker@1.0.0",
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Flush(2 * time.Second)

	ctx := context.Background()
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")},
		asynq.Config{Concurrency: 10, Queues: map[string]int{
			"generate": 7,
			"default":  3,
		}},
	)
	awsService, err := services.NewAWSService(ctx,
		services.GetEnv("R2_ACCOUNT_ID", ""),
		services.GetEnv("R2_ACCESS_KEY_ID", ""),
		services.GetEnv("R2_ACCESS_KEY_SECRET", ""),
		services.GetEnv("R2_BUCKET_NAME", ""),
	)
	if err != nil {
		log.Fatalf("[Queue] Failed to initialize AWS provider: %v", err)
	}
	urlCache, err := services.NewURLCacheService(awsService)
	if err != nil {
		log.Fatalf("[Queue] Failed to initialize URL cache: %v", err)
	}
	oracles, err := services.NewOracles(ctx)
	if err != nil {
		log.Fatalf("[Queue] Failed to initialize oracles: %v", err)
	}
	generator := oracles.LookGenerator()

	app, err := firebase.NewApp(ctx, nil)
	if err != nil {
		log.Fatalf("error initializing firebase app: %v\n", err)
	}
	notifier := services.NewPushService(app)

	mux := asynq.NewServeMux()
	db := dbhelper.SetupDB()
	mux.HandleFunc(tasks.TypeOutfitPreview, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleOutfitPreviewTask(ctx, t, db, generator, awsService, urlCache, notifier)
	})
	mux.HandleFunc(tasks.TypeOrderPlaced, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleOrderPlacedTask(ctx, t, db, notifier)
	})
	mux.HandleFunc(tasks.TypeCartReminder, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleCartReminderTask(ctx, t, db, notifier)
	})

	go runScheduler()
	if err := srv.Run(mux); err != nil {
		log.Fatal(err)
	}
}
