package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"

	"github.com/meetpanchal/ipo-gmp-bot/config"
	"github.com/meetpanchal/ipo-gmp-bot/handlers"
	"github.com/meetpanchal/ipo-gmp-bot/jobs"
	"github.com/meetpanchal/ipo-gmp-bot/services"
	"github.com/meetpanchal/ipo-gmp-bot/shared"
	"github.com/meetpanchal/ipo-gmp-bot/storage"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: config.yaml if present)")
	serve := flag.Bool("serve", false, "run the HTTP API instead of a one-shot digest")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.Logging.Apply()

	job, err := buildDigestJob(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize digest pipeline: %v", err)
	}

	if *serve {
		runServer(cfg, job)
		return
	}

	// Default mode: one digest cycle, then exit. Scheduling belongs to
	// cron or the platform scheduler, not this process.
	if err := job.Run(context.Background()); err != nil {
		logrus.Fatalf("Digest run failed: %v", err)
	}
}

func buildDigestJob(cfg *config.Config) (*jobs.DigestJob, error) {
	limiter := shared.NewRequestRateLimiter(cfg.Source.RateLimit)

	var provider services.PageProvider
	switch cfg.Source.Provider {
	case "colly":
		provider = services.NewCollyPageProvider(cfg.Source.URL, cfg.Source.Timeout, limiter)
	default:
		provider = services.NewChromedpPageProvider(cfg.Source.URL, cfg.Source.Timeout, limiter)
	}

	var notifier services.Notifier
	if cfg.Telegram.Enabled {
		telegramNotifier, err := services.NewTelegramNotifier(
			cfg.Telegram.BotToken,
			cfg.Telegram.ChatID,
			cfg.Telegram.MaxRetries,
			cfg.Telegram.RetryDelay,
		)
		if err != nil {
			return nil, fmt.Errorf("telegram setup failed: %w", err)
		}
		notifier = telegramNotifier
	} else {
		logrus.Warn("Telegram delivery disabled, digests go to the log only")
		notifier = services.ConsoleNotifier{}
	}

	tiers := services.TierParams{
		SHNILots:         cfg.Tiers.SHNILots,
		SHNIFallbackLots: cfg.Tiers.SHNIFallbackLots,
		SHNIThreshold:    cfg.Tiers.SHNIThreshold,
		BHNITarget:       cfg.Tiers.BHNITarget,
	}
	eligibility := services.EligibilityOptions{
		GMPThreshold: cfg.Eligibility.GMPThreshold,
		SortByGMP:    cfg.Eligibility.SortByGMP,
	}

	return jobs.NewDigestJob(
		provider,
		notifier,
		storage.NewStateStore(cfg.State.FilePath),
		services.NewListingExtractor(cfg.Source.Columns.ColumnMap()),
		services.NewMessageComposer(tiers),
		eligibility,
		tiers,
	), nil
}

func runServer(cfg *config.Config, job *jobs.DigestJob) {
	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New())

	digestHandler := handlers.NewDigestHandler(job)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"source": cfg.Source.URL,
		})
	})

	api := app.Group("/api/v1")
	api.Get("/digest/preview", digestHandler.PreviewDigest)
	api.Post("/digest/run", digestHandler.TriggerRun)
	api.Get("/digest/metrics", digestHandler.Metrics)

	logrus.WithField("port", cfg.Server.Port).Info("Starting HTTP API")
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		logrus.Fatalf("HTTP server failed: %v", err)
	}
}
