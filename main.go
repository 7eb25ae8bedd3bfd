package main

import (
	"os"
	"os/signal"
	"syscall"

	"grocery-deal-finder/config"
	"grocery-deal-finder/monitor"
	"grocery-deal-finder/notify"
	"grocery-deal-finder/scraper/giantfood"
	"grocery-deal-finder/services"
	"grocery-deal-finder/storage"
	"grocery-deal-finder/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Grocery Deal Finder starting ===")
	logger.Info("Config — store: %s (zip %s) | min savings: $%.2f / %.0f%% | dedup window: %dd | every %v",
		cfg.StoreID, cfg.ZipCode, cfg.MinSavingsDollar, cfg.MinSavingsPercent,
		cfg.DedupWindowDays, cfg.CheckInterval)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
		os.Exit(1)
	}
	defer csvWriter.Close()

	pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		logger.Error("Make sure Docker is running: docker compose up -d")
		os.Exit(1)
	}
	defer pgWriter.Close()

	pipeline, err := services.NewPipeline(logger, services.Criteria{
		MinSavingsDollar:  cfg.MinSavingsDollar,
		MinSavingsPercent: cfg.MinSavingsPercent,
		MaxOriginalPrice:  cfg.MaxOriginalPrice,
	}, cfg.DedupWindow())
	if err != nil {
		logger.Error("Failed to build pipeline: %v", err)
		os.Exit(1)
	}

	var notifiers []notify.Notifier
	if cfg.TelegramBotToken != "" {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID, logger)
		if err != nil {
			logger.Warn("Telegram disabled: %v", err)
		} else {
			notifiers = append(notifiers, tg)
		}
	}
	if cfg.SenderEmail != "" {
		mail, err := notify.NewEmailNotifier(cfg.SMTPServer, cfg.SMTPPort,
			cfg.SenderEmail, cfg.SenderPassword, cfg.RecipientEmail, logger)
		if err != nil {
			logger.Warn("Email disabled: %v", err)
		} else {
			notifiers = append(notifiers, mail)
		}
	}
	if len(notifiers) == 0 {
		logger.Warn("No notification channel configured — deals will only be stored")
	}

	mon := monitor.New(cfg, logger,
		giantfood.New(cfg, logger),
		pipeline,
		services.NewReportService(logger),
		pgWriter,
		[]storage.DealWriter{csvWriter, pgWriter},
		notifiers,
	)

	stop := make(chan struct{})
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		logger.Info("Shutdown signal received")
		close(stop)
	}()

	mon.Start(stop)
	logger.Info("=== Grocery Deal Finder stopped ===")
}
