package main

import (
	"flag"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/lussekatt/internal/app"
	"github.com/shrimpsizemoose/lussekatt/internal/bot"
	"github.com/shrimpsizemoose/lussekatt/internal/scoring"
)

func main() {
	var configPath = flag.String("config", "bot.toml", "Path to config file")
	flag.Parse()

	config, err := bot.ReadConfig(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}

	attestStore, err := app.NewStore(config.Database.DSN, config.Database.MigrationsDir)
	if err != nil {
		logger.Error.Fatalf("Failed to init store: %v", err)
	}
	defer attestStore.Close()

	b, err := bot.New(config, attestStore, scoring.NewAggregator(attestStore))
	if err != nil {
		logger.Error.Fatalf("Failed to create bot: %v", err)
	}

	logger.Info.Println("Starting lussekatt bot")
	if err := b.Start(); err != nil {
		logger.Error.Fatalf("Bot failed: %v", err)
	}
}
