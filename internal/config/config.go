// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
)

// Config holds the application configuration.
type Config struct {
	TelegramBotToken  string
	DatabasePath      string
	CatalogPath       string
	OpportunitiesPath string
	NewsFeedURL       string
	LogLevel          string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/bot.db"
	}

	catalogPath := os.Getenv("CATALOG_PATH")
	if catalogPath == "" {
		catalogPath = "./data/scholarships.json"
	}

	oppsPath := os.Getenv("OPPORTUNITIES_PATH")
	if oppsPath == "" {
		oppsPath = "./data/opportunities.json"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		TelegramBotToken:  token,
		DatabasePath:      dbPath,
		CatalogPath:       catalogPath,
		OpportunitiesPath: oppsPath,
		NewsFeedURL:       os.Getenv("NEWS_FEED_URL"),
		LogLevel:          logLevel,
	}, nil
}
