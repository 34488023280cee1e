package main

import "os"

type Config struct {
	Addr          string
	Database      string
	SessionSecret string
}

func loadConfig() Config {
	return Config{
		Addr:          ":" + envOrDefault("PORT", "4000"),
		Database:      envOrDefault("DATABASE", "/tmp/oceanmeet.db"),
		SessionSecret: envOrDefault("SESSION_SECRET", "development key"),
	}
}

func envOrDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
