package main

import (
	"log"

	"groovebot/bot"
	"groovebot/config"
	"groovebot/handlers"
	"groovebot/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Error opening store at %s: %v", cfg.DBPath, err)
	}

	b, err := bot.New(cfg, st)
	if err != nil {
		log.Fatalf("Error creating bot: %v", err)
	}

	handlers.Register(b)

	defer b.Close()
	if err := b.Run(); err != nil {
		log.Fatalf("Error running bot: %v", err)
	}
}
