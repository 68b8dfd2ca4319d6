package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/webexlabs/webex-ai-bot/bot"
	"github.com/webexlabs/webex-ai-bot/internal/conf"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := conf.LoadFromEnv()
	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	b, err := bot.New(config)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		b.Stop()
		os.Exit(0)
	}()

	fmt.Println("Starting Webex AI bot server...")
	if err := b.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
