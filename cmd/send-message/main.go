package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/webexlabs/webex-ai-bot/webex"
)

func main() {
	_ = godotenv.Load()

	token := os.Getenv("WEBEX_BOT_TOKEN")
	if token == "" {
		fmt.Println("Error: WEBEX_BOT_TOKEN must be set")
		os.Exit(1)
	}

	if len(os.Args) < 3 {
		fmt.Println("Usage: send-message <room_id> <message>")
		os.Exit(1)
	}

	roomID := os.Args[1]
	message := os.Args[2]

	client := webex.NewClient(token)
	if err := client.SendText(context.Background(), roomID, message); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Message sent successfully!")
}
