package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"quizboard/internal/userclient"
)

func main() {
	userID := flag.String("user", "", "user id returned by signup (required)")
	server := flag.String("server", "http://127.0.0.1:8080", "quiz service base URL")
	timeout := flag.Duration("timeout", 5*time.Second, "HTTP timeout")
	historyLimit := flag.Int("history-limit", 10, "default number of results shown by history")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "error: --user is required")
		os.Exit(1)
	}

	err := userclient.Run(context.Background(), os.Stdin, os.Stdout, userclient.Config{
		UserID:       *userID,
		ServerURL:    *server,
		HistoryLimit: *historyLimit,
		HTTPTimeout:  *timeout,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
