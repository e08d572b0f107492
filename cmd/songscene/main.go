// Command songscene finds the films, series and novelas a song was used in.
//
//	songscene find "I Will Always Love You"
//	songscene recover completion.txt --shape compact
//	songscene bot
//	songscene cache purge
//
// Configuration is read from the environment and an optional .env file
// (SONGSCENE_PROVIDER, DEEPSEEK_API_KEY, GEMINI_API_KEY, DATABASE_URL,
// TELEGRAM_BOT_TOKEN, SONGSCENE_*).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
