// Package main is the entry point for the chat console client.
package main

import (
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/parley-ai/chat-console/internal/api"
	"github.com/parley-ai/chat-console/internal/config"
	"github.com/parley-ai/chat-console/internal/session"
	"github.com/parley-ai/chat-console/internal/tui"
	"github.com/parley-ai/chat-console/pkg/logger"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	// The TUI owns the terminal, so logs go to a file or nowhere.
	log := logger.Nop()
	if cfg.ClientLogFile != "" {
		var err error
		log, err = logger.New(cfg.LogLevel, cfg.ClientLogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync()
	}
	logger.SetGlobal(log)

	backend := api.New(cfg.BackendURL,
		api.WithLogger(log),
		api.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
	)
	ctrl := session.New(backend, log)

	p := tea.NewProgram(tui.New(ctrl), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
