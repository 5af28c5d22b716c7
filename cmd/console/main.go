package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tovalh/AgenteSigco/cmd/console/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	defaultURL := os.Getenv("SERVER_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	serverURL := flag.String("server", defaultURL, "Fleet API base URL")
	flag.Parse()

	model := ui.NewRootModel(ui.NewAPI(*serverURL))
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "console error:", err)
		os.Exit(1)
	}
}
