package main

import (
	"flag"
	"os"

	"github.com/tovalh/AgenteSigco/initialize"
	"github.com/tovalh/AgenteSigco/server"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	flag.Parse()

	_ = godotenv.Load()

	app, err := initialize.Build(*configPath)
	if err != nil {
		log := initialize.NewLogger()
		log.Error().Err(err).Msg("startup failed")
		os.Exit(1)
	}

	app.Log.Info().
		Str("addr", app.Cfg.Addr).
		Str("ticket_mode", app.Cfg.Ticket.Mode).
		Bool("debug", app.Cfg.Debug).
		Msg("fleet API listening")

	if err := server.StartHTTPServer(app.Cfg.Addr, app.Router); err != nil {
		app.Log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
