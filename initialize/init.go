package initialize

import (
	"fmt"
	"net/http"

	"github.com/tovalh/AgenteSigco/app/controllers"
	"github.com/tovalh/AgenteSigco/app/db"
	"github.com/tovalh/AgenteSigco/app/middleware"
	"github.com/tovalh/AgenteSigco/app/models"
	"github.com/tovalh/AgenteSigco/app/repo"
	"github.com/tovalh/AgenteSigco/app/services"
	"github.com/tovalh/AgenteSigco/app/ticket"
	"github.com/tovalh/AgenteSigco/config"
	"github.com/tovalh/AgenteSigco/router"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type App struct {
	Cfg    *config.Config
	DB     *gorm.DB
	Log    zerolog.Logger
	Router http.Handler
}

// Build wires config, storage, services, controllers and the router into
// a runnable app. The two tables are created here if absent and never
// migrated afterwards.
func Build(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger := NewLogger()

	gdb, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if err := gdb.AutoMigrate(&models.Client{}, &models.Command{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return BuildWithDB(cfg, gdb, logger), nil
}

// BuildWithDB assembles the app on an already-open database. Tests use it
// with sqlite.
func BuildWithDB(cfg *config.Config, gdb *gorm.DB, logger zerolog.Logger) *App {
	clientRepo := repo.NewClientRepository(gdb)
	commandRepo := repo.NewCommandRepository(gdb)

	clientSvc := services.NewClientService(gdb, clientRepo, commandRepo)
	commandSvc := services.NewCommandService(commandRepo)
	dashboardSvc := services.NewDashboardService(clientRepo, cfg.OnlineWindow)

	apiCtrl := controllers.NewAPIController(clientSvc, commandSvc, dashboardSvc, cfg)
	printer := ticket.NewRelayPrinter(cfg.Ticket.PrintURL, cfg.Ticket.ConnectTimeout, cfg.Ticket.RequestTimeout)
	ticketCtrl := controllers.NewTicketController(ticket.NewRenderer(), printer, cfg.Ticket.Mode, logger)

	h := router.New(apiCtrl, ticketCtrl, cfg.Debug)
	h = middleware.CORS(h)
	h = middleware.Logging(logger, h)

	return &App{Cfg: cfg, DB: gdb, Log: logger, Router: h}
}
