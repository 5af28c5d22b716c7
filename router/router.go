package router

import (
	"net/http"

	"github.com/tovalh/AgenteSigco/app/controllers"
)

// New builds the single-endpoint router: everything dispatches on the
// "action" query parameter. The bare route serves the dashboard page and
// unknown actions get the JSON 404 catalogue.
func New(api *controllers.APIController, tickets *controllers.TicketController, debug bool) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case "":
			api.Index(w, r)
		case "register":
			api.Register(w, r)
		case "heartbeat":
			api.Heartbeat(w, r)
		case "dashboard":
			api.DashboardView(w, r)
		case "send-command":
			api.SendCommand(w, r)
		case "block-client":
			api.BlockClient(w, r)
		case "print-ticket":
			tickets.PrintTicket(w, r)
		case "debug":
			if debug {
				api.Debug(w, r)
				return
			}
			api.NotFound(w, r)
		default:
			api.NotFound(w, r)
		}
	})
	return mux
}
