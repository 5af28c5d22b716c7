package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tovalh/AgenteSigco/app/dto"
	"github.com/tovalh/AgenteSigco/app/ticket"

	"github.com/rs/zerolog"
)

// TicketController renders the entry ticket and, depending on the
// deployment mode, either returns the HTML or relays it to the print
// daemon. Every failure here is business-level: kiosks poll this endpoint
// and must not treat a dead printer as a dead API.
type TicketController struct {
	Renderer *ticket.Renderer
	Printer  ticket.Printer
	Mode     string
	Log      zerolog.Logger
}

func NewTicketController(renderer *ticket.Renderer, printer ticket.Printer, mode string, log zerolog.Logger) *TicketController {
	return &TicketController{Renderer: renderer, Printer: printer, Mode: mode, Log: log}
}

func (c *TicketController) PrintTicket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusOK, dto.BusinessFailure{Error: "Método no permitido"})
		return
	}
	var req dto.TicketRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Action != "print_ticket" {
		writeJSON(w, http.StatusOK, dto.BusinessFailure{Error: "Acción no válida"})
		return
	}

	html, err := c.Renderer.Render(time.Now())
	if err != nil {
		c.Log.Error().Err(err).Msg("ticket render failed")
		writeJSON(w, http.StatusOK, dto.BusinessFailure{Error: "Error generando el ticket"})
		return
	}

	if c.Mode == "html" {
		writeJSON(w, http.StatusOK, dto.TicketHTMLResponse{Success: true, HTML: html})
		return
	}

	if err := c.Printer.Print(r.Context(), html); err != nil {
		c.Log.Error().Err(err).Msg("print relay failed")
		writeJSON(w, http.StatusOK, dto.BusinessFailure{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, dto.Ack{Success: true, Message: "Ticket enviado correctamente"})
}
