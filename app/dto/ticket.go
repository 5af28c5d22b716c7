package dto

type TicketRequest struct {
	Action string `json:"action"`
}

// TicketHTMLResponse is the "html" deployment mode: the caller prints the
// document client-side.
type TicketHTMLResponse struct {
	Success bool   `json:"success"`
	HTML    string `json:"html"`
}
