package ticket

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Printer delivers a rendered ticket to wherever it gets printed. The
// relay implementation below is synchronous with zero retries; a queued
// asynchronous printer can replace it without touching the handler.
type Printer interface {
	Print(ctx context.Context, html string) error
}

// RelayPrinter posts the document to the local print daemon and succeeds
// only on HTTP 200.
type RelayPrinter struct {
	client *resty.Client
	url    string
}

func NewRelayPrinter(url string, connectTimeout, requestTimeout time.Duration) *RelayPrinter {
	dialer := &net.Dialer{Timeout: connectTimeout}
	client := resty.New().
		SetTimeout(requestTimeout).
		SetTransport(&http.Transport{DialContext: dialer.DialContext})
	return &RelayPrinter{client: client, url: url}
}

func (p *RelayPrinter) Print(ctx context.Context, html string) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"action": "print_html", "html": html}).
		Post(p.url)
	if err != nil {
		return fmt.Errorf("Error conectando con el servicio de impresión: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("Error conectando con el servicio de impresión. HTTP: %d", resp.StatusCode())
	}
	return nil
}
