package ticket

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"image/png"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
)

// Fixed ticket content. The endpoint takes no fields from the request;
// header, plate and the barcode all come from here.
const (
	plate = "ABC123"

	barcodeModuleWidth = 2
	barcodeHeight      = 40
)

var header = template.HTML(`<strong>EMPRESA DE PRUEBA S.A.</strong><br/>RUT: 12.345.678-9<br/>Dirección de Prueba 123`)

//go:embed ticket_80mm.html.tmpl
var tmplFS embed.FS

type ticketData struct {
	Header     template.HTML
	Plate      string
	BarcodeURI template.URL
	IssuedAt   string
}

// Renderer produces the 80 mm receipt document: business header, plate in
// large type, a Code-128 barcode of the plate as an inline PNG, and the
// entry timestamp.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() *Renderer {
	return &Renderer{tmpl: template.Must(template.ParseFS(tmplFS, "ticket_80mm.html.tmpl"))}
}

func (r *Renderer) Render(now time.Time) (string, error) {
	b64, err := barcodePNG(plate)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	// The full data URI goes in as template.URL; letting the template
	// escape the base64 part would percent-encode it.
	err = r.tmpl.Execute(&buf, ticketData{
		Header:     header,
		Plate:      plate,
		BarcodeURI: template.URL("data:image/png;base64," + b64),
		IssuedAt:   now.Format("02/01/2006 15:04:05"),
	})
	if err != nil {
		return "", fmt.Errorf("render ticket: %w", err)
	}
	return buf.String(), nil
}

func barcodePNG(content string) (string, error) {
	bc, err := code128.Encode(content)
	if err != nil {
		return "", fmt.Errorf("encode barcode: %w", err)
	}
	scaled, err := barcode.Scale(bc, bc.Bounds().Dx()*barcodeModuleWidth, barcodeHeight)
	if err != nil {
		return "", fmt.Errorf("scale barcode: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
