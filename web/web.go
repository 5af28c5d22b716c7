// Package web holds the static assets served by the API.
package web

import _ "embed"

//go:embed dashboard.html
var Dashboard []byte
