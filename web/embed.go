// Package web holds the browser client served by the API server.
package web

import "embed"

//go:embed static templates
var Files embed.FS
