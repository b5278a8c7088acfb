// Package views embeds the HTML templates served by the status page.
package views

import "embed"

//go:embed *.html layouts/*.html
var FS embed.FS
