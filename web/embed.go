package web

import "embed"

// Templates embeds printable document templates.
//
//go:embed templates/documents/*.html
var Templates embed.FS
