package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// FormTemplate is the entry template rendered for every view.
const FormTemplate = "templates/form.tmpl"

// StylesheetAsset is the theme asset key resolved for the form stylesheet.
const StylesheetAsset = "vgen.stylesheet"

// TemplatesFS exposes the embedded template bundle so callers can copy and
// override individual templates.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
