package layouts

import mosaiclayouts "github.com/orkinosai25-org/mosaic/layouts"

type (
	Template         = mosaiclayouts.Template
	Area             = mosaiclayouts.Area
	Cell             = mosaiclayouts.Cell
	Configuration    = mosaiclayouts.Configuration
	RenderContext    = mosaiclayouts.RenderContext
	RenderResult     = mosaiclayouts.RenderResult
	ValidationResult = mosaiclayouts.ValidationResult
)
