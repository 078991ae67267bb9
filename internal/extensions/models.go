package extensions

import mosaicextensions "github.com/orkinosai25-org/mosaic/extensions"

type (
	Kind            = mosaicextensions.Kind
	Point           = mosaicextensions.Point
	Extension       = mosaicextensions.Extension
	Invocation      = mosaicextensions.Invocation
	ExecutionResult = mosaicextensions.ExecutionResult
)

const (
	KindContentRendering = mosaicextensions.KindContentRendering
	KindThemeLoading     = mosaicextensions.KindThemeLoading
	KindModuleInit       = mosaicextensions.KindModuleInit
	KindAuthentication   = mosaicextensions.KindAuthentication
	KindCustom           = mosaicextensions.KindCustom
)
