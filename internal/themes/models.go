package themes

import mosaicthemes "github.com/orkinosai25-org/mosaic/themes"

type (
	Record           = mosaicthemes.Record
	SiteTheme        = mosaicthemes.SiteTheme
	Descriptor       = mosaicthemes.Descriptor
	ValidationResult = mosaicthemes.ValidationResult
)
