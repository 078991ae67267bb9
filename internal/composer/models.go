package composer

import mosaiccomposer "github.com/orkinosai25-org/mosaic/composer"

type (
	PageRequest  = mosaiccomposer.PageRequest
	RegionLayout = mosaiccomposer.RegionLayout
	Fragment     = mosaiccomposer.Fragment
	PageResult   = mosaiccomposer.PageResult
)
