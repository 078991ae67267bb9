package masterpages

import mosaicmasterpages "github.com/orkinosai25-org/mosaic/masterpages"

type (
	Schema              = mosaicmasterpages.Schema
	ContentSlot         = mosaicmasterpages.ContentSlot
	RenderContext       = mosaicmasterpages.RenderContext
	SlotContentProvider = mosaicmasterpages.SlotContentProvider
	RenderResult        = mosaicmasterpages.RenderResult
	ValidationResult    = mosaicmasterpages.ValidationResult
)

const (
	SlotHead       = mosaicmasterpages.SlotHead
	SlotHeader     = mosaicmasterpages.SlotHeader
	SlotNavigation = mosaicmasterpages.SlotNavigation
	SlotContent    = mosaicmasterpages.SlotContent
	SlotFooter     = mosaicmasterpages.SlotFooter
	SlotScripts    = mosaicmasterpages.SlotScripts
)
