package composer

import (
	"github.com/a-h/templ"
	"github.com/orkinosai25-org/mosaic/layouts"
	"github.com/orkinosai25-org/mosaic/themes"
)

// PageRequest describes one page composition.
type PageRequest struct {
	SiteID string
	PageID string
	// MasterPageName overrides the master page chosen from the theme.
	MasterPageName string
	// Regions maps a master page slot to the layout rendered into it.
	Regions map[string]RegionLayout
	// Fragments maps a slot to text content passed through the
	// content-rendering extensions before it reaches the master page.
	Fragments map[string]Fragment
	// Slots maps a slot to ready-made content.
	Slots      map[string]templ.Component
	Parameters map[string]any
}

// RegionLayout selects the layout for one slot. Configuration wins over
// LayoutName when both are set.
type RegionLayout struct {
	LayoutName    string
	Configuration *layouts.Configuration
}

// Fragment is raw slot content in a named format such as "markdown" or "html".
type Fragment struct {
	Format string
	Body   string
}

// PageResult is the outcome of a composition. HTML is empty on failure.
type PageResult struct {
	Success    bool               `json:"success"`
	HTML       string             `json:"html,omitempty"`
	Errors     []string           `json:"errors,omitempty"`
	Theme      *themes.Descriptor `json:"theme,omitempty"`
	MasterPage string             `json:"master_page,omitempty"`
}
