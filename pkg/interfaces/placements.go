package interfaces

import "context"

// Placement is one module instance placed on a page. Zone names the layout
// area receiving the module; Order sorts placements within that area.
type Placement struct {
	Zone             string
	Order            int
	ModuleInstanceID int
}

// PlacementProvider lists module placements for a page, ordered by zone and
// order. Implemented by the host module-placement store.
type PlacementProvider interface {
	ListPlacements(ctx context.Context, siteID, pageID string) ([]Placement, error)
}
