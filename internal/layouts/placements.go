package layouts

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/orkinosai25-org/mosaic/pkg/interfaces"
)

// PopulateFromPlacements returns a copy of cfg whose cells carry the module
// instances placed on the page. A placement's zone names the area; within an
// area placements fill cells left to right in Order, one instance per cell,
// and the last cell collects any overflow. Placements naming an unknown zone
// are reported and skipped.
func PopulateFromPlacements(cfg *Configuration, placements []interfaces.Placement) (*Configuration, []string) {
	if cfg == nil {
		return nil, []string{"layout configuration required"}
	}
	out := cloneConfiguration(cfg)
	byZone := make(map[string][]interfaces.Placement)
	for _, placement := range placements {
		key := canonicalKey(placement.Zone)
		byZone[key] = append(byZone[key], placement)
	}

	var warnings []string
	for i := range out.Areas {
		area := &out.Areas[i]
		key := canonicalKey(area.Name)
		zone, ok := byZone[key]
		if !ok {
			continue
		}
		delete(byZone, key)
		if len(area.Cells) == 0 {
			warnings = append(warnings, fmt.Sprintf("area %q has no cells for %d placements", area.Name, len(zone)))
			continue
		}
		sort.SliceStable(zone, func(a, b int) bool { return zone[a].Order < zone[b].Order })
		for j := range area.Cells {
			area.Cells[j].ModuleInstanceIDs = nil
		}
		for j, placement := range zone {
			cell := min(j, len(area.Cells)-1)
			area.Cells[cell].ModuleInstanceIDs = append(area.Cells[cell].ModuleInstanceIDs, placement.ModuleInstanceID)
		}
	}

	if len(byZone) > 0 {
		zones := make([]string, 0, len(byZone))
		for zone := range byZone {
			zones = append(zones, zone)
		}
		sort.Strings(zones)
		warnings = append(warnings, fmt.Sprintf("placements reference unknown zones: %s", strings.Join(zones, ", ")))
	}
	return out, warnings
}

// MemoryPlacementStore keeps page placements in memory. It backs the CLI and
// tests; hosts normally supply their own PlacementProvider.
type MemoryPlacementStore struct {
	mu    sync.RWMutex
	pages map[string][]interfaces.Placement
}

var _ interfaces.PlacementProvider = (*MemoryPlacementStore)(nil)

// NewMemoryPlacementStore constructs an empty store.
func NewMemoryPlacementStore() *MemoryPlacementStore {
	return &MemoryPlacementStore{pages: make(map[string][]interfaces.Placement)}
}

// SetPlacements replaces the placements recorded for a page.
func (s *MemoryPlacementStore) SetPlacements(siteID, pageID string, placements []interfaces.Placement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[placementKey(siteID, pageID)] = append([]interfaces.Placement(nil), placements...)
}

// ListPlacements returns the page placements ordered by zone then order.
func (s *MemoryPlacementStore) ListPlacements(_ context.Context, siteID, pageID string) ([]interfaces.Placement, error) {
	s.mu.RLock()
	stored := s.pages[placementKey(siteID, pageID)]
	out := append([]interfaces.Placement(nil), stored...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Zone != out[b].Zone {
			return out[a].Zone < out[b].Zone
		}
		return out[a].Order < out[b].Order
	})
	return out, nil
}

func placementKey(siteID, pageID string) string {
	return canonicalKey(siteID) + "/" + canonicalKey(pageID)
}
