package layouts_test

import (
	"context"
	"slices"
	"testing"

	"github.com/orkinosai25-org/mosaic/internal/layouts"
	"github.com/orkinosai25-org/mosaic/pkg/interfaces"
)

func TestPopulateFromPlacements(t *testing.T) {
	svc := layouts.NewService()
	cfg, err := svc.CreateFromTemplate("three-column", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	populated, warnings := layouts.PopulateFromPlacements(cfg, []interfaces.Placement{
		{Zone: "main", Order: 3, ModuleInstanceID: 30},
		{Zone: "main", Order: 1, ModuleInstanceID: 10},
		{Zone: "main", Order: 2, ModuleInstanceID: 20},
		{Zone: "main", Order: 4, ModuleInstanceID: 40},
		{Zone: "footer", Order: 1, ModuleInstanceID: 99},
	})
	if len(warnings) != 1 {
		t.Fatalf("expected unknown zone warning, got %v", warnings)
	}

	cells := populated.Areas[0].Cells
	if !slices.Equal(cells[0].ModuleInstanceIDs, []int{10}) ||
		!slices.Equal(cells[1].ModuleInstanceIDs, []int{20}) ||
		!slices.Equal(cells[2].ModuleInstanceIDs, []int{30, 40}) {
		t.Fatalf("unexpected cell placement %#v", cells)
	}
	if len(cfg.Areas[0].Cells[0].ModuleInstanceIDs) != 0 {
		t.Fatal("expected source configuration to stay untouched")
	}
}

func TestPopulateFromPlacementsNilConfiguration(t *testing.T) {
	if cfg, warnings := layouts.PopulateFromPlacements(nil, nil); cfg != nil || len(warnings) != 1 {
		t.Fatalf("expected nil configuration warning, got %#v %v", cfg, warnings)
	}
}

func TestMemoryPlacementStore(t *testing.T) {
	store := layouts.NewMemoryPlacementStore()
	store.SetPlacements("Site-1", "home", []interfaces.Placement{
		{Zone: "sidebar", Order: 1, ModuleInstanceID: 7},
		{Zone: "main", Order: 2, ModuleInstanceID: 5},
		{Zone: "main", Order: 1, ModuleInstanceID: 4},
	})

	got, err := store.ListPlacements(context.Background(), "site-1", "HOME")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ids := make([]int, 0, len(got))
	for _, placement := range got {
		ids = append(ids, placement.ModuleInstanceID)
	}
	if !slices.Equal(ids, []int{4, 5, 7}) {
		t.Fatalf("expected zone/order sorting, got %v", ids)
	}

	empty, err := store.ListPlacements(context.Background(), "site-1", "missing")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected no placements, got %v (%v)", empty, err)
	}
}
