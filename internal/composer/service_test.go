package composer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/a-h/templ"
	mosaicextensions "github.com/orkinosai25-org/mosaic/extensions"
	"github.com/orkinosai25-org/mosaic/internal/extensions"
	"github.com/orkinosai25-org/mosaic/internal/extensions/builtin"
	"github.com/orkinosai25-org/mosaic/internal/layouts"
	"github.com/orkinosai25-org/mosaic/internal/masterpages"
	"github.com/orkinosai25-org/mosaic/internal/modules"
	"github.com/orkinosai25-org/mosaic/internal/themes"
	"github.com/orkinosai25-org/mosaic/pkg/interfaces"
)

type staticPlacements struct {
	placements []interfaces.Placement
	err        error
}

func (s staticPlacements) ListPlacements(context.Context, string, string) ([]interfaces.Placement, error) {
	return s.placements, s.err
}

type fixture struct {
	themes     themes.Service
	modules    modules.Service
	extensions extensions.Service
	deps       Dependencies
}

func newFixture(t *testing.T, placements staticPlacements) fixture {
	t.Helper()
	ctx := context.Background()

	blog := themes.DefaultSeed()
	blog.Name = "journal"
	blog.MasterPages = []string{"blog"}
	themeSvc := themes.NewService(
		themes.NewMemoryThemeRepository(themes.DefaultSeed(), blog),
		themes.NewMemorySiteThemeRepository(),
	)
	if err := themeSvc.SetActiveTheme(ctx, "site-1", "mosaic"); err != nil {
		t.Fatalf("set active theme: %v", err)
	}

	moduleSvc := modules.NewService(modules.NewMemoryCatalog(
		&modules.Definition{InstanceID: 10, Name: "hero"},
		&modules.Definition{InstanceID: 11, Name: "news"},
		&modules.Definition{InstanceID: 12, Name: "related", Dependencies: []int{11}},
	))
	extensionSvc := extensions.NewService()
	if err := extensionSvc.Register(mosaicextensions.PointContentRendering, builtin.NewMarkdownRenderer(builtin.MarkdownOptions{}).Extension()); err != nil {
		t.Fatalf("register markdown: %v", err)
	}

	return fixture{
		themes:     themeSvc,
		modules:    moduleSvc,
		extensions: extensionSvc,
		deps: Dependencies{
			Themes:      themeSvc,
			Layouts:     layouts.NewService(),
			MasterPages: masterpages.NewService(),
			Modules:     moduleSvc,
			Extensions:  extensionSvc,
			Placements:  placements,
		},
	}
}

func TestComposePageRendersRegionsIntoMasterPage(t *testing.T) {
	f := newFixture(t, staticPlacements{placements: []interfaces.Placement{
		{Zone: "main", Order: 2, ModuleInstanceID: 12},
		{Zone: "main", Order: 1, ModuleInstanceID: 10},
	}})
	svc := NewService(Config{}, f.deps)

	result := svc.ComposePage(context.Background(), PageRequest{
		SiteID:  "site-1",
		PageID:  "home",
		Regions: map[string]RegionLayout{"content": {LayoutName: "two-column"}},
		Slots:   map[string]templ.Component{"header": templ.Raw("<h1>Site</h1>")},
	})
	if !result.Success {
		t.Fatalf("expected success, got %v", result.Errors)
	}
	if result.MasterPage != "standard" || result.Theme == nil || result.Theme.Name != "mosaic" {
		t.Fatalf("unexpected theme resolution %q %#v", result.MasterPage, result.Theme)
	}
	for _, fragment := range []string{
		`<main><div class="layout-area layout-area-main">`,
		`data-module-instance-id="10"`,
		`data-module-instance-id="12"`,
		"<h1>Site</h1>",
	} {
		if !strings.Contains(result.HTML, fragment) {
			t.Fatalf("expected %q in %s", fragment, result.HTML)
		}
	}

	for _, id := range []int{10, 11, 12} {
		if f.modules.Phase(id) != modules.PhaseInitialized {
			t.Fatalf("expected instance %d initialized, got %s", id, f.modules.Phase(id))
		}
	}
}

func TestComposePageUsesThemeMasterPage(t *testing.T) {
	f := newFixture(t, staticPlacements{})
	if err := f.themes.SetActiveTheme(context.Background(), "site-1", "journal"); err != nil {
		t.Fatalf("set active theme: %v", err)
	}
	svc := NewService(Config{}, f.deps)

	result := svc.ComposePage(context.Background(), PageRequest{
		SiteID:    "site-1",
		PageID:    "post",
		Fragments: map[string]Fragment{"content": {Format: "markdown", Body: "# Hello"}},
		Slots:     map[string]templ.Component{"sidebar": templ.Raw("links")},
	})
	if !result.Success {
		t.Fatalf("expected success, got %v", result.Errors)
	}
	if result.MasterPage != "blog" {
		t.Fatalf("expected blog master page, got %q", result.MasterPage)
	}
	if !strings.Contains(result.HTML, `<h1 id="hello">Hello</h1>`) || !strings.Contains(result.HTML, `<div class="slot slot-sidebar">links</div>`) {
		t.Fatalf("unexpected html %s", result.HTML)
	}
}

func TestComposePageFallsBackWithoutTheme(t *testing.T) {
	f := newFixture(t, staticPlacements{})
	svc := NewService(Config{}, f.deps)

	result := svc.ComposePage(context.Background(), PageRequest{
		SiteID: "unknown-site",
		Slots:  map[string]templ.Component{"content": templ.Raw("X")},
	})
	if !result.Success || result.Theme != nil || result.MasterPage != "standard" {
		t.Fatalf("unexpected result %#v", result)
	}

	result = NewService(Config{DefaultTheme: "journal"}, f.deps).ComposePage(context.Background(), PageRequest{
		SiteID: "unknown-site",
		Slots:  map[string]templ.Component{"content": templ.Raw("X")},
	})
	if !result.Success || result.MasterPage != "blog" {
		t.Fatalf("expected default theme master page, got %#v", result)
	}
}

func TestComposePageAppliesThemeLoadingExtensions(t *testing.T) {
	f := newFixture(t, staticPlacements{})
	_ = f.extensions.Register(mosaicextensions.PointThemeLoading, mosaicextensions.ThemeLoading("brand", mosaicextensions.ThemeLoaderFunc(
		func(context.Context, mosaicextensions.ThemeRequest) (map[string]string, error) {
			return map[string]string{"primary_color": "#000000"}, nil
		})))
	svc := NewService(Config{}, f.deps)

	result := svc.ComposePage(context.Background(), PageRequest{
		SiteID: "site-1",
		Slots:  map[string]templ.Component{"content": templ.Raw("X")},
	})
	if !result.Success || result.Theme.Settings["primary_color"] != "#000000" {
		t.Fatalf("expected theme override, got %#v", result)
	}

	cached, _ := f.themes.GetTheme(context.Background(), "mosaic")
	if cached.Settings["primary_color"] != "#1f4e79" {
		t.Fatalf("expected cached theme untouched, got %q", cached.Settings["primary_color"])
	}
}

func TestComposePageConfiguresModulesFromExtensions(t *testing.T) {
	f := newFixture(t, staticPlacements{placements: []interfaces.Placement{{Zone: "main", ModuleInstanceID: 10}}})
	_ = f.extensions.Register(mosaicextensions.PointModuleInit, mosaicextensions.ModuleInit("zone", mosaicextensions.ModuleInitializerFunc(
		func(_ context.Context, req mosaicextensions.ModuleRequest) (map[string]any, error) {
			return map[string]any{"zone": req.Zone, "module": req.ModuleName}, nil
		})))
	svc := NewService(Config{}, f.deps)

	result := svc.ComposePage(context.Background(), PageRequest{
		SiteID:  "site-1",
		Regions: map[string]RegionLayout{"content": {LayoutName: "single-column"}},
	})
	if !result.Success {
		t.Fatalf("expected success, got %v", result.Errors)
	}
	state, ok := f.modules.State(10)
	if !ok || state.Settings["zone"] != "main" || state.Settings["module"] != "hero" {
		t.Fatalf("expected module configured by extension, got %#v", state)
	}
}

func TestModuleInitExtensionsRunAfterInitialization(t *testing.T) {
	f := newFixture(t, staticPlacements{placements: []interfaces.Placement{{Zone: "main", ModuleInstanceID: 10}}})
	var seen modules.Phase
	_ = f.extensions.Register(mosaicextensions.PointModuleInit, mosaicextensions.ModuleInit("phase", mosaicextensions.ModuleInitializerFunc(
		func(_ context.Context, req mosaicextensions.ModuleRequest) (map[string]any, error) {
			seen = f.modules.Phase(req.InstanceID)
			return nil, nil
		})))

	result := NewService(Config{}, f.deps).ComposePage(context.Background(), PageRequest{
		SiteID:  "site-1",
		Regions: map[string]RegionLayout{"content": {LayoutName: "single-column"}},
	})
	if !result.Success {
		t.Fatalf("expected success, got %v", result.Errors)
	}
	if seen != modules.PhaseInitialized {
		t.Fatalf("expected module-init to observe an initialized module, got %q", seen)
	}

	var description string
	for _, point := range f.extensions.ListExtensionPoints() {
		if point.Name == mosaicextensions.PointModuleInit {
			description = point.Description
		}
	}
	if !strings.Contains(description, "once they are initialized") {
		t.Fatalf("unexpected module-init description %q", description)
	}
}

func TestComposePageFailuresYieldNoHTML(t *testing.T) {
	cases := []struct {
		name       string
		placements staticPlacements
		req        PageRequest
		want       string
	}{
		{
			name: "missing site",
			req:  PageRequest{},
			want: "site id required",
		},
		{
			name: "unknown layout",
			req:  PageRequest{SiteID: "site-1", Regions: map[string]RegionLayout{"content": {LayoutName: "mystery"}}},
			want: "template not found",
		},
		{
			name:       "placement store down",
			placements: staticPlacements{err: errors.New("db down")},
			req:        PageRequest{SiteID: "site-1", Regions: map[string]RegionLayout{"content": {LayoutName: "single-column"}}},
			want:       "db down",
		},
		{
			name:       "unknown module",
			placements: staticPlacements{placements: []interfaces.Placement{{Zone: "main", ModuleInstanceID: 404}}},
			req:        PageRequest{SiteID: "site-1", Regions: map[string]RegionLayout{"content": {LayoutName: "single-column"}}},
			want:       "module not found",
		},
		{
			name: "missing required content",
			req:  PageRequest{SiteID: "site-1", Slots: map[string]templ.Component{"header": templ.Raw("h")}},
			want: `"content"`,
		},
		{
			name: "duplicate slot",
			req: PageRequest{
				SiteID:    "site-1",
				Fragments: map[string]Fragment{"content": {Body: "a"}},
				Slots:     map[string]templ.Component{"content": templ.Raw("b")},
			},
			want: "supplied more than once",
		},
		{
			name: "fragment and slot differing in case",
			req: PageRequest{
				SiteID:    "site-1",
				Fragments: map[string]Fragment{"Content": {Body: "FRAGMENT"}},
				Slots:     map[string]templ.Component{"content": templ.Raw("RAW")},
			},
			want: `slot "content" supplied more than once`,
		},
		{
			name: "regions differing in case",
			req: PageRequest{
				SiteID: "site-1",
				Regions: map[string]RegionLayout{
					"Content": {LayoutName: "single-column"},
					"content": {LayoutName: "two-column"},
				},
			},
			want: `slot "content" supplied more than once`,
		},
		{
			name: "blank slot name",
			req: PageRequest{
				SiteID: "site-1",
				Slots:  map[string]templ.Component{"content": templ.Raw("X"), "  ": templ.Raw("Y")},
			},
			want: "slot name required",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, tc.placements)
			result := NewService(Config{}, f.deps).ComposePage(context.Background(), tc.req)
			if result.Success || result.HTML != "" {
				t.Fatalf("expected failure without html, got %#v", result)
			}
			if !strings.Contains(strings.Join(result.Errors, "; "), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, result.Errors)
			}
		})
	}
}

func TestComposePageHonoursCancellation(t *testing.T) {
	f := newFixture(t, staticPlacements{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewService(Config{}, f.deps).ComposePage(ctx, PageRequest{
		SiteID: "site-1",
		Slots:  map[string]templ.Component{"content": templ.Raw("X")},
	})
	if result.Success || result.HTML != "" {
		t.Fatalf("expected cancellation failure, got %#v", result)
	}
}

func TestComposePageCaseVariantSlotsAreRejectedEveryTime(t *testing.T) {
	f := newFixture(t, staticPlacements{})
	svc := NewService(Config{}, f.deps)
	req := PageRequest{
		SiteID:    "site-1",
		Fragments: map[string]Fragment{"Content": {Body: "FRAGMENT"}},
		Slots:     map[string]templ.Component{"content": templ.Raw("RAW")},
	}
	for i := 0; i < 40; i++ {
		if result := svc.ComposePage(context.Background(), req); result.Success {
			t.Fatalf("attempt %d: expected rejection, got %q", i, result.HTML)
		}
	}
}

func TestComposePageCanonicalisesSlotNames(t *testing.T) {
	f := newFixture(t, staticPlacements{})
	result := NewService(Config{}, f.deps).ComposePage(context.Background(), PageRequest{
		SiteID: "site-1",
		Slots:  map[string]templ.Component{" Content ": templ.Raw("X"), "Footer": templ.Raw("F")},
	})
	if !result.Success {
		t.Fatalf("compose failed: %v", result.Errors)
	}
	if !strings.Contains(result.HTML, "<main>X</main>") || !strings.Contains(result.HTML, "F") {
		t.Fatalf("unexpected html %q", result.HTML)
	}
}
