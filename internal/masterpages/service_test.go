package masterpages_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/a-h/templ"
	"github.com/orkinosai25-org/mosaic/internal/masterpages"
)

func text(value string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, value)
		return err
	})
}

func recording(value string, calls *[]string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		*calls = append(*calls, value)
		_, err := io.WriteString(w, value)
		return err
	})
}

func TestBuiltinSchemas(t *testing.T) {
	svc := masterpages.NewService()

	cases := map[string][]string{
		"standard":   {"head", "header", "navigation", "content", "footer", "scripts"},
		"full-width": {"head", "content", "scripts"},
		"blog":       {"head", "header", "navigation", "content", "sidebar", "footer", "scripts"},
	}
	for name, want := range cases {
		slots, err := svc.GetAvailableSlots(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(slots) != len(want) {
			t.Fatalf("%s: expected %d slots, got %d", name, len(want), len(slots))
		}
		for i, slot := range slots {
			if slot.Name != want[i] {
				t.Fatalf("%s: expected slot %s at %d, got %s", name, want[i], i, slot.Name)
			}
			if slot.IsRequired != (slot.Name == "content") {
				t.Fatalf("%s: unexpected required flag on %s", name, slot.Name)
			}
		}
	}

	if _, err := svc.GetAvailableSlots("missing"); !errors.Is(err, masterpages.ErrMasterPageNotFound) {
		t.Fatalf("expected ErrMasterPageNotFound, got %v", err)
	}
}

func TestValidateMasterPage(t *testing.T) {
	svc := masterpages.NewService()

	result := svc.ValidateMasterPage("standard")
	if !result.IsValid || len(result.Slots) != 6 || len(result.Warnings) != 0 {
		t.Fatalf("unexpected validation %#v", result)
	}

	if err := svc.RegisterSchema(&masterpages.Schema{
		Name:  "splash",
		Slots: []masterpages.ContentSlot{{Name: "hero"}},
	}); err != nil {
		t.Fatalf("register schema: %v", err)
	}
	splash := svc.ValidateMasterPage("splash")
	if !splash.IsValid || len(splash.Warnings) != 1 {
		t.Fatalf("expected missing content warning, got %#v", splash)
	}

	missing := svc.ValidateMasterPage("missing")
	if missing.IsValid || len(missing.Errors) != 1 {
		t.Fatalf("expected not found error, got %#v", missing)
	}
}

func TestRenderRequiresContentSlot(t *testing.T) {
	svc := masterpages.NewService()
	rc := masterpages.RenderContext{MasterPageName: "standard"}
	rc.Provide("header", text("H"))
	rc.Provide("footer", text("F"))

	result := svc.RenderMasterPage(context.Background(), rc)
	if result.Success || result.HTML != "" {
		t.Fatalf("expected failure without markup, got %#v", result)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], `"content"`) {
		t.Fatalf("expected error naming content slot, got %v", result.Errors)
	}

	rc.Provide("content", text("X"))
	result = svc.RenderMasterPage(context.Background(), rc)
	if !result.Success {
		t.Fatalf("render failed: %v", result.Errors)
	}
	if !strings.Contains(result.HTML, "<main>X</main>") {
		t.Fatalf("expected content inside main, got %s", result.HTML)
	}
}

func TestRenderSlotOrder(t *testing.T) {
	svc := masterpages.NewService()
	var calls []string
	rc := masterpages.RenderContext{MasterPageName: "standard", PageID: "home", SiteID: "site-1"}
	// registration order deliberately differs from document order
	for _, name := range []string{"scripts", "footer", "content", "navigation", "header", "head"} {
		rc.Provide(name, recording("["+name+"]", &calls))
	}

	result := svc.RenderMasterPage(context.Background(), rc)
	if !result.Success {
		t.Fatalf("render failed: %v", result.Errors)
	}
	order := []string{"[head]", "[header]", "[navigation]", "[content]", "[footer]", "[scripts]"}
	last := -1
	for _, fragment := range order {
		idx := strings.Index(result.HTML, fragment)
		if idx <= last {
			t.Fatalf("fragment %s out of order in %s", fragment, result.HTML)
		}
		last = idx
	}
	if strings.Join(calls, "") != strings.Join(order, "") {
		t.Fatalf("producers invoked out of order: %v", calls)
	}
	if !strings.HasPrefix(result.HTML, "<!DOCTYPE html><html><head>[head]</head><body>") {
		t.Fatalf("unexpected document frame %s", result.HTML)
	}
}

func TestRenderEmptyContentEmitsPlaceholder(t *testing.T) {
	svc := masterpages.NewService()
	rc := masterpages.RenderContext{MasterPageName: "full-width"}
	rc.Provide("content", text("   "))

	result := svc.RenderMasterPage(context.Background(), rc)
	if !result.Success {
		t.Fatalf("render failed: %v", result.Errors)
	}
	if !strings.Contains(result.HTML, "<main><!-- content slot is empty --></main>") {
		t.Fatalf("expected placeholder comment, got %s", result.HTML)
	}
}

func TestRenderSkipsAbsentOptionalSlots(t *testing.T) {
	svc := masterpages.NewService()
	var calls []string
	rc := masterpages.RenderContext{MasterPageName: "full-width"}
	rc.Provide("content", text("body"))
	rc.Provide("header", recording("not in schema", &calls))

	result := svc.RenderMasterPage(context.Background(), rc)
	if !result.Success {
		t.Fatalf("render failed: %v", result.Errors)
	}
	if len(calls) != 0 || strings.Contains(result.HTML, "not in schema") {
		t.Fatalf("expected slot outside schema to be ignored, got %s", result.HTML)
	}
	if result.HTML != "<!DOCTYPE html><html><head></head><body><main>body</main></body></html>" {
		t.Fatalf("unexpected markup %s", result.HTML)
	}
}

func TestRenderBlogSidebarBeforeFooter(t *testing.T) {
	svc := masterpages.NewService()
	rc := masterpages.RenderContext{MasterPageName: "blog"}
	rc.Provide("content", text("post"))
	rc.Provide("sidebar", text("tags"))
	rc.Provide("footer", text("foot"))

	result := svc.RenderMasterPage(context.Background(), rc)
	if !result.Success {
		t.Fatalf("render failed: %v", result.Errors)
	}
	want := `<main>post</main><div class="slot slot-sidebar">tags</div>foot`
	if !strings.Contains(result.HTML, want) {
		t.Fatalf("expected sidebar between main and footer, got %s", result.HTML)
	}
}

func TestRenderProducerFailureDiscardsOutput(t *testing.T) {
	svc := masterpages.NewService()
	var calls []string
	rc := masterpages.RenderContext{MasterPageName: "standard"}
	rc.Provide("header", recording("H", &calls))
	rc.Provide("content", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return errors.New("module exploded")
	}))
	rc.Provide("footer", recording("F", &calls))

	result := svc.RenderMasterPage(context.Background(), rc)
	if result.Success || result.HTML != "" {
		t.Fatalf("expected no partial HTML, got %#v", result)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "module exploded") {
		t.Fatalf("unexpected errors %v", result.Errors)
	}
	if len(calls) != 1 {
		t.Fatalf("expected rendering to stop after failure, calls %v", calls)
	}
}

func TestRenderRecoversProducerPanic(t *testing.T) {
	svc := masterpages.NewService()
	rc := masterpages.RenderContext{MasterPageName: "full-width"}
	rc.Provide("content", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		panic("boom")
	}))

	result := svc.RenderMasterPage(context.Background(), rc)
	if result.Success || len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "panicked") {
		t.Fatalf("expected recovered panic, got %#v", result)
	}
}

func TestRenderHonoursCancellation(t *testing.T) {
	svc := masterpages.NewService()
	ctx, cancel := context.WithCancel(context.Background())
	var calls []string
	rc := masterpages.RenderContext{MasterPageName: "standard"}
	rc.Provide("header", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		calls = append(calls, "header")
		cancel()
		return nil
	}))
	rc.Provide("content", recording("X", &calls))

	result := svc.RenderMasterPage(ctx, rc)
	if result.Success {
		t.Fatal("expected cancelled render to fail")
	}
	if len(calls) != 1 {
		t.Fatalf("expected no producers after cancellation, got %v", calls)
	}
}

func TestSlotContentProviders(t *testing.T) {
	svc := masterpages.NewService()
	svc.RegisterSlotContentProvider("footer", func(ctx context.Context, rc masterpages.RenderContext) templ.Component {
		return text("shared footer for " + rc.PageID)
	})
	svc.RegisterSlotContentProvider("content", func(ctx context.Context, rc masterpages.RenderContext) templ.Component {
		return text("fallback content")
	})

	shared := svc.RenderMasterPage(context.Background(), masterpages.RenderContext{MasterPageName: "standard", PageID: "about"})
	if !shared.Success {
		t.Fatalf("expected provider to satisfy required slot: %v", shared.Errors)
	}
	if !strings.Contains(shared.HTML, "shared footer for about") || !strings.Contains(shared.HTML, "<main>fallback content</main>") {
		t.Fatalf("expected provider output, got %s", shared.HTML)
	}

	rc := masterpages.RenderContext{MasterPageName: "standard", PageID: "home"}
	rc.Provide("content", text("request content"))
	own := svc.RenderMasterPage(context.Background(), rc)
	if !strings.Contains(own.HTML, "<main>request content</main>") {
		t.Fatalf("expected request content to win, got %s", own.HTML)
	}

	svc.RegisterSlotContentProvider("content", nil)
	cleared := svc.RenderMasterPage(context.Background(), masterpages.RenderContext{MasterPageName: "standard"})
	if cleared.Success {
		t.Fatal("expected removing the provider to make content required again")
	}
}

func TestDefaultContentFillsUnsuppliedSlots(t *testing.T) {
	svc := masterpages.NewService()
	err := svc.RegisterSchema(&masterpages.Schema{
		Name: "campaign",
		Slots: []masterpages.ContentSlot{
			{Name: "content", IsRequired: true},
			{Name: "footer", DefaultContent: "<p>&copy; Mosaic</p>"},
		},
	})
	if err != nil {
		t.Fatalf("register schema: %v", err)
	}
	rc := masterpages.RenderContext{MasterPageName: "campaign"}
	rc.Provide("content", text("offer"))

	result := svc.RenderMasterPage(context.Background(), rc)
	if !strings.Contains(result.HTML, "<main>offer</main><p>&copy; Mosaic</p>") {
		t.Fatalf("expected default footer, got %s", result.HTML)
	}
}

func TestRegisterSchemaValidation(t *testing.T) {
	svc := masterpages.NewService()

	if err := svc.RegisterSchema(nil); !errors.Is(err, masterpages.ErrSchemaRequired) {
		t.Fatalf("expected ErrSchemaRequired, got %v", err)
	}
	if err := svc.RegisterSchema(&masterpages.Schema{Name: "x"}); !errors.Is(err, masterpages.ErrSchemaInvalid) {
		t.Fatalf("expected empty slots to be rejected, got %v", err)
	}
	dup := &masterpages.Schema{Name: "x", Slots: []masterpages.ContentSlot{{Name: "content"}, {Name: "Content"}}}
	if err := svc.RegisterSchema(dup); !errors.Is(err, masterpages.ErrSchemaInvalid) {
		t.Fatalf("expected duplicate slots to be rejected, got %v", err)
	}
	if len(svc.ListSchemas()) != 3 {
		t.Fatalf("expected rejected schemas to leave registry untouched")
	}
}

func TestConcurrentRendersKeepRequestContentIsolated(t *testing.T) {
	svc := masterpages.NewService()
	var wg sync.WaitGroup
	errs := make(chan string, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			page := string(rune('a' + i))
			rc := masterpages.RenderContext{MasterPageName: "full-width", PageID: page}
			rc.Provide("content", text("page-"+page))
			result := svc.RenderMasterPage(context.Background(), rc)
			if !strings.Contains(result.HTML, "<main>page-"+page+"</main>") {
				errs <- result.HTML
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for html := range errs {
		t.Fatalf("request content leaked across renders: %s", html)
	}
}

func TestRenderRejectsSlotKeysDifferingOnlyInCase(t *testing.T) {
	svc := masterpages.NewService()
	rc := masterpages.RenderContext{
		MasterPageName: "standard",
		SlotContent: map[string]templ.Component{
			"Content": text("FRAGMENT"),
			"content": text("RAW"),
		},
	}

	for i := 0; i < 20; i++ {
		result := svc.RenderMasterPage(context.Background(), rc)
		if result.Success || result.HTML != "" {
			t.Fatalf("expected conflict failure, got %#v", result)
		}
		if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], `slot "content" supplied more than once`) {
			t.Fatalf("unexpected errors %v", result.Errors)
		}
	}
}

func TestProvideCanonicalisesSlotNames(t *testing.T) {
	svc := masterpages.NewService()
	rc := masterpages.RenderContext{MasterPageName: "standard"}
	rc.Provide(" Content ", text("first"))
	rc.Provide("content", text("second"))

	if len(rc.SlotContent) != 1 {
		t.Fatalf("expected one canonical slot, got %v", rc.SlotContent)
	}
	result := svc.RenderMasterPage(context.Background(), rc)
	if !result.Success || !strings.Contains(result.HTML, "<main>second</main>") {
		t.Fatalf("expected later Provide to win, got %#v", result)
	}
}
