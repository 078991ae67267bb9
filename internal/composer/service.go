package composer

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/a-h/templ"
	mosaicextensions "github.com/orkinosai25-org/mosaic/extensions"
	"github.com/orkinosai25-org/mosaic/internal/extensions"
	"github.com/orkinosai25-org/mosaic/internal/layouts"
	"github.com/orkinosai25-org/mosaic/internal/logging"
	"github.com/orkinosai25-org/mosaic/internal/masterpages"
	"github.com/orkinosai25-org/mosaic/internal/modules"
	"github.com/orkinosai25-org/mosaic/internal/themes"
	"github.com/orkinosai25-org/mosaic/pkg/interfaces"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName identifies spans emitted by the composer.
const TracerName = "github.com/orkinosai25-org/mosaic/composer"

// Service composes full pages from the engine components.
type Service interface {
	ComposePage(ctx context.Context, req PageRequest) PageResult
}

var (
	ErrSiteIDRequired     = errors.New("composer: site id required")
	ErrMasterPageRequired = errors.New("composer: master page service required")
)

// Config carries composition defaults.
type Config struct {
	DefaultTheme      string
	DefaultMasterPage string
}

// Dependencies lists the collaborators the composer drives. Only MasterPages
// is mandatory; missing optional services skip their stage.
type Dependencies struct {
	Themes      themes.Service
	Layouts     layouts.Service
	MasterPages masterpages.Service
	Modules     modules.Service
	Extensions  extensions.Service
	Placements  interfaces.PlacementProvider
}

// ServiceOption configures service behaviour.
type ServiceOption func(*service)

// WithLogger attaches a logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracer overrides the tracer (defaults to the global otel provider).
func WithTracer(tracer trace.Tracer) ServiceOption {
	return func(s *service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

type service struct {
	cfg    Config
	deps   Dependencies
	logger interfaces.Logger
	tracer trace.Tracer
}

// NewService wires a composer with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies, opts ...ServiceOption) Service {
	if strings.TrimSpace(cfg.DefaultMasterPage) == "" {
		cfg.DefaultMasterPage = "standard"
	}
	s := &service{
		cfg:    cfg,
		deps:   deps,
		logger: logging.NoOp(),
		tracer: otel.Tracer(TracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// composition is the per-request working state.
type composition struct {
	req        PageRequest
	logger     interfaces.Logger
	theme      *themes.Descriptor
	masterPage string
	slots      map[string]templ.Component
	sources    map[string]string
	placements []interfaces.Placement
}

// claim reserves the canonical slot name for one source. A slot may be filled
// by exactly one region, fragment or raw slot, compared case-insensitively.
func (c *composition) claim(slot, source string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(slot))
	if key == "" {
		return "", fmt.Errorf("%s name required", source)
	}
	if prev, taken := c.sources[key]; taken {
		return "", fmt.Errorf("slot %q supplied more than once (%s and %s %q)", key, prev, source, slot)
	}
	c.sources[key] = fmt.Sprintf("%s %q", source, slot)
	return key, nil
}

func (s *service) ComposePage(ctx context.Context, req PageRequest) PageResult {
	ctx, span := s.tracer.Start(ctx, "mosaic.compose", trace.WithAttributes(
		attribute.String("mosaic.site_id", req.SiteID),
		attribute.String("mosaic.page_id", req.PageID),
	))
	defer span.End()

	fail := func(stage string, errs ...string) PageResult {
		span.SetStatus(codes.Error, stage)
		logging.FromContext(ctx, s.logger).Warn("composer.compose.failed", "site_id", req.SiteID, "page_id", req.PageID, "stage", stage, "errors", errs)
		return PageResult{Success: false, Errors: errs}
	}

	if strings.TrimSpace(req.SiteID) == "" {
		return fail("request", ErrSiteIDRequired.Error())
	}
	if s.deps.MasterPages == nil {
		return fail("request", ErrMasterPageRequired.Error())
	}

	c := &composition{
		req:     req,
		logger:  logging.WithRenderContext(logging.FromContext(ctx, s.logger), req.SiteID, req.PageID, "compose"),
		slots:   make(map[string]templ.Component),
		sources: make(map[string]string),
	}

	stages := []struct {
		name string
		run  func(context.Context, *composition) []string
	}{
		{"theme", s.resolveTheme},
		{"placements", s.loadPlacements},
		{"regions", s.renderRegions},
		{"fragments", s.renderFragments},
		{"slots", s.mergeSlots},
	}
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return fail(stage.name, err.Error())
		}
		stageCtx, stageSpan := s.tracer.Start(ctx, "mosaic.compose."+stage.name)
		errs := stage.run(stageCtx, c)
		if len(errs) > 0 {
			stageSpan.SetStatus(codes.Error, strings.Join(errs, "; "))
		}
		stageSpan.End()
		if len(errs) > 0 {
			return fail(stage.name, errs...)
		}
	}

	mpCtx, mpSpan := s.tracer.Start(ctx, "mosaic.compose.masterpage", trace.WithAttributes(
		attribute.String("mosaic.master_page", c.masterPage),
	))
	rendered := s.deps.MasterPages.RenderMasterPage(mpCtx, masterpages.RenderContext{
		MasterPageName: c.masterPage,
		PageID:         req.PageID,
		SiteID:         req.SiteID,
		Parameters:     req.Parameters,
		SlotContent:    c.slots,
	})
	if !rendered.Success {
		mpSpan.SetStatus(codes.Error, "master page render failed")
	}
	mpSpan.End()
	if !rendered.Success {
		return fail("masterpage", rendered.Errors...)
	}

	c.logger.Debug("composer.compose.completed", "master_page", c.masterPage, "bytes", len(rendered.HTML))
	return PageResult{
		Success:    true,
		HTML:       rendered.HTML,
		Theme:      c.theme,
		MasterPage: c.masterPage,
	}
}

func (s *service) resolveTheme(ctx context.Context, c *composition) []string {
	if s.deps.Themes != nil {
		theme, ok := s.deps.Themes.GetActiveTheme(ctx, c.req.SiteID)
		if !ok && s.cfg.DefaultTheme != "" {
			theme, ok = s.deps.Themes.GetTheme(ctx, s.cfg.DefaultTheme)
		}
		if ok {
			c.theme = theme
		} else {
			c.logger.Warn("composer.theme.unresolved")
		}
	}

	if c.theme != nil && s.deps.Extensions != nil {
		result := s.deps.Extensions.Execute(ctx, mosaicextensions.PointThemeLoading, mosaicextensions.LoadThemeInvocation(
			mosaicextensions.ThemeRequest{SiteID: c.req.SiteID, Theme: c.theme},
		))
		if !result.Success {
			return result.Errors
		}
		for _, value := range result.Results {
			overrides, _ := value.(map[string]string)
			if len(overrides) == 0 {
				continue
			}
			if c.theme.Settings == nil {
				c.theme.Settings = make(map[string]string, len(overrides))
			}
			maps.Copy(c.theme.Settings, overrides)
		}
	}

	switch {
	case strings.TrimSpace(c.req.MasterPageName) != "":
		c.masterPage = c.req.MasterPageName
	case c.theme != nil && len(c.theme.MasterPageNames) > 0:
		c.masterPage = c.theme.MasterPageNames[0]
	default:
		c.masterPage = s.cfg.DefaultMasterPage
	}
	return nil
}

func (s *service) loadPlacements(ctx context.Context, c *composition) []string {
	if s.deps.Placements == nil || len(c.req.Regions) == 0 {
		return nil
	}
	placements, err := s.deps.Placements.ListPlacements(ctx, c.req.SiteID, c.req.PageID)
	if err != nil {
		c.logger.Error("composer.placements.failed", "error", err)
		return []string{fmt.Sprintf("module placements unavailable: %v", err)}
	}
	c.placements = placements
	return nil
}

func (s *service) renderRegions(ctx context.Context, c *composition) []string {
	if len(c.req.Regions) == 0 {
		return nil
	}
	if s.deps.Layouts == nil {
		return []string{"layout engine not configured"}
	}

	var errs []string
	for _, slot := range slices.Sorted(maps.Keys(c.req.Regions)) {
		key, err := c.claim(slot, "region")
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		html, regionErrs := s.renderRegion(ctx, c, key, c.req.Regions[slot])
		if len(regionErrs) > 0 {
			for _, msg := range regionErrs {
				errs = append(errs, fmt.Sprintf("region %q: %s", key, msg))
			}
			continue
		}
		c.slots[key] = templ.Raw(html)
	}
	return errs
}

func (s *service) renderRegion(ctx context.Context, c *composition, slot string, region RegionLayout) (string, []string) {
	ctx, span := s.tracer.Start(ctx, "mosaic.compose.region", trace.WithAttributes(
		attribute.String("mosaic.slot", slot),
		attribute.String("mosaic.layout", region.LayoutName),
	))
	defer span.End()

	cfg := region.Configuration
	if cfg == nil {
		created, err := s.deps.Layouts.CreateFromTemplate(region.LayoutName, nil)
		if err != nil {
			return "", []string{err.Error()}
		}
		cfg = created
	}

	populated, warnings := layouts.PopulateFromPlacements(cfg, c.placements)
	for _, warning := range warnings {
		c.logger.Debug("composer.region.placement_skipped", "slot", slot, "reason", warning)
	}

	if errs := s.initializeModules(ctx, c, populated); len(errs) > 0 {
		return "", errs
	}

	result := s.deps.Layouts.RenderLayout(ctx, layouts.RenderContext{
		LayoutName:    populated.TemplateName,
		PageID:        c.req.PageID,
		Configuration: populated,
	})
	if !result.Success {
		span.SetStatus(codes.Error, "layout render failed")
		return "", result.Errors
	}
	return result.HTML, nil
}

func (s *service) initializeModules(ctx context.Context, c *composition, cfg *layouts.Configuration) []string {
	if s.deps.Modules == nil {
		return nil
	}
	zones := make(map[int]string)
	var ids []int
	for _, area := range cfg.Areas {
		for _, cell := range area.Cells {
			for _, id := range cell.ModuleInstanceIDs {
				if _, seen := zones[id]; seen {
					continue
				}
				zones[id] = area.Name
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	states, err := s.deps.Modules.InitializeAll(ctx, ids)
	if err != nil {
		return []string{err.Error()}
	}
	if s.deps.Extensions == nil {
		return nil
	}

	var errs []string
	for _, state := range states {
		result := s.deps.Extensions.Execute(ctx, mosaicextensions.PointModuleInit, mosaicextensions.InitModuleInvocation(
			mosaicextensions.ModuleRequest{
				SiteID:     c.req.SiteID,
				PageID:     c.req.PageID,
				Zone:       zones[state.ModuleInstanceID],
				InstanceID: state.ModuleInstanceID,
				ModuleName: state.ModuleName,
			},
		))
		if !result.Success {
			errs = append(errs, result.Errors...)
			continue
		}
		settings := map[string]any{}
		for _, value := range result.Results {
			if contributed, ok := value.(map[string]any); ok {
				maps.Copy(settings, contributed)
			}
		}
		if len(settings) == 0 {
			continue
		}
		if _, err := s.deps.Modules.Configure(ctx, state.ModuleInstanceID, settings); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

// renderFragments runs each fragment through the content-rendering point.
// When several renderers succeed the last result is used.
func (s *service) renderFragments(ctx context.Context, c *composition) []string {
	var errs []string
	for _, slot := range slices.Sorted(maps.Keys(c.req.Fragments)) {
		fragment := c.req.Fragments[slot]
		key, err := c.claim(slot, "fragment")
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		body := fragment.Body
		if s.deps.Extensions != nil {
			result := s.deps.Extensions.Execute(ctx, mosaicextensions.PointContentRendering, mosaicextensions.RenderContentInvocation(
				mosaicextensions.ContentRequest{
					SiteID: c.req.SiteID,
					PageID: c.req.PageID,
					Slot:   key,
					Format: fragment.Format,
					Body:   fragment.Body,
				},
			))
			if !result.Success {
				for _, msg := range result.Errors {
					errs = append(errs, fmt.Sprintf("fragment %q: %s", key, msg))
				}
				continue
			}
			if n := len(result.Results); n > 0 {
				if rendered, ok := result.Results[n-1].(string); ok {
					body = rendered
				}
			}
		}
		c.slots[key] = templ.Raw(body)
	}
	return errs
}

func (s *service) mergeSlots(_ context.Context, c *composition) []string {
	var errs []string
	for _, slot := range slices.Sorted(maps.Keys(c.req.Slots)) {
		key, err := c.claim(slot, "slot")
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		c.slots[key] = c.req.Slots[slot]
	}
	return errs
}
