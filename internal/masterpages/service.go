package masterpages

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/a-h/templ"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/orkinosai25-org/mosaic/internal/logging"
	"github.com/orkinosai25-org/mosaic/pkg/interfaces"
)

// Service exposes the master page renderer.
type Service interface {
	RenderMasterPage(ctx context.Context, rc RenderContext) RenderResult
	ValidateMasterPage(name string) ValidationResult
	GetAvailableSlots(name string) ([]ContentSlot, error)
	RegisterSlotContentProvider(slot string, provider SlotContentProvider)
	RegisterSchema(schema *Schema) error
	ListSchemas() []*Schema
}

var (
	ErrMasterPageNotFound = errors.New("masterpages: master page not found")
	ErrSchemaRequired     = errors.New("masterpages: schema required")
	ErrSchemaInvalid      = errors.New("masterpages: schema invalid")
)

// emptyContentComment marks a content slot that was supplied but rendered nothing.
const emptyContentComment = "<!-- content slot is empty -->"

// ServiceOption configures service behaviour.
type ServiceOption func(*service)

// WithRegistry overrides the schema registry (defaults to built-ins).
func WithRegistry(registry *Registry) ServiceOption {
	return func(s *service) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	registry *Registry
	logger   interfaces.Logger

	providersMu sync.RWMutex
	providers   map[string]SlotContentProvider
}

// NewService constructs a master page renderer.
func NewService(opts ...ServiceOption) Service {
	s := &service{
		logger:    logging.NoOp(),
		providers: make(map[string]SlotContentProvider),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = NewRegistryWithBuiltins()
	}
	return s
}

func (s *service) ValidateMasterPage(name string) ValidationResult {
	schema, ok := s.registry.Get(name)
	if !ok {
		return ValidationResult{Errors: []string{fmt.Sprintf("master page %q not found", strings.TrimSpace(name))}}
	}
	result := ValidationResult{IsValid: true, Slots: schema.Slots}
	if !hasSlot(schema, SlotContent) {
		result.Warnings = append(result.Warnings, fmt.Sprintf("master page %q has no %q slot", schema.Name, SlotContent))
	}
	return result
}

func (s *service) GetAvailableSlots(name string) ([]ContentSlot, error) {
	schema, ok := s.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMasterPageNotFound, strings.TrimSpace(name))
	}
	return schema.Slots, nil
}

// RegisterSlotContentProvider installs a shared fallback for a slot. Content
// supplied through the render context always takes precedence.
func (s *service) RegisterSlotContentProvider(slot string, provider SlotContentProvider) {
	key := canonicalKey(slot)
	if key == "" {
		return
	}
	s.providersMu.Lock()
	defer s.providersMu.Unlock()
	if provider == nil {
		delete(s.providers, key)
		return
	}
	s.providers[key] = provider
}

func (s *service) provider(slot string) (SlotContentProvider, bool) {
	s.providersMu.RLock()
	defer s.providersMu.RUnlock()
	provider, ok := s.providers[canonicalKey(slot)]
	return provider, ok
}

func (s *service) RegisterSchema(schema *Schema) error {
	if schema == nil {
		return ErrSchemaRequired
	}
	if err := validateSchema(schema); err != nil {
		return err
	}
	normalized := cloneSchema(schema)
	normalized.Name = strings.TrimSpace(normalized.Name)
	s.registry.put(normalized)
	s.logger.Info("masterpages.schema.registered", "master_page", normalized.Name, "slots", len(normalized.Slots))
	return nil
}

func (s *service) ListSchemas() []*Schema {
	return s.registry.List()
}

func validateSchema(schema *Schema) error {
	err := validation.ValidateStruct(schema,
		validation.Field(&schema.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&schema.Slots, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	seen := make(map[string]struct{}, len(schema.Slots))
	for i, slot := range schema.Slots {
		key := canonicalKey(slot.Name)
		if key == "" {
			return fmt.Errorf("%w: slot %d name is required", ErrSchemaInvalid, i)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate slot %q", ErrSchemaInvalid, slot.Name)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func hasSlot(schema *Schema, name string) bool {
	for _, slot := range schema.Slots {
		if canonicalKey(slot.Name) == name {
			return true
		}
	}
	return false
}

// RenderMasterPage composes the page skeleton. Slot producers run one at a
// time in document order; any failure discards everything rendered so far.
func (s *service) RenderMasterPage(ctx context.Context, rc RenderContext) RenderResult {
	logger := logging.WithRenderContext(s.logger, rc.SiteID, rc.PageID, "master_page")

	schema, ok := s.registry.Get(rc.MasterPageName)
	if !ok {
		logger.Warn("masterpages.render.missing", "master_page", rc.MasterPageName)
		return RenderResult{Errors: []string{fmt.Sprintf("master page %q not found", strings.TrimSpace(rc.MasterPageName))}}
	}
	if validation := s.ValidateMasterPage(schema.Name); !validation.IsValid {
		return RenderResult{Errors: validation.Errors}
	}

	supplied, conflicts := canonicalSlots(rc.SlotContent)
	if len(conflicts) > 0 {
		logger.Warn("masterpages.render.slot_conflict", "master_page", schema.Name, "count", len(conflicts))
		return RenderResult{Errors: conflicts}
	}

	var missing []string
	for _, slot := range schema.Slots {
		if !slot.IsRequired {
			continue
		}
		key := canonicalKey(slot.Name)
		if _, ok := supplied[key]; ok {
			continue
		}
		if _, ok := s.provider(key); ok {
			continue
		}
		missing = append(missing, fmt.Sprintf("required slot %q has no content", slot.Name))
	}
	if len(missing) > 0 {
		logger.Warn("masterpages.render.missing_slots", "master_page", schema.Name, "count", len(missing))
		return RenderResult{Errors: missing}
	}

	html, err := s.compose(ctx, schema, rc, supplied)
	if err != nil {
		logger.Error("masterpages.render.failed", "master_page", schema.Name, "error", err)
		return RenderResult{Errors: []string{err.Error()}}
	}
	return RenderResult{Success: true, HTML: html}
}

// canonicalSlots keys supplied content by canonical slot name. Two keys that
// differ only in case or surrounding space are reported instead of merged.
func canonicalSlots(content map[string]templ.Component) (map[string]templ.Component, []string) {
	supplied := make(map[string]templ.Component, len(content))
	seen := make(map[string]string, len(content))
	var conflicts []string
	for _, name := range slices.Sorted(maps.Keys(content)) {
		key := canonicalKey(name)
		if prev, ok := seen[key]; ok {
			conflicts = append(conflicts, fmt.Sprintf("slot %q supplied more than once (%q and %q)", key, prev, name))
			continue
		}
		seen[key] = name
		supplied[key] = content[name]
	}
	return supplied, conflicts
}
