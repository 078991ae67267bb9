package layouts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/orkinosai25-org/mosaic/internal/logging"
	mosaiclayouts "github.com/orkinosai25-org/mosaic/layouts"
	"github.com/orkinosai25-org/mosaic/pkg/interfaces"
)

// Service exposes the layout engine.
type Service interface {
	RenderLayout(ctx context.Context, rc RenderContext) RenderResult
	ListLayouts() []*Template
	GetLayout(name string) (*Template, bool)
	ValidateLayout(cfg *Configuration) ValidationResult
	CreateFromTemplate(name string, settings map[string]any) (*Configuration, error)
	RegisterTemplate(tpl *Template) error
}

var (
	ErrTemplateNotFound = errors.New("layouts: template not found")
	ErrTemplateRequired = errors.New("layouts: template required")
	ErrTemplateInvalid  = errors.New("layouts: template invalid")
)

// IDGenerator produces configuration identifiers.
type IDGenerator func() uuid.UUID

// ServiceOption configures service behaviour.
type ServiceOption func(*service)

// WithRegistry overrides the template registry (defaults to built-ins).
func WithRegistry(registry *Registry) ServiceOption {
	return func(s *service) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithIDGenerator overrides configuration id generation.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithDefaultColumns sets the budget for areas that declare none.
func WithDefaultColumns(columns int) ServiceOption {
	return func(s *service) {
		if columns > 0 {
			s.defaultColumns = columns
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
	registry       *Registry
	id             IDGenerator
	defaultColumns int
	logger         interfaces.Logger
}

// NewService constructs a layout engine.
func NewService(opts ...ServiceOption) Service {
	s := &service{
		id:             uuid.New,
		defaultColumns: mosaiclayouts.DefaultTotalColumns,
		logger:         logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = NewRegistryWithBuiltins()
	}
	return s
}

func (s *service) RenderLayout(ctx context.Context, rc RenderContext) RenderResult {
	logger := logging.WithRenderContext(s.logger, "", rc.PageID, "layout")

	tpl, ok := s.registry.Get(rc.LayoutName)
	if !ok {
		logger.Warn("layouts.render.template_missing", "layout", rc.LayoutName)
		return RenderResult{Errors: []string{fmt.Sprintf("template %q not found", rc.LayoutName)}}
	}

	cfg := rc.Configuration
	if cfg == nil {
		cfg = &Configuration{TemplateName: tpl.Name, Areas: tpl.Areas, Settings: tpl.DefaultSettings}
	}
	if validation := s.ValidateLayout(cfg); !validation.IsValid {
		logger.Warn("layouts.render.invalid", "layout", tpl.Name, "errors", len(validation.Errors))
		return RenderResult{Errors: validation.Errors}
	}

	var sb strings.Builder
	if err := LayoutComponent(cfg.Areas).Render(ctx, &sb); err != nil {
		logger.Error("layouts.render.failed", "layout", tpl.Name, "error", err)
		return RenderResult{Errors: []string{err.Error()}}
	}
	return RenderResult{Success: true, HTML: sb.String()}
}

func (s *service) ListLayouts() []*Template {
	return s.registry.List()
}

func (s *service) GetLayout(name string) (*Template, bool) {
	return s.registry.Get(name)
}

func (s *service) ValidateLayout(cfg *Configuration) ValidationResult {
	if cfg == nil {
		return ValidationResult{Errors: []string{"layout configuration required"}}
	}
	errs := ValidateAreas(cfg.Areas, s.defaultColumns)
	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

func (s *service) CreateFromTemplate(name string, settings map[string]any) (*Configuration, error) {
	tpl, ok := s.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, strings.TrimSpace(name))
	}
	// registry hands out copies, so tpl.Areas is already detached
	return &Configuration{
		ID:           s.id(),
		TemplateName: tpl.Name,
		Areas:        tpl.Areas,
		Settings:     mergeSettings(tpl.DefaultSettings, settings),
	}, nil
}

func (s *service) RegisterTemplate(tpl *Template) error {
	if err := validateTemplate(tpl, s.defaultColumns); err != nil {
		return err
	}
	normalized := cloneTemplate(tpl)
	normalized.Name = strings.TrimSpace(normalized.Name)
	for i := range normalized.Areas {
		if normalized.Areas[i].TotalColumns <= 0 {
			normalized.Areas[i].TotalColumns = s.defaultColumns
		}
	}
	s.registry.put(normalized)
	s.logger.Info("layouts.template.registered", "layout", normalized.Name, "areas", len(normalized.Areas))
	return nil
}
