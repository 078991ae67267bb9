package extensions

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/orkinosai25-org/mosaic/internal/logging"
	"github.com/orkinosai25-org/mosaic/pkg/interfaces"
)

// Service exposes the extension point registry.
type Service interface {
	RegisterExtensionPoint(point Point) error
	Register(name string, ext Extension) error
	GetExtensions(name string) []Extension
	Execute(ctx context.Context, name string, inv Invocation) ExecutionResult
	ListExtensionPoints() []Point
}

var (
	ErrPointInvalid         = errors.New("extensions: extension point invalid")
	ErrExtensionInvalid     = errors.New("extensions: extension invalid")
	ErrCapabilityMismatch   = errors.New("extensions: extension does not satisfy point capability")
	ErrSingleExtensionPoint = errors.New("extensions: extension point accepts a single extension")
)

// ServiceOption configures service behaviour.
type ServiceOption func(*service)

// WithRegistry overrides the point registry (defaults to DefaultPoints).
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

// WithEnforceSingle toggles rejection of a second extension on points that
// do not allow multiple extensions. Enabled by default.
func WithEnforceSingle(enabled bool) ServiceOption {
	return func(s *service) {
		s.enforceSingle = enabled
	}
}

type service struct {
	registry      *Registry
	logger        interfaces.Logger
	enforceSingle bool
}

// NewService constructs an extension point registry service.
func NewService(opts ...ServiceOption) Service {
	s := &service{
		logger:        logging.NoOp(),
		enforceSingle: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = NewRegistryWithDefaults()
	}
	return s
}

func (s *service) RegisterExtensionPoint(point Point) error {
	err := validation.ValidateStruct(&point,
		validation.Field(&point.Name, validation.Required),
		validation.Field(&point.Kind, validation.Required, validation.By(func(value any) error {
			if kind, _ := value.(Kind); !kind.Valid() {
				return fmt.Errorf("unknown kind %q", kind)
			}
			return nil
		})),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPointInvalid, err)
	}
	if err := s.registry.putPoint(point); err != nil {
		s.logger.Warn("extensions.point.kind_change_rejected", "point", point.Name, "kind", point.Kind)
		return err
	}
	s.logger.Debug("extensions.point.registered", "point", point.Name, "kind", point.Kind)
	return nil
}

func (s *service) Register(name string, ext Extension) error {
	key := canonicalKey(name)
	if key == "" {
		return fmt.Errorf("%w: extension point name required", ErrPointInvalid)
	}
	if !ext.Ready() {
		return fmt.Errorf("%w: %q has no %s contract", ErrExtensionInvalid, ext.Name(), ext.Kind())
	}

	r := s.registry
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		e = &entry{point: Point{
			Name:          name,
			Description:   "synthesized on first registration",
			Kind:          ext.Kind(),
			AllowMultiple: true,
		}}
		r.entries[key] = e
		r.order = append(r.order, key)
		s.logger.Warn("extensions.register.synthesized_point", "point", name, "kind", ext.Kind())
	}

	if e.point.Kind != ext.Kind() {
		return fmt.Errorf("%w: point %q expects %s, got %s", ErrCapabilityMismatch, e.point.Name, e.point.Kind, ext.Kind())
	}
	if !e.point.AllowMultiple && len(e.extensions) > 0 {
		if s.enforceSingle {
			return fmt.Errorf("%w: %q", ErrSingleExtensionPoint, e.point.Name)
		}
		s.logger.Warn("extensions.register.single_exceeded", "point", e.point.Name, "extension", ext.Name())
	}

	e.extensions = append(e.extensions, ext)
	s.logger.Debug("extensions.register.added", "point", e.point.Name, "extension", ext.Name())
	return nil
}

func (s *service) GetExtensions(name string) []Extension {
	_, exts, _ := s.registry.extensions(name)
	return exts
}

func (s *service) ListExtensionPoints() []Point {
	return s.registry.points()
}

// Execute invokes every extension registered on the point sequentially in
// registration order. Failures are recorded and the remaining extensions
// still run; a cancelled context stops the run.
func (s *service) Execute(ctx context.Context, name string, inv Invocation) ExecutionResult {
	point, exts, _ := s.registry.extensions(name)
	result := ExecutionResult{Success: true, Results: []any{}}
	if len(exts) == 0 {
		return result
	}

	if inv.Kind == "" {
		inv.Kind = point.Kind
	}
	if inv.Kind != point.Kind {
		result.Success = false
		result.Errors = append(result.Errors, fmt.Sprintf("invocation kind %s does not match point %q (%s)", inv.Kind, point.Name, point.Kind))
		return result
	}

	logger := logging.WithFields(s.logger, map[string]any{"point": point.Name})
	for _, ext := range exts {
		if err := ctx.Err(); err != nil {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("extension %q: %v", ext.Name(), err))
			logger.Warn("extensions.execute.cancelled", "extension", ext.Name(), "error", err)
			return result
		}
		value, err := invoke(ctx, ext, inv)
		if err != nil {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("extension %q: %v", ext.Name(), err))
			logger.Error("extensions.execute.failed", "extension", ext.Name(), "error", err)
			continue
		}
		result.Results = append(result.Results, value)
	}
	return result
}

func invoke(ctx context.Context, ext Extension, inv Invocation) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return ext.Invoke(ctx, inv)
}
