package modules

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/orkinosai25-org/mosaic/internal/logging"
	"github.com/orkinosai25-org/mosaic/internal/validation"
	"github.com/orkinosai25-org/mosaic/pkg/interfaces"
	"github.com/vmihailenco/msgpack/v5"
)

// Service manages the lifecycle of placed module instances.
type Service interface {
	Initialize(ctx context.Context, instanceID int) (*State, error)
	Configure(ctx context.Context, instanceID int, settings map[string]any) (*State, error)
	ValidateConfiguration(ctx context.Context, instanceID int) ValidationResult
	Dispose(ctx context.Context, instanceID int) bool
	GetDependencies(ctx context.Context, instanceID int) ([]int, error)
	InitializeAll(ctx context.Context, instanceIDs []int) ([]*State, error)
	Phase(instanceID int) Phase
	State(instanceID int) (*State, bool)
	List() []*State
	Snapshot() ([]byte, error)
	Restore(data []byte) error
}

var (
	ErrCatalogRequired      = errors.New("modules: module catalog required")
	ErrModuleNotFound       = errors.New("modules: module not found")
	ErrModuleNotInitialized = errors.New("modules: module instance not initialized")
	ErrDependencyCycle      = errors.New("modules: dependency cycle")
	ErrSnapshotInvalid      = errors.New("modules: snapshot invalid")
)

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

// WithNow overrides the clock used for lifecycle timestamps.
func WithNow(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSettingsValidator overrides the JSON schema validator.
func WithSettingsValidator(v *validation.Validator) ServiceOption {
	return func(s *service) {
		if v != nil {
			s.validator = v
		}
	}
}

type service struct {
	catalog   interfaces.ModuleCatalog
	logger    interfaces.Logger
	now       func() time.Time
	validator *validation.Validator

	mu       sync.Mutex
	states   map[int]*State
	disposed map[int]struct{}
}

// NewService constructs a lifecycle manager backed by the module catalog.
func NewService(catalog interfaces.ModuleCatalog, opts ...ServiceOption) Service {
	s := &service{
		catalog:   catalog,
		logger:    logging.NoOp(),
		now:       time.Now,
		validator: validation.NewValidator(),
		states:    make(map[int]*State),
		disposed:  make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize resolves the definition from the catalog on every call, so an
// instance whose module left the catalog fails even when state exists.
func (s *service) Initialize(ctx context.Context, instanceID int) (*State, error) {
	def, err := s.definition(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.states[instanceID]; ok {
		s.logger.Debug("modules.initialize.already_initialized", "module_instance_id", instanceID)
		return cloneState(existing), nil
	}

	state := &State{
		ModuleInstanceID: instanceID,
		ModuleName:       def.Name,
		InitializedAt:    s.now().UTC(),
		Settings:         map[string]any{},
	}
	s.states[instanceID] = state
	delete(s.disposed, instanceID)
	s.logger.Info("modules.initialize.created", "module_instance_id", instanceID, "module", def.Name)
	return cloneState(state), nil
}

func (s *service) Configure(ctx context.Context, instanceID int, settings map[string]any) (*State, error) {
	if _, err := s.Initialize(ctx, instanceID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[instanceID]
	if !ok {
		return nil, fmt.Errorf("%w: instance %d", ErrModuleNotInitialized, instanceID)
	}
	if state.Settings == nil {
		state.Settings = map[string]any{}
	}
	for key, value := range settings {
		state.Settings[key] = deepCloneValue(value)
	}
	stamp := s.now().UTC()
	state.LastConfiguredAt = &stamp
	s.logger.Debug("modules.configure.applied", "module_instance_id", instanceID, "keys", len(settings))
	return cloneState(state), nil
}

func (s *service) ValidateConfiguration(ctx context.Context, instanceID int) ValidationResult {
	state, ok := s.State(instanceID)
	if !ok {
		return ValidationResult{
			IsValid: false,
			Errors:  []string{fmt.Sprintf("module instance %d is not initialized", instanceID)},
		}
	}

	result := ValidationResult{IsValid: true}
	if len(state.Settings) == 0 {
		result.Warnings = append(result.Warnings, "module configuration is empty")
	}

	def, err := s.definition(ctx, instanceID)
	if err != nil {
		s.logger.Warn("modules.validate.definition_unavailable", "module_instance_id", instanceID, "error", err)
		result.Warnings = append(result.Warnings, "module definition unavailable; settings schema not checked")
		return result
	}
	if len(def.SettingsSchema) == 0 {
		return result
	}

	key := def.Name + "#" + strconv.Itoa(def.InstanceID)
	if err := s.validator.Validate(key, def.SettingsSchema, state.Settings); err != nil {
		result.IsValid = false
		if errors.Is(err, validation.ErrSchemaInvalid) {
			result.Errors = append(result.Errors, err.Error())
			return result
		}
		for _, issue := range validation.Issues(err) {
			result.Errors = append(result.Errors, issue.String())
		}
	}
	return result
}

func (s *service) Dispose(_ context.Context, instanceID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.states[instanceID]; !ok {
		s.logger.Debug("modules.dispose.missing", "module_instance_id", instanceID)
		return false
	}
	delete(s.states, instanceID)
	s.disposed[instanceID] = struct{}{}
	s.logger.Info("modules.dispose.removed", "module_instance_id", instanceID)
	return true
}

func (s *service) GetDependencies(ctx context.Context, instanceID int) ([]int, error) {
	def, err := s.definition(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(def.Dependencies))
	return append(out, def.Dependencies...), nil
}

// InitializeAll initializes the given instances and their declared
// dependencies, dependencies first. States are returned in initialization order.
func (s *service) InitializeAll(ctx context.Context, instanceIDs []int) ([]*State, error) {
	order, err := s.dependencyOrder(ctx, instanceIDs)
	if err != nil {
		return nil, err
	}
	states := make([]*State, 0, len(order))
	for _, id := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		state, err := s.Initialize(ctx, id)
		if err != nil {
			return nil, err
		}
		states = append(states, state)
	}
	return states, nil
}

func (s *service) dependencyOrder(ctx context.Context, roots []int) ([]int, error) {
	const (
		visiting = 1
		visited  = 2
	)
	marks := make(map[int]int)
	order := make([]int, 0, len(roots))
	var path []int

	var visit func(id int) error
	visit = func(id int) error {
		switch marks[id] {
		case visited:
			return nil
		case visiting:
			return fmt.Errorf("%w: %s", ErrDependencyCycle, formatCycle(path, id))
		}
		marks[id] = visiting
		path = append(path, id)

		deps, err := s.GetDependencies(ctx, id)
		if err != nil {
			return err
		}
		for _, dep := range deps {
			if err := visit(dep); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		marks[id] = visited
		order = append(order, id)
		return nil
	}

	for _, id := range roots {
		if err := visit(id); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func formatCycle(path []int, repeat int) string {
	start := 0
	for i, id := range path {
		if id == repeat {
			start = i
			break
		}
	}
	out := ""
	for _, id := range path[start:] {
		out += strconv.Itoa(id) + " -> "
	}
	return out + strconv.Itoa(repeat)
}

func (s *service) Phase(instanceID int) Phase {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.states[instanceID]; ok {
		if state.LastConfiguredAt != nil {
			return PhaseConfigured
		}
		return PhaseInitialized
	}
	if _, ok := s.disposed[instanceID]; ok {
		return PhaseDisposed
	}
	return PhaseUninitialized
}

func (s *service) State(instanceID int) (*State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[instanceID]
	if !ok {
		return nil, false
	}
	return cloneState(state), true
}

func (s *service) List() []*State {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*State, 0, len(s.states))
	for _, state := range s.states {
		out = append(out, cloneState(state))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModuleInstanceID < out[j].ModuleInstanceID })
	return out
}

// Snapshot encodes every live instance state with msgpack.
func (s *service) Snapshot() ([]byte, error) {
	return msgpack.Marshal(s.List())
}

// Restore replaces the live instance states with a snapshot. Live instances
// absent from the snapshot are reported as disposed.
func (s *service) Restore(data []byte) error {
	var states []*State
	if err := msgpack.Unmarshal(data, &states); err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}

	restored := make(map[int]*State, len(states))
	for _, state := range states {
		if state == nil {
			continue
		}
		restored[state.ModuleInstanceID] = cloneState(state)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.states {
		if _, kept := restored[id]; !kept {
			s.disposed[id] = struct{}{}
		}
	}
	s.states = restored
	for id := range restored {
		delete(s.disposed, id)
	}
	s.logger.Info("modules.restore.applied", "instances", len(restored))
	return nil
}

func (s *service) definition(ctx context.Context, instanceID int) (*Definition, error) {
	if s.catalog == nil {
		return nil, ErrCatalogRequired
	}
	def, err := s.catalog.GetModule(ctx, instanceID)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: instance %d", ErrModuleNotFound, instanceID)
		}
		s.logger.Error("modules.catalog.lookup_failed", "module_instance_id", instanceID, "error", err)
		return nil, fmt.Errorf("modules: lookup instance %d: %w", instanceID, err)
	}
	if def == nil {
		return nil, fmt.Errorf("%w: instance %d", ErrModuleNotFound, instanceID)
	}
	return def, nil
}
