package modules

import (
	"time"

	"github.com/orkinosai25-org/mosaic/pkg/interfaces"
)

// Phase is the lifecycle position of a module instance.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseInitialized   Phase = "initialized"
	PhaseConfigured    Phase = "configured"
	PhaseDisposed      Phase = "disposed"
)

// Definition is the catalog record for a placed module instance.
type Definition = interfaces.ModuleDefinition

// State is the runtime state owned by the lifecycle manager for one instance.
type State struct {
	ModuleInstanceID int            `json:"module_instance_id" msgpack:"module_instance_id"`
	ModuleName       string         `json:"module_name" msgpack:"module_name"`
	InitializedAt    time.Time      `json:"initialized_at" msgpack:"initialized_at"`
	LastConfiguredAt *time.Time     `json:"last_configured_at,omitempty" msgpack:"last_configured_at,omitempty"`
	Settings         map[string]any `json:"settings" msgpack:"settings"`
}

// ValidationResult reports the outcome of a configuration check.
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
