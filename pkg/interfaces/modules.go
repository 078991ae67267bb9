package interfaces

import "context"

// ModuleDefinition is the catalog record describing the module placed on a
// page. One definition exists per module instance identity.
type ModuleDefinition struct {
	InstanceID int
	Name       string
	// Dependencies lists the instance ids that must be initialized first.
	Dependencies []int
	// SettingsSchema is an optional JSON schema for the instance settings.
	SettingsSchema map[string]any
}

// ModuleCatalog resolves module definitions for placed instances. It is
// implemented by the host persistence layer.
type ModuleCatalog interface {
	GetModule(ctx context.Context, instanceID int) (*ModuleDefinition, error)
}
