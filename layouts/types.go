package layouts

import "github.com/google/uuid"

// DefaultTotalColumns is the grid width of an area that does not declare one.
const DefaultTotalColumns = 12

// Template is a named grid structure that configurations are derived from.
type Template struct {
	Name            string         `json:"name"`
	DisplayName     string         `json:"display_name"`
	Description     string         `json:"description,omitempty"`
	Areas           []Area         `json:"areas"`
	DefaultSettings map[string]any `json:"default_settings,omitempty"`
}

// Area is a horizontal band of cells sharing one column budget.
type Area struct {
	Name         string `json:"name"`
	TotalColumns int    `json:"total_columns"`
	Cells        []Cell `json:"cells"`
}

// Cell is one column group holding placed module instances in order.
type Cell struct {
	ColumnSpan        int    `json:"column_span"`
	CSSClass          string `json:"css_class,omitempty"`
	ModuleInstanceIDs []int  `json:"module_instance_ids,omitempty"`
}

// Configuration is a layout instance derived from a template. It owns its
// areas; changing it never affects the template.
type Configuration struct {
	ID           uuid.UUID      `json:"id"`
	TemplateName string         `json:"template_name"`
	Areas        []Area         `json:"areas"`
	Settings     map[string]any `json:"settings,omitempty"`
}

// RenderContext selects the template and configuration to render.
// A nil Configuration renders the template's own areas.
type RenderContext struct {
	LayoutName    string
	PageID        string
	Configuration *Configuration
}

// RenderResult carries either markup or the reasons rendering failed, never both.
type RenderResult struct {
	Success bool     `json:"success"`
	HTML    string   `json:"html,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// ValidationResult lists every column budget violation found.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors,omitempty"`
}
