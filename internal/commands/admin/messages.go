package admincmd

import (
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/orkinosai25-org/mosaic/internal/commands"
	"github.com/orkinosai25-org/mosaic/internal/layouts"
	"github.com/orkinosai25-org/mosaic/internal/masterpages"
)

const (
	registerLayoutTemplateMessageType = "mosaic.layouts.template.register"
	registerMasterPageMessageType     = "mosaic.masterpages.schema.register"
	setActiveThemeMessageType         = "mosaic.themes.active.set"
	disposeModuleMessageType          = "mosaic.modules.dispose"
)

// RegisterLayoutTemplateCommand adds or replaces a layout template.
type RegisterLayoutTemplateCommand struct {
	Name            string         `json:"name"`
	DisplayName     string         `json:"display_name"`
	Description     string         `json:"description,omitempty"`
	Areas           []layouts.Area `json:"areas"`
	DefaultSettings map[string]any `json:"default_settings,omitempty"`
}

// Type implements command.Message.
func (RegisterLayoutTemplateCommand) Type() string { return registerLayoutTemplateMessageType }

// Validate checks the message shape; grid rules are enforced by the layout engine.
func (m RegisterLayoutTemplateCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Required, validation.Length(1, 128)),
		validation.Field(&m.Areas, validation.Required),
	)
}

// CommandTarget implements commands.Targeted.
func (m RegisterLayoutTemplateCommand) CommandTarget() commands.Target {
	return commands.Target{Kind: "layout", Name: strings.TrimSpace(m.Name)}
}

func (m RegisterLayoutTemplateCommand) template() *layouts.Template {
	return &layouts.Template{
		Name:            strings.TrimSpace(m.Name),
		DisplayName:     m.DisplayName,
		Description:     m.Description,
		Areas:           m.Areas,
		DefaultSettings: m.DefaultSettings,
	}
}

// RegisterMasterPageCommand adds or replaces a master page schema.
type RegisterMasterPageCommand struct {
	Name  string                    `json:"name"`
	Slots []masterpages.ContentSlot `json:"slots"`
}

// Type implements command.Message.
func (RegisterMasterPageCommand) Type() string { return registerMasterPageMessageType }

// Validate ensures required fields are present.
func (m RegisterMasterPageCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Required, validation.Length(1, 128)),
		validation.Field(&m.Slots, validation.Required),
	)
}

// CommandTarget implements commands.Targeted.
func (m RegisterMasterPageCommand) CommandTarget() commands.Target {
	return commands.Target{Kind: "master_page", Name: strings.TrimSpace(m.Name)}
}

// SetActiveThemeCommand associates a theme with a site.
type SetActiveThemeCommand struct {
	SiteID    string `json:"site_id"`
	ThemeName string `json:"theme_name"`
}

// Type implements command.Message.
func (SetActiveThemeCommand) Type() string { return setActiveThemeMessageType }

// Validate ensures required fields are present.
func (m SetActiveThemeCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.SiteID, validation.Required),
		validation.Field(&m.ThemeName, validation.Required),
	)
}

// CommandTarget implements commands.Targeted.
func (m SetActiveThemeCommand) CommandTarget() commands.Target {
	return commands.Target{Kind: "theme", Name: strings.TrimSpace(m.ThemeName), SiteID: strings.TrimSpace(m.SiteID)}
}

// DisposeModuleCommand tears down a module instance's runtime state.
type DisposeModuleCommand struct {
	ModuleInstanceID int `json:"module_instance_id"`
}

// Type implements command.Message.
func (DisposeModuleCommand) Type() string { return disposeModuleMessageType }

// Validate ensures the instance id is set.
func (m DisposeModuleCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ModuleInstanceID, validation.Required, validation.Min(1)),
	)
}

// CommandTarget implements commands.Targeted.
func (m DisposeModuleCommand) CommandTarget() commands.Target {
	return commands.Target{Kind: "module", Name: strconv.Itoa(m.ModuleInstanceID)}
}
