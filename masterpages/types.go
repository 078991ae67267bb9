package masterpages

import (
	"context"
	"strings"

	"github.com/a-h/templ"
)

// Well-known slot names. The renderer emits them in this order.
const (
	SlotHead       = "head"
	SlotHeader     = "header"
	SlotNavigation = "navigation"
	SlotContent    = "content"
	SlotFooter     = "footer"
	SlotScripts    = "scripts"
)

// Schema lists the content slots a master page exposes.
type Schema struct {
	Name  string        `json:"name"`
	Slots []ContentSlot `json:"slots"`
}

// ContentSlot is one named region of a master page.
type ContentSlot struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	IsRequired     bool   `json:"is_required"`
	DefaultContent string `json:"default_content,omitempty"`
}

// RenderContext is built per request. SlotContent maps slot names to lazy
// producers; a producer only runs when its slot is rendered.
type RenderContext struct {
	MasterPageName string
	PageID         string
	SiteID         string
	Parameters     map[string]any
	SlotContent    map[string]templ.Component
}

// Provide registers content for one slot of this request only. Slot names
// are case-insensitive; a later call for the same slot replaces the earlier one.
func (rc *RenderContext) Provide(slot string, content templ.Component) {
	if rc.SlotContent == nil {
		rc.SlotContent = make(map[string]templ.Component)
	}
	rc.SlotContent[strings.ToLower(strings.TrimSpace(slot))] = content
}

// SlotContentProvider produces fallback content for a slot when the request
// supplies none. Providers are shared across requests and must not keep
// request state.
type SlotContentProvider func(ctx context.Context, rc RenderContext) templ.Component

// RenderResult carries either markup or the reasons rendering failed, never both.
type RenderResult struct {
	Success bool     `json:"success"`
	HTML    string   `json:"html,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// ValidationResult describes a master page schema.
type ValidationResult struct {
	IsValid  bool          `json:"is_valid"`
	Slots    []ContentSlot `json:"slots,omitempty"`
	Errors   []string      `json:"errors,omitempty"`
	Warnings []string      `json:"warnings,omitempty"`
}
