// Package pagefile reads page definitions used by the mosaic CLI. A page file
// is YAML, or Markdown with YAML front matter whose body becomes the content
// fragment.
package pagefile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"
	"github.com/adrg/frontmatter"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/orkinosai25-org/mosaic/composer"
	"github.com/orkinosai25-org/mosaic/internal/layouts"
	"github.com/orkinosai25-org/mosaic/internal/modules"
	"github.com/orkinosai25-org/mosaic/internal/themes"
	"github.com/orkinosai25-org/mosaic/pkg/interfaces"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps page files that fail validation.
var ErrInvalid = errors.New("pagefile: invalid page definition")

// Document is one page definition.
type Document struct {
	Site       string              `yaml:"site"`
	Page       string              `yaml:"page"`
	Theme      string              `yaml:"theme"`
	MasterPage string              `yaml:"master_page"`
	Modules    []Module            `yaml:"modules"`
	Placements []Placement         `yaml:"placements"`
	Regions    map[string]string   `yaml:"regions"`
	Fragments  map[string]Fragment `yaml:"fragments"`
	Slots      map[string]string   `yaml:"slots"`
	Parameters map[string]any      `yaml:"parameters"`
}

// Module declares a module instance for the catalog.
type Module struct {
	ID             int            `yaml:"id"`
	Name           string         `yaml:"name"`
	Dependencies   []int          `yaml:"dependencies"`
	SettingsSchema map[string]any `yaml:"settings_schema"`
}

// Placement puts a module instance in a layout zone.
type Placement struct {
	Zone   string `yaml:"zone"`
	Order  int    `yaml:"order"`
	Module int    `yaml:"module"`
}

// Fragment is text content for a slot.
type Fragment struct {
	Format string `yaml:"format"`
	Body   string `yaml:"body"`
}

// Target receives the catalog, placement and theme state a document declares.
type Target struct {
	Catalog    *modules.MemoryCatalog
	Placements *layouts.MemoryPlacementStore
	Themes     themes.Service
}

// Load reads and validates the page file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pagefile: read %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes a page file. Names ending in .md are read as front matter
// plus a Markdown body.
func Parse(name string, data []byte) (*Document, error) {
	var doc Document
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		body, err := frontmatter.Parse(bytes.NewReader(data), &doc)
		if err != nil {
			return nil, fmt.Errorf("pagefile: parse %s: %w", name, err)
		}
		if content := strings.TrimSpace(string(body)); content != "" {
			if doc.Fragments == nil {
				doc.Fragments = map[string]Fragment{}
			}
			if _, ok := doc.Fragments["content"]; !ok {
				doc.Fragments["content"] = Fragment{Format: "markdown", Body: content}
			}
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("pagefile: parse %s: %w", name, err)
		}
	}

	doc.Parameters = normalizeMap(doc.Parameters)
	for i := range doc.Modules {
		doc.Modules[i].SettingsSchema = normalizeMap(doc.Modules[i].SettingsSchema)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks required identifiers and module references.
func (d *Document) Validate() error {
	err := validation.ValidateStruct(d,
		validation.Field(&d.Site, validation.Required),
		validation.Field(&d.Page, validation.Required),
		validation.Field(&d.Modules, validation.Each(validation.By(func(value any) error {
			module, _ := value.(Module)
			return validation.ValidateStruct(&module,
				validation.Field(&module.ID, validation.Required, validation.Min(1)),
				validation.Field(&module.Name, validation.Required),
			)
		}))),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Apply records the document's modules, placements and theme on target.
func (d *Document) Apply(ctx context.Context, target Target) error {
	if target.Catalog != nil {
		for _, module := range d.Modules {
			target.Catalog.Put(&modules.Definition{
				InstanceID:     module.ID,
				Name:           module.Name,
				Dependencies:   module.Dependencies,
				SettingsSchema: module.SettingsSchema,
			})
		}
	}
	if target.Placements != nil && len(d.Placements) > 0 {
		placements := make([]interfaces.Placement, 0, len(d.Placements))
		for _, placement := range d.Placements {
			placements = append(placements, interfaces.Placement{
				Zone:             placement.Zone,
				Order:            placement.Order,
				ModuleInstanceID: placement.Module,
			})
		}
		target.Placements.SetPlacements(d.Site, d.Page, placements)
	}
	if target.Themes != nil && strings.TrimSpace(d.Theme) != "" {
		if err := target.Themes.SetActiveTheme(ctx, d.Site, d.Theme); err != nil {
			return fmt.Errorf("pagefile: activate theme %q: %w", d.Theme, err)
		}
	}
	return nil
}

// Request builds the composer request for the document.
func (d *Document) Request() composer.PageRequest {
	req := composer.PageRequest{
		SiteID:         d.Site,
		PageID:         d.Page,
		MasterPageName: d.MasterPage,
		Parameters:     d.Parameters,
	}
	if len(d.Regions) > 0 {
		req.Regions = make(map[string]composer.RegionLayout, len(d.Regions))
		for slot, layout := range d.Regions {
			req.Regions[slot] = composer.RegionLayout{LayoutName: layout}
		}
	}
	if len(d.Fragments) > 0 {
		req.Fragments = make(map[string]composer.Fragment, len(d.Fragments))
		for slot, fragment := range d.Fragments {
			req.Fragments[slot] = composer.Fragment{Format: fragment.Format, Body: fragment.Body}
		}
	}
	if len(d.Slots) > 0 {
		req.Slots = make(map[string]templ.Component, len(d.Slots))
		for slot, html := range d.Slots {
			req.Slots[slot] = templ.Raw(html)
		}
	}
	return req
}

// front matter decodes nested maps with interface keys.
func normalizeMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return normalizeMap(typed)
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return value
	}
}
