package layouts

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

type hclLayoutFile struct {
	Layouts []*hclLayout `hcl:"layout,block"`
}

type hclLayout struct {
	Name            string     `hcl:"name,label"`
	DisplayName     string     `hcl:"display_name,optional"`
	Description     string     `hcl:"description,optional"`
	DefaultSettings *cty.Value `hcl:"default_settings,optional"`
	Areas           []*hclArea `hcl:"area,block"`
}

type hclArea struct {
	Name         string     `hcl:"name,label"`
	TotalColumns int        `hcl:"total_columns,optional"`
	Cells        []*hclCell `hcl:"cell,block"`
}

type hclCell struct {
	Span     int    `hcl:"span"`
	CSSClass string `hcl:"css_class,optional"`
}

// ParseTemplatesHCL decodes layout blocks from HCL source:
//
//	layout "hero" {
//	  display_name     = "Hero"
//	  default_settings = { container = "fluid" }
//	  area "top" {
//	    cell {
//	      span = 12
//	    }
//	  }
//	}
func ParseTemplatesHCL(filename string, src []byte) ([]*Template, error) {
	return decodeTemplates(hclparse.NewParser(), filename, func(p *hclparse.Parser) (*hcl.File, hcl.Diagnostics) {
		return p.ParseHCL(src, filename)
	})
}

// LoadTemplateFiles decodes layout blocks from each HCL file in order.
func LoadTemplateFiles(paths ...string) ([]*Template, error) {
	parser := hclparse.NewParser()
	var out []*Template
	for _, path := range paths {
		templates, err := decodeTemplates(parser, path, func(p *hclparse.Parser) (*hcl.File, hcl.Diagnostics) {
			return p.ParseHCLFile(path)
		})
		if err != nil {
			return nil, err
		}
		out = append(out, templates...)
	}
	return out, nil
}

func decodeTemplates(parser *hclparse.Parser, filename string, parse func(*hclparse.Parser) (*hcl.File, hcl.Diagnostics)) ([]*Template, error) {
	file, diags := parse(parser)
	if diags.HasErrors() {
		return nil, fmt.Errorf("layouts: parse %s: %w", filename, diags)
	}

	var parsed hclLayoutFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("layouts: decode %s: %w", filename, diags)
	}

	out := make([]*Template, 0, len(parsed.Layouts))
	for _, layout := range parsed.Layouts {
		settings, err := ctyToSettings(layout.DefaultSettings)
		if err != nil {
			return nil, fmt.Errorf("layouts: %s default_settings: %w", layout.Name, err)
		}
		tpl := &Template{
			Name:            strings.TrimSpace(layout.Name),
			DisplayName:     layout.DisplayName,
			Description:     layout.Description,
			DefaultSettings: settings,
		}
		for _, area := range layout.Areas {
			next := Area{Name: area.Name, TotalColumns: area.TotalColumns}
			for _, cell := range area.Cells {
				next.Cells = append(next.Cells, Cell{ColumnSpan: cell.Span, CSSClass: cell.CSSClass})
			}
			tpl.Areas = append(tpl.Areas, next)
		}
		out = append(out, tpl)
	}
	return out, nil
}

func ctyToSettings(value *cty.Value) (map[string]any, error) {
	if value == nil || value.Type() == cty.NilType || value.IsNull() {
		return nil, nil
	}
	converted, err := ctyToAny(*value)
	if err != nil {
		return nil, err
	}
	settings, ok := converted.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object, got %s", value.Type().FriendlyName())
	}
	return settings, nil
}

func ctyToAny(value cty.Value) (any, error) {
	if !value.IsKnown() || value.IsNull() {
		return nil, nil
	}
	ty := value.Type()
	switch {
	case ty == cty.String:
		return value.AsString(), nil
	case ty == cty.Bool:
		return value.True(), nil
	case ty == cty.Number:
		number := value.AsBigFloat()
		if number.IsInt() {
			i, accuracy := number.Int64()
			if accuracy == big.Exact {
				return int(i), nil
			}
		}
		f, _ := number.Float64()
		return f, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for it := value.ElementIterator(); it.Next(); {
			key, element := it.Element()
			converted, err := ctyToAny(element)
			if err != nil {
				return nil, err
			}
			out[key.AsString()] = converted
		}
		return out, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := []any{}
		for it := value.ElementIterator(); it.Next(); {
			_, element := it.Element()
			converted, err := ctyToAny(element)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
