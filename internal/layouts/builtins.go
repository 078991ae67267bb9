package layouts

import mosaiclayouts "github.com/orkinosai25-org/mosaic/layouts"

const (
	SingleColumn = "single-column"
	TwoColumn    = "two-column"
	ThreeColumn  = "three-column"
)

// BuiltinTemplates returns the templates every registry starts with.
func BuiltinTemplates() []*Template {
	return []*Template{
		{
			Name:        SingleColumn,
			DisplayName: "Single column",
			Description: "One full-width column.",
			Areas: []Area{{
				Name:         "main",
				TotalColumns: mosaiclayouts.DefaultTotalColumns,
				Cells:        []Cell{{ColumnSpan: 12, CSSClass: "col-main"}},
			}},
			DefaultSettings: map[string]any{"container": "fixed"},
		},
		{
			Name:        TwoColumn,
			DisplayName: "Two columns",
			Description: "Main column with a narrow sidebar.",
			Areas: []Area{{
				Name:         "main",
				TotalColumns: mosaiclayouts.DefaultTotalColumns,
				Cells: []Cell{
					{ColumnSpan: 8, CSSClass: "col-main"},
					{ColumnSpan: 4, CSSClass: "col-sidebar"},
				},
			}},
			DefaultSettings: map[string]any{"container": "fixed", "sidebar": "right"},
		},
		{
			Name:        ThreeColumn,
			DisplayName: "Three columns",
			Description: "Centre column flanked by two sidebars.",
			Areas: []Area{{
				Name:         "main",
				TotalColumns: mosaiclayouts.DefaultTotalColumns,
				Cells: []Cell{
					{ColumnSpan: 3, CSSClass: "col-left"},
					{ColumnSpan: 6, CSSClass: "col-main"},
					{ColumnSpan: 3, CSSClass: "col-right"},
				},
			}},
			DefaultSettings: map[string]any{"container": "fluid"},
		},
	}
}
