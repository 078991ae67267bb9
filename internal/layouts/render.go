package layouts

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// LayoutComponent renders areas as grid markup. Each module instance becomes
// a placeholder element for the host to fill.
func LayoutComponent(areas []Area) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, area := range areas {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := areaComponent(area).Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

func areaComponent(area Area) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div class="layout-area layout-area-%s">`, templ.EscapeString(area.Name)); err != nil {
			return err
		}
		for _, cell := range area.Cells {
			if err := cellComponent(cell).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

func cellComponent(cell Cell) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		class := fmt.Sprintf("col-md-%d", cell.ColumnSpan)
		if css := strings.TrimSpace(cell.CSSClass); css != "" {
			class += " " + css
		}
		if _, err := fmt.Fprintf(w, `<div class="%s">`, templ.EscapeString(class)); err != nil {
			return err
		}
		for _, id := range cell.ModuleInstanceIDs {
			if err := PlaceholderComponent(id).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// PlaceholderComponent renders the marker a host replaces with module output.
func PlaceholderComponent(moduleInstanceID int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="module-placeholder" data-module-instance-id="%d"></div>`, moduleInstanceID)
		return err
	})
}
